// models/visitor_pass.go
package models

import (
	"time"
)

// VisitorPass authorizes one visit episode. The visitor_* columns are a
// snapshot of the details declared at issuance, not a join to visitors —
// later visits under the same identity must not rewrite old passes.
type VisitorPass struct {
	PassID    string `gorm:"column:pass_id;primaryKey;size:64" json:"passId"`
	VisitorID string `gorm:"column:visitor_id;size:64;index" json:"visitorId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	VisitorPhoto     string `gorm:"column:visitor_photo;type:text" json:"visitorPhoto"`
	VisitorName      string `gorm:"column:visitor_name;size:255" json:"visitorName"`
	VisitorContactNo string `gorm:"column:visitor_contact_no;size:20;index" json:"visitorContactNo"`
	VisitorEmail     string `gorm:"column:visitor_email;size:255" json:"visitorEmail"`
	Company          string `gorm:"column:company;size:255" json:"company"`

	DepartmentToVisit string `gorm:"column:department_to_visit;size:50;index" json:"departmentToVisit"`
	EmployeeToVisit   string `gorm:"column:employee_to_visit;size:50;index" json:"employeeToVisit"`
	VisitType         string `gorm:"column:visit_type;size:50" json:"visitType"`
	PurposeOfVisit    string `gorm:"column:purpose_of_visit;size:255" json:"purposeOfVisit"`

	SpecialInstructions string `gorm:"column:special_instructions;type:text" json:"specialInstructions"`
	NoOfPeople          int    `gorm:"column:no_of_people;default:1" json:"noOfPeople"`

	AllowOn   time.Time  `gorm:"column:allow_on" json:"allowOn"`
	AllowTill *time.Time `gorm:"column:allow_till" json:"allowTill,omitempty"`

	Status    PassStatus `gorm:"column:status" json:"status"`
	CreatedBy string     `gorm:"column:created_by;size:50" json:"createdBy"`

	Visitor Visitor    `gorm:"foreignKey:VisitorID;references:VisitorID" json:"visitor,omitempty"`
	Logs    []VisitLog `gorm:"foreignKey:UniquePassID;references:PassID" json:"logs,omitempty"`
}
