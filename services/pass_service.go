// services/pass_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"visitor-backend/models"
	"visitor-backend/utils"

	"gorm.io/gorm"
)

// PassService is the pass issuer plus the pass-centric lookups the front desk
// uses (print/reprint, department and employee directories).
type PassService struct {
	DB *gorm.DB
}

func NewPassService(db *gorm.DB) *PassService {
	return &PassService{DB: db}
}

// IssuePassInput carries the declared visit fields. Visitor identity fields
// are snapshotted onto the pass exactly as declared on this request.
type IssuePassInput struct {
	VisitorPhoto string
	Name         string
	ContactNo    string
	Email        string
	Company      string

	DepartmentTo        string
	EmployeeTo          string
	VisitType           string
	PurposeOfVisit      string
	SpecialInstructions string
	CreatedBy           string
	NoOfPeople          int

	AllowOn   *time.Time
	AllowTill *time.Time
}

// IssuePass creates one VisitorPass with status NEW for an already-resolved
// visitor. The pass ID is returned only after the row is persisted, so a
// check-in can never race the issuance.
func (s *PassService) IssuePass(visitorID string, in IssuePassInput) (*models.VisitorPass, error) {
	var dept models.Department
	if err := s.DB.Where("dept_code = ?", in.DepartmentTo).First(&dept).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeptNotFound
		}
		return nil, fmt.Errorf("db error checking department %s: %w", in.DepartmentTo, err)
	}

	if in.EmployeeTo != "" {
		var emp models.Employee
		if err := s.DB.Where("employee_id = ?", in.EmployeeTo).First(&emp).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEmployeeNotFound
			}
			return nil, fmt.Errorf("db error checking employee %s: %w", in.EmployeeTo, err)
		}
	}

	allowOn := utils.FacilityNow()
	if in.AllowOn != nil {
		allowOn = *in.AllowOn
	}

	people := in.NoOfPeople
	if people <= 0 {
		people = 1
	}

	pass := models.VisitorPass{
		PassID:    utils.NewPassID(),
		VisitorID: visitorID,

		VisitorPhoto:     in.VisitorPhoto,
		VisitorName:      in.Name,
		VisitorContactNo: in.ContactNo,
		VisitorEmail:     in.Email,
		Company:          in.Company,

		DepartmentToVisit: in.DepartmentTo,
		EmployeeToVisit:   in.EmployeeTo,
		VisitType:         in.VisitType,
		PurposeOfVisit:    in.PurposeOfVisit,

		SpecialInstructions: in.SpecialInstructions,
		NoOfPeople:          people,

		AllowOn:   allowOn,
		AllowTill: in.AllowTill,

		Status:    models.StatusNew,
		CreatedBy: in.CreatedBy,
	}

	if err := s.DB.Create(&pass).Error; err != nil {
		return nil, fmt.Errorf("failed to create visitor pass: %w", err)
	}
	return &pass, nil
}

// PassDetails is the joined view printed on the physical pass.
type PassDetails struct {
	PassID           string            `json:"passId"`
	VisitorName      string            `json:"visitorName"`
	VisitorContactNo string            `json:"visitorContactNo"`
	VisitorEmail     string            `json:"visitorEmail"`
	VisitorPhoto     string            `json:"visitorPhoto"`
	Company          string            `json:"company"`
	Address          string            `json:"address"`
	City             string            `json:"city"`
	State            string            `json:"state"`
	DepartmentName   string            `json:"departmentName"`
	EmployeeName     string            `json:"employeeName"`
	AllowOn          time.Time         `json:"allowOn"`
	AllowTill        *time.Time        `json:"allowTill"`
	PurposeOfVisit   string            `json:"purposeOfVisit"`
	NoOfPeople       int               `json:"noOfPeople"`
	Status           models.PassStatus `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
}

func (s *PassService) GetPassDetails(passID string) (*PassDetails, error) {
	var details PassDetails
	err := s.DB.
		Table("visitor_passes vp").
		Select(`vp.pass_id, vp.visitor_name, vp.visitor_contact_no, vp.visitor_email,
			vp.visitor_photo, vp.company, v.address, v.city, v.state,
			d.department_name, e.name AS employee_name,
			vp.allow_on, vp.allow_till, vp.purpose_of_visit, vp.no_of_people,
			vp.status, vp.created_at`).
		Joins("INNER JOIN visitors v ON v.visitor_id = vp.visitor_id").
		Joins("LEFT JOIN departments d ON d.dept_code = vp.department_to_visit").
		Joins("LEFT JOIN employees e ON e.employee_id = vp.employee_to_visit").
		Where("vp.pass_id = ?", passID).
		Limit(1).
		Scan(&details).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pass details: %w", err)
	}
	if details.PassID == "" {
		return nil, ErrPassNotFound
	}
	return &details, nil
}

// Departments lists the department directory for the pass form.
func (s *PassService) Departments() ([]models.Department, error) {
	var departments []models.Department
	if err := s.DB.Order("department_name").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve departments: %w", err)
	}
	return departments, nil
}

// EmployeeRow is one employee joined with their department name.
type EmployeeRow struct {
	EmployeeID     string `json:"employeeId"`
	Name           string `json:"name"`
	DepartmentName string `json:"departmentName"`
	DeptCode       string `json:"deptCode"`
}

func (s *PassService) Employees() ([]EmployeeRow, error) {
	var rows []EmployeeRow
	err := s.DB.
		Table("employees e").
		Select("e.employee_id, e.name, d.department_name, d.dept_code").
		Joins("INNER JOIN departments d ON e.department_code = d.dept_code").
		Order("e.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve employees: %w", err)
	}
	return rows, nil
}
