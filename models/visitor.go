// models/visitor.go
package models

import (
	"time"
)

// Visitor is the durable identity behind one or more passes. Deduplicated by
// exact contact_no match; rows are inserted once and never updated — a pass
// carries its own snapshot of whatever the visitor declared at issuance.
type Visitor struct {
	VisitorID string `gorm:"column:visitor_id;primaryKey;size:64" json:"visitorId"`

	CreatedAt time.Time `json:"createdAt"`

	Name      string `gorm:"column:name;size:255" json:"name"`
	ContactNo string `gorm:"column:contact_no;size:20;uniqueIndex" json:"contactNo"`
	Email     string `gorm:"column:email;size:255" json:"email"`
	Company   string `gorm:"column:company;size:255" json:"company"`

	Nationality  string `gorm:"column:nationality;size:100" json:"nationality"`
	IdentityType string `gorm:"column:identity_type;size:50" json:"identityType"`
	IdentityNo   string `gorm:"column:identity_no;size:100" json:"identityNo"`

	Address string `gorm:"column:address;type:text" json:"address"`
	Country string `gorm:"column:country;size:100" json:"country"`
	State   string `gorm:"column:state;size:100" json:"state"`
	City    string `gorm:"column:city;size:100" json:"city"`

	VehicleDetails string `gorm:"column:vehicle_details;size:100" json:"vehicleDetails"`
	PhotoURL       string `gorm:"column:photo_url;type:text" json:"photoUrl"`
}
