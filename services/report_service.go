// services/report_service.go
package services

import (
	"fmt"
	"time"

	"visitor-backend/utils"

	"gorm.io/gorm"
)

// ReportService backs GET /visitor/logs — passes joined with their visit
// logs, department and employee names, within a time window.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

type VisitorLogRow struct {
	PassID           string     `json:"passId"`
	VisitorName      string     `json:"visitorName"`
	VisitorContactNo string     `json:"visitorContactNo"`
	Company          string     `json:"company"`
	DepartmentName   string     `json:"departmentName"`
	EmployeeName     string     `json:"employeeName"`
	PurposeOfVisit   string     `json:"purposeOfVisit"`
	AllowOn          time.Time  `json:"allowOn"`
	AllowTill        *time.Time `json:"allowTill"`
	VehicleDetails   string     `json:"vehicleDetails"`
	VisitorPhoto     string     `json:"visitorPhoto"`
	CheckInTime      *time.Time `json:"checkInTime"`
	CheckOutTime     *time.Time `json:"checkOutTime"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// DefaultLogWindow is today 08:00 through tomorrow 20:00 in facility time —
// the front-gate shift window the desk expects to see by default.
func DefaultLogWindow() (time.Time, time.Time) {
	now := utils.FacilityNow()
	start := time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), now.Day()+1, 20, 0, 0, 0, now.Location())
	return start, end
}

// VisitorLogs lists every pass created in the window together with its visit
// log rows; passes that never checked in appear with null times.
func (s *ReportService) VisitorLogs(from, to time.Time) ([]VisitorLogRow, error) {
	var rows []VisitorLogRow
	err := s.DB.
		Table("visitor_passes vp").
		Select(`vp.pass_id, vp.visitor_name, vp.visitor_contact_no, vp.company,
			d.department_name, e.name AS employee_name, vp.purpose_of_visit,
			vp.allow_on, vp.allow_till, v.vehicle_details, vp.visitor_photo,
			vl.check_in_time, vl.check_out_time, vp.created_at`).
		Joins("LEFT JOIN visit_logs vl ON vl.unique_pass_id = vp.pass_id").
		Joins("INNER JOIN visitors v ON v.visitor_id = vp.visitor_id").
		Joins("LEFT JOIN employees e ON e.employee_id = vp.employee_to_visit").
		Joins("LEFT JOIN departments d ON d.dept_code = vp.department_to_visit").
		Where("vp.created_at BETWEEN ? AND ?", from, to).
		Order("vp.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve visitor logs: %w", err)
	}
	return rows, nil
}
