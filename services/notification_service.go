// services/notification_service.go
package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"visitor-backend/models"
	"visitor-backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService owns the triggering contract around lifecycle events:
// who gets mailed, when, and how failures are reported. Delivery itself is
// fire-and-forget relative to the state machine.
type NotificationService struct {
	DB *gorm.DB

	// SendCheckIn / SendRoster default to the SMTP mailer; tests swap them.
	SendCheckIn func(utils.CheckInNotice) error
	SendRoster  func(string, []utils.InsideVisitor) error
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		DB:          db,
		SendCheckIn: utils.SendCheckInEmail,
		SendRoster:  utils.SendInsideRosterEmail,
	}
}

type checkInInfoRow struct {
	PassID           string
	VisitorPhoto     string
	VisitorName      string
	VisitorContactNo string
	VisitorEmail     string
	AllowOn          time.Time
	AllowTill        *time.Time
	PurposeOfVisit   string
	DepartmentName   string
	EmployeeName     string
	EmployeeEmail    string
	ManagerEmail     string
	Company          string
	City             string
}

// EnqueueCheckIn writes the check-in notice into the outbox inside the
// caller's transaction. Recipients: the host employee as To, the manager and
// the fixed HR / plant-head aliases as CC. A missing employee email means no
// send at all — logged as a warning, never an error, and no outbox row.
func (n *NotificationService) EnqueueCheckIn(tx *gorm.DB, passID string) (uint, error) {
	var row checkInInfoRow
	err := tx.
		Table("visitor_passes vp").
		Select(`vp.pass_id, vp.visitor_photo, vp.visitor_name, vp.visitor_contact_no,
			vp.visitor_email, vp.allow_on, vp.allow_till, vp.purpose_of_visit,
			d.department_name, e.name AS employee_name, e.employee_email, e.manager_email,
			v.company, v.city`).
		Joins("INNER JOIN visitors v ON v.visitor_id = vp.visitor_id").
		Joins("LEFT JOIN departments d ON d.dept_code = vp.department_to_visit").
		Joins("LEFT JOIN employees e ON e.employee_id = vp.employee_to_visit").
		Where("vp.pass_id = ?", passID).
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load check-in notification info: %w", err)
	}

	if strings.TrimSpace(row.EmployeeEmail) == "" {
		log.Printf("warning: no recipient email for pass %s; check-in notification skipped", passID)
		return 0, nil
	}

	cc := make([]string, 0, 3)
	for _, addr := range []string{row.ManagerEmail, utils.EnvOrDefault("CC_HR", ""), utils.EnvOrDefault("CC_PH", "")} {
		if strings.TrimSpace(addr) != "" {
			cc = append(cc, addr)
		}
	}

	notice := utils.CheckInNotice{
		PassID:           row.PassID,
		VisitorName:      row.VisitorName,
		VisitorContactNo: row.VisitorContactNo,
		VisitorEmail:     row.VisitorEmail,
		VisitorPhoto:     row.VisitorPhoto,
		Company:          row.Company,
		City:             row.City,
		AllowOn:          row.AllowOn,
		AllowTill:        row.AllowTill,
		DepartmentName:   row.DepartmentName,
		EmployeeName:     row.EmployeeName,
		PurposeOfVisit:   row.PurposeOfVisit,
		To:               row.EmployeeEmail,
		CC:               cc,
	}

	payload, err := json.Marshal(notice)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal check-in notice: %w", err)
	}

	outbox := models.NotificationOutbox{
		Event:     models.EventCheckIn,
		PassID:    passID,
		Recipient: notice.To,
		Payload:   datatypes.JSON(payload),
		Status:    models.OutboxPending,
	}
	if err := tx.Create(&outbox).Error; err != nil {
		return 0, fmt.Errorf("failed to enqueue check-in notification: %w", err)
	}
	return outbox.ID, nil
}

// Dispatch attempts delivery of one committed outbox row. Returns whether the
// mail went out; failures are recorded on the row and logged, nothing more.
func (n *NotificationService) Dispatch(outboxID uint) bool {
	if outboxID == 0 {
		return false
	}

	var row models.NotificationOutbox
	if err := n.DB.First(&row, outboxID).Error; err != nil {
		log.Printf("warning: outbox row %d not found for dispatch: %v", outboxID, err)
		return false
	}
	if row.Status == models.OutboxSent {
		return true
	}

	var notice utils.CheckInNotice
	if err := json.Unmarshal(row.Payload, &notice); err != nil {
		n.markFailed(&row, fmt.Errorf("bad payload: %w", err))
		return false
	}

	if err := n.SendCheckIn(notice); err != nil {
		n.markFailed(&row, err)
		return false
	}

	now := utils.FacilityNow()
	if err := n.DB.Model(&row).Updates(map[string]interface{}{
		"status":  models.OutboxSent,
		"sent_at": now,
	}).Error; err != nil {
		log.Printf("warning: failed to mark outbox %d sent: %v", row.ID, err)
	}
	return true
}

func (n *NotificationService) markFailed(row *models.NotificationOutbox, cause error) {
	log.Printf("warning: notification %d (pass %s) not sent: %v", row.ID, row.PassID, cause)
	if err := n.DB.Model(row).Updates(map[string]interface{}{
		"status":     models.OutboxFailed,
		"last_error": cause.Error(),
	}).Error; err != nil {
		log.Printf("warning: failed to mark outbox %d failed: %v", row.ID, err)
	}
}

// RedeliverPending retries rows that committed but were never dispatched
// (crash between commit and dispatch). Rows younger than the grace period are
// skipped — their original dispatch may still be in flight.
func (n *NotificationService) RedeliverPending() {
	cutoff := utils.FacilityNow().Add(-5 * time.Minute)

	var rows []models.NotificationOutbox
	if err := n.DB.
		Where("status = ? AND created_at < ?", models.OutboxPending, cutoff).
		Order("id").
		Limit(50).
		Find(&rows).Error; err != nil {
		log.Printf("warning: outbox redelivery scan failed: %v", err)
		return
	}

	for _, row := range rows {
		n.Dispatch(row.ID)
	}
}

// NotifyCurrentlyInside mails the security distribution the roster of passes
// still CHECKED_IN. An empty roster sends nothing. Returns the roster size
// and whether a mail went out.
func (n *NotificationService) NotifyCurrentlyInside() (int, bool, error) {
	var visitors []utils.InsideVisitor
	err := n.DB.
		Table("visitor_passes vp").
		Select(`vp.visitor_name, vp.visitor_contact_no AS contact_no, v.company,
			d.department_name, e.name AS employee_name, vl.check_in_time`).
		Joins("INNER JOIN visit_logs vl ON vl.unique_pass_id = vp.pass_id AND vl.check_out_time IS NULL").
		Joins("INNER JOIN visitors v ON v.visitor_id = vp.visitor_id").
		Joins("LEFT JOIN departments d ON d.dept_code = vp.department_to_visit").
		Joins("LEFT JOIN employees e ON e.employee_id = vp.employee_to_visit").
		Where("vp.status = ?", models.StatusCheckedIn).
		Order("vl.check_in_time").
		Scan(&visitors).Error
	if err != nil {
		return 0, false, fmt.Errorf("failed to list visitors inside: %w", err)
	}

	if len(visitors) == 0 {
		return 0, false, nil
	}

	to := utils.EnvOrDefault("SECURITY_EMAIL", "")
	if to == "" {
		log.Printf("warning: SECURITY_EMAIL not set; currently-inside sweep skipped (%d inside)", len(visitors))
		return len(visitors), false, nil
	}

	if err := n.SendRoster(to, visitors); err != nil {
		log.Printf("warning: currently-inside email not sent: %v", err)
		return len(visitors), false, nil
	}
	return len(visitors), true, nil
}
