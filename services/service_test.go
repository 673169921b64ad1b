package services

import (
	"fmt"
	"testing"
	"time"

	"visitor-backend/models"
	"visitor-backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory SQLite database migrated with the
// full schema. Connections are capped at one so concurrent transactions
// serialize the way MySQL's row locks would.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: utils.FacilityNow,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Department{},
		&models.Employee{},
		&models.Visitor{},
		&models.VisitorPass{},
		&models.VisitLog{},
		&models.NotificationOutbox{},
	))

	return db
}

func seedDirectory(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.Department{
		DeptCode: "D1", DepartmentName: "Assembly",
	}).Error)
	require.NoError(t, db.Create(&models.Employee{
		EmployeeID:     "E1",
		Name:           "Ravi Menon",
		Email:          "ravi.menon@example.com",
		ManagerEmail:   "manager@example.com",
		DepartmentCode: "D1",
	}).Error)
}

// silentNotifier returns a notification service whose sends are captured
// in-process instead of hitting SMTP.
func silentNotifier(db *gorm.DB) (*NotificationService, *[]utils.CheckInNotice) {
	sent := &[]utils.CheckInNotice{}
	n := NewNotificationService(db)
	n.SendCheckIn = func(notice utils.CheckInNotice) error {
		*sent = append(*sent, notice)
		return nil
	}
	n.SendRoster = func(string, []utils.InsideVisitor) error { return nil }
	return n, sent
}

func issueTestPass(t *testing.T, db *gorm.DB, contactNo string) *models.VisitorPass {
	t.Helper()

	visitors := NewVisitorService(db)
	passes := NewPassService(db)

	visitorID, _, err := visitors.ResolveVisitor(contactNo, models.Visitor{
		Name: "Asha", City: "Pune",
	})
	require.NoError(t, err)

	allowOn := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	allowTill := time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC)
	pass, err := passes.IssuePass(visitorID, IssuePassInput{
		Name:           "Asha",
		ContactNo:      contactNo,
		Email:          "asha@example.com",
		DepartmentTo:   "D1",
		EmployeeTo:     "E1",
		PurposeOfVisit: "Vendor meeting",
		AllowOn:        &allowOn,
		AllowTill:      &allowTill,
	})
	require.NoError(t, err)
	return pass
}

func openLogCount(t *testing.T, db *gorm.DB, passID string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.VisitLog{}).
		Where("unique_pass_id = ? AND check_out_time IS NULL", passID).
		Count(&count).Error)
	return count
}

func passStatus(t *testing.T, db *gorm.DB, passID string) models.PassStatus {
	t.Helper()
	var pass models.VisitorPass
	require.NoError(t, db.Where("pass_id = ?", passID).First(&pass).Error)
	return pass.Status
}
