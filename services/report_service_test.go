package services

import (
	"testing"
	"time"

	"visitor-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitorLogsWindow(t *testing.T) {
	db := setupTestDB(t)
	seedDirectory(t, db)
	notifier, _ := silentNotifier(db)
	lifecycle := &LifecycleService{DB: db, Notifier: notifier}
	reports := NewReportService(db)

	pass := issueTestPass(t, db, "9876543210")
	_, err := lifecycle.CheckIn(pass.PassID)
	require.NoError(t, err)

	now := utils.FacilityNow()
	rows, err := reports.VisitorLogs(now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, pass.PassID, row.PassID)
	assert.Equal(t, "Asha", row.VisitorName)
	assert.Equal(t, "Assembly", row.DepartmentName)
	assert.Equal(t, "Ravi Menon", row.EmployeeName)
	require.NotNil(t, row.CheckInTime)
	assert.Nil(t, row.CheckOutTime)

	// outside the window: nothing
	rows, err = reports.VisitorLogs(now.Add(-3*time.Hour), now.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// Passes that never checked in still show up, with null log times.
func TestVisitorLogsIncludesUnusedPasses(t *testing.T) {
	db := setupTestDB(t)
	seedDirectory(t, db)
	reports := NewReportService(db)

	pass := issueTestPass(t, db, "9876543210")

	now := utils.FacilityNow()
	rows, err := reports.VisitorLogs(now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, pass.PassID, rows[0].PassID)
	assert.Nil(t, rows[0].CheckInTime)
	assert.Nil(t, rows[0].CheckOutTime)
}

func TestDefaultLogWindow(t *testing.T) {
	from, to := DefaultLogWindow()

	assert.Equal(t, 8, from.Hour())
	assert.Equal(t, 20, to.Hour())
	assert.True(t, to.After(from))
	// spans today 08:00 through tomorrow 20:00
	assert.Equal(t, 36*time.Hour, to.Sub(from))
}
