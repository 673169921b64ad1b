package services

import (
	"sync"
	"testing"
	"time"

	"visitor-backend/models"
	"visitor-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLifecycleFixture(t *testing.T) (*LifecycleService, *[]utils.CheckInNotice, *models.VisitorPass) {
	t.Helper()
	db := setupTestDB(t)
	seedDirectory(t, db)
	notifier, sent := silentNotifier(db)
	svc := &LifecycleService{DB: db, Notifier: notifier}
	pass := issueTestPass(t, db, "9876543210")
	return svc, sent, pass
}

func TestCheckInHappyPath(t *testing.T) {
	svc, sent, pass := newLifecycleFixture(t)

	require.Equal(t, models.StatusNew, pass.Status)

	mailSent, err := svc.CheckIn(pass.PassID)
	require.NoError(t, err)
	assert.True(t, mailSent)

	assert.Equal(t, models.StatusCheckedIn, passStatus(t, svc.DB, pass.PassID))
	assert.EqualValues(t, 1, openLogCount(t, svc.DB, pass.PassID))

	require.Len(t, *sent, 1)
	notice := (*sent)[0]
	assert.Equal(t, "ravi.menon@example.com", notice.To)
	assert.Contains(t, notice.CC, "manager@example.com")
	assert.Equal(t, "Asha", notice.VisitorName)
	assert.Equal(t, "Assembly", notice.DepartmentName)
}

func TestDoubleCheckInConflicts(t *testing.T) {
	svc, _, pass := newLifecycleFixture(t)

	_, err := svc.CheckIn(pass.PassID)
	require.NoError(t, err)

	_, err = svc.CheckIn(pass.PassID)
	require.ErrorIs(t, err, ErrAlreadyCheckedIn)

	// the rejected call must not open a second log row
	assert.EqualValues(t, 1, openLogCount(t, svc.DB, pass.PassID))
	assert.Equal(t, models.StatusCheckedIn, passStatus(t, svc.DB, pass.PassID))
}

func TestCheckInUnknownPass(t *testing.T) {
	svc, _, _ := newLifecycleFixture(t)

	_, err := svc.CheckIn("WRLVP0000000000NOPE")
	require.ErrorIs(t, err, ErrPassNotFound)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	svc, _, pass := newLifecycleFixture(t)

	// NEW pass: nothing to check out
	require.ErrorIs(t, svc.CheckOut(pass.PassID), ErrNotCheckedIn)
	assert.Equal(t, models.StatusNew, passStatus(t, svc.DB, pass.PassID))

	// and again after a full in/out cycle
	_, err := svc.CheckIn(pass.PassID)
	require.NoError(t, err)
	require.NoError(t, svc.CheckOut(pass.PassID))
	require.ErrorIs(t, svc.CheckOut(pass.PassID), ErrNotCheckedIn)
}

func TestCheckOutClosesLogAndStatus(t *testing.T) {
	svc, _, pass := newLifecycleFixture(t)

	_, err := svc.CheckIn(pass.PassID)
	require.NoError(t, err)
	require.NoError(t, svc.CheckOut(pass.PassID))

	assert.Equal(t, models.StatusCheckedOut, passStatus(t, svc.DB, pass.PassID))
	assert.EqualValues(t, 0, openLogCount(t, svc.DB, pass.PassID))

	var entry models.VisitLog
	require.NoError(t, svc.DB.Where("unique_pass_id = ?", pass.PassID).First(&entry).Error)
	require.NotNil(t, entry.CheckOutTime)
	assert.False(t, entry.CheckOutTime.Before(entry.CheckInTime))
}

// Re-entry appends a second log row; the closed first row stays untouched.
func TestReEntryHistory(t *testing.T) {
	svc, sent, pass := newLifecycleFixture(t)

	_, err := svc.CheckIn(pass.PassID)
	require.NoError(t, err)
	require.NoError(t, svc.CheckOut(pass.PassID))

	var first models.VisitLog
	require.NoError(t, svc.DB.Where("unique_pass_id = ?", pass.PassID).First(&first).Error)

	_, err = svc.CheckIn(pass.PassID)
	require.NoError(t, err)

	var logs []models.VisitLog
	require.NoError(t, svc.DB.Where("unique_pass_id = ?", pass.PassID).Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)

	assert.False(t, logs[0].Open())
	assert.True(t, logs[1].Open())
	require.NotNil(t, logs[0].CheckOutTime)
	assert.True(t, logs[0].CheckOutTime.Equal(*first.CheckOutTime))

	assert.Equal(t, models.StatusCheckedIn, passStatus(t, svc.DB, pass.PassID))
	assert.Len(t, *sent, 2) // one notification per check-in
}

// status == CHECKED_IN iff exactly one open log row, at every step.
func TestLogStatusCoherence(t *testing.T) {
	svc, _, pass := newLifecycleFixture(t)

	check := func() {
		t.Helper()
		open := openLogCount(t, svc.DB, pass.PassID)
		status := passStatus(t, svc.DB, pass.PassID)
		if status.Inside() {
			assert.EqualValues(t, 1, open)
		} else {
			assert.EqualValues(t, 0, open)
		}
	}

	check()
	_, err := svc.CheckIn(pass.PassID)
	require.NoError(t, err)
	check()
	require.NoError(t, svc.CheckOut(pass.PassID))
	check()
	_, err = svc.CheckIn(pass.PassID)
	require.NoError(t, err)
	check()
	require.NoError(t, svc.CheckOut(pass.PassID))
	check()
}

// Two simultaneous check-ins on a fresh pass: exactly one succeeds, exactly
// one conflicts, exactly one open log row exists afterwards.
func TestConcurrentCheckInRace(t *testing.T) {
	svc, _, pass := newLifecycleFixture(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CheckIn(pass.PassID)
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case err == ErrAlreadyCheckedIn:
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflict)

	assert.EqualValues(t, 1, openLogCount(t, svc.DB, pass.PassID))
	assert.Equal(t, models.StatusCheckedIn, passStatus(t, svc.DB, pass.PassID))
}

func TestWindowEnforcementPolicy(t *testing.T) {
	svc, _, pass := newLifecycleFixture(t)
	svc.EnforceWindow = true

	// the fixture window is 2025-01-01, long gone
	_, err := svc.CheckIn(pass.PassID)
	require.ErrorIs(t, err, ErrPassWindowClosed)
	assert.Equal(t, models.StatusNew, passStatus(t, svc.DB, pass.PassID))
	assert.EqualValues(t, 0, openLogCount(t, svc.DB, pass.PassID))

	// open-ended pass already valid: allow_on in the past, no allow_till
	passes := NewPassService(svc.DB)
	allowOn := time.Now().UTC().Add(-time.Hour)
	open, err := passes.IssuePass(pass.VisitorID, IssuePassInput{
		Name:         "Asha",
		ContactNo:    "9876543210",
		DepartmentTo: "D1",
		EmployeeTo:   "E1",
		AllowOn:      &allowOn,
	})
	require.NoError(t, err)

	_, err = svc.CheckIn(open.PassID)
	require.NoError(t, err)
}
