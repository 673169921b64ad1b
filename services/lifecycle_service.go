// services/lifecycle_service.go
package services

import (
	"errors"
	"fmt"

	"visitor-backend/models"
	"visitor-backend/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LifecycleService is the check-in/check-out state machine. All mutual
// exclusion lives in the database transaction — there are no in-process locks
// and "who is inside" is always re-derived from the store.
type LifecycleService struct {
	DB       *gorm.DB
	Notifier *NotificationService

	// EnforceWindow gates check-in by [allow_on, allow_till]. Off by default;
	// turning it on is a site policy decision (ENFORCE_PASS_WINDOW).
	EnforceWindow bool
}

func NewLifecycleService(db *gorm.DB, notifier *NotificationService) *LifecycleService {
	return &LifecycleService{
		DB:            db,
		Notifier:      notifier,
		EnforceWindow: utils.EnvBool("ENFORCE_PASS_WINDOW"),
	}
}

// lockForUpdate row-locks the pass on MySQL so two concurrent transitions on
// the same pass_id serialize. SQLite (used in tests) has no FOR UPDATE; there
// the guarded conditional UPDATE below carries the race protection alone.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// CheckIn transitions NEW/CHECKED_OUT -> CHECKED_IN, appending a fresh open
// VisitLog row in the same transaction. The check-in notification is queued
// inside the transaction and dispatched only after commit; a send failure is
// reported through the returned flag, never as an error.
func (s *LifecycleService) CheckIn(passID string) (mailSent bool, err error) {
	var outboxID uint

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var pass models.VisitorPass
		if err := lockForUpdate(tx).Where("pass_id = ?", passID).First(&pass).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPassNotFound
			}
			return fmt.Errorf("failed to load pass %s: %w", passID, err)
		}

		if !pass.Status.CanCheckIn() {
			return ErrAlreadyCheckedIn
		}

		if s.EnforceWindow {
			now := utils.FacilityNow()
			if now.Before(pass.AllowOn) {
				return ErrPassWindowClosed
			}
			if pass.AllowTill != nil && now.After(*pass.AllowTill) {
				return ErrPassWindowClosed
			}
		}

		// Conditional flip guarded by the allowed source statuses. Even on a
		// backend without the row lock, two concurrent check-ins cannot both
		// pass this — the loser sees zero rows affected.
		res := tx.Model(&models.VisitorPass{}).
			Where("pass_id = ? AND status IN ?", passID, models.CheckInSources()).
			Update("status", models.StatusCheckedIn)
		if res.Error != nil {
			return fmt.Errorf("failed to update pass status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCheckedIn
		}

		entry := models.VisitLog{
			UniquePassID: passID,
			CheckInTime:  utils.FacilityNow(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to create visit log: %w", err)
		}

		id, err := s.Notifier.EnqueueCheckIn(tx, passID)
		if err != nil {
			return err
		}
		outboxID = id
		return nil
	})
	if err != nil {
		return false, err
	}

	// Post-commit: delivery failure must not reverse the transition.
	return s.Notifier.Dispatch(outboxID), nil
}

// CheckOut closes the open VisitLog row and flips the pass to CHECKED_OUT in
// one transaction. A pass without an open log row (NEW, already checked out,
// or unknown) is a conflict. No notification is sent on checkout.
func (s *LifecycleService) CheckOut(passID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var entry models.VisitLog
		err := lockForUpdate(tx).
			Where("unique_pass_id = ? AND check_out_time IS NULL", passID).
			First(&entry).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotCheckedIn
			}
			return fmt.Errorf("failed to find open visit log for %s: %w", passID, err)
		}

		now := utils.FacilityNow()

		res := tx.Model(&models.VisitLog{}).
			Where("id = ? AND check_out_time IS NULL", entry.ID).
			Update("check_out_time", now)
		if res.Error != nil {
			return fmt.Errorf("failed to close visit log: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotCheckedIn
		}

		if err := tx.Model(&models.VisitorPass{}).
			Where("pass_id = ?", passID).
			Update("status", models.StatusCheckedOut).Error; err != nil {
			return fmt.Errorf("failed to update pass status: %w", err)
		}
		return nil
	})
}
