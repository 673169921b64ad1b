package models

import (
	"time"
)

// VisitLog is one physical presence interval for a pass. A new row is
// appended on every check-in (re-entries never reuse a closed row) and a row
// is immutable once check_out_time is set. At most one row per pass may be
// open (check_out_time NULL) at any time.
type VisitLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UniquePassID string     `gorm:"column:unique_pass_id;size:64;index" json:"uniquePassId"`
	CheckInTime  time.Time  `gorm:"column:check_in_time" json:"checkInTime"`
	CheckOutTime *time.Time `gorm:"column:check_out_time" json:"checkOutTime,omitempty"`
}

func (l VisitLog) Open() bool { return l.CheckOutTime == nil }
