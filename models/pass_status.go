package models

import "fmt"

// PassStatus is the lifecycle state of a visitor pass. The integer codes are
// the ones the legacy rows were written with, so they must not change.
type PassStatus int

const (
	StatusNew        PassStatus = 1   // issued, not yet inside
	StatusCheckedIn  PassStatus = 100 // currently on premises
	StatusCheckedOut PassStatus = 103 // left; may re-enter on the same pass
)

func (s PassStatus) String() string {
	switch s {
	case StatusNew:
		return "NEW"
	case StatusCheckedIn:
		return "CHECKED_IN"
	case StatusCheckedOut:
		return "CHECKED_OUT"
	}
	return fmt.Sprintf("PassStatus(%d)", int(s))
}

// checkInFrom is the transition table for check-in: NEW and CHECKED_OUT are
// both "not inside" and allow entry; CHECKED_IN is the sole "inside" state.
// There is no terminal state — a pass cycles in/out indefinitely.
var checkInFrom = map[PassStatus]bool{
	StatusNew:        true,
	StatusCheckedOut: true,
}

func (s PassStatus) CanCheckIn() bool { return checkInFrom[s] }

func (s PassStatus) Inside() bool { return s == StatusCheckedIn }

// CheckInSources returns the statuses a check-in may start from, in the form
// the SQL status guard needs.
func CheckInSources() []PassStatus {
	return []PassStatus{StatusNew, StatusCheckedOut}
}
