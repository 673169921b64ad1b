package utils

import "time"

// All lifecycle timestamps are recorded in the facility's civil time
// (UTC+05:30) no matter where the server runs. The legacy rows were written
// as UTC-now shifted by +330 minutes, so new rows must use the exact same
// arithmetic to stay comparable with history.
const facilityOffset = 330 * time.Minute

// FacilityNow is the single source of "now" for check-in/check-out and
// report windows.
func FacilityNow() time.Time {
	return time.Now().UTC().Add(facilityOffset)
}

// ToFacilityTime shifts an arbitrary instant into facility civil time.
func ToFacilityTime(t time.Time) time.Time {
	return t.UTC().Add(facilityOffset)
}
