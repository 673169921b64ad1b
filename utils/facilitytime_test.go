package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFacilityNowOffset(t *testing.T) {
	got := FacilityNow()
	want := time.Now().UTC().Add(330 * time.Minute)
	assert.WithinDuration(t, want, got, 2*time.Second)
}

func TestToFacilityTime(t *testing.T) {
	utc := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	got := ToFacilityTime(utc)
	assert.Equal(t, time.Date(2025, 1, 1, 14, 30, 0, 0, time.UTC), got)

	// input in another zone converts through UTC first
	est := time.FixedZone("EST", -5*3600)
	got = ToFacilityTime(time.Date(2025, 1, 1, 4, 0, 0, 0, est))
	assert.Equal(t, time.Date(2025, 1, 1, 14, 30, 0, 0, time.UTC), got)
}
