package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ID generation keeps the legacy human-readable shape
// <prefix><yy><mm><hh><mm><ss> that printed passes and historical rows use,
// but appends a uuid fragment so two IDs minted in the same second can no
// longer collide.

const idFragmentLen = 8

func NewVisitorID() string {
	return timedID(EnvOrDefault("VISITOR_ID_PREFIX", "WRLV"))
}

func NewPassID() string {
	return timedID(EnvOrDefault("PASS_ID_PREFIX", "WRLVP"))
}

func timedID(prefix string) string {
	stamp := FacilityNow().Format("0601150405")
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:idFragmentLen]
	return prefix + stamp + frag
}
