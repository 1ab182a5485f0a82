package model

import (
	"regexp"
	"time"
)

// codePattern is the canonical code form: non-empty, uppercase letters and
// digits only. No lowercase, punctuation, whitespace or diacritics.
var codePattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// ValidCodeFormat reports whether s is a canonically formed code.
func ValidCodeFormat(s string) bool {
	return codePattern.MatchString(s)
}

// Code represents a redemption code that grants a role, bounded by a usage
// limit. All fields are immutable after creation; the usage count lives in
// the registry, not here.
type Code struct {
	Code      string
	RoleID    string
	RoleName  string // display label, cached at creation time
	MaxUses   int
	CreatedBy int64 // Telegram id of the administrator who created it
	CreatedAt time.Time
}

// CodeUsage pairs a code with its usage count at the time a registry
// snapshot was taken.
type CodeUsage struct {
	Code      *Code
	UsedCount int
}

// Remaining returns how many redemptions are still possible.
func (u CodeUsage) Remaining() int {
	return u.Code.MaxUses - u.UsedCount
}

// Expired reports whether the code has reached its usage limit.
func (u CodeUsage) Expired() bool {
	return u.UsedCount >= u.Code.MaxUses
}
