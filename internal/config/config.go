package config

import "time"

const (
	// Listing
	PageSize      = 10
	DebounceDelay = 350 * time.Millisecond

	// Auth
	TokenTTL    = 72 * time.Hour
	TokenIssuer = "crms-service"
	MinPassword = 8

	// Evidence
	EvidencePathPrefix = "evidence"
	MaxEvidenceSize    = 25 << 20 // 25 MiB

	// Preferences
	SidebarPrefKey = "pref:sidebar_collapsed"
)

// Roles. At most one identity may hold RoleAdmin at a time; the check
// lives in auth.Service and is shared by signup, role updates and the
// operator CLI.
const (
	RoleAdmin   = "admin"
	RoleOfficer = "officer"
	RoleUser    = "user"
)

// Complaint statuses.
const (
	StatusOpen       = "open"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
)

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleOfficer || r == RoleUser
}

// ValidStatus reports whether s is a known complaint status.
func ValidStatus(s string) bool {
	return s == StatusOpen || s == StatusInProgress || s == StatusResolved
}
