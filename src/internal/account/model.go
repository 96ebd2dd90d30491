package account

import "time"

// Status constants
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// Deletion modes at the identity backend
const (
	ModeHard = "hard"
	ModeSoft = "soft"
)

// DeletionResult describes how an account was removed.
type DeletionResult struct {
	UserID         string    `json:"userId"`
	Mode           string    `json:"mode"`
	ProfileUpdated bool      `json:"profileUpdated"`
	DeletedAt      time.Time `json:"deletedAt"`
}
