package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusPendingVerification UserStatus = "PENDING_VERIFICATION"
	UserStatusVerified            UserStatus = "VERIFIED"
)

// User is keyed by its normalized (lowercase) email. Status and VerifiedAt
// move together: VerifiedAt is non-nil exactly when Status is VERIFIED.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Name         string     `db:"name" json:"name"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Status       UserStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	VerifiedAt   *time.Time `db:"verified_at" json:"verified_at,omitempty"`
}

// UserPatch carries a partial update; nil fields are left untouched.
type UserPatch struct {
	Name         *string
	PasswordHash *string
	Status       *UserStatus
	VerifiedAt   *time.Time
}
