package repository

import (
	"context"

	"github.com/signupflow/backend/internal/domain"
)

// Users is the account store. Emails are case-folded to lowercase inside
// every implementation so keys stay canonical, and returned records are
// copies, never live references.
type Users interface {
	// FindByEmail returns domain.ErrNotFound when no record exists.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create returns domain.ErrDuplicateEntry when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update merges non-nil patch fields into the existing record and
	// returns domain.ErrNotFound when no record exists.
	Update(ctx context.Context, email string, patch domain.UserPatch) (*domain.User, error)
}

// OTPs holds at most one pending code per email.
type OTPs interface {
	// Upsert unconditionally replaces any existing record for the email.
	Upsert(ctx context.Context, email string, rec *domain.OTP) (*domain.OTP, error)
	// Get returns domain.ErrNotFound when no record exists.
	Get(ctx context.Context, email string) (*domain.OTP, error)
	// Delete removes the record; deleting a missing key is a no-op.
	Delete(ctx context.Context, email string) error
}

type Repositories struct {
	Users Users
	OTPs  OTPs
}
