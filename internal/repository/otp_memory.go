package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/signupflow/backend/internal/domain"
)

type memoryOTPRepository struct {
	mu   sync.RWMutex
	otps map[string]domain.OTP
}

func NewMemoryOTPs() OTPs {
	return &memoryOTPRepository{
		otps: make(map[string]domain.OTP),
	}
}

func (r *memoryOTPRepository) Upsert(_ context.Context, email string, rec *domain.OTP) (*domain.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.otps[strings.ToLower(email)] = *rec

	copied := *rec
	return &copied, nil
}

func (r *memoryOTPRepository) Get(_ context.Context, email string) (*domain.OTP, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.otps[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (r *memoryOTPRepository) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.otps, strings.ToLower(email))
	return nil
}
