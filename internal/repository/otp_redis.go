package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/signupflow/backend/internal/domain"
)

const (
	otpKeyPrefix = "otp:"

	// Keys outlive the business expiry by this window so the workflow can
	// still observe an expired record and report expiry instead of absence.
	otpKeyGrace = time.Hour
)

type otpRecord struct {
	Code      string `json:"code"`
	ExpiresAt int64  `json:"expires_at"`
	Attempts  int    `json:"attempts"`
}

type redisOTPRepository struct {
	client redis.UniversalClient
}

func NewRedisOTPs(client redis.UniversalClient) OTPs {
	return &redisOTPRepository{
		client: client,
	}
}

func (r *redisOTPRepository) key(email string) string {
	return otpKeyPrefix + strings.ToLower(email)
}

func (r *redisOTPRepository) Upsert(ctx context.Context, email string, rec *domain.OTP) (*domain.OTP, error) {
	encoded, err := json.Marshal(otpRecord{
		Code:      rec.Code,
		ExpiresAt: rec.ExpiresAt.UnixMilli(),
		Attempts:  rec.Attempts,
	})
	if err != nil {
		return nil, fmt.Errorf("encode otp record failed: %w", err)
	}

	ttl := time.Until(rec.ExpiresAt) + otpKeyGrace
	if ttl <= 0 {
		ttl = otpKeyGrace
	}

	if err := r.client.Set(ctx, r.key(email), encoded, ttl).Err(); err != nil {
		return nil, fmt.Errorf("set otp record failed: %w", err)
	}

	copied := *rec
	return &copied, nil
}

func (r *redisOTPRepository) Get(ctx context.Context, email string) (*domain.OTP, error) {
	data, err := r.client.Get(ctx, r.key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get otp record failed: %w", err)
	}

	var rec otpRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode otp record failed: %w", err)
	}

	return &domain.OTP{
		Code:      rec.Code,
		ExpiresAt: time.UnixMilli(rec.ExpiresAt),
		Attempts:  rec.Attempts,
	}, nil
}

func (r *redisOTPRepository) Delete(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, r.key(email)).Err(); err != nil {
		return fmt.Errorf("delete otp record failed: %w", err)
	}
	return nil
}
