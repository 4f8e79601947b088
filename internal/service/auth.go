package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/signupflow/backend/internal/config"
	"github.com/signupflow/backend/internal/domain"
	"github.com/signupflow/backend/internal/repository"
	"github.com/signupflow/backend/pkg/clock"
	"github.com/signupflow/backend/pkg/hash"
	"github.com/signupflow/backend/pkg/otp"
)

// Response messages, kept stable because clients match on them.
const (
	MessageSignUpOK = "SIGNUP_OK"
	MessageOTPSent  = "OTP_SENT"
	MessageVerified = "VERIFIED"
)

type authService struct {
	users        repository.Users
	otps         repository.OTPs
	hasher       hash.PasswordHasher
	otpGenerator otp.Generator
	clock        clock.Clocker
	authConfig   config.AuthConfig
	locks        emailLocks
}

func newAuthService(
	users repository.Users,
	otps repository.OTPs,
	hasher hash.PasswordHasher,
	otpGenerator otp.Generator,
	clk clock.Clocker,
	authConfig config.AuthConfig,
) *authService {
	return &authService{
		users:        users,
		otps:         otps,
		hasher:       hasher,
		otpGenerator: otpGenerator,
		clock:        clk,
		authConfig:   authConfig,
	}
}

type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

type SignUpResult struct {
	Message string
	Email   string
	Status  domain.UserStatus
	OTP     string
}

type RequestOTPResult struct {
	Message string
	Email   string
	OTP     string
}

type VerifyOTPResult struct {
	Message    string
	Email      string
	VerifiedAt time.Time
}

// SignUp creates an unverified account and issues its first OTP. No OTP is
// written when the email is already registered.
func (s *authService) SignUp(ctx context.Context, input SignUpInput) (*SignUpResult, error) {
	email := strings.ToLower(input.Email)

	// Hashing is the expensive step, keep it outside the email lock.
	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	userID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate user id failed: %w", err)
	}

	unlock := s.locks.lock(email)
	defer unlock()

	user, err := s.users.Create(ctx, &domain.User{
		ID:           userID,
		Email:        email,
		Name:         input.Name,
		PasswordHash: passwordHash,
		Status:       domain.UserStatusPendingVerification,
		CreatedAt:    s.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, ErrUserAlreadyExist
		}
		return nil, fmt.Errorf("create user failed: %w", err)
	}

	code, err := s.issueOTP(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	result := &SignUpResult{
		Message: MessageSignUpOK,
		Email:   user.Email,
		Status:  user.Status,
	}
	if s.authConfig.DiscloseOTP {
		result.OTP = code
	}
	return result, nil
}

// RequestOTP reissues a fresh code, discarding any prior OTP state for the
// email. The old code becomes permanently invalid.
func (s *authService) RequestOTP(ctx context.Context, email string) (*RequestOTPResult, error) {
	email = strings.ToLower(email)

	unlock := s.locks.lock(email)
	defer unlock()

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email failed: %w", err)
	}

	code, err := s.issueOTP(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	result := &RequestOTPResult{
		Message: MessageOTPSent,
		Email:   user.Email,
	}
	if s.authConfig.DiscloseOTP {
		result.OTP = code
	}
	return result, nil
}

// VerifyOTP consumes the pending code. The checks run in a fixed order:
// user exists, record exists, not expired, attempt budget left. The attempt
// counter is incremented and persisted before the comparison, so a mismatch
// is retained and the budget is enforced on the next call's entry check.
func (s *authService) VerifyOTP(ctx context.Context, email, code string) (*VerifyOTPResult, error) {
	email = strings.ToLower(email)

	unlock := s.locks.lock(email)
	defer unlock()

	_, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email failed: %w", err)
	}

	rec, err := s.otps.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrOTPNotFound
		}
		return nil, fmt.Errorf("get otp failed: %w", err)
	}

	now := s.clock.Now()

	if now.After(rec.ExpiresAt) {
		if err := s.otps.Delete(ctx, email); err != nil {
			return nil, fmt.Errorf("delete expired otp failed: %w", err)
		}
		return nil, ErrOTPExpired
	}

	if rec.Attempts >= s.authConfig.OTPMaxAttempts {
		if err := s.otps.Delete(ctx, email); err != nil {
			return nil, fmt.Errorf("delete exhausted otp failed: %w", err)
		}
		return nil, ErrOTPTooManyAttempts
	}

	rec.Attempts++
	if _, err := s.otps.Upsert(ctx, email, rec); err != nil {
		return nil, fmt.Errorf("persist otp attempt failed: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		return nil, ErrOTPInvalid
	}

	if err := s.otps.Delete(ctx, email); err != nil {
		return nil, fmt.Errorf("delete consumed otp failed: %w", err)
	}

	verified := domain.UserStatusVerified
	updated, err := s.users.Update(ctx, email, domain.UserPatch{
		Status:     &verified,
		VerifiedAt: &now,
	})
	if err != nil {
		return nil, fmt.Errorf("update user to verified failed: %w", err)
	}

	return &VerifyOTPResult{
		Message:    MessageVerified,
		Email:      updated.Email,
		VerifiedAt: now,
	}, nil
}

func (s *authService) issueOTP(ctx context.Context, email string) (string, error) {
	code, err := s.otpGenerator.Generate(s.authConfig.OTPLength)
	if err != nil {
		return "", fmt.Errorf("generate otp failed: %w", err)
	}

	if _, err := s.otps.Upsert(ctx, email, &domain.OTP{
		Code:      code,
		ExpiresAt: s.clock.Now().Add(s.authConfig.OTPTTL),
		Attempts:  0,
	}); err != nil {
		return "", fmt.Errorf("upsert otp failed: %w", err)
	}

	return code, nil
}
