package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signupflow/backend/internal/config"
	"github.com/signupflow/backend/internal/domain"
	"github.com/signupflow/backend/internal/repository"
	"github.com/signupflow/backend/pkg/hash"
	"github.com/signupflow/backend/pkg/otp"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type authFixture struct {
	auth  *authService
	users repository.Users
	otps  repository.OTPs
	clock *fakeClock
}

func newAuthFixture(t *testing.T, disclose bool) *authFixture {
	t.Helper()

	users := repository.NewMemoryUsers()
	otps := repository.NewMemoryOTPs()
	clk := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}

	auth := newAuthService(users, otps, hash.NewBcryptHasher(4), otp.NewRandomGenerator(), clk, config.AuthConfig{
		BcryptCost:     4,
		OTPLength:      6,
		OTPTTL:         5 * time.Minute,
		OTPMaxAttempts: 5,
		DiscloseOTP:    disclose,
	})

	return &authFixture{auth: auth, users: users, otps: otps, clock: clk}
}

func (f *authFixture) signUp(t *testing.T, email string) *SignUpResult {
	t.Helper()

	result, err := f.auth.SignUp(context.Background(), SignUpInput{
		Email:    email,
		Password: "secret1",
		Name:     "Test User",
	})
	require.NoError(t, err)
	return result
}

func TestSignUpCreatesPendingUserWithOTP(t *testing.T) {
	f := newAuthFixture(t, true)

	result := f.signUp(t, "u@x.com")

	assert.Equal(t, MessageSignUpOK, result.Message)
	assert.Equal(t, "u@x.com", result.Email)
	assert.Equal(t, domain.UserStatusPendingVerification, result.Status)
	require.Len(t, result.OTP, 6)

	user, err := f.users.FindByEmail(context.Background(), "u@x.com")
	require.NoError(t, err)
	assert.Nil(t, user.VerifiedAt, "verifiedAt stays null until verification")
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NotEqual(t, uuid.Nil, user.ID)

	rec, err := f.otps.Get(context.Background(), "u@x.com")
	require.NoError(t, err)
	assert.Equal(t, result.OTP, rec.Code)
	assert.Zero(t, rec.Attempts)
	assert.True(t, rec.ExpiresAt.Equal(f.clock.Now().Add(5*time.Minute)))
}

func TestSignUpWithoutDisclosureOmitsOTP(t *testing.T) {
	f := newAuthFixture(t, false)

	result := f.signUp(t, "u@x.com")
	assert.Empty(t, result.OTP)

	otpResult, err := f.auth.RequestOTP(context.Background(), "u@x.com")
	require.NoError(t, err)
	assert.Empty(t, otpResult.OTP)
}

func TestSignUpDuplicateEmailCaseInsensitive(t *testing.T) {
	f := newAuthFixture(t, true)

	first := f.signUp(t, "A@x.com")

	_, err := f.auth.SignUp(context.Background(), SignUpInput{Email: "a@X.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrUserAlreadyExist)

	// The failed signup must not touch the pending OTP.
	rec, err := f.otps.Get(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.OTP, rec.Code)
}

func TestRequestOTPUnknownUser(t *testing.T) {
	f := newAuthFixture(t, true)

	_, err := f.auth.RequestOTP(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRequestOTPReplacesPriorCode(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	oldCode := f.signUp(t, "u@x.com").OTP

	result, err := f.auth.RequestOTP(ctx, "U@X.COM")
	require.NoError(t, err)
	assert.Equal(t, MessageOTPSent, result.Message)
	assert.Equal(t, "u@x.com", result.Email)
	require.Len(t, result.OTP, 6)

	if oldCode != result.OTP {
		_, err = f.auth.VerifyOTP(ctx, "u@x.com", oldCode)
		assert.ErrorIs(t, err, ErrOTPInvalid, "old code is permanently invalid after reissue")
	}

	verified, err := f.auth.VerifyOTP(ctx, "u@x.com", result.OTP)
	require.NoError(t, err)
	assert.Equal(t, MessageVerified, verified.Message)
}

func TestVerifyOTPUnknownUser(t *testing.T) {
	f := newAuthFixture(t, true)

	_, err := f.auth.VerifyOTP(context.Background(), "nobody@x.com", "123456")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestVerifyOTPWithoutPendingCode(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	// A user that exists but never had a code issued.
	_, err := f.users.Create(ctx, &domain.User{
		ID:        uuid.New(),
		Email:     "u@x.com",
		Status:    domain.UserStatusPendingVerification,
		CreatedAt: f.clock.Now(),
	})
	require.NoError(t, err)

	_, err = f.auth.VerifyOTP(ctx, "u@x.com", "123456")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestVerifyOTPSuccess(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	code := f.signUp(t, "u@x.com").OTP
	f.clock.Advance(time.Minute)

	result, err := f.auth.VerifyOTP(ctx, "u@x.com", code)
	require.NoError(t, err)
	assert.Equal(t, MessageVerified, result.Message)
	assert.Equal(t, "u@x.com", result.Email)
	assert.True(t, result.VerifiedAt.Equal(f.clock.Now()))

	user, err := f.users.FindByEmail(ctx, "u@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusVerified, user.Status)
	require.NotNil(t, user.VerifiedAt)
	assert.True(t, user.VerifiedAt.Equal(result.VerifiedAt))

	_, err = f.otps.Get(ctx, "u@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound, "code is consumed")

	// The transition is terminal: replaying the same code finds nothing.
	_, err = f.auth.VerifyOTP(ctx, "u@x.com", code)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestVerifyOTPExpired(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	code := f.signUp(t, "u@x.com").OTP

	// Expiry is strict greater-than: at exactly expiresAt the code holds.
	f.clock.Advance(5 * time.Minute)
	f.clock.Advance(time.Millisecond)

	_, err := f.auth.VerifyOTP(ctx, "u@x.com", code)
	assert.ErrorIs(t, err, ErrOTPExpired)

	// Expiry detection deleted the record.
	_, err = f.auth.VerifyOTP(ctx, "u@x.com", code)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestVerifyOTPAtExactExpiryStillValid(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	code := f.signUp(t, "u@x.com").OTP
	f.clock.Advance(5 * time.Minute)

	result, err := f.auth.VerifyOTP(ctx, "u@x.com", code)
	require.NoError(t, err)
	assert.Equal(t, MessageVerified, result.Message)
}

func TestVerifyOTPWrongCodeIncrementsAttempts(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	code := f.signUp(t, "u@x.com").OTP
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, err := f.auth.VerifyOTP(ctx, "u@x.com", wrong)
	assert.ErrorIs(t, err, ErrOTPInvalid)

	rec, err := f.otps.Get(ctx, "u@x.com")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Attempts, "the failed attempt is persisted")
}

func TestVerifyOTPAttemptExhaustion(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	code := f.signUp(t, "u@x.com").OTP
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	// The bound is checked on entry: the 5th wrong guess still reaches the
	// comparison, the 6th call is rejected before it.
	for i := 0; i < 5; i++ {
		_, err := f.auth.VerifyOTP(ctx, "u@x.com", wrong)
		assert.ErrorIs(t, err, ErrOTPInvalid)
	}

	_, err := f.auth.VerifyOTP(ctx, "u@x.com", code)
	assert.ErrorIs(t, err, ErrOTPTooManyAttempts)

	// Exhaustion deleted the record; recovery is a fresh request.
	_, err = f.auth.VerifyOTP(ctx, "u@x.com", code)
	assert.ErrorIs(t, err, ErrOTPNotFound)

	result, err := f.auth.RequestOTP(ctx, "u@x.com")
	require.NoError(t, err)
	verified, err := f.auth.VerifyOTP(ctx, "u@x.com", result.OTP)
	require.NoError(t, err)
	assert.Equal(t, MessageVerified, verified.Message)
}

func TestVerifyOTPConcurrentWrongGuessesRespectBound(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	code := f.signUp(t, "u@x.com").OTP
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	const calls = 20
	results := make(chan error, calls)

	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.auth.VerifyOTP(ctx, "u@x.com", wrong)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var invalid, tooMany, notFound int
	for err := range results {
		switch {
		case errors.Is(err, ErrOTPInvalid):
			invalid++
		case errors.Is(err, ErrOTPTooManyAttempts):
			tooMany++
		case errors.Is(err, ErrOTPNotFound):
			notFound++
		}
	}

	assert.Equal(t, 5, invalid, "at most five guesses reach the comparison")
	assert.Equal(t, 1, tooMany, "exactly one call trips the bound and deletes the record")
	assert.Equal(t, calls-6, notFound)
}

func TestEndToEndSignupVerify(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	signup := f.signUp(t, "u@x.com")
	assert.Equal(t, domain.UserStatusPendingVerification, signup.Status)

	verified, err := f.auth.VerifyOTP(ctx, "u@x.com", signup.OTP)
	require.NoError(t, err)
	assert.Equal(t, MessageVerified, verified.Message)
	assert.False(t, verified.VerifiedAt.IsZero())

	_, err = f.auth.VerifyOTP(ctx, "u@x.com", signup.OTP)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}
