package service

import (
	"context"

	"github.com/signupflow/backend/internal/config"
	"github.com/signupflow/backend/internal/repository"
	"github.com/signupflow/backend/pkg/clock"
	"github.com/signupflow/backend/pkg/hash"
	"github.com/signupflow/backend/pkg/otp"
)

type Services struct {
	Auth Auth
}

type Deps struct {
	Config       *config.Config
	Hasher       hash.PasswordHasher
	OTPGenerator otp.Generator
	Clock        clock.Clocker
	Repos        *repository.Repositories
}

func NewServices(deps Deps) *Services {
	return &Services{
		Auth: newAuthService(
			deps.Repos.Users,
			deps.Repos.OTPs,
			deps.Hasher,
			deps.OTPGenerator,
			deps.Clock,
			deps.Config.Auth,
		),
	}
}

type Auth interface {
	SignUp(ctx context.Context, input SignUpInput) (*SignUpResult, error)
	RequestOTP(ctx context.Context, email string) (*RequestOTPResult, error)
	VerifyOTP(ctx context.Context, email, code string) (*VerifyOTPResult, error)
}
