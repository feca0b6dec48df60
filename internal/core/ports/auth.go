package ports

import (
	"context"

	"github.com/cropdeal/marketplace-backend/internal/core/domain"
)

// UserRepository is the credential store consumed by the auth core.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// FarmerProfileRepository manages the farmer satellite records.
type FarmerProfileRepository interface {
	Create(ctx context.Context, profile *domain.FarmerProfile) (*domain.FarmerProfile, error)
	FindByUsername(ctx context.Context, username string) (*domain.FarmerProfile, error)
}

// DealerProfileRepository manages the dealer satellite records.
type DealerProfileRepository interface {
	Create(ctx context.Context, profile *domain.DealerProfile) (*domain.DealerProfile, error)
	FindByUsername(ctx context.Context, username string) (*domain.DealerProfile, error)
}

// LoginLimiter throttles sign-in attempts per account identifier.
type LoginLimiter interface {
	Enforce(ctx context.Context, username string) error
}

// SignUpInput carries the registration payload into the service layer.
type SignUpInput struct {
	Username     string
	Password     string
	Role         string
	MobileNumber string
	Address      string
}

// ValidationResult is the outcome of resolving a verified token into a
// role-specific profile id and service redirect target.
type ValidationResult struct {
	Username    string `json:"username"`
	Role        string `json:"role"`
	RedirectURL string `json:"redirectUrl"`
	ID          int64  `json:"id"`
}

// AuthService implements token issuance and identity resolution.
type AuthService interface {
	SignIn(ctx context.Context, username, password string) (string, error)
	SignUp(ctx context.Context, in SignUpInput) error
	CheckUsername(ctx context.Context, username string) (bool, error)
	Validate(ctx context.Context, token string) (*ValidationResult, error)
}
