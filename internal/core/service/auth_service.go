package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cropdeal/marketplace-backend/internal/auth/token"
	"github.com/cropdeal/marketplace-backend/internal/core/domain"
	"github.com/cropdeal/marketplace-backend/internal/core/ports"
)

// RedirectTargets holds the per-role service base URLs returned by the
// validate endpoint.
type RedirectTargets struct {
	FarmerBase  string
	DealerBase  string
	AdminBase   string
	GatewayBase string
}

// AuthService implements sign-in, sign-up, username checks, and token
// validation with role-specific redirect resolution.
type AuthService struct {
	users     ports.UserRepository
	farmers   ports.FarmerProfileRepository
	dealers   ports.DealerProfileRepository
	issuer    *token.Issuer
	key       []byte
	limiter   ports.LoginLimiter
	redirects RedirectTargets
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	farmers ports.FarmerProfileRepository,
	dealers ports.DealerProfileRepository,
	issuer *token.Issuer,
	key []byte,
	limiter ports.LoginLimiter,
	redirects RedirectTargets,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		farmers:   farmers,
		dealers:   dealers,
		issuer:    issuer,
		key:       key,
		limiter:   limiter,
		redirects: redirects,
		log:       log,
	}
}

// SignIn authenticates a username/password pair and returns a signed token.
// The account-active check runs before password verification and is the
// only point where account status affects authentication: tokens already
// issued to a later-deactivated account remain valid until expiry.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Enforce(ctx, username); err != nil {
			if errors.Is(err, domain.ErrTooManyAttempts) {
				return "", err
			}
			// Limiter outage fails open: availability beats throttling here.
			s.log.Warn().Err(err).Msg("sign-in limiter unavailable, continuing")
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("sign-in lookup: %w", err)
	}

	if !user.Active {
		return "", domain.ErrAccountInactive
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	signed, err := s.issuer.Issue(user.Username, user.Role)
	if err != nil {
		return "", fmt.Errorf("sign-in issue token: %w", err)
	}
	return signed, nil
}

// SignUp registers a new account and, for FARMER and DEALER roles, creates
// the corresponding satellite profile record. ADMIN creates none.
func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) error {
	exists, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return fmt.Errorf("sign-up username check: %w", err)
	}
	if exists {
		return domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("sign-up hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         domain.ParseRole(in.Role),
		MobileNumber: in.MobileNumber,
		Address:      in.Address,
		Active:       true,
	})
	if err != nil {
		return fmt.Errorf("sign-up create user: %w", err)
	}

	switch created.Role {
	case domain.RoleFarmer:
		if _, err := s.farmers.Create(ctx, &domain.FarmerProfile{UserID: created.ID, Username: created.Username}); err != nil {
			return fmt.Errorf("sign-up create farmer profile: %w", err)
		}
	case domain.RoleDealer:
		if _, err := s.dealers.Create(ctx, &domain.DealerProfile{UserID: created.ID, Username: created.Username}); err != nil {
			return fmt.Errorf("sign-up create dealer profile: %w", err)
		}
	}

	return nil
}

// CheckUsername reports whether a username is still free.
func (s *AuthService) CheckUsername(ctx context.Context, username string) (bool, error) {
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return !exists, nil
}

// Validate verifies a token, checks expiry, and resolves the caller into a
// role-specific profile id and redirect target. It performs no writes and
// is safe to call repeatedly.
func (s *AuthService) Validate(ctx context.Context, raw string) (*ports.ValidationResult, error) {
	claims, err := token.Verify(raw, s.key)
	if err != nil {
		return nil, err
	}
	if s.issuer.IsExpired(claims) {
		return nil, domain.ErrTokenExpired
	}

	result := &ports.ValidationResult{
		Username: claims.Subject,
		Role:     claims.Role,
	}

	switch domain.ParseRole(claims.Role) {
	case domain.RoleFarmer:
		profile, err := s.farmers.FindByUsername(ctx, claims.Subject)
		if err != nil {
			return nil, s.profileErr("farmer", claims.Subject, err)
		}
		result.ID = profile.ID
		result.RedirectURL = s.redirects.FarmerBase + "/api/farmer/"
	case domain.RoleDealer:
		profile, err := s.dealers.FindByUsername(ctx, claims.Subject)
		if err != nil {
			return nil, s.profileErr("dealer", claims.Subject, err)
		}
		result.ID = profile.ID
		result.RedirectURL = s.redirects.DealerBase + "/api/dealer/"
	case domain.RoleAdmin:
		user, err := s.users.FindByUsername(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, domain.ErrProfileNotFound
			}
			return nil, fmt.Errorf("validate admin lookup: %w", err)
		}
		result.ID = user.ID
		result.RedirectURL = s.redirects.AdminBase + "/api/admin/"
	default:
		// Unrecognized roles get the generic profile path and no id.
		result.RedirectURL = s.redirects.GatewayBase + "/api/user/profile/" + claims.Subject
	}

	return result, nil
}

func (s *AuthService) profileErr(kind, username string, err error) error {
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.ErrProfileNotFound
	}
	return fmt.Errorf("validate %s profile lookup for %s: %w", kind, username, err)
}
