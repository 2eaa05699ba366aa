package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
	"github.com/johnquangdev/l10-platform/pkg/jwt"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Identity is the caller resolved from an identity-provider access token.
// Profile is nil until the account has been provisioned.
type Identity struct {
	AuthUserID string
	Email      string
	FullName   string
	Profile    *entities.Profile
}

// OrganizationID returns the caller's organization or uuid.Nil before onboarding
func (i *Identity) OrganizationID() uuid.UUID {
	if i == nil || !i.Profile.HasOrganization() {
		return uuid.Nil
	}
	return *i.Profile.OrganizationID
}

// Service resolves request credentials to an Identity
type Service interface {
	// Authenticate verifies token and loads the caller's profile
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

var _ Service = (*IdentityService)(nil)

// IdentityService verifies identity-provider tokens against local profiles
type IdentityService struct {
	tokens   *jwt.Manager
	profiles repositories.ProfileRepository
	logger   *zap.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(tokens *jwt.Manager, profiles repositories.ProfileRepository, logger *zap.Logger) *IdentityService {
	return &IdentityService{
		tokens:   tokens,
		profiles: profiles,
		logger:   logger,
	}
}

// Authenticate validates the bearer token and resolves the profile bound to its subject.
// A profile invited by email is claimed on the caller's first request.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrTokenInvalid, err)
	}

	identity := &Identity{
		AuthUserID: claims.Subject,
		Email:      strings.ToLower(claims.Email),
		FullName:   claims.FullName(),
	}

	profile, err := s.profiles.FindByAuthUserID(ctx, claims.Subject)
	switch {
	case err == nil:
		identity.Profile = profile
		return identity, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile, err = s.claimInvitedProfile(ctx, identity)
	if err != nil {
		return nil, err
	}
	identity.Profile = profile
	return identity, nil
}

func (s *IdentityService) claimInvitedProfile(ctx context.Context, identity *Identity) (*entities.Profile, error) {
	if identity.Email == "" {
		return nil, nil
	}

	profile, err := s.profiles.FindUnclaimedByEmail(ctx, identity.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up invited profile: %w", err)
	}

	authUserID := identity.AuthUserID
	profile.AuthUserID = &authUserID
	if profile.FullName == "" {
		profile.FullName = identity.FullName
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to claim profile: %w", err)
	}

	s.logger.Info("claimed invited profile",
		zap.String("profile_id", profile.ID.String()),
		zap.String("auth_user_id", authUserID),
	)
	return profile, nil
}
