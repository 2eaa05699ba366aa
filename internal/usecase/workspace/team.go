package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
)

// ListTeam retrieves the members of an organization
func (s *WorkspaceService) ListTeam(ctx context.Context, orgID uuid.UUID) ([]*entities.Profile, error) {
	members, err := s.repos.Profiles.List(ctx, orgID, repositories.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list team: %w", err)
	}
	return members, nil
}

// InviteMember creates an unclaimed profile that is bound to the first
// account signing in with the same email.
func (s *WorkspaceService) InviteMember(ctx context.Context, input InviteInput) (*entities.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, usecaseErrors.Invalid("email is required")
	}
	fullName, err := required(input.FullName, "full_name")
	if err != nil {
		return nil, err
	}
	if input.AccessLevel == "" {
		input.AccessLevel = entities.AccessMember
	}
	if !input.AccessLevel.IsValid() {
		return nil, usecaseErrors.Invalid("invalid access_level: %s", input.AccessLevel)
	}
	if err := s.checkPillar(ctx, input.OrganizationID, input.PillarID); err != nil {
		return nil, err
	}

	_, err = s.repos.Profiles.FindByEmail(ctx, input.OrganizationID, email)
	if err == nil {
		return nil, usecaseErrors.ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing member: %w", err)
	}

	orgID := input.OrganizationID
	profile := &entities.Profile{
		ID:             uuid.New(),
		OrganizationID: &orgID,
		Email:          email,
		FullName:       fullName,
		Title:          input.Title,
		AccessLevel:    input.AccessLevel,
		PillarID:       input.PillarID,
		IsActive:       true,
	}
	if err := s.repos.Profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("Team member invited",
		zap.String("organization_id", orgID.String()),
		zap.String("profile_id", profile.ID.String()),
		zap.String("access_level", string(profile.AccessLevel)),
	)
	return profile, nil
}

func (s *WorkspaceService) checkPillar(ctx context.Context, orgID uuid.UUID, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := find(ctx, s.repos.Pillars, orgID, *id, "Pillar"); err != nil {
		if errors.Is(err, usecaseErrors.ErrNotFound) {
			return usecaseErrors.Invalid("pillar_id does not reference a pillar in the organization")
		}
		return err
	}
	return nil
}

// UpdateMember changes a member's access level, title or pillar
func (s *WorkspaceService) UpdateMember(ctx context.Context, input MemberUpdateInput) (*entities.Profile, error) {
	if input.AccessLevel != nil && input.ActorID == input.ProfileID {
		return nil, usecaseErrors.Invalid("you cannot change your own access level")
	}

	member, err := find(ctx, s.repos.Profiles, input.OrganizationID, input.ProfileID, "Team member")
	if err != nil {
		return nil, err
	}

	if input.AccessLevel != nil {
		if !input.AccessLevel.IsValid() {
			return nil, usecaseErrors.Invalid("invalid access_level: %s", *input.AccessLevel)
		}
		member.AccessLevel = *input.AccessLevel
	}
	if input.PillarID != nil {
		if err := s.checkPillar(ctx, input.OrganizationID, input.PillarID); err != nil {
			return nil, err
		}
		member.PillarID = input.PillarID
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		member.Title = &title
	}

	if err := s.repos.Profiles.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return member, nil
}

// DeactivateMember marks a member inactive. Inactive members fail every access check.
func (s *WorkspaceService) DeactivateMember(ctx context.Context, orgID, actorID, profileID uuid.UUID) (*entities.Profile, error) {
	if actorID == profileID {
		return nil, usecaseErrors.Invalid("you cannot deactivate yourself")
	}

	member, err := find(ctx, s.repos.Profiles, orgID, profileID, "Team member")
	if err != nil {
		return nil, err
	}
	if !member.IsActive {
		return member, nil
	}

	member.IsActive = false
	if err := s.repos.Profiles.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to deactivate member: %w", err)
	}

	s.logger.Info("Team member deactivated",
		zap.String("organization_id", orgID.String()),
		zap.String("profile_id", profileID.String()),
		zap.String("actor_id", actorID.String()),
	)
	return member, nil
}
