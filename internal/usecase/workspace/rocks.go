package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
)

// ListRocks retrieves rocks matching filters
func (s *WorkspaceService) ListRocks(ctx context.Context, orgID uuid.UUID, filters repositories.RockFilters) ([]*entities.Rock, error) {
	rocks, err := s.repos.Rocks.Find(ctx, orgID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list rocks: %w", err)
	}
	return rocks, nil
}

// GetRock retrieves a rock by ID
func (s *WorkspaceService) GetRock(ctx context.Context, orgID, id uuid.UUID) (*entities.Rock, error) {
	return find(ctx, s.repos.Rocks, orgID, id, "Rock")
}

// CreateRock creates a rock. Quarter defaults to the current one.
func (s *WorkspaceService) CreateRock(ctx context.Context, input RockInput) (*entities.Rock, error) {
	title, err := required(input.Title, "title")
	if err != nil {
		return nil, err
	}
	if input.Level == "" {
		input.Level = entities.RockLevelIndividual
	}
	if input.Status == "" {
		input.Status = entities.RockStatusOnTrack
	}
	if !input.Level.IsValid() {
		return nil, usecaseErrors.Invalid("invalid level: %s", input.Level)
	}
	if !input.Status.IsValid() {
		return nil, usecaseErrors.Invalid("invalid status: %s", input.Status)
	}
	if input.Quarter == "" {
		input.Quarter = entities.QuarterOf(s.now())
	}
	if err := s.checkMember(ctx, input.OrganizationID, input.OwnerID, "owner_id"); err != nil {
		return nil, err
	}

	rock := &entities.Rock{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		Title:          title,
		Description:    input.Description,
		Level:          input.Level,
		Status:         input.Status,
		OwnerID:        input.OwnerID,
		PillarID:       input.PillarID,
		ParentID:       input.ParentID,
		Quarter:        input.Quarter,
		DueDate:        input.DueDate,
	}
	if err := s.checkParent(ctx, rock); err != nil {
		return nil, err
	}

	if err := s.repos.Rocks.Create(ctx, rock); err != nil {
		return nil, fmt.Errorf("failed to create rock: %w", err)
	}
	return rock, nil
}

// checkParent enforces that a parent rock exists in the org at a strictly higher level
func (s *WorkspaceService) checkParent(ctx context.Context, rock *entities.Rock) error {
	if rock.ParentID == nil {
		return nil
	}
	parent, err := find(ctx, s.repos.Rocks, rock.OrganizationID, *rock.ParentID, "Parent rock")
	if err != nil {
		if errors.Is(err, usecaseErrors.ErrNotFound) {
			return usecaseErrors.Invalid("parent_id does not reference a rock in the organization")
		}
		return err
	}
	if err := entities.ValidateParent(rock, parent); err != nil {
		return usecaseErrors.Invalid("%s", err.Error())
	}
	return nil
}

// UpdateRock applies a partial update to a rock
func (s *WorkspaceService) UpdateRock(ctx context.Context, orgID, id uuid.UUID, patch RockPatch) (*entities.Rock, error) {
	rock, err := s.GetRock(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if rock.Title, err = required(*patch.Title, "title"); err != nil {
			return nil, err
		}
	}
	if patch.Level != nil {
		if !patch.Level.IsValid() {
			return nil, usecaseErrors.Invalid("invalid level: %s", *patch.Level)
		}
		rock.Level = *patch.Level
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, usecaseErrors.Invalid("invalid status: %s", *patch.Status)
		}
		rock.Status = *patch.Status
	}
	if patch.Progress != nil {
		if *patch.Progress < 0 || *patch.Progress > 100 {
			return nil, usecaseErrors.Invalid("progress must be between 0 and 100")
		}
		rock.Progress = *patch.Progress
	}
	if patch.OwnerID != nil {
		if err := s.checkMember(ctx, orgID, patch.OwnerID, "owner_id"); err != nil {
			return nil, err
		}
		rock.OwnerID = patch.OwnerID
	}
	if patch.Description != nil {
		rock.Description = patch.Description
	}
	if patch.PillarID != nil {
		rock.PillarID = patch.PillarID
	}
	if patch.Quarter != nil {
		rock.Quarter = *patch.Quarter
	}
	if patch.DueDate != nil {
		rock.DueDate = patch.DueDate
	}
	if patch.IsArchived != nil {
		rock.IsArchived = *patch.IsArchived
	}
	if patch.ParentID != nil {
		rock.ParentID = patch.ParentID
	}
	// A level change can invalidate an existing parent too
	if patch.ParentID != nil || patch.Level != nil {
		if err := s.checkParent(ctx, rock); err != nil {
			return nil, err
		}
	}

	rock.Owner = nil
	if err := s.repos.Rocks.Update(ctx, rock); err != nil {
		return nil, fmt.Errorf("failed to update rock: %w", err)
	}
	return rock, nil
}

// DeleteRock deletes a rock
func (s *WorkspaceService) DeleteRock(ctx context.Context, orgID, id uuid.UUID) error {
	return remove(ctx, s.repos.Rocks, orgID, id, "Rock")
}

// PostRockUpdate records a status note and moves the rock to that status
func (s *WorkspaceService) PostRockUpdate(ctx context.Context, input RockUpdateInput) (*entities.RockUpdate, error) {
	content, err := required(input.Content, "content")
	if err != nil {
		return nil, err
	}
	if !input.Status.IsValid() {
		return nil, usecaseErrors.Invalid("invalid status: %s", input.Status)
	}

	rock, err := s.GetRock(ctx, input.OrganizationID, input.RockID)
	if err != nil {
		return nil, err
	}

	update := &entities.RockUpdate{
		ID:       uuid.New(),
		RockID:   rock.ID,
		AuthorID: input.AuthorID,
		Status:   input.Status,
		Content:  content,
	}
	if err := s.repos.Rocks.CreateUpdate(ctx, update); err != nil {
		return nil, fmt.Errorf("failed to create rock update: %w", err)
	}

	if rock.Status != input.Status {
		rock.Status = input.Status
		rock.Owner = nil
		if err := s.repos.Rocks.Update(ctx, rock); err != nil {
			return nil, fmt.Errorf("failed to update rock status: %w", err)
		}
	}
	return update, nil
}
