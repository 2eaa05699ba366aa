package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
)

// Repositories groups the stores of workspace records
type Repositories struct {
	Goals       repositories.GoalRepository
	Rocks       repositories.RockRepository
	Metrics     repositories.MetricRepository
	Pillars     repositories.PillarRepository
	DataSources repositories.DataSourceRepository
	Profiles    repositories.ProfileRepository
	Issues      repositories.IssueRepository
	Todos       repositories.TodoRepository
	Headlines   repositories.HeadlineRepository
	Meetings    repositories.MeetingRepository
}

var _ Service = (*WorkspaceService)(nil)

// WorkspaceService implements CRUD over organization-owned records
type WorkspaceService struct {
	repos  Repositories
	logger *zap.Logger
	now    func() time.Time
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(repos Repositories, logger *zap.Logger) *WorkspaceService {
	return &WorkspaceService{
		repos:  repos,
		logger: logger,
		now:    time.Now,
	}
}

// find loads an org-scoped record, mapping a miss to a NotFoundError for resource
func find[T any](ctx context.Context, repo repositories.OrgScoped[T], orgID, id uuid.UUID, resource string) (*T, error) {
	entity, err := repo.FindByID(ctx, orgID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecaseErrors.NotFound(resource)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", strings.ToLower(resource), err)
	}
	return entity, nil
}

func remove[T any](ctx context.Context, repo repositories.OrgScoped[T], orgID, id uuid.UUID, resource string) error {
	err := repo.Delete(ctx, orgID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usecaseErrors.NotFound(resource)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", strings.ToLower(resource), err)
	}
	return nil
}

// checkMember rejects a profile reference outside the organization
func (s *WorkspaceService) checkMember(ctx context.Context, orgID uuid.UUID, profileID *uuid.UUID, field string) error {
	if profileID == nil {
		return nil
	}
	found, err := s.repos.Profiles.FindByIDs(ctx, orgID, []uuid.UUID{*profileID})
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if len(found) == 0 {
		return usecaseErrors.Invalid("%s is not a member of the organization", field)
	}
	return nil
}

func required(value, field string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", usecaseErrors.Invalid("%s is required", field)
	}
	return value, nil
}

// ListGoals retrieves goals of an organization
func (s *WorkspaceService) ListGoals(ctx context.Context, orgID uuid.UUID, opts repositories.ListOptions) ([]*entities.Goal, error) {
	goals, err := s.repos.Goals.List(ctx, orgID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// GetGoal retrieves a goal by ID
func (s *WorkspaceService) GetGoal(ctx context.Context, orgID, id uuid.UUID) (*entities.Goal, error) {
	return find(ctx, s.repos.Goals, orgID, id, "Goal")
}

// CreateGoal creates a goal. Year defaults to the current year.
func (s *WorkspaceService) CreateGoal(ctx context.Context, input GoalInput) (*entities.Goal, error) {
	title, err := required(input.Title, "title")
	if err != nil {
		return nil, err
	}
	if err := s.checkMember(ctx, input.OrganizationID, input.OwnerID, "owner_id"); err != nil {
		return nil, err
	}
	if input.Year == 0 {
		input.Year = s.now().Year()
	}

	goal := &entities.Goal{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		Title:          title,
		Description:    input.Description,
		OwnerID:        input.OwnerID,
		TargetValue:    input.TargetValue,
		CurrentValue:   input.CurrentValue,
		Unit:           input.Unit,
		DueDate:        input.DueDate,
		Status:         entities.GoalStatusActive,
		Year:           input.Year,
	}
	if err := s.repos.Goals.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return goal, nil
}

// UpdateGoal applies a partial update to a goal
func (s *WorkspaceService) UpdateGoal(ctx context.Context, orgID, id uuid.UUID, patch GoalPatch) (*entities.Goal, error) {
	goal, err := s.GetGoal(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if goal.Title, err = required(*patch.Title, "title"); err != nil {
			return nil, err
		}
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, usecaseErrors.Invalid("invalid status: %s", *patch.Status)
		}
		goal.Status = *patch.Status
	}
	if patch.OwnerID != nil {
		if err := s.checkMember(ctx, orgID, patch.OwnerID, "owner_id"); err != nil {
			return nil, err
		}
		goal.OwnerID = patch.OwnerID
	}
	if patch.Description != nil {
		goal.Description = patch.Description
	}
	if patch.TargetValue != nil {
		goal.TargetValue = patch.TargetValue
	}
	if patch.CurrentValue != nil {
		goal.CurrentValue = patch.CurrentValue
	}
	if patch.Unit != nil {
		goal.Unit = patch.Unit
	}
	if patch.DueDate != nil {
		goal.DueDate = patch.DueDate
	}
	if patch.Year != nil {
		goal.Year = *patch.Year
	}

	if err := s.repos.Goals.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return goal, nil
}

// DeleteGoal deletes a goal
func (s *WorkspaceService) DeleteGoal(ctx context.Context, orgID, id uuid.UUID) error {
	return remove(ctx, s.repos.Goals, orgID, id, "Goal")
}

// ListPillars retrieves pillars of an organization
func (s *WorkspaceService) ListPillars(ctx context.Context, orgID uuid.UUID) ([]*entities.Pillar, error) {
	pillars, err := s.repos.Pillars.List(ctx, orgID, repositories.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pillars: %w", err)
	}
	return pillars, nil
}

// GetPillar retrieves a pillar by ID
func (s *WorkspaceService) GetPillar(ctx context.Context, orgID, id uuid.UUID) (*entities.Pillar, error) {
	return find(ctx, s.repos.Pillars, orgID, id, "Pillar")
}

// CreatePillar creates a pillar
func (s *WorkspaceService) CreatePillar(ctx context.Context, input PillarInput) (*entities.Pillar, error) {
	name, err := required(input.Name, "name")
	if err != nil {
		return nil, err
	}
	if err := s.checkMember(ctx, input.OrganizationID, input.LeaderID, "leader_id"); err != nil {
		return nil, err
	}

	pillar := &entities.Pillar{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		Name:           name,
		Description:    input.Description,
		LeaderID:       input.LeaderID,
		Color:          input.Color,
	}
	if err := s.repos.Pillars.Create(ctx, pillar); err != nil {
		return nil, fmt.Errorf("failed to create pillar: %w", err)
	}
	return pillar, nil
}

// UpdatePillar applies a partial update to a pillar
func (s *WorkspaceService) UpdatePillar(ctx context.Context, orgID, id uuid.UUID, patch PillarPatch) (*entities.Pillar, error) {
	pillar, err := find(ctx, s.repos.Pillars, orgID, id, "Pillar")
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if pillar.Name, err = required(*patch.Name, "name"); err != nil {
			return nil, err
		}
	}
	if patch.LeaderID != nil {
		if err := s.checkMember(ctx, orgID, patch.LeaderID, "leader_id"); err != nil {
			return nil, err
		}
		pillar.LeaderID = patch.LeaderID
	}
	if patch.Description != nil {
		pillar.Description = patch.Description
	}
	if patch.Color != nil {
		pillar.Color = patch.Color
	}

	if err := s.repos.Pillars.Update(ctx, pillar); err != nil {
		return nil, fmt.Errorf("failed to update pillar: %w", err)
	}
	return pillar, nil
}

// DeletePillar deletes a pillar
func (s *WorkspaceService) DeletePillar(ctx context.Context, orgID, id uuid.UUID) error {
	return remove(ctx, s.repos.Pillars, orgID, id, "Pillar")
}

// ListDataSources retrieves data sources of an organization
func (s *WorkspaceService) ListDataSources(ctx context.Context, orgID uuid.UUID) ([]*entities.DataSource, error) {
	sources, err := s.repos.DataSources.List(ctx, orgID, repositories.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list data sources: %w", err)
	}
	return sources, nil
}

func (s *WorkspaceService) GetDataSource(ctx context.Context, orgID, id uuid.UUID) (*entities.DataSource, error) {
	return find(ctx, s.repos.DataSources, orgID, id, "Data source")
}

// CreateDataSource registers a data source. Values are not synced from it.
func (s *WorkspaceService) CreateDataSource(ctx context.Context, input DataSourceInput) (*entities.DataSource, error) {
	name, err := required(input.Name, "name")
	if err != nil {
		return nil, err
	}
	if input.Kind == "" {
		input.Kind = entities.DataSourceManual
	}
	if !input.Kind.IsValid() {
		return nil, usecaseErrors.Invalid("invalid kind: %s", input.Kind)
	}
	if input.Config == nil {
		input.Config = map[string]any{}
	}

	source := &entities.DataSource{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		Name:           name,
		Kind:           input.Kind,
		Config:         datatypes.JSONMap(input.Config),
		IsActive:       true,
	}
	if err := s.repos.DataSources.Create(ctx, source); err != nil {
		return nil, fmt.Errorf("failed to create data source: %w", err)
	}
	return source, nil
}

// UpdateDataSource applies a partial update to a data source
func (s *WorkspaceService) UpdateDataSource(ctx context.Context, orgID, id uuid.UUID, patch DataSourcePatch) (*entities.DataSource, error) {
	source, err := find(ctx, s.repos.DataSources, orgID, id, "Data source")
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if source.Name, err = required(*patch.Name, "name"); err != nil {
			return nil, err
		}
	}
	if patch.Config != nil {
		source.Config = datatypes.JSONMap(patch.Config)
	}
	if patch.IsActive != nil {
		source.IsActive = *patch.IsActive
	}

	if err := s.repos.DataSources.Update(ctx, source); err != nil {
		return nil, fmt.Errorf("failed to update data source: %w", err)
	}
	return source, nil
}

// DeleteDataSource deletes a data source
func (s *WorkspaceService) DeleteDataSource(ctx context.Context, orgID, id uuid.UUID) error {
	return remove(ctx, s.repos.DataSources, orgID, id, "Data source")
}
