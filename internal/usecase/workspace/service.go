package workspace

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
)

// Service defines the interface for organization-scoped workspace records
type Service interface {
	// Goals
	ListGoals(ctx context.Context, orgID uuid.UUID, opts repositories.ListOptions) ([]*entities.Goal, error)
	GetGoal(ctx context.Context, orgID, id uuid.UUID) (*entities.Goal, error)
	CreateGoal(ctx context.Context, input GoalInput) (*entities.Goal, error)
	UpdateGoal(ctx context.Context, orgID, id uuid.UUID, patch GoalPatch) (*entities.Goal, error)
	DeleteGoal(ctx context.Context, orgID, id uuid.UUID) error

	// Rocks
	ListRocks(ctx context.Context, orgID uuid.UUID, filters repositories.RockFilters) ([]*entities.Rock, error)
	GetRock(ctx context.Context, orgID, id uuid.UUID) (*entities.Rock, error)
	CreateRock(ctx context.Context, input RockInput) (*entities.Rock, error)
	UpdateRock(ctx context.Context, orgID, id uuid.UUID, patch RockPatch) (*entities.Rock, error)
	DeleteRock(ctx context.Context, orgID, id uuid.UUID) error
	// PostRockUpdate records a status note and moves the rock to that status
	PostRockUpdate(ctx context.Context, input RockUpdateInput) (*entities.RockUpdate, error)

	// Metrics
	ListMetrics(ctx context.Context, orgID uuid.UUID, opts repositories.ListOptions) ([]*MetricView, error)
	GetMetric(ctx context.Context, orgID, id uuid.UUID) (*MetricView, error)
	CreateMetric(ctx context.Context, input MetricInput) (*entities.Metric, error)
	UpdateMetric(ctx context.Context, orgID, id uuid.UUID, patch MetricPatch) (*entities.Metric, error)
	DeleteMetric(ctx context.Context, orgID, id uuid.UUID) error
	RecordMetricValue(ctx context.Context, input MetricValueInput) (*entities.MetricValue, error)
	ListMetricValues(ctx context.Context, orgID, metricID uuid.UUID, limit int) ([]*entities.MetricValue, error)

	// Pillars
	ListPillars(ctx context.Context, orgID uuid.UUID) ([]*entities.Pillar, error)
	GetPillar(ctx context.Context, orgID, id uuid.UUID) (*entities.Pillar, error)
	CreatePillar(ctx context.Context, input PillarInput) (*entities.Pillar, error)
	UpdatePillar(ctx context.Context, orgID, id uuid.UUID, patch PillarPatch) (*entities.Pillar, error)
	DeletePillar(ctx context.Context, orgID, id uuid.UUID) error

	// Data sources
	ListDataSources(ctx context.Context, orgID uuid.UUID) ([]*entities.DataSource, error)
	GetDataSource(ctx context.Context, orgID, id uuid.UUID) (*entities.DataSource, error)
	CreateDataSource(ctx context.Context, input DataSourceInput) (*entities.DataSource, error)
	UpdateDataSource(ctx context.Context, orgID, id uuid.UUID, patch DataSourcePatch) (*entities.DataSource, error)
	DeleteDataSource(ctx context.Context, orgID, id uuid.UUID) error

	// Team members
	ListTeam(ctx context.Context, orgID uuid.UUID) ([]*entities.Profile, error)
	InviteMember(ctx context.Context, input InviteInput) (*entities.Profile, error)
	UpdateMember(ctx context.Context, input MemberUpdateInput) (*entities.Profile, error)
	DeactivateMember(ctx context.Context, orgID, actorID, profileID uuid.UUID) (*entities.Profile, error)

	// Issues
	ListIssues(ctx context.Context, orgID uuid.UUID, filters repositories.IssueFilters) ([]*entities.Issue, error)
	CreateIssue(ctx context.Context, input IssueInput) (*entities.Issue, error)
	QueueIssue(ctx context.Context, orgID, issueID, meetingID uuid.UUID) (*entities.Issue, error)
	DeleteIssue(ctx context.Context, orgID, id uuid.UUID) error

	// To-dos
	ListTodos(ctx context.Context, orgID uuid.UUID, filters repositories.TodoFilters) ([]*entities.Todo, error)
	CreateTodo(ctx context.Context, input TodoInput) (*entities.Todo, error)
	UpdateTodo(ctx context.Context, orgID, id uuid.UUID, patch TodoPatch) (*entities.Todo, error)

	// Headlines
	ListHeadlines(ctx context.Context, orgID uuid.UUID, opts repositories.ListOptions) ([]*entities.Headline, error)
	CreateHeadline(ctx context.Context, input HeadlineInput) (*entities.Headline, error)
}

// GoalInput represents input for creating a goal
type GoalInput struct {
	OrganizationID uuid.UUID
	Title          string
	Description    *string
	OwnerID        *uuid.UUID
	TargetValue    *float64
	CurrentValue   *float64
	Unit           *string
	DueDate        *time.Time
	Year           int
}

// GoalPatch holds the goal fields to change; nil leaves a field untouched
type GoalPatch struct {
	Title        *string
	Description  *string
	OwnerID      *uuid.UUID
	TargetValue  *float64
	CurrentValue *float64
	Unit         *string
	DueDate      *time.Time
	Status       *entities.GoalStatus
	Year         *int
}

// RockInput represents input for creating a rock
type RockInput struct {
	OrganizationID uuid.UUID
	Title          string
	Description    *string
	Level          entities.RockLevel
	Status         entities.RockStatus
	OwnerID        *uuid.UUID
	PillarID       *uuid.UUID
	ParentID       *uuid.UUID
	Quarter        string
	DueDate        *time.Time
}

// RockPatch holds the rock fields to change
type RockPatch struct {
	Title       *string
	Description *string
	Level       *entities.RockLevel
	Status      *entities.RockStatus
	OwnerID     *uuid.UUID
	PillarID    *uuid.UUID
	ParentID    *uuid.UUID
	Quarter     *string
	DueDate     *time.Time
	Progress    *int
	IsArchived  *bool
}

// RockUpdateInput represents a status note posted on a rock
type RockUpdateInput struct {
	OrganizationID uuid.UUID
	RockID         uuid.UUID
	AuthorID       uuid.UUID
	Status         entities.RockStatus
	Content        string
}

// MetricView is a metric with its derived goal status
type MetricView struct {
	*entities.Metric
	BelowGoal bool `json:"below_goal"`
}

// MetricInput represents input for creating a metric
type MetricInput struct {
	OrganizationID uuid.UUID
	Name           string
	Description    *string
	OwnerID        *uuid.UUID
	Goal           *float64
	Unit           *string
	Frequency      entities.MetricFrequency
	DataSourceID   *uuid.UUID
}

// MetricPatch holds the metric fields to change
type MetricPatch struct {
	Name         *string
	Description  *string
	OwnerID      *uuid.UUID
	Goal         *float64
	ClearGoal    bool
	Unit         *string
	Frequency    *entities.MetricFrequency
	IsActive     *bool
	DataSourceID *uuid.UUID
}

// MetricValueInput represents a recorded data point
type MetricValueInput struct {
	OrganizationID uuid.UUID
	MetricID       uuid.UUID
	RecordedBy     uuid.UUID
	Value          float64
	RecordedAt     *time.Time
	Note           *string
}

// PillarInput represents input for creating a pillar
type PillarInput struct {
	OrganizationID uuid.UUID
	Name           string
	Description    *string
	LeaderID       *uuid.UUID
	Color          *string
}

// PillarPatch holds the pillar fields to change
type PillarPatch struct {
	Name        *string
	Description *string
	LeaderID    *uuid.UUID
	Color       *string
}

// DataSourceInput represents input for registering a data source
type DataSourceInput struct {
	OrganizationID uuid.UUID
	Name           string
	Kind           entities.DataSourceKind
	Config         map[string]any
}

// DataSourcePatch holds the data source fields to change
type DataSourcePatch struct {
	Name     *string
	Config   map[string]any
	IsActive *bool
}

// InviteInput represents an invitation of a new team member
type InviteInput struct {
	OrganizationID uuid.UUID
	Email          string
	FullName       string
	Title          *string
	AccessLevel    entities.AccessLevel
	PillarID       *uuid.UUID
}

// MemberUpdateInput changes a member's role. Actors cannot change their own access level.
type MemberUpdateInput struct {
	OrganizationID uuid.UUID
	ActorID        uuid.UUID
	ProfileID      uuid.UUID
	AccessLevel    *entities.AccessLevel
	Title          *string
	PillarID       *uuid.UUID
}

// IssueInput represents input for raising an issue
type IssueInput struct {
	OrganizationID uuid.UUID
	RaisedBy       uuid.UUID
	Title          string
	Description    *string
	Priority       int
	MeetingID      *uuid.UUID
}

// TodoInput represents input for creating a to-do
type TodoInput struct {
	OrganizationID uuid.UUID
	Title          string
	OwnerID        *uuid.UUID
	DueDate        *time.Time
	MeetingID      *uuid.UUID
}

// TodoPatch holds the to-do fields to change
type TodoPatch struct {
	Title   *string
	Status  *entities.TodoStatus
	OwnerID *uuid.UUID
	DueDate *time.Time
}

// HeadlineInput represents input for sharing a headline
type HeadlineInput struct {
	OrganizationID uuid.UUID
	AuthorID       uuid.UUID
	Kind           entities.HeadlineKind
	Content        string
	MeetingID      *uuid.UUID
}
