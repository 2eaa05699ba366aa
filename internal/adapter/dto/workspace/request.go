package workspace

import (
	"time"

	"github.com/google/uuid"
)

// PageRequest represents limit/offset query parameters
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// CreateGoalRequest represents the request to create a goal
type CreateGoalRequest struct {
	Title        string     `json:"title" validate:"required,min=1,max=255"`
	Description  *string    `json:"description,omitempty"`
	OwnerID      *uuid.UUID `json:"owner_id,omitempty"`
	TargetValue  *float64   `json:"target_value,omitempty"`
	CurrentValue *float64   `json:"current_value,omitempty"`
	Unit         *string    `json:"unit,omitempty" validate:"omitempty,max=50"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Year         int        `json:"year,omitempty" validate:"omitempty,min=2000,max=2100"`
}

// UpdateGoalRequest represents a partial goal update
type UpdateGoalRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description  *string    `json:"description,omitempty"`
	OwnerID      *uuid.UUID `json:"owner_id,omitempty"`
	TargetValue  *float64   `json:"target_value,omitempty"`
	CurrentValue *float64   `json:"current_value,omitempty"`
	Unit         *string    `json:"unit,omitempty" validate:"omitempty,max=50"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Status       *string    `json:"status,omitempty" validate:"omitempty,oneof=active achieved missed abandoned"`
	Year         *int       `json:"year,omitempty" validate:"omitempty,min=2000,max=2100"`
}

// ListRocksRequest represents query parameters for listing rocks
type ListRocksRequest struct {
	Status          string `query:"status" validate:"omitempty,rock_status"`
	Level           string `query:"level" validate:"omitempty,rock_level"`
	OwnerID         string `query:"owner_id" validate:"omitempty,uuid"`
	PillarID        string `query:"pillar_id" validate:"omitempty,uuid"`
	Quarter         string `query:"quarter" validate:"omitempty,max=10"`
	IncludeArchived bool   `query:"include_archived"`
}

// CreateRockRequest represents the request to create a rock
type CreateRockRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description *string    `json:"description,omitempty"`
	Level       string     `json:"level,omitempty" validate:"omitempty,rock_level"`
	Status      string     `json:"status,omitempty" validate:"omitempty,rock_status"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	PillarID    *uuid.UUID `json:"pillar_id,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Quarter     string     `json:"quarter,omitempty" validate:"omitempty,max=10"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateRockRequest represents a partial rock update
type UpdateRockRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description,omitempty"`
	Level       *string    `json:"level,omitempty" validate:"omitempty,rock_level"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,rock_status"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	PillarID    *uuid.UUID `json:"pillar_id,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Quarter     *string    `json:"quarter,omitempty" validate:"omitempty,max=10"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Progress    *int       `json:"progress,omitempty" validate:"omitempty,min=0,max=100"`
	IsArchived  *bool      `json:"is_archived,omitempty"`
}

// RockUpdateRequest represents a status note posted on a rock
type RockUpdateRequest struct {
	Status  string `json:"status" validate:"required,rock_status"`
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

// CreateMetricRequest represents the request to create a scorecard metric
type CreateMetricRequest struct {
	Name         string     `json:"name" validate:"required,min=1,max=255"`
	Description  *string    `json:"description,omitempty"`
	OwnerID      *uuid.UUID `json:"owner_id,omitempty"`
	Goal         *float64   `json:"goal,omitempty"`
	Unit         *string    `json:"unit,omitempty" validate:"omitempty,max=50"`
	Frequency    string     `json:"frequency,omitempty" validate:"omitempty,oneof=weekly monthly quarterly"`
	DataSourceID *uuid.UUID `json:"data_source_id,omitempty"`
}

// UpdateMetricRequest represents a partial metric update. clear_goal removes the goal.
type UpdateMetricRequest struct {
	Name         *string    `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description  *string    `json:"description,omitempty"`
	OwnerID      *uuid.UUID `json:"owner_id,omitempty"`
	Goal         *float64   `json:"goal,omitempty"`
	ClearGoal    bool       `json:"clear_goal,omitempty"`
	Unit         *string    `json:"unit,omitempty" validate:"omitempty,max=50"`
	Frequency    *string    `json:"frequency,omitempty" validate:"omitempty,oneof=weekly monthly quarterly"`
	IsActive     *bool      `json:"is_active,omitempty"`
	DataSourceID *uuid.UUID `json:"data_source_id,omitempty"`
}

// RecordValueRequest represents a scorecard data point
type RecordValueRequest struct {
	Value      *float64   `json:"value" validate:"required"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
	Note       *string    `json:"note,omitempty" validate:"omitempty,max=1000"`
}

// PillarRequest creates a pillar or, with all fields optional, updates one
type PillarRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description,omitempty"`
	LeaderID    *uuid.UUID `json:"leader_id,omitempty"`
	Color       *string    `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// CreateDataSourceRequest registers a data source
type CreateDataSourceRequest struct {
	Name   string         `json:"name" validate:"required,min=1,max=255"`
	Kind   string         `json:"kind,omitempty" validate:"omitempty,oneof=manual hubspot spreadsheet api"`
	Config map[string]any `json:"config,omitempty"`
}

// UpdateDataSourceRequest represents a partial data source update
type UpdateDataSourceRequest struct {
	Name     *string        `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Config   map[string]any `json:"config,omitempty"`
	IsActive *bool          `json:"is_active,omitempty"`
}

// InviteMemberRequest invites a teammate by email
type InviteMemberRequest struct {
	Email       string     `json:"email" validate:"required,email"`
	FullName    string     `json:"full_name" validate:"required,min=1,max=255"`
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	AccessLevel string     `json:"access_level,omitempty" validate:"omitempty,access_level"`
	PillarID    *uuid.UUID `json:"pillar_id,omitempty"`
}

// UpdateMemberRequest changes a teammate's role
type UpdateMemberRequest struct {
	AccessLevel *string    `json:"access_level,omitempty" validate:"omitempty,access_level"`
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	PillarID    *uuid.UUID `json:"pillar_id,omitempty"`
}

// ListIssuesRequest represents query parameters for listing issues
type ListIssuesRequest struct {
	Status    string `query:"status" validate:"omitempty,oneof=open resolved"`
	MeetingID string `query:"meeting_id" validate:"omitempty,uuid"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=500"`
}

// CreateIssueRequest raises an issue, optionally queued to a meeting
type CreateIssueRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description *string    `json:"description,omitempty"`
	Priority    int        `json:"priority,omitempty" validate:"omitempty,min=0,max=5"`
	MeetingID   *uuid.UUID `json:"meeting_id,omitempty"`
}

// QueueIssueRequest queues an issue to a meeting's IDS list
type QueueIssueRequest struct {
	MeetingID uuid.UUID `json:"meeting_id" validate:"required"`
}

// ListTodosRequest represents query parameters for listing to-dos
type ListTodosRequest struct {
	Status    string `query:"status" validate:"omitempty,todo_status"`
	OwnerID   string `query:"owner_id" validate:"omitempty,uuid"`
	MeetingID string `query:"meeting_id" validate:"omitempty,uuid"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=500"`
}

// CreateTodoRequest creates a to-do
type CreateTodoRequest struct {
	Title     string     `json:"title" validate:"required,min=1,max=255"`
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	MeetingID *uuid.UUID `json:"meeting_id,omitempty"`
}

// UpdateTodoRequest represents a partial to-do update
type UpdateTodoRequest struct {
	Title   *string    `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Status  *string    `json:"status,omitempty" validate:"omitempty,todo_status"`
	OwnerID *uuid.UUID `json:"owner_id,omitempty"`
	DueDate *time.Time `json:"due_date,omitempty"`
}

// CreateHeadlineRequest shares a customer or employee headline
type CreateHeadlineRequest struct {
	Kind      string     `json:"kind" validate:"required,oneof=customer employee"`
	Content   string     `json:"content" validate:"required,min=1,max=2000"`
	MeetingID *uuid.UUID `json:"meeting_id,omitempty"`
}
