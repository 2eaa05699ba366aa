package meeting

import (
	"time"

	"github.com/google/uuid"
)

// CreateMeetingRequest represents the request to schedule a meeting
type CreateMeetingRequest struct {
	Title       string      `json:"title" validate:"required,min=1,max=255"`
	MeetingType string      `json:"meeting_type,omitempty" validate:"omitempty,meeting_type"`
	PillarID    *uuid.UUID  `json:"pillar_id,omitempty"`
	ScheduledAt time.Time   `json:"scheduled_at" validate:"required"`
	AttendeeIDs []uuid.UUID `json:"attendee_ids,omitempty" validate:"max=50"`
}

// UpdateMeetingRequest represents the editable fields of a scheduled meeting
type UpdateMeetingRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Type   string `query:"type" validate:"omitempty,meeting_type"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=200"`
}

// EndMeetingRequest carries the conclude-section inputs
type EndMeetingRequest struct {
	// Ratings maps attendee profile IDs to a 1-10 rating
	Ratings           map[string]int `json:"ratings,omitempty" validate:"omitempty,dive,keys,uuid,endkeys,min=1,max=10"`
	CascadingMessages *string        `json:"cascading_messages,omitempty" validate:"omitempty,max=5000"`
}

// ResolveIssueRequest records the IDS outcome of an issue
type ResolveIssueRequest struct {
	Outcome       string     `json:"outcome" validate:"required,issue_outcome"`
	DecisionNotes *string    `json:"decision_notes,omitempty" validate:"omitempty,max=5000"`
	TodoTitle     *string    `json:"todo_title,omitempty" validate:"omitempty,max=255"`
	TodoOwnerID   *uuid.UUID `json:"todo_owner_id,omitempty"`
	TodoDueDate   *time.Time `json:"todo_due_date,omitempty"`
}
