package entities

import (
	"time"

	"github.com/google/uuid"
)

// IssueStatus represents whether an issue is still on the list
type IssueStatus string

const (
	IssueStatusOpen     IssueStatus = "open"
	IssueStatusResolved IssueStatus = "resolved"
)

// IssueOutcome is the IDS resolution tag of an issue
type IssueOutcome string

const (
	OutcomeSolved      IssueOutcome = "solved"
	OutcomeTodoCreated IssueOutcome = "todo_created"
	OutcomePushed      IssueOutcome = "pushed"
	OutcomeKilled      IssueOutcome = "killed"
)

// IsValid checks if the outcome is one of the four IDS tags
func (o IssueOutcome) IsValid() bool {
	switch o {
	case OutcomeSolved, OutcomeTodoCreated, OutcomePushed, OutcomeKilled:
		return true
	}
	return false
}

// DisplayOutcome maps a missing or unknown outcome to pushed
func DisplayOutcome(o *IssueOutcome) IssueOutcome {
	if o == nil || !o.IsValid() {
		return OutcomePushed
	}
	return *o
}

// Issue is a problem raised for discussion in an L10 meeting
type Issue struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"organization_id"`
	Title              string        `gorm:"type:varchar(500);not null" json:"title"`
	Description        *string       `gorm:"type:text" json:"description,omitempty"`
	Priority           int           `gorm:"not null;default:0" json:"priority"`
	Status             IssueStatus   `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	RaisedBy           uuid.UUID     `gorm:"type:uuid;not null" json:"raised_by"`
	Raiser             *Profile      `gorm:"foreignKey:RaisedBy" json:"raiser,omitempty"`
	MeetingID          *uuid.UUID    `gorm:"type:uuid;index" json:"meeting_id,omitempty"`
	QueuePosition      *int          `json:"queue_position,omitempty"`
	Outcome            *IssueOutcome `gorm:"type:varchar(20)" json:"outcome,omitempty"`
	DecisionNotes      *string       `gorm:"type:text" json:"decision_notes,omitempty"`
	LinkedTodoID       *uuid.UUID    `gorm:"type:uuid" json:"linked_todo_id,omitempty"`
	LinkedTodo         *Todo         `gorm:"foreignKey:LinkedTodoID" json:"linked_todo,omitempty"`
	DiscussedMeetingID *uuid.UUID    `gorm:"type:uuid;index" json:"discussed_meeting_id,omitempty"`
	DiscussedAt        *time.Time    `json:"discussed_at,omitempty"`
	ResolvedAt         *time.Time    `json:"resolved_at,omitempty"`
	CreatedAt          time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Issue
func (Issue) TableName() string {
	return "issues"
}

// IsResolved checks if the issue has been closed out
func (i *Issue) IsResolved() bool {
	return i.Status == IssueStatusResolved
}

// Resolve records the outcome of an IDS discussion held in meetingID.
// A pushed issue goes back to the open backlog and leaves the meeting queue.
func (i *Issue) Resolve(meetingID uuid.UUID, outcome IssueOutcome, notes *string, at time.Time) {
	i.Outcome = &outcome
	i.DecisionNotes = notes
	i.DiscussedMeetingID = &meetingID
	i.DiscussedAt = &at

	if outcome == OutcomePushed {
		i.Status = IssueStatusOpen
		i.MeetingID = nil
		i.QueuePosition = nil
		i.ResolvedAt = nil
		return
	}
	i.Status = IssueStatusResolved
	i.ResolvedAt = &at
}
