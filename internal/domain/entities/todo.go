package entities

import (
	"time"

	"github.com/google/uuid"
)

// TodoStatus represents the state of a 7-day action item
type TodoStatus string

const (
	TodoStatusOpen   TodoStatus = "open"
	TodoStatusDone   TodoStatus = "done"
	TodoStatusPushed TodoStatus = "pushed"
)

// IsValid checks if the todo status is valid
func (s TodoStatus) IsValid() bool {
	switch s {
	case TodoStatusOpen, TodoStatusDone, TodoStatusPushed:
		return true
	}
	return false
}

// Todo is an action item owned by one person
type Todo struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	Title          string     `gorm:"type:varchar(500);not null" json:"title"`
	OwnerID        *uuid.UUID `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	Owner          *Profile   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	DueDate        *time.Time `gorm:"type:date" json:"due_date,omitempty"`
	Status         TodoStatus `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	MeetingID      *uuid.UUID `gorm:"type:uuid;index" json:"meeting_id,omitempty"`
	SourceIssueID  *uuid.UUID `gorm:"type:uuid" json:"source_issue_id,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Todo
func (Todo) TableName() string {
	return "todos"
}

// SetStatus moves the todo to status, stamping completion time when done
func (t *Todo) SetStatus(status TodoStatus, at time.Time) {
	t.Status = status
	if status == TodoStatusDone {
		t.CompletedAt = &at
		return
	}
	t.CompletedAt = nil
}
