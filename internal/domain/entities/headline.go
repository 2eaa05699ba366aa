package entities

import (
	"time"

	"github.com/google/uuid"
)

// HeadlineKind separates customer and employee headlines
type HeadlineKind string

const (
	HeadlineCustomer HeadlineKind = "customer"
	HeadlineEmployee HeadlineKind = "employee"
)

// IsValid checks if the headline kind is known
func (k HeadlineKind) IsValid() bool {
	return k == HeadlineCustomer || k == HeadlineEmployee
}

// Headline is a short piece of good or bad news shared in a meeting
type Headline struct {
	ID             uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID    `gorm:"type:uuid;not null;index" json:"organization_id"`
	MeetingID      *uuid.UUID   `gorm:"type:uuid;index" json:"meeting_id,omitempty"`
	Kind           HeadlineKind `gorm:"type:varchar(20);not null" json:"kind"`
	Content        string       `gorm:"type:text;not null" json:"content"`
	AuthorID       uuid.UUID    `gorm:"type:uuid;not null" json:"author_id"`
	Author         *Profile     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for Headline
func (Headline) TableName() string {
	return "headlines"
}
