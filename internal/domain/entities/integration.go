package entities

import (
	"time"

	"github.com/google/uuid"
)

// Provider identifies a third-party integration
type Provider string

const (
	ProviderSlack          Provider = "slack"
	ProviderGoogleCalendar Provider = "google-calendar"
)

// IsValid checks if the provider is supported
func (p Provider) IsValid() bool {
	return p == ProviderSlack || p == ProviderGoogleCalendar
}

// SlackWorkspace is an installed Slack app for an organization
type SlackWorkspace struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	TeamID           string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"team_id"`
	TeamName         string     `gorm:"type:varchar(255)" json:"team_name"`
	BotUserID        string     `gorm:"type:varchar(50)" json:"bot_user_id"`
	BotToken         string     `gorm:"type:text;not null" json:"-"` // encrypted
	DefaultChannelID *string    `gorm:"type:varchar(50)" json:"default_channel_id,omitempty"`
	InstalledBy      *uuid.UUID `gorm:"type:uuid" json:"installed_by,omitempty"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for SlackWorkspace
func (SlackWorkspace) TableName() string {
	return "slack_workspaces"
}

// CalendarConnection is a profile's linked calendar account
type CalendarConnection struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProfileID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_calendar_profile_provider" json:"profile_id"`
	Provider       Provider   `gorm:"type:varchar(50);not null;uniqueIndex:idx_calendar_profile_provider" json:"provider"`
	Email          string     `gorm:"type:varchar(255)" json:"email"`
	AccessToken    string     `gorm:"type:text;not null" json:"-"` // encrypted
	RefreshToken   *string    `gorm:"type:text" json:"-"`          // encrypted
	TokenExpiry    *time.Time `json:"token_expiry,omitempty"`
	CalendarID     string     `gorm:"type:varchar(255);not null;default:'primary'" json:"calendar_id"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for CalendarConnection
func (CalendarConnection) TableName() string {
	return "calendar_connections"
}

// OAuthState is a pending authorization handshake
type OAuthState struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Nonce          string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"nonce"`
	Provider       Provider  `gorm:"type:varchar(50);not null" json:"provider"`
	ProfileID      uuid.UUID `gorm:"type:uuid;not null" json:"profile_id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null" json:"organization_id"`
	ExpiresAt      time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for OAuthState
func (OAuthState) TableName() string {
	return "oauth_states"
}

// IsExpired checks if the state has passed its deadline
func (s *OAuthState) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
