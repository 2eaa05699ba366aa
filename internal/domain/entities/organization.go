package entities

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant every other record is scoped to
type Organization struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Organization
func (Organization) TableName() string {
	return "organizations"
}

// AccessLevel orders what a profile may do inside its organization
type AccessLevel string

const (
	AccessViewer AccessLevel = "viewer"
	AccessMember AccessLevel = "member"
	AccessLeader AccessLevel = "leader"
	AccessAdmin  AccessLevel = "admin"
)

var accessRank = map[AccessLevel]int{
	AccessViewer: 1,
	AccessMember: 2,
	AccessLeader: 3,
	AccessAdmin:  4,
}

// IsValid checks if the access level is known
func (a AccessLevel) IsValid() bool {
	_, ok := accessRank[a]
	return ok
}

// AtLeast reports whether a grants everything min grants
func (a AccessLevel) AtLeast(min AccessLevel) bool {
	return accessRank[a] >= accessRank[min]
}

// Profile is the organization-scoped identity of an authenticated user
type Profile struct {
	ID             uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	AuthUserID     *string     `gorm:"type:varchar(255);uniqueIndex" json:"-"`
	OrganizationID *uuid.UUID  `gorm:"type:uuid;index" json:"organization_id,omitempty"`
	Email          string      `gorm:"type:varchar(255);not null" json:"email"`
	FullName       string      `gorm:"type:varchar(255);not null" json:"full_name"`
	Title          *string     `gorm:"type:varchar(255)" json:"title,omitempty"`
	AvatarURL      *string     `gorm:"type:varchar(500)" json:"avatar_url,omitempty"`
	AccessLevel    AccessLevel `gorm:"type:varchar(20);not null;default:'member'" json:"access_level"`
	PillarID       *uuid.UUID  `gorm:"type:uuid;index" json:"pillar_id,omitempty"`
	IsActive       bool        `gorm:"default:true;not null" json:"is_active"`
	CreatedAt      time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}

// DisplayName returns the name shown in summaries and replies
func (p *Profile) DisplayName() string {
	if p == nil {
		return "Unassigned"
	}
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

// HasOrganization reports whether onboarding attached the profile to an org
func (p *Profile) HasOrganization() bool {
	return p != nil && p.OrganizationID != nil && *p.OrganizationID != uuid.Nil
}

// IsClaimed reports whether an identity-provider account is bound to the profile
func (p *Profile) IsClaimed() bool {
	return p.AuthUserID != nil && *p.AuthUserID != ""
}

// Can reports whether the profile is active and holds at least min access
func (p *Profile) Can(min AccessLevel) bool {
	return p != nil && p.IsActive && p.AccessLevel.AtLeast(min)
}
