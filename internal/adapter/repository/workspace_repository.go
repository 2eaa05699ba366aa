package repository

import (
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
)

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *gorm.DB) repositories.GoalRepository {
	return newOrgScoped[entities.Goal](db, "year DESC, created_at ASC", "Owner")
}

// NewPillarRepository creates a new pillar repository
func NewPillarRepository(db *gorm.DB) repositories.PillarRepository {
	return newOrgScoped[entities.Pillar](db, "name ASC", "Leader")
}

// NewDataSourceRepository creates a new data source repository
func NewDataSourceRepository(db *gorm.DB) repositories.DataSourceRepository {
	return newOrgScoped[entities.DataSource](db, "name ASC")
}
