package repositories

import "github.com/johnquangdev/l10-platform/internal/domain/entities"

// GoalRepository defines the interface for goal data access
type GoalRepository interface {
	OrgScoped[entities.Goal]
}

// PillarRepository defines the interface for pillar data access
type PillarRepository interface {
	OrgScoped[entities.Pillar]
}

// DataSourceRepository defines the interface for data source data access
type DataSourceRepository interface {
	OrgScoped[entities.DataSource]
}
