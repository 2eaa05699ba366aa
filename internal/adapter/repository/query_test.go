package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

type statement struct {
	sql  string
	vars []interface{}
}

// dryRunDB builds statements against the postgres dialect without a server
func dryRunDB(t *testing.T) (*gorm.DB, *[]statement) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=127.0.0.1 user=l10 dbname=l10 sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)

	var captured []statement
	err = db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		captured = append(captured, statement{sql: tx.Statement.SQL.String(), vars: tx.Statement.Vars})
	})
	require.NoError(t, err)
	return db, &captured
}

func TestListQueued_Order(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewIssueRepository(db)

	orgID, meetingID := uuid.New(), uuid.New()
	_, err := repo.ListQueued(context.Background(), orgID, meetingID)
	require.NoError(t, err)

	require.NotEmpty(t, *captured)
	got := (*captured)[0]
	assert.Contains(t, got.sql, "ORDER BY queue_position ASC NULLS LAST, created_at ASC")
	assert.Contains(t, got.sql, "status = $3")
	assert.Equal(t, []interface{}{orgID, meetingID, entities.IssueStatusOpen}, got.vars)
}

func TestListOverdue_StrictlyBeforeDay(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewTodoRepository(db)

	orgID := uuid.New()
	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	_, err := repo.ListOverdue(context.Background(), orgID, day)
	require.NoError(t, err)

	require.NotEmpty(t, *captured)
	got := (*captured)[0]
	assert.Contains(t, got.sql, "due_date < $3")
	assert.NotContains(t, got.sql, "due_date <=")
	assert.Equal(t, []interface{}{orgID, entities.TodoStatusDone, day}, got.vars)
}
