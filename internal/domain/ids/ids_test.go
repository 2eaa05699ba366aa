package ids

import (
	"testing"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queue(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestSwapOnlyWhilePrioritizing(t *testing.T) {
	ids := queue(3)
	s := New(ids)

	require.NoError(t, s.Swap(0, 2))
	items := s.Items()
	assert.Equal(t, ids[2], items[0].IssueID)
	assert.Equal(t, ids[0], items[2].IssueID)

	assert.ErrorIs(t, s.Swap(0, 3), ErrOutOfRange)

	require.NoError(t, s.Begin())
	assert.ErrorIs(t, s.Swap(0, 1), ErrWrongStage)
}

func TestStagesAdvanceInOrder(t *testing.T) {
	s := New(queue(1))
	require.NoError(t, s.Begin())
	assert.Equal(t, StageIdentify, s.Stage())

	require.NoError(t, s.Advance())
	assert.Equal(t, StageDiscuss, s.Stage())
	require.NoError(t, s.Advance())
	assert.Equal(t, StageSolve, s.Stage())
	assert.ErrorIs(t, s.Advance(), ErrWrongStage)

	_, ok, err := s.Resolve(entities.OutcomeSolved)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, s.Done())
	assert.Equal(t, StageDone, s.Stage())
}

func TestResolveSkipsResolvedAndWraps(t *testing.T) {
	ids := queue(4)
	s := New(ids)
	require.NoError(t, s.Begin())

	// resolve #2 out of order, then come back to #0
	require.NoError(t, s.Focus(ids[2]))
	next, ok, err := s.Resolve(entities.OutcomeKilled)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ids[3], next)

	next, ok, err = s.Resolve(entities.OutcomePushed)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ids[0], next, "wraps to the earliest unresolved issue")

	next, ok, err = s.Resolve(entities.OutcomeSolved)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ids[1], next, "resolved #2 and #3 keep their slots and are skipped")

	_, ok, err = s.Resolve(entities.OutcomeTodoCreated)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, s.Done())

	items := s.Items()
	require.Len(t, items, 4)
	assert.Equal(t, ids[2], items[2].IssueID)
	assert.Equal(t, entities.OutcomeKilled, *items[2].Outcome)
}

func TestResolveRejectsInvalid(t *testing.T) {
	s := New(queue(2))

	_, _, err := s.Resolve(entities.OutcomeSolved)
	assert.ErrorIs(t, err, ErrNoActiveIssue, "nothing is active while prioritizing")

	require.NoError(t, s.Begin())
	_, _, err = s.Resolve(entities.IssueOutcome("deferred"))
	assert.ErrorIs(t, err, ErrInvalidOutcome)

	assert.ErrorIs(t, s.Focus(uuid.New()), ErrUnknownIssue)
}

func TestEmptyQueueIsDone(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Begin())
	assert.True(t, s.Done())
	_, ok := s.Next()
	assert.False(t, ok)
}
