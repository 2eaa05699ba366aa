// Package ids models the Identify-Discuss-Solve walk through a meeting's issue queue.
//
// Resolved issues keep their position in the queue; moving on always selects the
// next unresolved issue after the current one by queue index, wrapping around to
// earlier unresolved issues.
package ids

import (
	"errors"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

// Stage is the step the current issue is in
type Stage string

const (
	StagePrioritize Stage = "prioritize"
	StageIdentify   Stage = "identify"
	StageDiscuss    Stage = "discuss"
	StageSolve      Stage = "solve"
	StageDone       Stage = "done"
)

var (
	ErrWrongStage     = errors.New("operation not allowed in current stage")
	ErrOutOfRange     = errors.New("issue index out of range")
	ErrNoActiveIssue  = errors.New("no active issue")
	ErrUnknownIssue   = errors.New("issue is not in the queue")
	ErrInvalidOutcome = entities.ErrInvalidOutcome
)

// Item is one queued issue and its outcome once resolved
type Item struct {
	IssueID uuid.UUID
	Outcome *entities.IssueOutcome
}

// Resolved reports whether an outcome has been recorded
func (i Item) Resolved() bool {
	return i.Outcome != nil
}

// Session walks an ordered issue queue. It is not safe for concurrent use.
type Session struct {
	items   []Item
	current int
	stage   Stage
}

// New starts a session in the prioritize stage
func New(issueIDs []uuid.UUID) *Session {
	items := make([]Item, len(issueIDs))
	for i, id := range issueIDs {
		items[i] = Item{IssueID: id}
	}
	return &Session{items: items, current: -1, stage: StagePrioritize}
}

// Stage returns the current stage
func (s *Session) Stage() Stage { return s.stage }

// Items returns a copy of the queue in its current order
func (s *Session) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Current returns the issue under discussion
func (s *Session) Current() (Item, bool) {
	if s.current < 0 || s.stage == StageDone || s.stage == StagePrioritize {
		return Item{}, false
	}
	return s.items[s.current], true
}

// Done reports whether every issue has an outcome
func (s *Session) Done() bool {
	for _, it := range s.items {
		if !it.Resolved() {
			return false
		}
	}
	return true
}

// Swap reorders two issues. Only allowed while prioritizing.
func (s *Session) Swap(i, j int) error {
	if s.stage != StagePrioritize {
		return ErrWrongStage
	}
	if i < 0 || j < 0 || i >= len(s.items) || j >= len(s.items) {
		return ErrOutOfRange
	}
	s.items[i], s.items[j] = s.items[j], s.items[i]
	return nil
}

// Begin leaves prioritize and focuses the first unresolved issue
func (s *Session) Begin() error {
	if s.stage != StagePrioritize {
		return ErrWrongStage
	}
	s.current = -1
	s.moveNext()
	return nil
}

// Focus jumps to a specific issue, e.g. when the facilitator picks one out of order
func (s *Session) Focus(issueID uuid.UUID) error {
	for i, it := range s.items {
		if it.IssueID == issueID {
			s.current = i
			s.stage = StageIdentify
			return nil
		}
	}
	return ErrUnknownIssue
}

// Advance moves the current issue identify -> discuss -> solve
func (s *Session) Advance() error {
	switch s.stage {
	case StageIdentify:
		s.stage = StageDiscuss
	case StageDiscuss:
		s.stage = StageSolve
	default:
		return ErrWrongStage
	}
	return nil
}

// Resolve records the outcome for the current issue and moves on.
// It returns the next issue to discuss, or false when the queue is finished.
func (s *Session) Resolve(outcome entities.IssueOutcome) (uuid.UUID, bool, error) {
	if !outcome.IsValid() {
		return uuid.Nil, false, ErrInvalidOutcome
	}
	if _, ok := s.Current(); !ok {
		return uuid.Nil, false, ErrNoActiveIssue
	}

	s.items[s.current].Outcome = &outcome
	s.moveNext()

	next, ok := s.Current()
	return next.IssueID, ok, nil
}

// Next peeks at the issue that would follow the current one
func (s *Session) Next() (uuid.UUID, bool) {
	idx := s.nextUnresolved(s.current)
	if idx < 0 {
		return uuid.Nil, false
	}
	return s.items[idx].IssueID, true
}

func (s *Session) moveNext() {
	idx := s.nextUnresolved(s.current)
	if idx < 0 {
		s.stage = StageDone
		return
	}
	s.current = idx
	s.stage = StageIdentify
}

// nextUnresolved scans forward from after, wrapping, skipping after itself
func (s *Session) nextUnresolved(after int) int {
	n := len(s.items)
	for k := 1; k <= n; k++ {
		idx := (after + k) % n
		if idx < 0 {
			idx += n
		}
		if idx == after {
			continue
		}
		if !s.items[idx].Resolved() {
			return idx
		}
	}
	return -1
}
