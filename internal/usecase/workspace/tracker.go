package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
)

// ListIssues retrieves issues matching filters
func (s *WorkspaceService) ListIssues(ctx context.Context, orgID uuid.UUID, filters repositories.IssueFilters) ([]*entities.Issue, error) {
	issues, err := s.repos.Issues.Find(ctx, orgID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, nil
}

// CreateIssue raises an issue, queueing it on a meeting when one is given
func (s *WorkspaceService) CreateIssue(ctx context.Context, input IssueInput) (*entities.Issue, error) {
	title, err := required(input.Title, "title")
	if err != nil {
		return nil, err
	}

	issue := &entities.Issue{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		Title:          title,
		Description:    input.Description,
		Priority:       input.Priority,
		Status:         entities.IssueStatusOpen,
		RaisedBy:       input.RaisedBy,
	}
	if input.MeetingID != nil {
		if err := s.assignQueue(ctx, issue, *input.MeetingID); err != nil {
			return nil, err
		}
	}

	if err := s.repos.Issues.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return issue, nil
}

// QueueIssue appends an open issue to a meeting's IDS queue
func (s *WorkspaceService) QueueIssue(ctx context.Context, orgID, issueID, meetingID uuid.UUID) (*entities.Issue, error) {
	issue, err := s.repos.Issues.FindByID(ctx, orgID, issueID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecaseErrors.ErrIssueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	if issue.IsResolved() {
		return nil, usecaseErrors.Invalid("issue is already resolved")
	}
	if issue.MeetingID != nil && *issue.MeetingID == meetingID {
		return issue, nil
	}

	if err := s.assignQueue(ctx, issue, meetingID); err != nil {
		return nil, err
	}
	issue.Raiser = nil
	issue.LinkedTodo = nil
	if err := s.repos.Issues.Update(ctx, issue); err != nil {
		return nil, fmt.Errorf("failed to queue issue: %w", err)
	}
	return issue, nil
}

// assignQueue places issue at the end of the meeting's queue. Closed meetings take no new issues.
func (s *WorkspaceService) assignQueue(ctx context.Context, issue *entities.Issue, meetingID uuid.UUID) error {
	meeting, err := s.repos.Meetings.FindByID(ctx, issue.OrganizationID, meetingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usecaseErrors.ErrMeetingNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get meeting: %w", err)
	}
	if meeting.Status == entities.MeetingStatusCompleted || meeting.Status == entities.MeetingStatusCancelled {
		return &usecaseErrors.StateError{Action: "queue issues for", Status: string(meeting.Status)}
	}

	position, err := s.repos.Issues.NextQueuePosition(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("failed to get queue position: %w", err)
	}
	issue.MeetingID = &meetingID
	issue.QueuePosition = &position
	return nil
}

// DeleteIssue deletes an issue
func (s *WorkspaceService) DeleteIssue(ctx context.Context, orgID, id uuid.UUID) error {
	err := s.repos.Issues.Delete(ctx, orgID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usecaseErrors.ErrIssueNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	return nil
}

// ListTodos retrieves to-dos matching filters
func (s *WorkspaceService) ListTodos(ctx context.Context, orgID uuid.UUID, filters repositories.TodoFilters) ([]*entities.Todo, error) {
	todos, err := s.repos.Todos.Find(ctx, orgID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// CreateTodo creates an open to-do
func (s *WorkspaceService) CreateTodo(ctx context.Context, input TodoInput) (*entities.Todo, error) {
	title, err := required(input.Title, "title")
	if err != nil {
		return nil, err
	}
	if err := s.checkMember(ctx, input.OrganizationID, input.OwnerID, "owner_id"); err != nil {
		return nil, err
	}

	todo := &entities.Todo{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		Title:          title,
		OwnerID:        input.OwnerID,
		DueDate:        input.DueDate,
		Status:         entities.TodoStatusOpen,
		MeetingID:      input.MeetingID,
	}
	if err := s.repos.Todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return todo, nil
}

// UpdateTodo applies a partial update. Marking done stamps CompletedAt.
func (s *WorkspaceService) UpdateTodo(ctx context.Context, orgID, id uuid.UUID, patch TodoPatch) (*entities.Todo, error) {
	todo, err := find(ctx, s.repos.Todos, orgID, id, "Todo")
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if todo.Title, err = required(*patch.Title, "title"); err != nil {
			return nil, err
		}
	}
	if patch.Status != nil && *patch.Status != todo.Status {
		if !patch.Status.IsValid() {
			return nil, usecaseErrors.Invalid("invalid status: %s", *patch.Status)
		}
		todo.SetStatus(*patch.Status, s.now().UTC())
	}
	if patch.OwnerID != nil {
		if err := s.checkMember(ctx, orgID, patch.OwnerID, "owner_id"); err != nil {
			return nil, err
		}
		todo.OwnerID = patch.OwnerID
	}
	if patch.DueDate != nil {
		todo.DueDate = patch.DueDate
	}

	todo.Owner = nil
	if err := s.repos.Todos.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return todo, nil
}

// ListHeadlines retrieves headlines, newest first
func (s *WorkspaceService) ListHeadlines(ctx context.Context, orgID uuid.UUID, opts repositories.ListOptions) ([]*entities.Headline, error) {
	headlines, err := s.repos.Headlines.List(ctx, orgID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list headlines: %w", err)
	}
	return headlines, nil
}

// CreateHeadline shares a customer or employee headline
func (s *WorkspaceService) CreateHeadline(ctx context.Context, input HeadlineInput) (*entities.Headline, error) {
	content, err := required(input.Content, "content")
	if err != nil {
		return nil, err
	}
	if !input.Kind.IsValid() {
		return nil, usecaseErrors.Invalid("invalid kind: %s", input.Kind)
	}

	headline := &entities.Headline{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		MeetingID:      input.MeetingID,
		Kind:           input.Kind,
		Content:        content,
		AuthorID:       input.AuthorID,
	}
	if err := s.repos.Headlines.Create(ctx, headline); err != nil {
		return nil, fmt.Errorf("failed to create headline: %w", err)
	}
	return headline, nil
}
