package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
)

const (
	defaultValueLimit = 52
	maxValueLimit     = 520
)

// ListMetrics retrieves metrics with their latest value and goal status
func (s *WorkspaceService) ListMetrics(ctx context.Context, orgID uuid.UUID, opts repositories.ListOptions) ([]*MetricView, error) {
	metrics, err := s.repos.Metrics.List(ctx, orgID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	return s.withLatest(ctx, metrics)
}

// GetMetric retrieves a metric with its latest value
func (s *WorkspaceService) GetMetric(ctx context.Context, orgID, id uuid.UUID) (*MetricView, error) {
	metric, err := find(ctx, s.repos.Metrics, orgID, id, "Metric")
	if err != nil {
		return nil, err
	}
	views, err := s.withLatest(ctx, []*entities.Metric{metric})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *WorkspaceService) withLatest(ctx context.Context, metrics []*entities.Metric) ([]*MetricView, error) {
	metricIDs := make([]uuid.UUID, len(metrics))
	for i, m := range metrics {
		metricIDs[i] = m.ID
	}
	latest, err := s.repos.Metrics.LatestValues(ctx, metricIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load metric values: %w", err)
	}

	views := make([]*MetricView, len(metrics))
	for i, m := range metrics {
		m.AttachLatest(latest[m.ID])
		views[i] = &MetricView{Metric: m, BelowGoal: m.BelowGoal()}
	}
	return views, nil
}

// CreateMetric creates a scorecard metric. Frequency defaults to weekly.
func (s *WorkspaceService) CreateMetric(ctx context.Context, input MetricInput) (*entities.Metric, error) {
	name, err := required(input.Name, "name")
	if err != nil {
		return nil, err
	}
	if input.Frequency == "" {
		input.Frequency = entities.FrequencyWeekly
	}
	if !input.Frequency.IsValid() {
		return nil, usecaseErrors.Invalid("invalid frequency: %s", input.Frequency)
	}
	if err := s.checkMember(ctx, input.OrganizationID, input.OwnerID, "owner_id"); err != nil {
		return nil, err
	}
	if err := s.checkDataSource(ctx, input.OrganizationID, input.DataSourceID); err != nil {
		return nil, err
	}

	metric := &entities.Metric{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		Name:           name,
		Description:    input.Description,
		OwnerID:        input.OwnerID,
		Goal:           input.Goal,
		Unit:           input.Unit,
		Frequency:      input.Frequency,
		IsActive:       true,
		DataSourceID:   input.DataSourceID,
	}
	if err := s.repos.Metrics.Create(ctx, metric); err != nil {
		return nil, fmt.Errorf("failed to create metric: %w", err)
	}
	return metric, nil
}

func (s *WorkspaceService) checkDataSource(ctx context.Context, orgID uuid.UUID, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := find(ctx, s.repos.DataSources, orgID, *id, "Data source"); err != nil {
		if errors.Is(err, usecaseErrors.ErrNotFound) {
			return usecaseErrors.Invalid("data_source_id does not reference a data source in the organization")
		}
		return err
	}
	return nil
}

// UpdateMetric applies a partial update to a metric. ClearGoal removes the goal.
func (s *WorkspaceService) UpdateMetric(ctx context.Context, orgID, id uuid.UUID, patch MetricPatch) (*entities.Metric, error) {
	metric, err := find(ctx, s.repos.Metrics, orgID, id, "Metric")
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if metric.Name, err = required(*patch.Name, "name"); err != nil {
			return nil, err
		}
	}
	if patch.Frequency != nil {
		if !patch.Frequency.IsValid() {
			return nil, usecaseErrors.Invalid("invalid frequency: %s", *patch.Frequency)
		}
		metric.Frequency = *patch.Frequency
	}
	if patch.OwnerID != nil {
		if err := s.checkMember(ctx, orgID, patch.OwnerID, "owner_id"); err != nil {
			return nil, err
		}
		metric.OwnerID = patch.OwnerID
	}
	if patch.DataSourceID != nil {
		if err := s.checkDataSource(ctx, orgID, patch.DataSourceID); err != nil {
			return nil, err
		}
		metric.DataSourceID = patch.DataSourceID
	}
	switch {
	case patch.ClearGoal:
		metric.Goal = nil
	case patch.Goal != nil:
		metric.Goal = patch.Goal
	}
	if patch.Description != nil {
		metric.Description = patch.Description
	}
	if patch.Unit != nil {
		metric.Unit = patch.Unit
	}
	if patch.IsActive != nil {
		metric.IsActive = *patch.IsActive
	}

	metric.Owner = nil
	if err := s.repos.Metrics.Update(ctx, metric); err != nil {
		return nil, fmt.Errorf("failed to update metric: %w", err)
	}
	return metric, nil
}

// DeleteMetric deletes a metric together with its values
func (s *WorkspaceService) DeleteMetric(ctx context.Context, orgID, id uuid.UUID) error {
	return remove(ctx, s.repos.Metrics, orgID, id, "Metric")
}

// RecordMetricValue appends a data point. RecordedAt defaults to now.
func (s *WorkspaceService) RecordMetricValue(ctx context.Context, input MetricValueInput) (*entities.MetricValue, error) {
	metric, err := find(ctx, s.repos.Metrics, input.OrganizationID, input.MetricID, "Metric")
	if err != nil {
		return nil, err
	}
	if !metric.IsActive {
		return nil, usecaseErrors.Invalid("metric %q is inactive", metric.Name)
	}

	recordedAt := s.now().UTC()
	if input.RecordedAt != nil {
		recordedAt = input.RecordedAt.UTC()
	}
	if input.Note != nil {
		note := strings.TrimSpace(*input.Note)
		input.Note = &note
	}
	recordedBy := input.RecordedBy

	value := &entities.MetricValue{
		ID:         uuid.New(),
		MetricID:   metric.ID,
		Value:      input.Value,
		RecordedAt: recordedAt,
		RecordedBy: &recordedBy,
		Note:       input.Note,
	}
	if err := s.repos.Metrics.RecordValue(ctx, value); err != nil {
		return nil, fmt.Errorf("failed to record metric value: %w", err)
	}

	s.logger.Debug("Metric value recorded",
		zap.String("metric_id", metric.ID.String()),
		zap.Float64("value", value.Value),
	)
	return value, nil
}

// ListMetricValues retrieves the value history of a metric, newest first
func (s *WorkspaceService) ListMetricValues(ctx context.Context, orgID, metricID uuid.UUID, limit int) ([]*entities.MetricValue, error) {
	if _, err := find(ctx, s.repos.Metrics, orgID, metricID, "Metric"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultValueLimit
	}
	limit = min(limit, maxValueLimit)

	values, err := s.repos.Metrics.ListValues(ctx, metricID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list metric values: %w", err)
	}
	return values, nil
}
