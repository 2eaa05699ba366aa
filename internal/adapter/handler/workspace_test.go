package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
	workspaceUsecase "github.com/johnquangdev/l10-platform/internal/usecase/workspace"
)

type fakeWorkspace struct {
	workspaceUsecase.Service
	deleted  []uuid.UUID
	rock     workspaceUsecase.RockInput
	value    workspaceUsecase.MetricValueInput
	inviteFn func(workspaceUsecase.InviteInput) (*entities.Profile, error)
	pillarID uuid.UUID
	sourceID uuid.UUID
}

func (f *fakeWorkspace) DeleteGoal(_ context.Context, orgID, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeWorkspace) CreateRock(_ context.Context, input workspaceUsecase.RockInput) (*entities.Rock, error) {
	f.rock = input
	return &entities.Rock{ID: uuid.New(), OrganizationID: input.OrganizationID, Title: input.Title, Level: input.Level}, nil
}

func (f *fakeWorkspace) RecordMetricValue(_ context.Context, input workspaceUsecase.MetricValueInput) (*entities.MetricValue, error) {
	f.value = input
	return &entities.MetricValue{ID: uuid.New(), MetricID: input.MetricID, Value: input.Value}, nil
}

func (f *fakeWorkspace) GetPillar(_ context.Context, orgID, id uuid.UUID) (*entities.Pillar, error) {
	if id != f.pillarID {
		return nil, usecaseErrors.NotFound("Pillar")
	}
	return &entities.Pillar{ID: id, OrganizationID: orgID, Name: "Sales"}, nil
}

func (f *fakeWorkspace) GetDataSource(_ context.Context, orgID, id uuid.UUID) (*entities.DataSource, error) {
	if id != f.sourceID {
		return nil, usecaseErrors.NotFound("Data source")
	}
	return &entities.DataSource{ID: id, OrganizationID: orgID, Name: "HubSpot deals", Kind: entities.DataSourceHubSpot}, nil
}

func (f *fakeWorkspace) InviteMember(_ context.Context, input workspaceUsecase.InviteInput) (*entities.Profile, error) {
	return f.inviteFn(input)
}

func TestDeleteGoal_RequiresAdmin(t *testing.T) {
	ws := &fakeWorkspace{}
	id := uuid.New()

	e := newTestServer(newProfile(entities.AccessMember), services{workspace: ws})
	rec := do(e, http.MethodDelete, "/api/goals/"+id.String(), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, ws.deleted)

	e = newTestServer(newProfile(entities.AccessAdmin), services{workspace: ws})
	rec = do(e, http.MethodDelete, "/api/goals/"+id.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, []uuid.UUID{id}, ws.deleted)
}

func TestGetPillarAndDataSource(t *testing.T) {
	ws := &fakeWorkspace{pillarID: uuid.New(), sourceID: uuid.New()}
	e := newTestServer(newProfile(entities.AccessViewer), services{workspace: ws})

	rec := do(e, http.MethodGet, "/api/pillars/"+ws.pillarID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"name":"Sales"`)

	rec = do(e, http.MethodGet, "/api/data-sources/"+ws.sourceID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"name":"HubSpot deals"`)

	rec = do(e, http.MethodGet, "/api/pillars/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Pillar not found", decodeError(t, rec).Error)

	rec = do(e, http.MethodGet, "/api/data-sources/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateRock(t *testing.T) {
	ws := &fakeWorkspace{}
	e := newTestServer(newProfile(entities.AccessMember), services{workspace: ws})

	rec := do(e, http.MethodPost, "/api/rocks", `{"title":"Launch v2","level":"company","quarter":"2026-Q2"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, testOrgID, ws.rock.OrganizationID)
	assert.Equal(t, entities.RockLevel("company"), ws.rock.Level)
	assert.Equal(t, "2026-Q2", ws.rock.Quarter)
	assert.Contains(t, rec.Body.String(), `"title":"Launch v2"`)
}

func TestCreateRock_InvalidLevel(t *testing.T) {
	ws := &fakeWorkspace{}
	e := newTestServer(newProfile(entities.AccessMember), services{workspace: ws})

	rec := do(e, http.MethodPost, "/api/rocks", `{"title":"Launch v2","level":"galaxy"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INVALID_ARGUMENT", body.Code)
	assert.Equal(t, "rock_level", body.Details["level"])
	assert.Empty(t, ws.rock.Title)
}

func TestRecordMetricValue(t *testing.T) {
	ws := &fakeWorkspace{}
	profile := newProfile(entities.AccessMember)
	e := newTestServer(profile, services{workspace: ws})
	metricID := uuid.New()

	rec := do(e, http.MethodPost, "/api/metrics/"+metricID.String()+"/values", `{"value":0}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, metricID, ws.value.MetricID)
	assert.Equal(t, profile.ID, ws.value.RecordedBy)
	assert.Zero(t, ws.value.Value)
}

func TestRecordMetricValue_MissingValue(t *testing.T) {
	ws := &fakeWorkspace{}
	e := newTestServer(newProfile(entities.AccessMember), services{workspace: ws})

	rec := do(e, http.MethodPost, "/api/metrics/"+uuid.NewString()+"/values", `{"note":"forgot"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "required", decodeError(t, rec).Details["value"])
}

func TestInviteMember(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"created", `{"email":"grace@example.com","full_name":"Grace Hopper","access_level":"member"}`, nil, http.StatusCreated, ""},
		{"duplicate", `{"email":"ada@example.com","full_name":"Ada"}`, usecaseErrors.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
		{"bad email", `{"email":"grace","full_name":"Grace"}`, nil, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"bad level", `{"email":"grace@example.com","full_name":"Grace","access_level":"owner"}`, nil, http.StatusBadRequest, "INVALID_ARGUMENT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := &fakeWorkspace{inviteFn: func(in workspaceUsecase.InviteInput) (*entities.Profile, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return &entities.Profile{ID: uuid.New(), Email: in.Email, AccessLevel: in.AccessLevel}, nil
			}}
			e := newTestServer(newProfile(entities.AccessAdmin), services{workspace: ws})

			rec := do(e, http.MethodPost, "/api/team-members", tt.body)

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, rec).Code)
			}
		})
	}
}

func TestInviteMember_MemberIsForbidden(t *testing.T) {
	e := newTestServer(newProfile(entities.AccessMember), services{workspace: &fakeWorkspace{}})

	rec := do(e, http.MethodPost, "/api/team-members", `{"email":"grace@example.com","full_name":"Grace"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin access required", decodeError(t, rec).Error)
}
