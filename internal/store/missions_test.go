package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"aetherops.io/arcanum/internal/domain"
	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

func TestCreateMission_Defaults(t *testing.T) {
	s := newTestStore(t)
	freezeClock(s, storeNow)
	ctx := context.Background()

	created, err := s.CreateMission(ctx, domain.MissionCreate{Title: "Ward the Eastern Gate"})
	require.NoError(t, err)

	got, err := s.GetMission(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MissionStatusPending, got.Status)
	require.Equal(t, domain.MissionPriorityMedium, got.Priority)
	require.True(t, got.ProgressPercentage.IsZero())
	require.Nil(t, got.ProtocolID)
	require.NotNil(t, got.Objectives)
	require.Empty(t, got.Objectives)
	require.Equal(t, storeNow, got.CreatedAt)
	require.Nil(t, got.StartedAt)
	require.Nil(t, got.ActualCompletion)
}

func TestCreateMission_DanglingProtocol(t *testing.T) {
	s := newTestStore(t)

	missing := int64(999)
	_, err := s.CreateMission(context.Background(), domain.MissionCreate{
		Title:      "Unmoored",
		ProtocolID: &missing,
	})
	require.ErrorIs(t, err, apperrors.ErrReference)
}

func TestCreateMission_ObjectivesOrderPreserved(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateMission(ctx, domain.MissionCreate{
		Title:      "Staged Advance",
		Objectives: []string{"scout the pass", "secure the bridge", "signal the keep"},
	})
	require.NoError(t, err)

	got, err := s.GetMission(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"scout the pass", "secure the bridge", "signal the keep"}, got.Objectives)
}

func TestUpdateMission_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	freezeClock(s, storeNow)
	ctx := context.Background()

	created, err := s.CreateMission(ctx, domain.MissionCreate{Title: "Cleanse the Spring"})
	require.NoError(t, err)

	started := storeNow.Add(time.Hour)
	active, err := s.UpdateMission(ctx, created.ID, domain.MissionPatch{
		Status:             domain.Set(domain.MissionStatusActive),
		StartedAt:          domain.Set(&started),
		ProgressPercentage: domain.Set(decimal.RequireFromString("35.5")),
	})
	require.NoError(t, err)
	require.Equal(t, domain.MissionStatusActive, active.Status)
	require.Equal(t, started, *active.StartedAt)

	done := started.Add(2 * time.Hour)
	completed, err := s.UpdateMission(ctx, created.ID, domain.MissionPatch{
		Status:             domain.Set(domain.MissionStatusCompleted),
		ActualCompletion:   domain.Set(&done),
		ProgressPercentage: domain.Set(decimal.NewFromInt(100)),
	})
	require.NoError(t, err)
	require.Equal(t, done, *completed.ActualCompletion)
}

func TestUpdateMission_CompletionRequiresCompletedStatus(t *testing.T) {
	s := newTestStore(t)
	freezeClock(s, storeNow)
	ctx := context.Background()

	created, err := s.CreateMission(ctx, domain.MissionCreate{Title: "Half Done"})
	require.NoError(t, err)

	done := storeNow.Add(time.Hour)
	_, err = s.UpdateMission(ctx, created.ID, domain.MissionPatch{
		ActualCompletion: domain.Set(&done),
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, "actual_completion", appErr.FieldErrors[0].Field)
	require.Equal(t, "requires_status=completed", appErr.FieldErrors[0].Constraint)
}

func TestUpdateMission_StartAfterCompletionRejected(t *testing.T) {
	s := newTestStore(t)
	freezeClock(s, storeNow)
	ctx := context.Background()

	created, err := s.CreateMission(ctx, domain.MissionCreate{Title: "Time Loop"})
	require.NoError(t, err)

	done := storeNow.Add(time.Hour)
	startedLate := done.Add(time.Minute)
	_, err = s.UpdateMission(ctx, created.ID, domain.MissionPatch{
		Status:           domain.Set(domain.MissionStatusCompleted),
		StartedAt:        domain.Set(&startedLate),
		ActualCompletion: domain.Set(&done),
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateMission_ClearEstimatedCompletion(t *testing.T) {
	s := newTestStore(t)
	freezeClock(s, storeNow)
	ctx := context.Background()

	estimate := storeNow.Add(24 * time.Hour)
	created, err := s.CreateMission(ctx, domain.MissionCreate{
		Title:               "Open Ended",
		EstimatedCompletion: &estimate,
	})
	require.NoError(t, err)
	require.NotNil(t, created.EstimatedCompletion)

	updated, err := s.UpdateMission(ctx, created.ID, domain.MissionPatch{
		EstimatedCompletion: domain.Set[*time.Time](nil),
	})
	require.NoError(t, err)
	require.Nil(t, updated.EstimatedCompletion)

	got, err := s.GetMission(ctx, created.ID)
	require.NoError(t, err)
	require.Nil(t, got.EstimatedCompletion)
}

func TestDeleteMission_CascadesLogEntries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mission, err := s.CreateMission(ctx, domain.MissionCreate{Title: "Short Lived"})
	require.NoError(t, err)
	entry, err := s.AppendLogEntry(ctx, domain.LogEntryCreate{
		MissionID: mission.ID,
		Message:   "departed at dawn",
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteMission(ctx, mission.ID))

	_, err = s.GetLogEntry(ctx, entry.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetMission_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetMission(context.Background(), 123)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperrors.CodeMissionNotFound, appErr.Code)
}
