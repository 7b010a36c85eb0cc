package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

func TestMissionCreate_Defaults(t *testing.T) {
	m := MissionCreate{Title: "Scout the eastern pass"}.Materialize(testNow)

	require.Equal(t, MissionStatusPending, m.Status)
	require.Equal(t, MissionPriorityMedium, m.Priority)
	require.True(t, m.ProgressPercentage.IsZero())
	require.NotNil(t, m.Objectives)
	require.Empty(t, m.Objectives)
	require.NotNil(t, m.Metadata)
	require.Nil(t, m.ProtocolID)
	require.Nil(t, m.StartedAt)
	require.Nil(t, m.ActualCompletion)
	require.Equal(t, testNow, m.CreatedAt)
	require.NoError(t, m.Validate())
}

func TestMissionCreate_ObjectivesOrderPreserved(t *testing.T) {
	m := MissionCreate{
		Title:      "Extraction",
		Objectives: []string{"scout", "report", "extract"},
	}.Materialize(testNow)

	require.Equal(t, []string{"scout", "report", "extract"}, m.Objectives)
}

func TestMission_Validate_ActualCompletionRequiresCompleted(t *testing.T) {
	m := MissionCreate{Title: "Test"}.Materialize(testNow)
	done := testNow.Add(time.Hour)
	m.ActualCompletion = &done

	err := m.Validate()
	require.ErrorIs(t, err, apperrors.ErrValidation)

	appErr, _ := apperrors.IsAppError(err)
	require.Equal(t, "actual_completion", appErr.FieldErrors[0].Field)
	require.Equal(t, "requires_status=completed", appErr.FieldErrors[0].Constraint)

	m.Status = MissionStatusCompleted
	require.NoError(t, m.Validate())
}

func TestMission_Validate_StartedBeforeCompleted(t *testing.T) {
	m := MissionCreate{Title: "Test"}.Materialize(testNow)
	m.Status = MissionStatusCompleted

	started := testNow.Add(2 * time.Hour)
	done := testNow.Add(time.Hour)
	m.StartedAt = &started
	m.ActualCompletion = &done

	require.ErrorIs(t, m.Validate(), apperrors.ErrValidation)

	// started == completed is allowed.
	m.StartedAt = &done
	require.NoError(t, m.Validate())
}

func TestMission_Validate_EnumsAndLengths(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Mission)
	}{
		{"unknown status", func(m *Mission) { m.Status = MissionStatus("paused") }},
		{"unknown priority", func(m *Mission) { m.Priority = MissionPriority("urgent") }},
		{"title too long", func(m *Mission) { m.Title = strings.Repeat("t", 201) }},
		{"assigned entity too long", func(m *Mission) { m.AssignedEntity = strings.Repeat("a", 101) }},
		{"target location too long", func(m *Mission) { m.TargetLocation = strings.Repeat("l", 201) }},
		{"progress above hundred", func(m *Mission) { m.ProgressPercentage = decimal.RequireFromString("100.1") }},
		{"empty title", func(m *Mission) { m.Title = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MissionCreate{Title: "Test"}.Materialize(testNow)
			tt.mutate(m)
			require.ErrorIs(t, m.Validate(), apperrors.ErrValidation)
		})
	}
}

func TestMissionPatch_SingleFieldLeavesRest(t *testing.T) {
	m := MissionCreate{
		Title:      "Hold the bridge",
		Objectives: []string{"hold", "signal"},
	}.Materialize(testNow)

	patch := MissionPatch{Status: Set(MissionStatusActive)}
	patch.Apply(m)

	require.Equal(t, MissionStatusActive, m.Status)
	require.Equal(t, "Hold the bridge", m.Title)
	require.Equal(t, MissionPriorityMedium, m.Priority)
	require.Equal(t, []string{"hold", "signal"}, m.Objectives)
	require.True(t, m.ProgressPercentage.IsZero())
}

func TestMissionPatch_ClearEstimatedCompletion(t *testing.T) {
	eta := testNow.Add(48 * time.Hour)
	m := MissionCreate{Title: "Test", EstimatedCompletion: &eta}.Materialize(testNow)

	patch := MissionPatch{EstimatedCompletion: Set[*time.Time](nil)}
	patch.Apply(m)

	require.Nil(t, m.EstimatedCompletion, "Set(nil) must clear the nullable field")
}
