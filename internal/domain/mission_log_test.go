package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

func TestLogEntryCreate_Defaults(t *testing.T) {
	e := LogEntryCreate{MissionID: 7, Message: "crossed the ridge"}.Materialize(testNow)

	require.Equal(t, "update", e.EntryType)
	require.True(t, e.ProgressDelta.IsZero())
	require.NotNil(t, e.Metadata)
	require.Equal(t, testNow, e.CreatedAt)
	require.NoError(t, e.Validate())
}

func TestLogEntryCreate_NegativeDeltaAllowed(t *testing.T) {
	delta := decimal.RequireFromString("-12.5")
	e := LogEntryCreate{MissionID: 7, Message: "setback at the ford", ProgressDelta: &delta}.Materialize(testNow)

	require.True(t, e.ProgressDelta.Equal(delta), "progress_delta is signed")
	require.NoError(t, e.Validate())
}

func TestLogEntry_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MissionLogEntry)
	}{
		{"missing mission id", func(e *MissionLogEntry) { e.MissionID = 0 }},
		{"empty message", func(e *MissionLogEntry) { e.Message = "" }},
		{"message too long", func(e *MissionLogEntry) { e.Message = strings.Repeat("m", 1001) }},
		{"entry type too long", func(e *MissionLogEntry) { e.EntryType = strings.Repeat("t", 51) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := LogEntryCreate{MissionID: 7, Message: "ok"}.Materialize(testNow)
			tt.mutate(e)
			require.ErrorIs(t, e.Validate(), apperrors.ErrValidation)
		})
	}
}

func TestLogEntry_Validate_MaxLengthsPass(t *testing.T) {
	et := strings.Repeat("t", 50)
	e := LogEntryCreate{MissionID: 7, Message: strings.Repeat("m", 1000), EntryType: &et}.Materialize(testNow)
	require.NoError(t, e.Validate())
}
