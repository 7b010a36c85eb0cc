package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

func TestProtocolCreate_Defaults(t *testing.T) {
	p := ProtocolCreate{Name: "Solar Cleansing"}.Materialize(testNow)

	require.Equal(t, 60, p.DurationMinutes)
	require.True(t, p.EnergyCost.Equal(decimal.NewFromInt(10)))
	require.True(t, p.SuccessRate.Equal(decimal.NewFromInt(85)))
	require.NotNil(t, p.Requirements)
	require.Empty(t, p.Requirements)
	require.True(t, p.IsActive)
	require.Equal(t, testNow, p.CreatedAt)
	require.Equal(t, testNow, p.LastModified)
	require.NoError(t, p.Validate())
}

func TestProtocolCreate_RequirementsOrderPreserved(t *testing.T) {
	reqs := []string{"moonstone", "ash circle", "moonstone", "silver thread"}
	p := ProtocolCreate{Name: "Lunar Binding", Requirements: reqs}.Materialize(testNow)

	// Exact order, duplicates kept.
	require.Equal(t, reqs, p.Requirements)

	// Materialize copies; mutating the input must not leak in.
	reqs[0] = "tampered"
	require.Equal(t, "moonstone", p.Requirements[0])
}

func TestProtocol_Validate_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TransformationProtocol)
		field  string
	}{
		{"duration below one", func(p *TransformationProtocol) { p.DurationMinutes = 0 }, "duration_minutes"},
		{"negative energy cost", func(p *TransformationProtocol) { p.EnergyCost = decimal.NewFromInt(-1) }, "energy_cost"},
		{"success rate above hundred", func(p *TransformationProtocol) { p.SuccessRate = decimal.RequireFromString("100.5") }, "success_rate"},
		{"success rate below zero", func(p *TransformationProtocol) { p.SuccessRate = decimal.RequireFromString("-0.5") }, "success_rate"},
		{"name too long", func(p *TransformationProtocol) { p.Name = strings.Repeat("n", 151) }, "name"},
		{"description too long", func(p *TransformationProtocol) { p.Description = strings.Repeat("d", 2001) }, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProtocolCreate{Name: "Test"}.Materialize(testNow)
			tt.mutate(p)

			err := p.Validate()
			require.ErrorIs(t, err, apperrors.ErrValidation)

			appErr, _ := apperrors.IsAppError(err)
			require.Equal(t, tt.field, appErr.FieldErrors[0].Field)
		})
	}
}

func TestProtocol_Validate_SuccessRateBoundary(t *testing.T) {
	p := ProtocolCreate{Name: "Edge"}.Materialize(testNow)

	p.SuccessRate = decimal.Zero
	require.NoError(t, p.Validate())

	p.SuccessRate = decimal.NewFromInt(100)
	require.NoError(t, p.Validate())
}

func TestProtocol_Validate_LastModifiedBeforeCreated(t *testing.T) {
	p := ProtocolCreate{Name: "Test"}.Materialize(testNow)
	p.LastModified = testNow.Add(-1)

	require.ErrorIs(t, p.Validate(), apperrors.ErrValidation)
}

func TestProtocolPatch_SingleFieldLeavesRest(t *testing.T) {
	p := ProtocolCreate{Name: "Solar Cleansing", Requirements: []string{"dawn light"}}.Materialize(testNow)

	patch := ProtocolPatch{SuccessRate: Set(decimal.NewFromInt(90))}
	patch.Apply(p)

	require.True(t, p.SuccessRate.Equal(decimal.NewFromInt(90)))
	require.Equal(t, "Solar Cleansing", p.Name)
	require.Equal(t, 60, p.DurationMinutes)
	require.Equal(t, []string{"dawn light"}, p.Requirements)
	require.NoError(t, p.Validate())
}
