package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpt_ZeroValueIsUnset(t *testing.T) {
	var o Opt[string]
	require.False(t, o.IsSet())
	require.Empty(t, o.Value())
}

func TestOpt_SetZeroValueIsSet(t *testing.T) {
	o := Set("")
	require.True(t, o.IsSet())
	require.Empty(t, o.Value())
}

func TestOpt_UnmarshalPresenceSemantics(t *testing.T) {
	// Only keys present in the JSON mark their Opt as set.
	var p GlyphPatch
	require.NoError(t, json.Unmarshal([]byte(`{"is_active": false}`), &p))

	require.True(t, p.IsActive.IsSet())
	require.False(t, p.IsActive.Value())
	require.False(t, p.Name.IsSet(), "absent key must stay unset")
	require.False(t, p.PowerLevel.IsSet())
}

func TestOpt_UnmarshalExplicitNullClearsNullable(t *testing.T) {
	var p MissionPatch
	require.NoError(t, json.Unmarshal([]byte(`{"estimated_completion": null}`), &p))

	require.True(t, p.EstimatedCompletion.IsSet())
	require.Nil(t, p.EstimatedCompletion.Value())
}

func TestOpt_RoundTrip(t *testing.T) {
	when := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	o := Set(&when)

	data, err := json.Marshal(o)
	require.NoError(t, err)

	var back Opt[*time.Time]
	require.NoError(t, json.Unmarshal(data, &back))
	require.True(t, back.IsSet())
	require.True(t, when.Equal(*back.Value()))
}
