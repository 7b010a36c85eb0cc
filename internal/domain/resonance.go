package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmotionalState labels the dominant quality of a resonance reading.
type EmotionalState string

// Emotional states.
const (
	EmotionalStateHarmonious EmotionalState = "harmonious"
	EmotionalStateTurbulent  EmotionalState = "turbulent"
	EmotionalStateResonant   EmotionalState = "resonant"
	EmotionalStateChaotic    EmotionalState = "chaotic"
	EmotionalStateSerene     EmotionalState = "serene"
)

// Valid reports whether s is a declared state member.
func (s EmotionalState) Valid() bool {
	switch s {
	case EmotionalStateHarmonious, EmotionalStateTurbulent,
		EmotionalStateResonant, EmotionalStateChaotic, EmotionalStateSerene:
		return true
	}
	return false
}

// EmotionalResonance is a point-in-time emotional reading for an entity.
// Readings are immutable snapshots: there is no patch shape.
type EmotionalResonance struct {
	ID              int64           `json:"id"`
	EntityName      string          `json:"entity_name"`
	CurrentState    EmotionalState  `json:"current_state"`
	ResonanceLevel  decimal.Decimal `json:"resonance_level"`
	HarmonyIndex    decimal.Decimal `json:"harmony_index"`
	Spectrum        Spectrum        `json:"emotional_spectrum"`
	SyncStability   decimal.Decimal `json:"sync_stability"`
	LastFluctuation *time.Time      `json:"last_fluctuation,omitempty"`
	RecordedAt      time.Time       `json:"recorded_at"` // set at creation, immutable
	Notes           string          `json:"notes"`
}

// Validate checks every field constraint on the reading.
func (r *EmotionalResonance) Validate() error {
	var v violations
	v.required("entity_name", r.EntityName)
	v.maxLen("entity_name", r.EntityName, 100)
	v.enum("current_state", r.CurrentState.Valid(), string(r.CurrentState))
	v.percent("resonance_level", r.ResonanceLevel)
	v.percent("harmony_index", r.HarmonyIndex)
	v.percent("sync_stability", r.SyncStability)
	v.maxLen("notes", r.Notes, 500)
	return v.err("emotional resonance")
}

// ResonanceCreate is the user-supplied shape for recording a reading.
type ResonanceCreate struct {
	EntityName      string           `json:"entity_name"`
	CurrentState    *EmotionalState  `json:"current_state,omitempty"`      // default serene
	ResonanceLevel  *decimal.Decimal `json:"resonance_level,omitempty"`    // default 50.0
	HarmonyIndex    *decimal.Decimal `json:"harmony_index,omitempty"`      // default 50.0
	Spectrum        Spectrum         `json:"emotional_spectrum,omitempty"` // default {}
	SyncStability   *decimal.Decimal `json:"sync_stability,omitempty"`     // default 75.0
	LastFluctuation *time.Time       `json:"last_fluctuation,omitempty"`
	Notes           *string          `json:"notes,omitempty"` // default ""
}

// Materialize builds the persisted reading with defaults applied and
// recorded_at stamped.
func (c ResonanceCreate) Materialize(now time.Time) *EmotionalResonance {
	r := &EmotionalResonance{
		EntityName:      c.EntityName,
		CurrentState:    EmotionalStateSerene,
		ResonanceLevel:  dec(50),
		HarmonyIndex:    dec(50),
		Spectrum:        cloneSpectrum(c.Spectrum),
		SyncStability:   dec(75),
		LastFluctuation: c.LastFluctuation,
		RecordedAt:      now,
	}
	if c.CurrentState != nil {
		r.CurrentState = *c.CurrentState
	}
	if c.ResonanceLevel != nil {
		r.ResonanceLevel = *c.ResonanceLevel
	}
	if c.HarmonyIndex != nil {
		r.HarmonyIndex = *c.HarmonyIndex
	}
	if c.SyncStability != nil {
		r.SyncStability = *c.SyncStability
	}
	if c.Notes != nil {
		r.Notes = *c.Notes
	}
	return r
}
