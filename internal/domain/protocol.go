package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransformationProtocol is a reusable, ordered ritual definition with
// cost and success metadata. Steps belong to exactly one protocol; missions
// may optionally be driven by one.
type TransformationProtocol struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"duration_minutes"`
	EnergyCost      decimal.Decimal `json:"energy_cost"`
	SuccessRate     decimal.Decimal `json:"success_rate"`
	Requirements    []string        `json:"requirements"` // ordered, position is meaningful
	Effects         Attrs           `json:"effects"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"` // set at creation, immutable
	LastModified    time.Time       `json:"last_modified"`
}

// Validate checks every field constraint, including the last_modified ≥
// created_at invariant the store maintains.
func (p *TransformationProtocol) Validate() error {
	var v violations
	v.required("name", p.Name)
	v.maxLen("name", p.Name, 150)
	v.maxLen("description", p.Description, 2000)
	v.atLeast("duration_minutes", p.DurationMinutes, 1)
	v.nonNegative("energy_cost", p.EnergyCost)
	v.percent("success_rate", p.SuccessRate)
	if p.LastModified.Before(p.CreatedAt) {
		v.add("last_modified", "not_before=created_at", p.LastModified)
	}
	return v.err("transformation protocol")
}

// ProtocolCreate is the user-supplied shape for defining a protocol.
type ProtocolCreate struct {
	Name            string           `json:"name"`
	Description     *string          `json:"description,omitempty"`      // default ""
	DurationMinutes *int             `json:"duration_minutes,omitempty"` // default 60
	EnergyCost      *decimal.Decimal `json:"energy_cost,omitempty"`      // default 10.0
	SuccessRate     *decimal.Decimal `json:"success_rate,omitempty"`     // default 85.0
	Requirements    []string         `json:"requirements,omitempty"`     // default []
	Effects         Attrs            `json:"effects,omitempty"`          // default {}
}

// Materialize builds the persisted entity with defaults applied.
// last_modified starts equal to created_at.
func (c ProtocolCreate) Materialize(now time.Time) *TransformationProtocol {
	p := &TransformationProtocol{
		Name:            c.Name,
		DurationMinutes: 60,
		EnergyCost:      dec(10),
		SuccessRate:     dec(85),
		Requirements:    cloneList(c.Requirements),
		Effects:         cloneAttrs(c.Effects),
		IsActive:        true,
		CreatedAt:       now,
		LastModified:    now,
	}
	if c.Description != nil {
		p.Description = *c.Description
	}
	if c.DurationMinutes != nil {
		p.DurationMinutes = *c.DurationMinutes
	}
	if c.EnergyCost != nil {
		p.EnergyCost = *c.EnergyCost
	}
	if c.SuccessRate != nil {
		p.SuccessRate = *c.SuccessRate
	}
	return p
}

// ProtocolPatch is a partial update. The store advances last_modified on
// every successful update; it is not patchable directly.
type ProtocolPatch struct {
	Name            Opt[string]          `json:"name"`
	Description     Opt[string]          `json:"description"`
	DurationMinutes Opt[int]             `json:"duration_minutes"`
	EnergyCost      Opt[decimal.Decimal] `json:"energy_cost"`
	SuccessRate     Opt[decimal.Decimal] `json:"success_rate"`
	Requirements    Opt[[]string]        `json:"requirements"`
	Effects         Opt[Attrs]           `json:"effects"`
	IsActive        Opt[bool]            `json:"is_active"`
}

// Apply overlays the set fields onto p.
func (pa ProtocolPatch) Apply(p *TransformationProtocol) {
	if pa.Name.IsSet() {
		p.Name = pa.Name.Value()
	}
	if pa.Description.IsSet() {
		p.Description = pa.Description.Value()
	}
	if pa.DurationMinutes.IsSet() {
		p.DurationMinutes = pa.DurationMinutes.Value()
	}
	if pa.EnergyCost.IsSet() {
		p.EnergyCost = pa.EnergyCost.Value()
	}
	if pa.SuccessRate.IsSet() {
		p.SuccessRate = pa.SuccessRate.Value()
	}
	if pa.Requirements.IsSet() {
		p.Requirements = cloneList(pa.Requirements.Value())
	}
	if pa.Effects.IsSet() {
		p.Effects = cloneAttrs(pa.Effects.Value())
	}
	if pa.IsActive.IsSet() {
		p.IsActive = pa.IsActive.Value()
	}
}
