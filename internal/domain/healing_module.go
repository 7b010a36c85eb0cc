package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HealingModule is a self-repair sub-system attached to a quantum shield.
type HealingModule struct {
	ID               int64           `json:"id"`
	ShieldID         int64           `json:"shield_id"`
	ModuleName       string          `json:"module_name"`
	IsOperational    bool            `json:"is_operational"`
	HealingRate      decimal.Decimal `json:"healing_rate"`
	EnergyEfficiency decimal.Decimal `json:"energy_efficiency"`
	TargetSystems    []string        `json:"target_systems"`
	LastActivation   *time.Time      `json:"last_activation,omitempty"`
	TotalHealings    int             `json:"total_healings"` // never decreases
	CreatedAt        time.Time       `json:"created_at"`     // set at creation, immutable
}

// Validate checks every field constraint on the module.
func (h *HealingModule) Validate() error {
	var v violations
	if h.ShieldID <= 0 {
		v.add("shield_id", "required", h.ShieldID)
	}
	v.required("module_name", h.ModuleName)
	v.maxLen("module_name", h.ModuleName, 100)
	v.nonNegative("healing_rate", h.HealingRate)
	v.percent("energy_efficiency", h.EnergyEfficiency)
	v.atLeast("total_healings", h.TotalHealings, 0)
	return v.err("healing module")
}

// HealingModuleCreate is the user-supplied shape for attaching a module to
// a shield.
type HealingModuleCreate struct {
	ShieldID         int64            `json:"shield_id"`
	ModuleName       string           `json:"module_name"`
	IsOperational    *bool            `json:"is_operational,omitempty"`    // default true
	HealingRate      *decimal.Decimal `json:"healing_rate,omitempty"`      // default 10.0
	EnergyEfficiency *decimal.Decimal `json:"energy_efficiency,omitempty"` // default 85.0
	TargetSystems    []string         `json:"target_systems,omitempty"`    // default []
}

// Materialize builds the persisted module with defaults applied.
// total_healings starts at zero and only moves through RecordActivation.
func (c HealingModuleCreate) Materialize(now time.Time) *HealingModule {
	h := &HealingModule{
		ShieldID:         c.ShieldID,
		ModuleName:       c.ModuleName,
		IsOperational:    true,
		HealingRate:      dec(10),
		EnergyEfficiency: dec(85),
		TargetSystems:    cloneList(c.TargetSystems),
		CreatedAt:        now,
	}
	if c.IsOperational != nil {
		h.IsOperational = *c.IsOperational
	}
	if c.HealingRate != nil {
		h.HealingRate = *c.HealingRate
	}
	if c.EnergyEfficiency != nil {
		h.EnergyEfficiency = *c.EnergyEfficiency
	}
	return h
}

// HealingModulePatch is a partial update. shield_id and created_at are
// immutable; total_healings and last_activation move only through
// RecordActivation.
type HealingModulePatch struct {
	ModuleName       Opt[string]          `json:"module_name"`
	IsOperational    Opt[bool]            `json:"is_operational"`
	HealingRate      Opt[decimal.Decimal] `json:"healing_rate"`
	EnergyEfficiency Opt[decimal.Decimal] `json:"energy_efficiency"`
	TargetSystems    Opt[[]string]        `json:"target_systems"`
}

// Apply overlays the set fields onto h.
func (p HealingModulePatch) Apply(h *HealingModule) {
	if p.ModuleName.IsSet() {
		h.ModuleName = p.ModuleName.Value()
	}
	if p.IsOperational.IsSet() {
		h.IsOperational = p.IsOperational.Value()
	}
	if p.HealingRate.IsSet() {
		h.HealingRate = p.HealingRate.Value()
	}
	if p.EnergyEfficiency.IsSet() {
		h.EnergyEfficiency = p.EnergyEfficiency.Value()
	}
	if p.TargetSystems.IsSet() {
		h.TargetSystems = cloneList(p.TargetSystems.Value())
	}
}
