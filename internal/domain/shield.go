package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShieldStatus is the operational label of a quantum shield. Statuses are
// plain enumerations with no enforced transition table.
type ShieldStatus string

// Shield statuses.
const (
	ShieldStatusOptimal      ShieldStatus = "optimal"
	ShieldStatusDegraded     ShieldStatus = "degraded"
	ShieldStatusCritical     ShieldStatus = "critical"
	ShieldStatusOffline      ShieldStatus = "offline"
	ShieldStatusRegenerating ShieldStatus = "regenerating"
)

// Valid reports whether s is a declared status member.
func (s ShieldStatus) Valid() bool {
	switch s {
	case ShieldStatusOptimal, ShieldStatusDegraded, ShieldStatusCritical,
		ShieldStatusOffline, ShieldStatusRegenerating:
		return true
	}
	return false
}

// QuantumShield is a defensive-system status record. Healing modules attach
// to it as sub-systems.
type QuantumShield struct {
	ID                  int64           `json:"id"`
	ShieldName          string          `json:"shield_name"`
	Status              ShieldStatus    `json:"status"`
	IntegrityPercentage decimal.Decimal `json:"integrity_percentage"`
	EnergyLevel         decimal.Decimal `json:"energy_level"`
	PowerConsumption    decimal.Decimal `json:"power_consumption"`
	ProtectionRadiusKm  decimal.Decimal `json:"protection_radius_km"`
	LastBreachAttempt   *time.Time      `json:"last_breach_attempt,omitempty"`
	UptimeHours         decimal.Decimal `json:"uptime_hours"` // never decreases
	Configuration       Attrs           `json:"configuration"`
	StatusUpdatedAt     time.Time       `json:"status_updated_at"` // set at creation, immutable
}

// Validate checks every field constraint on the shield.
func (q *QuantumShield) Validate() error {
	var v violations
	v.required("shield_name", q.ShieldName)
	v.maxLen("shield_name", q.ShieldName, 100)
	v.enum("status", q.Status.Valid(), string(q.Status))
	v.percent("integrity_percentage", q.IntegrityPercentage)
	v.percent("energy_level", q.EnergyLevel)
	v.nonNegative("power_consumption", q.PowerConsumption)
	v.nonNegative("protection_radius_km", q.ProtectionRadiusKm)
	v.nonNegative("uptime_hours", q.UptimeHours)
	return v.err("quantum shield")
}

// ShieldCreate is the user-supplied shape for registering a shield.
type ShieldCreate struct {
	ShieldName          string           `json:"shield_name"`
	Status              *ShieldStatus    `json:"status,omitempty"`               // default optimal
	IntegrityPercentage *decimal.Decimal `json:"integrity_percentage,omitempty"` // default 100.0
	EnergyLevel         *decimal.Decimal `json:"energy_level,omitempty"`         // default 100.0
	PowerConsumption    *decimal.Decimal `json:"power_consumption,omitempty"`    // default 25.0
	ProtectionRadiusKm  *decimal.Decimal `json:"protection_radius_km,omitempty"` // default 10.0
	Configuration       Attrs            `json:"configuration,omitempty"`        // default {}
}

// Materialize builds the persisted shield with defaults applied. Uptime
// starts at zero and status_updated_at is stamped once.
func (c ShieldCreate) Materialize(now time.Time) *QuantumShield {
	q := &QuantumShield{
		ShieldName:          c.ShieldName,
		Status:              ShieldStatusOptimal,
		IntegrityPercentage: dec(100),
		EnergyLevel:         dec(100),
		PowerConsumption:    dec(25),
		ProtectionRadiusKm:  dec(10),
		UptimeHours:         decimal.Zero,
		Configuration:       cloneAttrs(c.Configuration),
		StatusUpdatedAt:     now,
	}
	if c.Status != nil {
		q.Status = *c.Status
	}
	if c.IntegrityPercentage != nil {
		q.IntegrityPercentage = *c.IntegrityPercentage
	}
	if c.EnergyLevel != nil {
		q.EnergyLevel = *c.EnergyLevel
	}
	if c.PowerConsumption != nil {
		q.PowerConsumption = *c.PowerConsumption
	}
	if c.ProtectionRadiusKm != nil {
		q.ProtectionRadiusKm = *c.ProtectionRadiusKm
	}
	return q
}

// ShieldPatch is a partial update. uptime_hours may only move forward; the
// store rejects a patch that would decrease it. last_breach_attempt moves
// only through RecordBreachAttempt.
type ShieldPatch struct {
	ShieldName          Opt[string]          `json:"shield_name"`
	Status              Opt[ShieldStatus]    `json:"status"`
	IntegrityPercentage Opt[decimal.Decimal] `json:"integrity_percentage"`
	EnergyLevel         Opt[decimal.Decimal] `json:"energy_level"`
	PowerConsumption    Opt[decimal.Decimal] `json:"power_consumption"`
	ProtectionRadiusKm  Opt[decimal.Decimal] `json:"protection_radius_km"`
	UptimeHours         Opt[decimal.Decimal] `json:"uptime_hours"`
	Configuration       Opt[Attrs]           `json:"configuration"`
}

// Apply overlays the set fields onto q.
func (p ShieldPatch) Apply(q *QuantumShield) {
	if p.ShieldName.IsSet() {
		q.ShieldName = p.ShieldName.Value()
	}
	if p.Status.IsSet() {
		q.Status = p.Status.Value()
	}
	if p.IntegrityPercentage.IsSet() {
		q.IntegrityPercentage = p.IntegrityPercentage.Value()
	}
	if p.EnergyLevel.IsSet() {
		q.EnergyLevel = p.EnergyLevel.Value()
	}
	if p.PowerConsumption.IsSet() {
		q.PowerConsumption = p.PowerConsumption.Value()
	}
	if p.ProtectionRadiusKm.IsSet() {
		q.ProtectionRadiusKm = p.ProtectionRadiusKm.Value()
	}
	if p.UptimeHours.IsSet() {
		q.UptimeHours = p.UptimeHours.Value()
	}
	if p.Configuration.IsSet() {
		q.Configuration = cloneAttrs(p.Configuration.Value())
	}
}
