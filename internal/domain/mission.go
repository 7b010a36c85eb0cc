package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MissionStatus is the lifecycle label of a mission. Statuses are plain
// enumerations: no transition table is enforced beyond the
// actual_completion ⇒ completed cross-field invariant.
type MissionStatus string

// Mission statuses.
const (
	MissionStatusPending   MissionStatus = "pending"
	MissionStatusActive    MissionStatus = "active"
	MissionStatusCompleted MissionStatus = "completed"
	MissionStatusFailed    MissionStatus = "failed"
	MissionStatusSuspended MissionStatus = "suspended"
)

// Valid reports whether s is a declared status member.
func (s MissionStatus) Valid() bool {
	switch s {
	case MissionStatusPending, MissionStatusActive, MissionStatusCompleted,
		MissionStatusFailed, MissionStatusSuspended:
		return true
	}
	return false
}

// MissionPriority ranks mission urgency.
type MissionPriority string

// Mission priorities.
const (
	MissionPriorityLow      MissionPriority = "low"
	MissionPriorityMedium   MissionPriority = "medium"
	MissionPriorityHigh     MissionPriority = "high"
	MissionPriorityCritical MissionPriority = "critical"
)

// Valid reports whether p is a declared priority member.
func (p MissionPriority) Valid() bool {
	switch p {
	case MissionPriorityLow, MissionPriorityMedium, MissionPriorityHigh,
		MissionPriorityCritical:
		return true
	}
	return false
}

// Mission is a trackable assignment with status, priority, and progress,
// optionally driven by a transformation protocol.
type Mission struct {
	ID                  int64           `json:"id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Status              MissionStatus   `json:"status"`
	Priority            MissionPriority `json:"priority"`
	ProtocolID          *int64          `json:"protocol_id,omitempty"`
	AssignedEntity      string          `json:"assigned_entity"`
	TargetLocation      string          `json:"target_location"`
	Objectives          []string        `json:"objectives"` // ordered, position is meaningful
	ProgressPercentage  decimal.Decimal `json:"progress_percentage"`
	EstimatedCompletion *time.Time      `json:"estimated_completion,omitempty"`
	ActualCompletion    *time.Time      `json:"actual_completion,omitempty"`
	CreatedAt           time.Time       `json:"created_at"` // set at creation, immutable
	StartedAt           *time.Time      `json:"started_at,omitempty"`
	Metadata            Attrs           `json:"mission_metadata"`
}

// Validate checks field constraints and the cross-field completion
// invariants.
func (m *Mission) Validate() error {
	var v violations
	v.required("title", m.Title)
	v.maxLen("title", m.Title, 200)
	v.maxLen("description", m.Description, 2000)
	v.enum("status", m.Status.Valid(), string(m.Status))
	v.enum("priority", m.Priority.Valid(), string(m.Priority))
	v.maxLen("assigned_entity", m.AssignedEntity, 100)
	v.maxLen("target_location", m.TargetLocation, 200)
	v.percent("progress_percentage", m.ProgressPercentage)
	if m.ActualCompletion != nil && m.Status != MissionStatusCompleted {
		v.add("actual_completion", "requires_status=completed", string(m.Status))
	}
	if m.StartedAt != nil && m.ActualCompletion != nil && m.StartedAt.After(*m.ActualCompletion) {
		v.add("started_at", "not_after=actual_completion", m.StartedAt)
	}
	return v.err("mission")
}

// MissionCreate is the user-supplied shape for opening a mission. Status
// always starts at pending and progress at zero.
type MissionCreate struct {
	Title               string           `json:"title"`
	Description         *string          `json:"description,omitempty"` // default ""
	Priority            *MissionPriority `json:"priority,omitempty"`    // default medium
	ProtocolID          *int64           `json:"protocol_id,omitempty"`
	AssignedEntity      *string          `json:"assigned_entity,omitempty"` // default ""
	TargetLocation      *string          `json:"target_location,omitempty"` // default ""
	Objectives          []string         `json:"objectives,omitempty"`      // default []
	EstimatedCompletion *time.Time       `json:"estimated_completion,omitempty"`
}

// Materialize builds the persisted entity with defaults applied.
func (c MissionCreate) Materialize(now time.Time) *Mission {
	m := &Mission{
		Title:               c.Title,
		Status:              MissionStatusPending,
		Priority:            MissionPriorityMedium,
		ProtocolID:          c.ProtocolID,
		Objectives:          cloneList(c.Objectives),
		ProgressPercentage:  decimal.Zero,
		EstimatedCompletion: c.EstimatedCompletion,
		CreatedAt:           now,
		Metadata:            Attrs{},
	}
	if c.Description != nil {
		m.Description = *c.Description
	}
	if c.Priority != nil {
		m.Priority = *c.Priority
	}
	if c.AssignedEntity != nil {
		m.AssignedEntity = *c.AssignedEntity
	}
	if c.TargetLocation != nil {
		m.TargetLocation = *c.TargetLocation
	}
	return m
}

// MissionPatch is a partial update. created_at is immutable and protocol
// assignment is fixed at creation. Completion fields take pointer elements
// so Set(nil) clears them.
type MissionPatch struct {
	Title               Opt[string]          `json:"title"`
	Description         Opt[string]          `json:"description"`
	Status              Opt[MissionStatus]   `json:"status"`
	Priority            Opt[MissionPriority] `json:"priority"`
	ProgressPercentage  Opt[decimal.Decimal] `json:"progress_percentage"`
	AssignedEntity      Opt[string]          `json:"assigned_entity"`
	TargetLocation      Opt[string]          `json:"target_location"`
	Objectives          Opt[[]string]        `json:"objectives"`
	EstimatedCompletion Opt[*time.Time]      `json:"estimated_completion"`
	StartedAt           Opt[*time.Time]      `json:"started_at"`
	ActualCompletion    Opt[*time.Time]      `json:"actual_completion"`
	Metadata            Opt[Attrs]           `json:"mission_metadata"`
}

// Apply overlays the set fields onto m.
func (p MissionPatch) Apply(m *Mission) {
	if p.Title.IsSet() {
		m.Title = p.Title.Value()
	}
	if p.Description.IsSet() {
		m.Description = p.Description.Value()
	}
	if p.Status.IsSet() {
		m.Status = p.Status.Value()
	}
	if p.Priority.IsSet() {
		m.Priority = p.Priority.Value()
	}
	if p.ProgressPercentage.IsSet() {
		m.ProgressPercentage = p.ProgressPercentage.Value()
	}
	if p.AssignedEntity.IsSet() {
		m.AssignedEntity = p.AssignedEntity.Value()
	}
	if p.TargetLocation.IsSet() {
		m.TargetLocation = p.TargetLocation.Value()
	}
	if p.Objectives.IsSet() {
		m.Objectives = cloneList(p.Objectives.Value())
	}
	if p.EstimatedCompletion.IsSet() {
		m.EstimatedCompletion = p.EstimatedCompletion.Value()
	}
	if p.StartedAt.IsSet() {
		m.StartedAt = p.StartedAt.Value()
	}
	if p.ActualCompletion.IsSet() {
		m.ActualCompletion = p.ActualCompletion.Value()
	}
	if p.Metadata.IsSet() {
		m.Metadata = cloneAttrs(p.Metadata.Value())
	}
}
