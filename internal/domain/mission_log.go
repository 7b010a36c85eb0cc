package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MissionLogEntry is an immutable, time-ordered progress/audit record
// attached to a mission. Entries are append-only: there is no patch shape
// and the store exposes no update or single-entry delete.
type MissionLogEntry struct {
	ID            int64           `json:"id"`
	MissionID     int64           `json:"mission_id"`
	EntryType     string          `json:"entry_type"`
	Message       string          `json:"message"`
	ProgressDelta decimal.Decimal `json:"progress_delta"` // signed
	CreatedAt     time.Time       `json:"created_at"`     // strictly increasing per mission
	Metadata      Attrs           `json:"log_metadata"`
}

// Validate checks every field constraint on the entry.
func (e *MissionLogEntry) Validate() error {
	var v violations
	if e.MissionID <= 0 {
		v.add("mission_id", "required", e.MissionID)
	}
	v.required("entry_type", e.EntryType)
	v.maxLen("entry_type", e.EntryType, 50)
	v.required("message", e.Message)
	v.maxLen("message", e.Message, 1000)
	return v.err("mission log entry")
}

// LogEntryCreate is the user-supplied shape for appending to a mission log.
type LogEntryCreate struct {
	MissionID     int64            `json:"mission_id"`
	EntryType     *string          `json:"entry_type,omitempty"`     // default "update"
	Message       string           `json:"message"`
	ProgressDelta *decimal.Decimal `json:"progress_delta,omitempty"` // default 0
	Metadata      Attrs            `json:"log_metadata,omitempty"`   // default {}
}

// Materialize builds the persisted entry with defaults applied.
func (c LogEntryCreate) Materialize(now time.Time) *MissionLogEntry {
	e := &MissionLogEntry{
		MissionID:     c.MissionID,
		EntryType:     "update",
		Message:       c.Message,
		ProgressDelta: decimal.Zero,
		CreatedAt:     now,
		Metadata:      cloneAttrs(c.Metadata),
	}
	if c.EntryType != nil {
		e.EntryType = *c.EntryType
	}
	if c.ProgressDelta != nil {
		e.ProgressDelta = *c.ProgressDelta
	}
	return e
}
