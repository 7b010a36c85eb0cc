// Mission log persistence. Entries are append-only and created_at is
// strictly increasing within a mission: when the clock has not moved past
// the previous entry, the new timestamp is bumped one nanosecond beyond it.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"aetherops.io/arcanum/internal/domain"
	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

const logEntryColumns = `id, mission_id, entry_type, message, progress_delta,
	created_at, log_metadata`

// AppendLogEntry validates and appends an entry to a mission's log.
func (s *Store) AppendLogEntry(ctx context.Context, in domain.LogEntryCreate) (*domain.MissionLogEntry, error) {
	e := in.Materialize(s.now())
	if err := e.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.exists(ctx, `SELECT 1 FROM missions WHERE id = ?`, e.MissionID)
	if err != nil {
		return nil, storage(err, "check mission reference")
	}
	if !ok {
		return nil, apperrors.Reference(apperrors.CodeInvalidReference,
			fmt.Sprintf("mission_id %d does not resolve to a mission", e.MissionID))
	}

	// Keep created_at strictly increasing per mission even when two
	// appends land on the same clock reading.
	var prev sql.NullString
	err = s.db.QueryRowContext(ctx, `
		SELECT created_at FROM mission_log_entries
		WHERE mission_id = ? ORDER BY id DESC LIMIT 1`,
		e.MissionID).Scan(&prev)
	if err != nil && err != sql.ErrNoRows {
		return nil, storage(err, "read previous log entry")
	}
	if prev.Valid {
		prevAt, err := decodeTime(prev.String)
		if err != nil {
			return nil, storage(err, "decode previous log timestamp")
		}
		if !e.CreatedAt.After(prevAt) {
			e.CreatedAt = prevAt.Add(1)
		}
	}

	meta, err := encodeAttrs(e.Metadata)
	if err != nil {
		return nil, storage(err, "encode log metadata")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO mission_log_entries (mission_id, entry_type, message,
			progress_delta, created_at, log_metadata)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.MissionID, e.EntryType, e.Message, e.ProgressDelta.String(),
		encodeTime(e.CreatedAt), meta,
	)
	if err != nil {
		return nil, storage(err, "insert log entry")
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return nil, storage(err, "log entry id")
	}

	s.log.Debug("log entry appended",
		zap.Int64("id", e.ID),
		zap.Int64("mission_id", e.MissionID),
		zap.String("entry_type", e.EntryType))
	return e, nil
}

// GetLogEntry returns the log entry with the given id.
func (s *Store) GetLogEntry(ctx context.Context, id int64) (*domain.MissionLogEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+logEntryColumns+` FROM mission_log_entries WHERE id = ?`, id)
	e, err := hydrateLogEntry(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(apperrors.CodeLogEntryNotFound,
			fmt.Sprintf("mission log entry %d not found", id))
	}
	if err != nil {
		return nil, storage(err, "get log entry")
	}
	return e, nil
}

// ListMissionLog returns a mission's log entries oldest first.
func (s *Store) ListMissionLog(ctx context.Context, missionID int64) ([]*domain.MissionLogEntry, error) {
	ok, err := s.exists(ctx, `SELECT 1 FROM missions WHERE id = ?`, missionID)
	if err != nil {
		return nil, storage(err, "check mission")
	}
	if !ok {
		return nil, apperrors.NotFound(apperrors.CodeMissionNotFound,
			fmt.Sprintf("mission %d not found", missionID))
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+logEntryColumns+` FROM mission_log_entries
		WHERE mission_id = ? ORDER BY id`, missionID)
	if err != nil {
		return nil, storage(err, "list log entries")
	}
	defer rows.Close()

	var out []*domain.MissionLogEntry
	for rows.Next() {
		e, err := hydrateLogEntry(rows)
		if err != nil {
			return nil, storage(err, "scan log entry")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storage(err, "list log entries")
	}
	return out, nil
}

// hydrateLogEntry scans one log entry row.
func hydrateLogEntry(row rowScanner) (*domain.MissionLogEntry, error) {
	var (
		e         domain.MissionLogEntry
		delta     string
		createdAt string
		meta      string
	)
	err := row.Scan(&e.ID, &e.MissionID, &e.EntryType, &e.Message, &delta,
		&createdAt, &meta)
	if err != nil {
		return nil, err
	}

	if e.ProgressDelta, err = decodeDecimal(delta); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if e.Metadata, err = decodeAttrs(meta); err != nil {
		return nil, err
	}
	return &e, nil
}
