// Mission persistence. A mission may reference a transformation protocol;
// the reference is resolved at creation and fixed afterwards. Deleting a
// mission cascades to its log entries.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"aetherops.io/arcanum/internal/domain"
	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

const missionColumns = `id, title, description, status, priority, protocol_id,
	assigned_entity, target_location, objectives, progress_percentage,
	estimated_completion, actual_completion, created_at, started_at,
	mission_metadata`

// CreateMission validates and persists a new mission. Missions always open
// in pending status with zero progress.
func (s *Store) CreateMission(ctx context.Context, in domain.MissionCreate) (*domain.Mission, error) {
	m := in.Materialize(s.now())
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.ProtocolID != nil {
		ok, err := s.exists(ctx,
			`SELECT 1 FROM transformation_protocols WHERE id = ?`, *m.ProtocolID)
		if err != nil {
			return nil, storage(err, "check protocol reference")
		}
		if !ok {
			return nil, apperrors.Reference(apperrors.CodeInvalidReference,
				fmt.Sprintf("protocol_id %d does not resolve to a transformation protocol", *m.ProtocolID))
		}
	}

	objectives, err := encodeList(m.Objectives)
	if err != nil {
		return nil, storage(err, "encode mission objectives")
	}
	meta, err := encodeAttrs(m.Metadata)
	if err != nil {
		return nil, storage(err, "encode mission metadata")
	}

	var protocolID any
	if m.ProtocolID != nil {
		protocolID = *m.ProtocolID
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO missions (title, description, status, priority, protocol_id,
			assigned_entity, target_location, objectives, progress_percentage,
			estimated_completion, actual_completion, created_at, started_at,
			mission_metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Title, m.Description, string(m.Status), string(m.Priority),
		protocolID, m.AssignedEntity, m.TargetLocation, objectives,
		m.ProgressPercentage.String(), encodeTimePtr(m.EstimatedCompletion),
		encodeTimePtr(m.ActualCompletion), encodeTime(m.CreatedAt),
		encodeTimePtr(m.StartedAt), meta,
	)
	if err != nil {
		return nil, storage(err, "insert mission")
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return nil, storage(err, "mission id")
	}

	s.log.Debug("mission created", zap.Int64("id", m.ID), zap.String("title", m.Title))
	return m, nil
}

// GetMission returns the mission with the given id.
func (s *Store) GetMission(ctx context.Context, id int64) (*domain.Mission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+missionColumns+` FROM missions WHERE id = ?`, id)
	m, err := hydrateMission(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(apperrors.CodeMissionNotFound,
			fmt.Sprintf("mission %d not found", id))
	}
	if err != nil {
		return nil, storage(err, "get mission")
	}
	return m, nil
}

// ListMissions returns all missions in insertion order.
func (s *Store) ListMissions(ctx context.Context) ([]*domain.Mission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+missionColumns+` FROM missions ORDER BY id`)
	if err != nil {
		return nil, storage(err, "list missions")
	}
	defer rows.Close()

	var out []*domain.Mission
	for rows.Next() {
		m, err := hydrateMission(rows)
		if err != nil {
			return nil, storage(err, "scan mission")
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storage(err, "list missions")
	}
	return out, nil
}

// UpdateMission applies a partial patch. created_at and protocol assignment
// never change; the completion cross-field invariants are re-checked on the
// patched entity.
func (s *Store) UpdateMission(ctx context.Context, id int64, patch domain.MissionPatch) (*domain.Mission, error) {
	m, err := s.GetMission(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(m)
	if err := m.Validate(); err != nil {
		return nil, err
	}

	objectives, err := encodeList(m.Objectives)
	if err != nil {
		return nil, storage(err, "encode mission objectives")
	}
	meta, err := encodeAttrs(m.Metadata)
	if err != nil {
		return nil, storage(err, "encode mission metadata")
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE missions
		SET title = ?, description = ?, status = ?, priority = ?,
			assigned_entity = ?, target_location = ?, objectives = ?,
			progress_percentage = ?, estimated_completion = ?,
			actual_completion = ?, started_at = ?, mission_metadata = ?
		WHERE id = ?`,
		m.Title, m.Description, string(m.Status), string(m.Priority),
		m.AssignedEntity, m.TargetLocation, objectives,
		m.ProgressPercentage.String(), encodeTimePtr(m.EstimatedCompletion),
		encodeTimePtr(m.ActualCompletion), encodeTimePtr(m.StartedAt), meta, id,
	)
	if err != nil {
		return nil, storage(err, "update mission")
	}

	s.log.Debug("mission updated", zap.Int64("id", id))
	return m, nil
}

// DeleteMission removes a mission together with its log entries.
func (s *Store) DeleteMission(ctx context.Context, id int64) error {
	// Log entries cascade via ON DELETE CASCADE.
	res, err := s.db.ExecContext(ctx, `DELETE FROM missions WHERE id = ?`, id)
	if err != nil {
		return storage(err, "delete mission")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(apperrors.CodeMissionNotFound,
			fmt.Sprintf("mission %d not found", id))
	}

	s.log.Debug("mission deleted", zap.Int64("id", id))
	return nil
}

// hydrateMission scans one mission row.
func hydrateMission(row rowScanner) (*domain.Mission, error) {
	var (
		m          domain.Mission
		status     string
		priority   string
		protocolID sql.NullInt64
		objectives string
		progress   string
		estimated  sql.NullString
		actual     sql.NullString
		createdAt  string
		startedAt  sql.NullString
		meta       string
	)
	err := row.Scan(&m.ID, &m.Title, &m.Description, &status, &priority,
		&protocolID, &m.AssignedEntity, &m.TargetLocation, &objectives,
		&progress, &estimated, &actual, &createdAt, &startedAt, &meta)
	if err != nil {
		return nil, err
	}

	m.Status = domain.MissionStatus(status)
	m.Priority = domain.MissionPriority(priority)
	if protocolID.Valid {
		m.ProtocolID = &protocolID.Int64
	}
	if m.Objectives, err = decodeList(objectives); err != nil {
		return nil, err
	}
	if m.ProgressPercentage, err = decodeDecimal(progress); err != nil {
		return nil, err
	}
	if m.EstimatedCompletion, err = decodeTimePtr(estimated); err != nil {
		return nil, err
	}
	if m.ActualCompletion, err = decodeTimePtr(actual); err != nil {
		return nil, err
	}
	if m.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if m.StartedAt, err = decodeTimePtr(startedAt); err != nil {
		return nil, err
	}
	if m.Metadata, err = decodeAttrs(meta); err != nil {
		return nil, err
	}
	return &m, nil
}
