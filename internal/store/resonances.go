// Emotional resonance persistence. Readings are immutable snapshots:
// record, read, list, delete — never update.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"aetherops.io/arcanum/internal/domain"
	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

const resonanceColumns = `id, entity_name, current_state, resonance_level,
	harmony_index, emotional_spectrum, sync_stability, last_fluctuation,
	recorded_at, notes`

// RecordResonance validates and persists a new reading for an entity.
func (s *Store) RecordResonance(ctx context.Context, in domain.ResonanceCreate) (*domain.EmotionalResonance, error) {
	r := in.Materialize(s.now())
	if err := r.Validate(); err != nil {
		return nil, err
	}

	spectrum, err := encodeSpectrum(r.Spectrum)
	if err != nil {
		return nil, storage(err, "encode emotional spectrum")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO emotional_resonances (entity_name, current_state,
			resonance_level, harmony_index, emotional_spectrum,
			sync_stability, last_fluctuation, recorded_at, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.EntityName, string(r.CurrentState), r.ResonanceLevel.String(),
		r.HarmonyIndex.String(), spectrum, r.SyncStability.String(),
		encodeTimePtr(r.LastFluctuation), encodeTime(r.RecordedAt), r.Notes,
	)
	if err != nil {
		return nil, storage(err, "insert resonance")
	}
	r.ID, err = res.LastInsertId()
	if err != nil {
		return nil, storage(err, "resonance id")
	}

	s.log.Debug("resonance recorded",
		zap.Int64("id", r.ID),
		zap.String("entity", r.EntityName),
		zap.String("state", string(r.CurrentState)))
	return r, nil
}

// GetResonance returns the reading with the given id.
func (s *Store) GetResonance(ctx context.Context, id int64) (*domain.EmotionalResonance, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+resonanceColumns+` FROM emotional_resonances WHERE id = ?`, id)
	r, err := hydrateResonance(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(apperrors.CodeResonanceNotFound,
			fmt.Sprintf("emotional resonance %d not found", id))
	}
	if err != nil {
		return nil, storage(err, "get resonance")
	}
	return r, nil
}

// ListEntityResonances returns an entity's readings newest first. An entity
// with no readings yields an empty list, not an error.
func (s *Store) ListEntityResonances(ctx context.Context, entityName string) ([]*domain.EmotionalResonance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resonanceColumns+` FROM emotional_resonances
		WHERE entity_name = ? ORDER BY id DESC`, entityName)
	if err != nil {
		return nil, storage(err, "list resonances")
	}
	defer rows.Close()

	var out []*domain.EmotionalResonance
	for rows.Next() {
		r, err := hydrateResonance(rows)
		if err != nil {
			return nil, storage(err, "scan resonance")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storage(err, "list resonances")
	}
	return out, nil
}

// DeleteResonance removes one reading.
func (s *Store) DeleteResonance(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM emotional_resonances WHERE id = ?`, id)
	if err != nil {
		return storage(err, "delete resonance")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(apperrors.CodeResonanceNotFound,
			fmt.Sprintf("emotional resonance %d not found", id))
	}

	s.log.Debug("resonance deleted", zap.Int64("id", id))
	return nil
}

// hydrateResonance scans one reading row.
func hydrateResonance(row rowScanner) (*domain.EmotionalResonance, error) {
	var (
		r           domain.EmotionalResonance
		state       string
		level       string
		harmony     string
		spectrum    string
		stability   string
		fluctuation sql.NullString
		recordedAt  string
	)
	err := row.Scan(&r.ID, &r.EntityName, &state, &level, &harmony, &spectrum,
		&stability, &fluctuation, &recordedAt, &r.Notes)
	if err != nil {
		return nil, err
	}

	r.CurrentState = domain.EmotionalState(state)
	if r.ResonanceLevel, err = decodeDecimal(level); err != nil {
		return nil, err
	}
	if r.HarmonyIndex, err = decodeDecimal(harmony); err != nil {
		return nil, err
	}
	if r.Spectrum, err = decodeSpectrum(spectrum); err != nil {
		return nil, err
	}
	if r.SyncStability, err = decodeDecimal(stability); err != nil {
		return nil, err
	}
	if r.LastFluctuation, err = decodeTimePtr(fluctuation); err != nil {
		return nil, err
	}
	if r.RecordedAt, err = decodeTime(recordedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
