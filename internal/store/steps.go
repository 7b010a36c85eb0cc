// Transformation step persistence. Steps resolve their protocol (required)
// and glyph (optional) references before insert, and step_order stays
// unique within a protocol so listing in ascending order yields a
// deterministic execution sequence.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"aetherops.io/arcanum/internal/domain"
	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

const stepColumns = `id, protocol_id, glyph_id, step_order, instruction,
	duration_seconds, parameters`

// CreateStep validates and persists a new step of a protocol.
func (s *Store) CreateStep(ctx context.Context, in domain.StepCreate) (*domain.TransformationStep, error) {
	st := in.Materialize()
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolveStepRefs(ctx, st); err != nil {
		return nil, err
	}
	if err := s.checkStepOrderFree(ctx, st.ProtocolID, st.StepOrder, 0); err != nil {
		return nil, err
	}

	params, err := encodeAttrs(st.Parameters)
	if err != nil {
		return nil, storage(err, "encode step parameters")
	}

	var glyphID any
	if st.GlyphID != nil {
		glyphID = *st.GlyphID
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transformation_steps (protocol_id, glyph_id, step_order,
			instruction, duration_seconds, parameters)
		VALUES (?, ?, ?, ?, ?, ?)`,
		st.ProtocolID, glyphID, st.StepOrder, st.Instruction,
		st.DurationSeconds, params,
	)
	if err != nil {
		return nil, storage(err, "insert step")
	}
	st.ID, err = res.LastInsertId()
	if err != nil {
		return nil, storage(err, "step id")
	}

	s.log.Debug("step created",
		zap.Int64("id", st.ID),
		zap.Int64("protocol_id", st.ProtocolID),
		zap.Int("step_order", st.StepOrder))
	return st, nil
}

// GetStep returns the step with the given id.
func (s *Store) GetStep(ctx context.Context, id int64) (*domain.TransformationStep, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+stepColumns+` FROM transformation_steps WHERE id = ?`, id)
	st, err := hydrateStep(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(apperrors.CodeStepNotFound,
			fmt.Sprintf("transformation step %d not found", id))
	}
	if err != nil {
		return nil, storage(err, "get step")
	}
	return st, nil
}

// ListProtocolSteps returns the steps of a protocol in ascending step_order
// regardless of insertion order.
func (s *Store) ListProtocolSteps(ctx context.Context, protocolID int64) ([]*domain.TransformationStep, error) {
	ok, err := s.exists(ctx,
		`SELECT 1 FROM transformation_protocols WHERE id = ?`, protocolID)
	if err != nil {
		return nil, storage(err, "check protocol")
	}
	if !ok {
		return nil, apperrors.NotFound(apperrors.CodeProtocolNotFound,
			fmt.Sprintf("transformation protocol %d not found", protocolID))
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+stepColumns+` FROM transformation_steps
		WHERE protocol_id = ? ORDER BY step_order`, protocolID)
	if err != nil {
		return nil, storage(err, "list steps")
	}
	defer rows.Close()

	var out []*domain.TransformationStep
	for rows.Next() {
		st, err := hydrateStep(rows)
		if err != nil {
			return nil, storage(err, "scan step")
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, storage(err, "list steps")
	}
	return out, nil
}

// UpdateStep applies a partial patch. A step never moves between protocols.
func (s *Store) UpdateStep(ctx context.Context, id int64, patch domain.StepPatch) (*domain.TransformationStep, error) {
	st, err := s.GetStep(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(st)
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if patch.GlyphID.IsSet() && st.GlyphID != nil {
		if err := s.resolveGlyphRef(ctx, *st.GlyphID); err != nil {
			return nil, err
		}
	}
	if patch.StepOrder.IsSet() {
		if err := s.checkStepOrderFree(ctx, st.ProtocolID, st.StepOrder, id); err != nil {
			return nil, err
		}
	}

	params, err := encodeAttrs(st.Parameters)
	if err != nil {
		return nil, storage(err, "encode step parameters")
	}

	var glyphID any
	if st.GlyphID != nil {
		glyphID = *st.GlyphID
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE transformation_steps
		SET glyph_id = ?, step_order = ?, instruction = ?,
			duration_seconds = ?, parameters = ?
		WHERE id = ?`,
		glyphID, st.StepOrder, st.Instruction, st.DurationSeconds, params, id,
	)
	if err != nil {
		return nil, storage(err, "update step")
	}

	s.log.Debug("step updated", zap.Int64("id", id))
	return st, nil
}

// DeleteStep removes one step.
func (s *Store) DeleteStep(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transformation_steps WHERE id = ?`, id)
	if err != nil {
		return storage(err, "delete step")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(apperrors.CodeStepNotFound,
			fmt.Sprintf("transformation step %d not found", id))
	}

	s.log.Debug("step deleted", zap.Int64("id", id))
	return nil
}

// resolveStepRefs rejects dangling protocol and glyph references.
func (s *Store) resolveStepRefs(ctx context.Context, st *domain.TransformationStep) error {
	ok, err := s.exists(ctx,
		`SELECT 1 FROM transformation_protocols WHERE id = ?`, st.ProtocolID)
	if err != nil {
		return storage(err, "check protocol reference")
	}
	if !ok {
		return apperrors.Reference(apperrors.CodeInvalidReference,
			fmt.Sprintf("protocol_id %d does not resolve to a transformation protocol", st.ProtocolID))
	}
	if st.GlyphID != nil {
		return s.resolveGlyphRef(ctx, *st.GlyphID)
	}
	return nil
}

func (s *Store) resolveGlyphRef(ctx context.Context, glyphID int64) error {
	ok, err := s.exists(ctx, `SELECT 1 FROM glyphs WHERE id = ?`, glyphID)
	if err != nil {
		return storage(err, "check glyph reference")
	}
	if !ok {
		return apperrors.Reference(apperrors.CodeInvalidReference,
			fmt.Sprintf("glyph_id %d does not resolve to a glyph", glyphID))
	}
	return nil
}

// checkStepOrderFree rejects a step_order already taken within the
// protocol. excludeID skips the step being updated.
func (s *Store) checkStepOrderFree(ctx context.Context, protocolID int64, order int, excludeID int64) error {
	taken, err := s.exists(ctx, `
		SELECT 1 FROM transformation_steps
		WHERE protocol_id = ? AND step_order = ? AND id != ? LIMIT 1`,
		protocolID, order, excludeID)
	if err != nil {
		return storage(err, "check step order")
	}
	if taken {
		return apperrors.Conflict(apperrors.CodeStepOrderTaken,
			fmt.Sprintf("step_order %d is already taken in protocol %d", order, protocolID))
	}
	return nil
}

// hydrateStep scans one step row.
func hydrateStep(row rowScanner) (*domain.TransformationStep, error) {
	var (
		st      domain.TransformationStep
		glyphID sql.NullInt64
		params  string
	)
	err := row.Scan(&st.ID, &st.ProtocolID, &glyphID, &st.StepOrder,
		&st.Instruction, &st.DurationSeconds, &params)
	if err != nil {
		return nil, err
	}

	if glyphID.Valid {
		st.GlyphID = &glyphID.Int64
	}
	if st.Parameters, err = decodeAttrs(params); err != nil {
		return nil, err
	}
	return &st, nil
}
