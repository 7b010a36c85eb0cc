// Transformation protocol persistence. last_modified advances on every
// successful update; deleting a protocol cascades to its steps but is
// blocked while a mission still references it.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"aetherops.io/arcanum/internal/domain"
	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

const protocolColumns = `id, name, description, duration_minutes, energy_cost,
	success_rate, requirements, effects, is_active, created_at, last_modified`

// CreateProtocol validates and persists a new protocol definition.
func (s *Store) CreateProtocol(ctx context.Context, in domain.ProtocolCreate) (*domain.TransformationProtocol, error) {
	p := in.Materialize(s.now())
	if err := p.Validate(); err != nil {
		return nil, err
	}

	reqs, err := encodeList(p.Requirements)
	if err != nil {
		return nil, storage(err, "encode protocol requirements")
	}
	effects, err := encodeAttrs(p.Effects)
	if err != nil {
		return nil, storage(err, "encode protocol effects")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transformation_protocols (name, description,
			duration_minutes, energy_cost, success_rate, requirements,
			effects, is_active, created_at, last_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.DurationMinutes, p.EnergyCost.String(),
		p.SuccessRate.String(), reqs, effects, p.IsActive,
		encodeTime(p.CreatedAt), encodeTime(p.LastModified),
	)
	if err != nil {
		return nil, storage(err, "insert protocol")
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return nil, storage(err, "protocol id")
	}

	s.log.Debug("protocol created", zap.Int64("id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// GetProtocol returns the protocol with the given id.
func (s *Store) GetProtocol(ctx context.Context, id int64) (*domain.TransformationProtocol, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+protocolColumns+` FROM transformation_protocols WHERE id = ?`, id)
	p, err := hydrateProtocol(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(apperrors.CodeProtocolNotFound,
			fmt.Sprintf("transformation protocol %d not found", id))
	}
	if err != nil {
		return nil, storage(err, "get protocol")
	}
	return p, nil
}

// ListProtocols returns all protocols in insertion order.
func (s *Store) ListProtocols(ctx context.Context) ([]*domain.TransformationProtocol, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+protocolColumns+` FROM transformation_protocols ORDER BY id`)
	if err != nil {
		return nil, storage(err, "list protocols")
	}
	defer rows.Close()

	var out []*domain.TransformationProtocol
	for rows.Next() {
		p, err := hydrateProtocol(rows)
		if err != nil {
			return nil, storage(err, "scan protocol")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storage(err, "list protocols")
	}
	return out, nil
}

// UpdateProtocol applies a partial patch and advances last_modified.
func (s *Store) UpdateProtocol(ctx context.Context, id int64, patch domain.ProtocolPatch) (*domain.TransformationProtocol, error) {
	p, err := s.GetProtocol(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(p)

	// last_modified moves on every successful update, never behind
	// created_at.
	now := s.now()
	if now.Before(p.CreatedAt) {
		now = p.CreatedAt
	}
	p.LastModified = now

	if err := p.Validate(); err != nil {
		return nil, err
	}

	reqs, err := encodeList(p.Requirements)
	if err != nil {
		return nil, storage(err, "encode protocol requirements")
	}
	effects, err := encodeAttrs(p.Effects)
	if err != nil {
		return nil, storage(err, "encode protocol effects")
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE transformation_protocols
		SET name = ?, description = ?, duration_minutes = ?, energy_cost = ?,
			success_rate = ?, requirements = ?, effects = ?, is_active = ?,
			last_modified = ?
		WHERE id = ?`,
		p.Name, p.Description, p.DurationMinutes, p.EnergyCost.String(),
		p.SuccessRate.String(), reqs, effects, p.IsActive,
		encodeTime(p.LastModified), id,
	)
	if err != nil {
		return nil, storage(err, "update protocol")
	}

	s.log.Debug("protocol updated", zap.Int64("id", id))
	return p, nil
}

// DeleteProtocol removes a protocol and its steps. Fails with a conflict
// while a mission still references the protocol.
func (s *Store) DeleteProtocol(ctx context.Context, id int64) error {
	referenced, err := s.exists(ctx,
		`SELECT 1 FROM missions WHERE protocol_id = ? LIMIT 1`, id)
	if err != nil {
		return storage(err, "check protocol references")
	}
	if referenced {
		return apperrors.Conflict(apperrors.CodeProtocolInUse,
			fmt.Sprintf("transformation protocol %d is referenced by missions", id))
	}

	// Steps cascade via ON DELETE CASCADE.
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transformation_protocols WHERE id = ?`, id)
	if err != nil {
		return storage(err, "delete protocol")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(apperrors.CodeProtocolNotFound,
			fmt.Sprintf("transformation protocol %d not found", id))
	}

	s.log.Debug("protocol deleted", zap.Int64("id", id))
	return nil
}

// hydrateProtocol scans one protocol row.
func hydrateProtocol(row rowScanner) (*domain.TransformationProtocol, error) {
	var (
		p            domain.TransformationProtocol
		energyCost   string
		successRate  string
		requirements string
		effects      string
		createdAt    string
		lastModified string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.DurationMinutes,
		&energyCost, &successRate, &requirements, &effects, &p.IsActive,
		&createdAt, &lastModified)
	if err != nil {
		return nil, err
	}

	if p.EnergyCost, err = decodeDecimal(energyCost); err != nil {
		return nil, err
	}
	if p.SuccessRate, err = decodeDecimal(successRate); err != nil {
		return nil, err
	}
	if p.Requirements, err = decodeList(requirements); err != nil {
		return nil, err
	}
	if p.Effects, err = decodeAttrs(effects); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if p.LastModified, err = decodeTime(lastModified); err != nil {
		return nil, err
	}
	return &p, nil
}
