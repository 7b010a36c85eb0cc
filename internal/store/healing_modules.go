// Healing module persistence. Modules attach to a shield at creation and
// never move; total_healings and last_activation advance only through
// RecordActivation.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"aetherops.io/arcanum/internal/domain"
	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

const healingModuleColumns = `id, shield_id, module_name, is_operational,
	healing_rate, energy_efficiency, target_systems, last_activation,
	total_healings, created_at`

// CreateHealingModule validates and attaches a new module to a shield.
func (s *Store) CreateHealingModule(ctx context.Context, in domain.HealingModuleCreate) (*domain.HealingModule, error) {
	h := in.Materialize(s.now())
	if err := h.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.exists(ctx,
		`SELECT 1 FROM quantum_shields WHERE id = ?`, h.ShieldID)
	if err != nil {
		return nil, storage(err, "check shield reference")
	}
	if !ok {
		return nil, apperrors.Reference(apperrors.CodeInvalidReference,
			fmt.Sprintf("shield_id %d does not resolve to a quantum shield", h.ShieldID))
	}

	targets, err := encodeList(h.TargetSystems)
	if err != nil {
		return nil, storage(err, "encode module target systems")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO healing_modules (shield_id, module_name, is_operational,
			healing_rate, energy_efficiency, target_systems, last_activation,
			total_healings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ShieldID, h.ModuleName, h.IsOperational, h.HealingRate.String(),
		h.EnergyEfficiency.String(), targets, encodeTimePtr(h.LastActivation),
		h.TotalHealings, encodeTime(h.CreatedAt),
	)
	if err != nil {
		return nil, storage(err, "insert healing module")
	}
	h.ID, err = res.LastInsertId()
	if err != nil {
		return nil, storage(err, "healing module id")
	}

	s.log.Debug("healing module created",
		zap.Int64("id", h.ID),
		zap.Int64("shield_id", h.ShieldID),
		zap.String("name", h.ModuleName))
	return h, nil
}

// GetHealingModule returns the module with the given id.
func (s *Store) GetHealingModule(ctx context.Context, id int64) (*domain.HealingModule, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+healingModuleColumns+` FROM healing_modules WHERE id = ?`, id)
	h, err := hydrateHealingModule(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(apperrors.CodeModuleNotFound,
			fmt.Sprintf("healing module %d not found", id))
	}
	if err != nil {
		return nil, storage(err, "get healing module")
	}
	return h, nil
}

// ListShieldModules returns a shield's modules in insertion order.
func (s *Store) ListShieldModules(ctx context.Context, shieldID int64) ([]*domain.HealingModule, error) {
	ok, err := s.exists(ctx,
		`SELECT 1 FROM quantum_shields WHERE id = ?`, shieldID)
	if err != nil {
		return nil, storage(err, "check shield")
	}
	if !ok {
		return nil, apperrors.NotFound(apperrors.CodeShieldNotFound,
			fmt.Sprintf("quantum shield %d not found", shieldID))
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+healingModuleColumns+` FROM healing_modules
		WHERE shield_id = ? ORDER BY id`, shieldID)
	if err != nil {
		return nil, storage(err, "list healing modules")
	}
	defer rows.Close()

	var out []*domain.HealingModule
	for rows.Next() {
		h, err := hydrateHealingModule(rows)
		if err != nil {
			return nil, storage(err, "scan healing module")
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storage(err, "list healing modules")
	}
	return out, nil
}

// UpdateHealingModule applies a partial patch. shield_id, created_at,
// total_healings and last_activation are untouchable through patching.
func (s *Store) UpdateHealingModule(ctx context.Context, id int64, patch domain.HealingModulePatch) (*domain.HealingModule, error) {
	h, err := s.GetHealingModule(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(h)
	if err := h.Validate(); err != nil {
		return nil, err
	}

	targets, err := encodeList(h.TargetSystems)
	if err != nil {
		return nil, storage(err, "encode module target systems")
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE healing_modules
		SET module_name = ?, is_operational = ?, healing_rate = ?,
			energy_efficiency = ?, target_systems = ?
		WHERE id = ?`,
		h.ModuleName, h.IsOperational, h.HealingRate.String(),
		h.EnergyEfficiency.String(), targets, id,
	)
	if err != nil {
		return nil, storage(err, "update healing module")
	}

	s.log.Debug("healing module updated", zap.Int64("id", id))
	return h, nil
}

// DeleteHealingModule removes one module.
func (s *Store) DeleteHealingModule(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM healing_modules WHERE id = ?`, id)
	if err != nil {
		return storage(err, "delete healing module")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(apperrors.CodeModuleNotFound,
			fmt.Sprintf("healing module %d not found", id))
	}

	s.log.Debug("healing module deleted", zap.Int64("id", id))
	return nil
}

// RecordActivation increments total_healings, stamps last_activation with
// the current time, and returns the updated module.
func (s *Store) RecordActivation(ctx context.Context, id int64) (*domain.HealingModule, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE healing_modules
		SET total_healings = total_healings + 1, last_activation = ?
		WHERE id = ?`,
		encodeTime(s.now()), id)
	if err != nil {
		return nil, storage(err, "record activation")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperrors.NotFound(apperrors.CodeModuleNotFound,
			fmt.Sprintf("healing module %d not found", id))
	}

	s.log.Debug("healing activation recorded", zap.Int64("id", id))
	return s.GetHealingModule(ctx, id)
}

// hydrateHealingModule scans one module row.
func hydrateHealingModule(row rowScanner) (*domain.HealingModule, error) {
	var (
		h          domain.HealingModule
		rate       string
		efficiency string
		targets    string
		activation sql.NullString
		createdAt  string
	)
	err := row.Scan(&h.ID, &h.ShieldID, &h.ModuleName, &h.IsOperational,
		&rate, &efficiency, &targets, &activation, &h.TotalHealings, &createdAt)
	if err != nil {
		return nil, err
	}

	if h.HealingRate, err = decodeDecimal(rate); err != nil {
		return nil, err
	}
	if h.EnergyEfficiency, err = decodeDecimal(efficiency); err != nil {
		return nil, err
	}
	if h.TargetSystems, err = decodeList(targets); err != nil {
		return nil, err
	}
	if h.LastActivation, err = decodeTimePtr(activation); err != nil {
		return nil, err
	}
	if h.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	return &h, nil
}
