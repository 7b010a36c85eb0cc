// Quantum shield persistence. uptime_hours only moves forward,
// status_updated_at is stamped once at creation, and last_breach_attempt
// moves only through RecordBreachAttempt.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"aetherops.io/arcanum/internal/domain"
	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

const shieldColumns = `id, shield_name, status, integrity_percentage,
	energy_level, power_consumption, protection_radius_km,
	last_breach_attempt, uptime_hours, configuration, status_updated_at`

// CreateShield validates and registers a new shield.
func (s *Store) CreateShield(ctx context.Context, in domain.ShieldCreate) (*domain.QuantumShield, error) {
	q := in.Materialize(s.now())
	if err := q.Validate(); err != nil {
		return nil, err
	}

	conf, err := encodeAttrs(q.Configuration)
	if err != nil {
		return nil, storage(err, "encode shield configuration")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO quantum_shields (shield_name, status, integrity_percentage,
			energy_level, power_consumption, protection_radius_km,
			last_breach_attempt, uptime_hours, configuration, status_updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ShieldName, string(q.Status), q.IntegrityPercentage.String(),
		q.EnergyLevel.String(), q.PowerConsumption.String(),
		q.ProtectionRadiusKm.String(), encodeTimePtr(q.LastBreachAttempt),
		q.UptimeHours.String(), conf, encodeTime(q.StatusUpdatedAt),
	)
	if err != nil {
		return nil, storage(err, "insert shield")
	}
	q.ID, err = res.LastInsertId()
	if err != nil {
		return nil, storage(err, "shield id")
	}

	s.log.Debug("shield created", zap.Int64("id", q.ID), zap.String("name", q.ShieldName))
	return q, nil
}

// GetShield returns the shield with the given id.
func (s *Store) GetShield(ctx context.Context, id int64) (*domain.QuantumShield, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shieldColumns+` FROM quantum_shields WHERE id = ?`, id)
	q, err := hydrateShield(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(apperrors.CodeShieldNotFound,
			fmt.Sprintf("quantum shield %d not found", id))
	}
	if err != nil {
		return nil, storage(err, "get shield")
	}
	return q, nil
}

// ListShields returns all shields in insertion order.
func (s *Store) ListShields(ctx context.Context) ([]*domain.QuantumShield, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+shieldColumns+` FROM quantum_shields ORDER BY id`)
	if err != nil {
		return nil, storage(err, "list shields")
	}
	defer rows.Close()

	var out []*domain.QuantumShield
	for rows.Next() {
		q, err := hydrateShield(rows)
		if err != nil {
			return nil, storage(err, "scan shield")
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, storage(err, "list shields")
	}
	return out, nil
}

// UpdateShield applies a partial patch. A patch that would move
// uptime_hours backwards is rejected; status_updated_at never changes.
func (s *Store) UpdateShield(ctx context.Context, id int64, patch domain.ShieldPatch) (*domain.QuantumShield, error) {
	q, err := s.GetShield(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.UptimeHours.IsSet() && patch.UptimeHours.Value().LessThan(q.UptimeHours) {
		return nil, apperrors.Validation(apperrors.CodeValidationFailed,
			"invalid quantum shield").WithFieldErrors([]apperrors.FieldError{{
			Field:      "uptime_hours",
			Constraint: "monotonic_non_decreasing",
			Value:      patch.UptimeHours.Value().String(),
		}})
	}

	patch.Apply(q)
	if err := q.Validate(); err != nil {
		return nil, err
	}

	conf, err := encodeAttrs(q.Configuration)
	if err != nil {
		return nil, storage(err, "encode shield configuration")
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE quantum_shields
		SET shield_name = ?, status = ?, integrity_percentage = ?,
			energy_level = ?, power_consumption = ?, protection_radius_km = ?,
			uptime_hours = ?, configuration = ?
		WHERE id = ?`,
		q.ShieldName, string(q.Status), q.IntegrityPercentage.String(),
		q.EnergyLevel.String(), q.PowerConsumption.String(),
		q.ProtectionRadiusKm.String(), q.UptimeHours.String(), conf, id,
	)
	if err != nil {
		return nil, storage(err, "update shield")
	}

	s.log.Debug("shield updated", zap.Int64("id", id))
	return q, nil
}

// DeleteShield removes a shield together with its healing modules.
func (s *Store) DeleteShield(ctx context.Context, id int64) error {
	// Healing modules cascade via ON DELETE CASCADE.
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM quantum_shields WHERE id = ?`, id)
	if err != nil {
		return storage(err, "delete shield")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(apperrors.CodeShieldNotFound,
			fmt.Sprintf("quantum shield %d not found", id))
	}

	s.log.Debug("shield deleted", zap.Int64("id", id))
	return nil
}

// RecordBreachAttempt stamps last_breach_attempt with the current time and
// returns the updated shield.
func (s *Store) RecordBreachAttempt(ctx context.Context, id int64) (*domain.QuantumShield, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE quantum_shields SET last_breach_attempt = ? WHERE id = ?`,
		encodeTime(s.now()), id)
	if err != nil {
		return nil, storage(err, "record breach attempt")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperrors.NotFound(apperrors.CodeShieldNotFound,
			fmt.Sprintf("quantum shield %d not found", id))
	}

	s.log.Debug("breach attempt recorded", zap.Int64("id", id))
	return s.GetShield(ctx, id)
}

// hydrateShield scans one shield row.
func hydrateShield(row rowScanner) (*domain.QuantumShield, error) {
	var (
		q         domain.QuantumShield
		status    string
		integrity string
		energy    string
		power     string
		radius    string
		breach    sql.NullString
		uptime    string
		conf      string
		updatedAt string
	)
	err := row.Scan(&q.ID, &q.ShieldName, &status, &integrity, &energy,
		&power, &radius, &breach, &uptime, &conf, &updatedAt)
	if err != nil {
		return nil, err
	}

	q.Status = domain.ShieldStatus(status)
	if q.IntegrityPercentage, err = decodeDecimal(integrity); err != nil {
		return nil, err
	}
	if q.EnergyLevel, err = decodeDecimal(energy); err != nil {
		return nil, err
	}
	if q.PowerConsumption, err = decodeDecimal(power); err != nil {
		return nil, err
	}
	if q.ProtectionRadiusKm, err = decodeDecimal(radius); err != nil {
		return nil, err
	}
	if q.LastBreachAttempt, err = decodeTimePtr(breach); err != nil {
		return nil, err
	}
	if q.UptimeHours, err = decodeDecimal(uptime); err != nil {
		return nil, err
	}
	if q.Configuration, err = decodeAttrs(conf); err != nil {
		return nil, err
	}
	if q.StatusUpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	return &q, nil
}
