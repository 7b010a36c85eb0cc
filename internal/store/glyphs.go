// Glyph persistence. Glyphs may be referenced by transformation steps, so
// deletion is blocked while any step points at the glyph.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"aetherops.io/arcanum/internal/domain"
	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

const glyphColumns = `id, name, symbol, category, power_level, description,
	properties, is_active, discovered_at, last_used`

// CreateGlyph validates and persists a new glyph, applying defaults for
// omitted fields.
func (s *Store) CreateGlyph(ctx context.Context, in domain.GlyphCreate) (*domain.Glyph, error) {
	g := in.Materialize(s.now())
	if err := g.Validate(); err != nil {
		return nil, err
	}

	props, err := encodeAttrs(g.Properties)
	if err != nil {
		return nil, storage(err, "encode glyph properties")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO glyphs (name, symbol, category, power_level, description,
			properties, is_active, discovered_at, last_used)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Name, g.Symbol, string(g.Category), g.PowerLevel.String(),
		g.Description, props, g.IsActive, encodeTime(g.DiscoveredAt),
		encodeTimePtr(g.LastUsed),
	)
	if err != nil {
		return nil, storage(err, "insert glyph")
	}
	g.ID, err = res.LastInsertId()
	if err != nil {
		return nil, storage(err, "glyph id")
	}

	s.log.Debug("glyph created", zap.Int64("id", g.ID), zap.String("name", g.Name))
	return g, nil
}

// GetGlyph returns the glyph with the given id.
func (s *Store) GetGlyph(ctx context.Context, id int64) (*domain.Glyph, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+glyphColumns+` FROM glyphs WHERE id = ?`, id)
	g, err := hydrateGlyph(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(apperrors.CodeGlyphNotFound,
			fmt.Sprintf("glyph %d not found", id))
	}
	if err != nil {
		return nil, storage(err, "get glyph")
	}
	return g, nil
}

// ListGlyphs returns all glyphs in insertion order.
func (s *Store) ListGlyphs(ctx context.Context) ([]*domain.Glyph, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+glyphColumns+` FROM glyphs ORDER BY id`)
	if err != nil {
		return nil, storage(err, "list glyphs")
	}
	defer rows.Close()

	var out []*domain.Glyph
	for rows.Next() {
		g, err := hydrateGlyph(rows)
		if err != nil {
			return nil, storage(err, "scan glyph")
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storage(err, "list glyphs")
	}
	return out, nil
}

// UpdateGlyph applies a partial patch. discovered_at is never touched.
func (s *Store) UpdateGlyph(ctx context.Context, id int64, patch domain.GlyphPatch) (*domain.Glyph, error) {
	g, err := s.GetGlyph(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(g)
	if err := g.Validate(); err != nil {
		return nil, err
	}

	props, err := encodeAttrs(g.Properties)
	if err != nil {
		return nil, storage(err, "encode glyph properties")
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE glyphs
		SET name = ?, symbol = ?, category = ?, power_level = ?,
			description = ?, properties = ?, is_active = ?
		WHERE id = ?`,
		g.Name, g.Symbol, string(g.Category), g.PowerLevel.String(),
		g.Description, props, g.IsActive, id,
	)
	if err != nil {
		return nil, storage(err, "update glyph")
	}

	s.log.Debug("glyph updated", zap.Int64("id", id))
	return g, nil
}

// DeleteGlyph removes a glyph. Fails with a conflict while any
// transformation step still references it.
func (s *Store) DeleteGlyph(ctx context.Context, id int64) error {
	referenced, err := s.exists(ctx,
		`SELECT 1 FROM transformation_steps WHERE glyph_id = ? LIMIT 1`, id)
	if err != nil {
		return storage(err, "check glyph references")
	}
	if referenced {
		return apperrors.Conflict(apperrors.CodeGlyphInUse,
			fmt.Sprintf("glyph %d is referenced by transformation steps", id))
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM glyphs WHERE id = ?`, id)
	if err != nil {
		return storage(err, "delete glyph")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(apperrors.CodeGlyphNotFound,
			fmt.Sprintf("glyph %d not found", id))
	}

	s.log.Debug("glyph deleted", zap.Int64("id", id))
	return nil
}

// MarkGlyphUsed stamps last_used with the current time and returns the
// updated glyph.
func (s *Store) MarkGlyphUsed(ctx context.Context, id int64) (*domain.Glyph, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE glyphs SET last_used = ? WHERE id = ?`,
		encodeTime(s.now()), id)
	if err != nil {
		return nil, storage(err, "mark glyph used")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperrors.NotFound(apperrors.CodeGlyphNotFound,
			fmt.Sprintf("glyph %d not found", id))
	}
	return s.GetGlyph(ctx, id)
}

// hydrateGlyph scans one glyph row.
func hydrateGlyph(row rowScanner) (*domain.Glyph, error) {
	var (
		g          domain.Glyph
		category   string
		powerLevel string
		props      string
		discovered string
		lastUsed   sql.NullString
	)
	err := row.Scan(&g.ID, &g.Name, &g.Symbol, &category, &powerLevel,
		&g.Description, &props, &g.IsActive, &discovered, &lastUsed)
	if err != nil {
		return nil, err
	}

	g.Category = domain.GlyphCategory(category)
	if g.PowerLevel, err = decodeDecimal(powerLevel); err != nil {
		return nil, err
	}
	if g.Properties, err = decodeAttrs(props); err != nil {
		return nil, err
	}
	if g.DiscoveredAt, err = decodeTime(discovered); err != nil {
		return nil, err
	}
	if g.LastUsed, err = decodeTimePtr(lastUsed); err != nil {
		return nil, err
	}
	return &g, nil
}
