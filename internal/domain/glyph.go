package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GlyphCategory classifies a glyph's mystical affinity.
type GlyphCategory string

// Glyph categories.
const (
	GlyphCategoryProtection     GlyphCategory = "protection"
	GlyphCategoryTransformation GlyphCategory = "transformation"
	GlyphCategoryHealing        GlyphCategory = "healing"
	GlyphCategoryCommunication  GlyphCategory = "communication"
	GlyphCategoryEnergy         GlyphCategory = "energy"
)

// Valid reports whether c is a declared category member.
func (c GlyphCategory) Valid() bool {
	switch c {
	case GlyphCategoryProtection, GlyphCategoryTransformation,
		GlyphCategoryHealing, GlyphCategoryCommunication, GlyphCategoryEnergy:
		return true
	}
	return false
}

// Glyph is a discovered mystical symbol with a category and power rating,
// usable as an optional component of a transformation step.
type Glyph struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Symbol       string          `json:"symbol"`
	Category     GlyphCategory   `json:"category"`
	PowerLevel   decimal.Decimal `json:"power_level"`
	Description  string          `json:"description"`
	Properties   Attrs           `json:"properties"`
	IsActive     bool            `json:"is_active"`
	DiscoveredAt time.Time       `json:"discovered_at"` // set at creation, immutable
	LastUsed     *time.Time      `json:"last_used,omitempty"`
}

// Validate checks every field constraint on the glyph.
func (g *Glyph) Validate() error {
	var v violations
	v.required("name", g.Name)
	v.maxLen("name", g.Name, 100)
	v.required("symbol", g.Symbol)
	v.maxLen("symbol", g.Symbol, 10)
	v.enum("category", g.Category.Valid(), string(g.Category))
	v.percent("power_level", g.PowerLevel)
	v.maxLen("description", g.Description, 1000)
	return v.err("glyph")
}

// GlyphCreate is the user-supplied shape for discovering a glyph.
// Pointer fields default when omitted; explicit values are kept verbatim,
// including explicit zeroes.
type GlyphCreate struct {
	Name        string           `json:"name"`
	Symbol      string           `json:"symbol"`
	Category    *GlyphCategory   `json:"category,omitempty"`    // default energy
	PowerLevel  *decimal.Decimal `json:"power_level,omitempty"` // default 1.0
	Description *string          `json:"description,omitempty"` // default ""
	Properties  Attrs            `json:"properties,omitempty"`  // default {}
}

// Materialize builds the persisted entity, applying defaults for omitted
// fields and stamping discovered_at.
func (c GlyphCreate) Materialize(now time.Time) *Glyph {
	g := &Glyph{
		Name:         c.Name,
		Symbol:       c.Symbol,
		Category:     GlyphCategoryEnergy,
		PowerLevel:   dec(1),
		Properties:   cloneAttrs(c.Properties),
		IsActive:     true,
		DiscoveredAt: now,
	}
	if c.Category != nil {
		g.Category = *c.Category
	}
	if c.PowerLevel != nil {
		g.PowerLevel = *c.PowerLevel
	}
	if c.Description != nil {
		g.Description = *c.Description
	}
	return g
}

// GlyphPatch is a partial update: unset fields leave the stored value
// unchanged. discovered_at is immutable and last_used moves only through
// MarkGlyphUsed.
type GlyphPatch struct {
	Name        Opt[string]          `json:"name"`
	Symbol      Opt[string]          `json:"symbol"`
	Category    Opt[GlyphCategory]   `json:"category"`
	PowerLevel  Opt[decimal.Decimal] `json:"power_level"`
	Description Opt[string]          `json:"description"`
	Properties  Opt[Attrs]           `json:"properties"`
	IsActive    Opt[bool]            `json:"is_active"`
}

// Apply overlays the set fields onto g.
func (p GlyphPatch) Apply(g *Glyph) {
	if p.Name.IsSet() {
		g.Name = p.Name.Value()
	}
	if p.Symbol.IsSet() {
		g.Symbol = p.Symbol.Value()
	}
	if p.Category.IsSet() {
		g.Category = p.Category.Value()
	}
	if p.PowerLevel.IsSet() {
		g.PowerLevel = p.PowerLevel.Value()
	}
	if p.Description.IsSet() {
		g.Description = p.Description.Value()
	}
	if p.Properties.IsSet() {
		g.Properties = cloneAttrs(p.Properties.Value())
	}
	if p.IsActive.IsSet() {
		g.IsActive = p.IsActive.Value()
	}
}
