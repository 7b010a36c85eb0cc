// Package domain defines the persisted record types of the Arcanum
// operations tracker: glyphs, transformation protocols and their steps,
// missions and mission logs, emotional-resonance readings, and quantum-shield
// and healing-module records.
//
// Each entity carries its field constraints, default values, and
// relationships. Create shapes hold only user-supplied fields and apply
// defaults when materialized; patch shapes distinguish "field omitted" from
// "field explicitly set" so partial updates never clobber stored values.
// All percentage/cost/rate quantities use fixed-point decimals
// (github.com/shopspring/decimal), never binary floating point.
package domain

import (
	"github.com/shopspring/decimal"
)

// Attrs is an open key-value map with caller-defined schema. Values may be
// any JSON-serializable data: null, bool, number, string, list, or map.
// Contents round-trip through storage byte-for-byte modulo canonical numeric
// representation.
type Attrs map[string]any

// Spectrum maps emotion labels to fixed-point decimal readings. Unlike
// general Attrs, values are constrained to decimal semantics.
type Spectrum map[string]decimal.Decimal

var hundred = decimal.NewFromInt(100)

// dec builds a decimal constant from an integer, for defaults.
func dec(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// cloneAttrs copies an open map one level deep; nested values are shared.
// Callers that mutate nested structures own that risk.
func cloneAttrs(a Attrs) Attrs {
	if a == nil {
		return Attrs{}
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// cloneSpectrum copies an emotional spectrum map.
func cloneSpectrum(s Spectrum) Spectrum {
	if s == nil {
		return Spectrum{}
	}
	out := make(Spectrum, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// cloneList copies an ordered string list preserving order, no dedup.
func cloneList(l []string) []string {
	if l == nil {
		return []string{}
	}
	out := make([]string, len(l))
	copy(out, l)
	return out
}
