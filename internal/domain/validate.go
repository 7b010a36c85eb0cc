package domain

import (
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

// violations accumulates field-level constraint failures so a single
// ValidationError reports every offending field at once.
type violations struct {
	fields []apperrors.FieldError
}

func (v *violations) add(field, constraint string, value any) {
	v.fields = append(v.fields, apperrors.FieldError{
		Field:      field,
		Constraint: constraint,
		Value:      value,
	})
}

// required rejects empty strings for mandatory fields.
func (v *violations) required(field, s string) {
	if s == "" {
		v.add(field, "required", s)
	}
}

// maxLen rejects strings longer than max characters. Lengths count runes,
// not bytes: a symbol of ten emoji is within a 10-char bound.
func (v *violations) maxLen(field, s string, max int) {
	if n := utf8.RuneCountInString(s); n > max {
		v.add(field, fmt.Sprintf("max_length=%d", max), s)
	}
}

// percent rejects decimals outside the inclusive [0,100] range.
func (v *violations) percent(field string, d decimal.Decimal) {
	if d.IsNegative() || d.GreaterThan(hundred) {
		v.add(field, "range=[0,100]", d.String())
	}
}

// nonNegative rejects decimals below zero.
func (v *violations) nonNegative(field string, d decimal.Decimal) {
	if d.IsNegative() {
		v.add(field, "min=0", d.String())
	}
}

// atLeast rejects integers below min.
func (v *violations) atLeast(field string, n, min int) {
	if n < min {
		v.add(field, fmt.Sprintf("min=%d", min), n)
	}
}

// enum records an invalid closed-set member. Unknown values are rejected,
// never coerced to a default.
func (v *violations) enum(field string, ok bool, value any) {
	if !ok {
		v.add(field, "enum", value)
	}
}

// err returns nil when no constraint was violated, otherwise a
// ValidationError carrying every field failure.
func (v *violations) err(entity string) error {
	if len(v.fields) == 0 {
		return nil
	}
	return apperrors.Validation(
		apperrors.CodeValidationFailed,
		fmt.Sprintf("invalid %s", entity),
	).WithFieldErrors(v.fields)
}
