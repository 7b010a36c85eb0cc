// Column codec helpers: open maps and ordered lists travel as JSON text,
// decimals as canonical decimal strings, timestamps as RFC3339Nano UTC.
// Decoding uses json.Number so numeric open-map values keep their exact
// written representation instead of collapsing to float64.
package store

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"aetherops.io/arcanum/internal/domain"
)

func encodeAttrs(a domain.Attrs) (string, error) {
	if a == nil {
		return "{}", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode attrs: %w", err)
	}
	return string(data), nil
}

func decodeAttrs(s string) (domain.Attrs, error) {
	a := domain.Attrs{}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("decode attrs: %w", err)
	}
	return a, nil
}

func encodeList(l []string) (string, error) {
	if l == nil {
		l = []string{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(data), nil
}

func decodeList(s string) ([]string, error) {
	var l []string
	if err := json.Unmarshal([]byte(s), &l); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if l == nil {
		l = []string{}
	}
	return l, nil
}

func encodeSpectrum(sp domain.Spectrum) (string, error) {
	if sp == nil {
		return "{}", nil
	}
	data, err := json.Marshal(sp)
	if err != nil {
		return "", fmt.Errorf("encode spectrum: %w", err)
	}
	return string(data), nil
}

func decodeSpectrum(s string) (domain.Spectrum, error) {
	sp := domain.Spectrum{}
	if err := json.Unmarshal([]byte(s), &sp); err != nil {
		return nil, fmt.Errorf("decode spectrum: %w", err)
	}
	return sp, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode time %q: %w", s, err)
	}
	return t.UTC(), nil
}

func encodeTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return encodeTime(*t)
}

func decodeTimePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := decodeTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func decodeDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode decimal %q: %w", s, err)
	}
	return d, nil
}
