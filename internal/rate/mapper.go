package rate

import (
	"fmt"

	"ratesync/internal/domain"

	"github.com/shopspring/decimal"
)

type Mode string

const (
	// ModeLatest keeps one row per currency, overwritten on every run.
	ModeLatest Mode = "latest"
	// ModeHistory keeps one row per (date, currency).
	ModeHistory Mode = "history"
)

const reciprocalPlaces = 12

// MappedRow is one feed record ready to be written.
type MappedRow struct {
	Code       string
	Title      string
	AUDPerUnit float64
	PerAUD     float64
	Properties domain.Payload
}

type Mapper struct {
	schema domain.DestinationSchema
	allow  *AllowList
	mode   Mode
}

// Map converts a feed record into a destination payload. Every error it returns wraps
// domain.ErrRecordSkipped.
func (m *Mapper) Map(dateISO string, rec domain.RateRecord) (MappedRow, error) {
	code := rec.NormalizedCode()
	if code == "" {
		return MappedRow{}, fmt.Errorf("%w: missing currency code", domain.ErrRecordSkipped)
	}
	if !m.allow.Allows(code) {
		return MappedRow{}, fmt.Errorf("%w: %s filtered out", domain.ErrRecordSkipped, code)
	}

	perAUD, audPerUnit, ok := deriveRates(rec.PerAUD, rec.AUDPerUnit)
	if !ok {
		return MappedRow{}, fmt.Errorf("%w: %s has no usable rate", domain.ErrRecordSkipped, code)
	}

	row := MappedRow{
		Code:       code,
		Title:      m.Title(dateISO, code),
		AUDPerUnit: audPerUnit.InexactFloat64(),
		PerAUD:     perAUD.InexactFloat64(),
	}

	props := domain.Payload{
		m.schema.Title:      {Type: domain.PropertyTitle, Text: row.Title},
		m.schema.AUDPerUnit: {Type: domain.PropertyNumber, Number: row.AUDPerUnit},
		m.schema.PerAUD:     {Type: domain.PropertyNumber, Number: row.PerAUD},
		m.schema.Updated:    {Type: domain.PropertyDate, Text: dateISO},
	}
	if m.schema.Currency != "" {
		props[m.schema.Currency] = domain.Value{Type: domain.PropertySelect, Text: code}
	}
	row.Properties = props
	return row, nil
}

// Title is the bare code in latest mode and "2025-09-29 USD→AUD" in history mode.
func (m *Mapper) Title(dateISO, code string) string {
	if m.mode == ModeHistory {
		return fmt.Sprintf("%s %s→%s", dateISO, code, domain.BaseCurrency)
	}
	return code
}

// deriveRates fills in whichever direction is missing from the other one. A value is
// usable only when present and non-zero; a usable side wins over an unusable one.
func deriveRates(perAUD, audPerUnit decimal.NullDecimal) (decimal.Decimal, decimal.Decimal, bool) {
	hasPer := perAUD.Valid && !perAUD.Decimal.IsZero()
	hasUnit := audPerUnit.Valid && !audPerUnit.Decimal.IsZero()
	one := decimal.NewFromInt(1)

	switch {
	case hasPer && hasUnit:
		return perAUD.Decimal, audPerUnit.Decimal, true
	case hasPer:
		return perAUD.Decimal, one.DivRound(perAUD.Decimal, reciprocalPlaces), true
	case hasUnit:
		return one.DivRound(audPerUnit.Decimal, reciprocalPlaces), audPerUnit.Decimal, true
	default:
		return decimal.Decimal{}, decimal.Decimal{}, false
	}
}

func NewMapper(schema domain.DestinationSchema, allow *AllowList, mode Mode) *Mapper {
	if mode == "" {
		mode = ModeLatest
	}
	return &Mapper{schema: schema, allow: allow, mode: mode}
}
