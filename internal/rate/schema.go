package rate

import (
	"fmt"
	"strings"
	"unicode"

	"ratesync/internal/domain"
)

// CurrencyProperty is matched literally; other select fields are left alone.
const CurrencyProperty = "Currency"

const (
	updatedKeyword    = "updated"
	audPerUnitKeyword = "audperunit"
	perAUDKeyword     = "peraud"
)

// NormalizeName lower-cases name and drops everything that is not a letter or digit,
// so "AUD per unit", "aud_per_unit" and "AudPerUnit" compare equal.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveSchema maps the canonical field roles onto the destination's property names.
// Properties are scanned in the given order and the first match for a role wins.
func ResolveSchema(db domain.DatabaseSchema) (domain.DestinationSchema, error) {
	var (
		resolved  domain.DestinationSchema
		dateProps []string
	)

	for _, p := range db.Properties {
		norm := NormalizeName(p.Name)
		switch p.Type {
		case domain.PropertyTitle:
			if resolved.Title == "" {
				resolved.Title = p.Name
			}
		case domain.PropertySelect:
			if p.Name == CurrencyProperty && resolved.Currency == "" {
				resolved.Currency = p.Name
			}
		case domain.PropertyDate:
			dateProps = append(dateProps, p.Name)
			if strings.Contains(norm, updatedKeyword) && resolved.Updated == "" {
				resolved.Updated = p.Name
			}
		case domain.PropertyNumber:
			switch {
			case strings.Contains(norm, audPerUnitKeyword):
				if resolved.AUDPerUnit == "" {
					resolved.AUDPerUnit = p.Name
				}
			case strings.Contains(norm, perAUDKeyword):
				if resolved.PerAUD == "" {
					resolved.PerAUD = p.Name
				}
			}
		}
	}

	if resolved.Updated == "" && len(dateProps) == 1 {
		resolved.Updated = dateProps[0]
	}

	if resolved.Title == "" {
		return domain.DestinationSchema{}, fmt.Errorf("%w: no title property", domain.ErrSchema)
	}
	if resolved.AUDPerUnit == "" || resolved.PerAUD == "" {
		return domain.DestinationSchema{}, fmt.Errorf("%w: numeric fields unresolved", domain.ErrSchema)
	}
	if resolved.Updated == "" {
		return domain.DestinationSchema{}, fmt.Errorf("%w: date field unresolved", domain.ErrSchema)
	}
	return resolved, nil
}
