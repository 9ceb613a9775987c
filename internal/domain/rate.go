package domain

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// BaseCurrency is the currency every feed rate is quoted against.
const BaseCurrency = "AUD"

type RateRecord struct {
	Code       string              `json:"code"`
	PerAUD     decimal.NullDecimal `json:"per_aud"`
	AUDPerUnit decimal.NullDecimal `json:"aud_per_unit"`
}

// UnmarshalJSON never fails on a bad field value: a rate that is not a number or a
// numeric string is left invalid and a non-string code is left empty, so the mapper
// skips that one record instead of the whole snapshot failing to decode.
func (r *RateRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Code       json.RawMessage `json:"code"`
		PerAUD     json.RawMessage `json:"per_aud"`
		AUDPerUnit json.RawMessage `json:"aud_per_unit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = RateRecord{
		PerAUD:     lenientDecimal(raw.PerAUD),
		AUDPerUnit: lenientDecimal(raw.AUDPerUnit),
	}
	if len(raw.Code) > 0 {
		_ = json.Unmarshal(raw.Code, &r.Code)
	}
	return nil
}

func lenientDecimal(raw json.RawMessage) decimal.NullDecimal {
	var d decimal.NullDecimal
	if len(raw) == 0 {
		return d
	}
	if err := d.UnmarshalJSON(raw); err != nil {
		return decimal.NullDecimal{}
	}
	return d
}

// NormalizedCode returns the trimmed upper-case currency code.
func (r RateRecord) NormalizedCode() string {
	return strings.ToUpper(strings.TrimSpace(r.Code))
}

type FeedSnapshot struct {
	Date  string       `json:"date"`
	Rates []RateRecord `json:"rates"`
}
