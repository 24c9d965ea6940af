package types

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// LooseDecimal accepts a JSON number or numeric string. Anything else,
// including blanks and garbage, decodes to an absent value instead of an error.
type LooseDecimal struct {
	decimal.NullDecimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *LooseDecimal) UnmarshalJSON(data []byte) error {
	l.NullDecimal = decimal.NullDecimal{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var raw string
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil
		}
	} else {
		raw = string(trimmed)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	l.NullDecimal = decimal.NewNullDecimal(parsed)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l LooseDecimal) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(l.Decimal)
}

// Ptr returns the parsed value, or nil when absent.
func (l LooseDecimal) Ptr() *decimal.Decimal {
	if !l.Valid {
		return nil
	}
	value := l.Decimal
	return &value
}
