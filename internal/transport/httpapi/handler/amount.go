package handler

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"

	apperr "github.com/kislikjeka/warungku/internal/shared/errors"
	"github.com/kislikjeka/warungku/pkg/money"
)

// Amount decodes a rupiah amount sent either as a JSON string ("150000.50") or a number (150000.5)
type Amount struct {
	decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return apperr.Validation("invalid amount")
		}
	}

	d, err := money.Parse(raw)
	if err != nil {
		return apperr.Validation(err.Error())
	}
	a.Decimal = d
	return nil
}

// decimalPtr converts an optional Amount into an optional decimal
func decimalPtr(a *Amount) *decimal.Decimal {
	if a == nil {
		return nil
	}
	d := a.Decimal
	return &d
}
