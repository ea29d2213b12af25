package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// BaseCurrency is the canonical currency used when normalizing prices. It has
// three decimal places.
const BaseCurrency = "KWD"

// Price is either a single amount or a map of currency code to amount.
type Price struct {
	amount  float64
	amounts map[string]float64
	multi   bool
}

func ScalarPrice(amount float64) Price {
	return Price{amount: amount}
}

func MultiPrice(amounts map[string]float64) Price {
	cp := make(map[string]float64, len(amounts))
	for k, v := range amounts {
		cp[k] = v
	}
	return Price{amounts: cp, multi: true}
}

func (p Price) IsMulti() bool {
	return p.multi
}

// Amount normalizes the price to the base currency. A multi-currency price
// without a base currency entry is worth 0.
func (p Price) Amount() float64 {
	return p.AmountIn(BaseCurrency)
}

func (p Price) AmountIn(currency string) float64 {
	if !p.multi {
		return p.amount
	}
	return p.amounts[currency]
}

// Currencies returns the currency codes of a multi-currency price in sorted
// order, or nil for a scalar price.
func (p Price) Currencies() []string {
	if !p.multi {
		return nil
	}
	out := make([]string, 0, len(p.amounts))
	for k := range p.amounts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.multi {
		return json.Marshal(p.amounts)
	}
	return json.Marshal(p.amount)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}

	if data[0] == '{' {
		var amounts map[string]float64
		if err := json.Unmarshal(data, &amounts); err != nil {
			return fmt.Errorf("decode price map: %w", err)
		}
		*p = MultiPrice(amounts)
		return nil
	}

	var amount float64
	if err := json.Unmarshal(data, &amount); err != nil {
		return fmt.Errorf("decode price: %w", err)
	}
	*p = ScalarPrice(amount)
	return nil
}

// Scan reads a price stored as JSON (jsonb column) or a plain numeric column.
func (p *Price) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = Price{}
		return nil
	case []byte:
		return p.UnmarshalJSON(v)
	case string:
		return p.UnmarshalJSON([]byte(v))
	case float64:
		*p = ScalarPrice(v)
		return nil
	case int64:
		*p = ScalarPrice(float64(v))
		return nil
	default:
		return fmt.Errorf("unsupported price source %T", src)
	}
}

func (p Price) Value() (driver.Value, error) {
	b, err := p.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
