package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Normalize walks a decoded payload value and replaces every
// floating-point leaf with an exact decimal built from the value's
// canonical (shortest) string form, recursing through mappings and
// sequences. Non-numeric leaves pass through unchanged, decimals are
// already canonical, and the whole transformation is side-effect free:
// normalizing twice yields the same result as normalizing once.
//
// The keyed store cannot hold binary floats, so every numeric payload
// goes through here before a write.
func Normalize(v any) any {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x)
	case float32:
		return decimal.NewFromFloat32(x)
	case json.Number:
		if d, err := decimal.NewFromString(x.String()); err == nil {
			return d
		}
		return x
	case decimal.Decimal:
		return x
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, elem := range x {
			out[k] = Normalize(elem)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = Normalize(elem)
		}
		return out
	default:
		return v
	}
}

// NormalizeVitals converts the raw vitals of a reading into their
// canonical decimal form. The decimal is constructed from the literal
// the client sent, not from its float64 approximation.
func NormalizeVitals(vitals map[string]json.Number) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(vitals))
	for name, raw := range vitals {
		d, ok := Normalize(raw).(decimal.Decimal)
		if !ok {
			return nil, fmt.Errorf("vitals[%s]: invalid numeric literal %q", name, raw.String())
		}
		out[name] = d
	}
	return out, nil
}
