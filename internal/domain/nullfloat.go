package domain

import (
	"encoding/json"
	"math"
)

// NullFloat is a float that may be missing. Missing values encode as JSON null.
type NullFloat struct {
	Value float64
	Valid bool
}

// Float returns a present value.
func Float(v float64) NullFloat { return NullFloat{Value: v, Valid: true} }

// Missing returns an absent value.
func Missing() NullFloat { return NullFloat{} }

// Finite reports whether the value is present and neither NaN nor infinite.
func (n NullFloat) Finite() bool {
	return n.Valid && !math.IsNaN(n.Value) && !math.IsInf(n.Value, 0)
}

// OrZero returns the value, or 0 when it is missing or not finite.
func (n NullFloat) OrZero() float64 {
	if !n.Finite() {
		return 0
	}
	return n.Value
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Finite() {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}
