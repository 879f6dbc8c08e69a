package models

import (
	"bytes"
	"encoding/json"
)

// Metric is a single financial metric that may be unavailable. It replaces the
// upstream "N/A" string sentinels with an explicit validity flag so consumers
// never have to re-parse formatted values.
type Metric struct {
	Value float64
	Valid bool
}

// Some returns a valid metric carrying v.
func Some(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// None returns an unavailable metric.
func None() Metric {
	return Metric{}
}

// Or returns the metric value, or def when the metric is unavailable.
func (m Metric) Or(def float64) float64 {
	if !m.Valid {
		return def
	}
	return m.Value
}

// Positive reports whether the metric is available and strictly greater than zero.
func (m Metric) Positive() bool {
	return m.Valid && m.Value > 0
}

var jsonNull = []byte("null")

// MarshalJSON encodes an unavailable metric as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return jsonNull, nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON decodes null as unavailable and any number as a valid metric.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		*m = Metric{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}
