// Package analysis implements the fundamental analysis scoring engine:
// metric normalization, price-target estimation, cumulative scoring and
// narrative summary generation.
package analysis

import (
	"strconv"
	"strings"

	"github.com/kestrelworks/vantage/internal/models"
)

// ParseNumeric coerces a raw provider value into a float64. Absent values and
// unparsable strings yield 0. Formatted strings ("$12.3B", "5.20%", "N/A") are
// stripped down to digits, minus sign and decimal point before parsing.
// Never errors; idempotent over plain numbers.
func ParseNumeric(raw interface{}) float64 {
	return ParseNumericDefault(raw, 0)
}

// ParseNumericDefault is ParseNumeric with a caller-chosen default for absent
// or unparsable values. Ratio-like fields where 0 is semantically wrong (beta)
// pass 1.
func ParseNumericDefault(raw interface{}, def float64) float64 {
	switch v := raw.(type) {
	case nil:
		return def
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		cleaned := stripNonNumeric(v)
		if cleaned == "" {
			return def
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

// ParseMetric coerces a raw provider value into a Metric, keeping track of
// whether the value was actually present. Absent values and unparsable
// strings yield an unavailable metric rather than a zero.
func ParseMetric(raw interface{}) models.Metric {
	switch v := raw.(type) {
	case nil:
		return models.None()
	case float64:
		return models.Some(v)
	case float32:
		return models.Some(float64(v))
	case int:
		return models.Some(float64(v))
	case int64:
		return models.Some(float64(v))
	case string:
		cleaned := stripNonNumeric(v)
		if cleaned == "" {
			return models.None()
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return models.None()
		}
		return models.Some(f)
	default:
		return models.None()
	}
}

// stripNonNumeric removes every character that is not a digit, minus sign or
// decimal point.
func stripNonNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
