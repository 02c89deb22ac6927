// Package form turns loosely typed form values into calculator inputs.
// Values that cannot be read as numbers become 0.
package form

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Values is a decoded form or JSON object keyed by field name.
type Values map[string]interface{}

var numericNoise = strings.NewReplacer("$", "", ",", "", "%", "", " ", "")

// Float coerces a value to float64, treating anything non-numeric as 0.
// Currency symbols, thousands separators and percent signs are ignored.
func Float(value interface{}) float64 {
	if s, ok := value.(string); ok {
		value = numericNoise.Replace(s)
	}
	f, err := cast.ToFloat64E(value)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// Int coerces a value to int, truncating fractions; non-numeric input is 0.
func Int(value interface{}) int {
	return int(Float(value))
}

// Bool coerces checkbox-style values ("on", "yes", "true", 1) to bool.
func Bool(value interface{}) bool {
	if s, ok := value.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "on", "yes", "y", "checked":
			return true
		}
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return false
	}
	return b
}

// String coerces a value to a trimmed string.
func String(value interface{}) string {
	return strings.TrimSpace(cast.ToString(value))
}

// Float returns the named field as a float64.
func (v Values) Float(key string) float64 {
	return Float(v[key])
}

// Int returns the named field as an int.
func (v Values) Int(key string) int {
	return Int(v[key])
}

// Bool returns the named field as a bool.
func (v Values) Bool(key string) bool {
	return Bool(v[key])
}

// String returns the named field as a trimmed string.
func (v Values) String(key string) string {
	return String(v[key])
}

// Sub returns a nested object, or an empty Values when absent.
func (v Values) Sub(key string) Values {
	m, err := cast.ToStringMapE(v[key])
	if err != nil || m == nil {
		return Values{}
	}
	return Values(m)
}
