package calculators

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Inputs is a loosely typed bag of calculator parameters as posted by a
// form. Values may be numbers, numeric strings, booleans or absent.
type Inputs map[string]any

// Float returns the numeric value for key. Anything that does not parse
// as a finite number reads as zero.
func (in Inputs) Float(key string) float64 {
	v, ok := in[key]
	if !ok || v == nil {
		return 0
	}

	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(leadingNumber(t), 64)
		if err != nil {
			return 0
		}
		f = n
	case bool:
		if t {
			f = 1
		}
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// FloatOr behaves like Float but substitutes def when the key is absent.
// A present value, even "0" or one that does not parse, reads as Float does.
func (in Inputs) FloatOr(key string, def float64) float64 {
	if v, ok := in[key]; !ok || v == nil {
		return def
	}
	return in.Float(key)
}

// String returns the trimmed string value for key, or def when absent.
func (in Inputs) String(key, def string) string {
	v, ok := in[key]
	if !ok || v == nil {
		return def
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		s = t.String()
	case bool:
		s = strconv.FormatBool(t)
	default:
		return def
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func (in Inputs) Bool(key string) bool {
	v, ok := in[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	case float64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	}
	return false
}

// leadingNumber mimics form parsing where "12.5 m" reads as 12.5.
func leadingNumber(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit, seenDot, seenExp := false, false, false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case (r == '-' || r == '+') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		case r == '.' && !seenDot && !seenExp:
			seenDot = true
		case (r == 'e' || r == 'E') && seenDigit && !seenExp:
			seenExp = true
		default:
			return trimDangling(s[:end])
		}
		end = i + 1
	}
	return trimDangling(s[:end])
}

func trimDangling(s string) string {
	return strings.TrimRight(s, "eE+-")
}
