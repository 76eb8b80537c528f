package measurement

import (
	"encoding/json"
	"strconv"
)

// Value is a single clinical measurement value. It holds either a numeric
// payload, raw text that failed numeric sniffing, or nothing at all. The
// zero Value is Missing, which is what Store.Get returns for absent names,
// so threshold comparisons can never succeed against a sentinel string.
type Value struct {
	num     float64
	text    string
	numeric bool
	present bool
}

// Num builds a numeric Value.
func Num(v float64) Value {
	return Value{num: v, numeric: true, present: true}
}

// Text builds a Value that keeps the raw token as-is.
func Text(s string) Value {
	return Value{text: s, present: true}
}

// Missing is the explicit absence marker.
var Missing = Value{}

// IsMissing reports whether no value was recorded at all.
func (v Value) IsMissing() bool { return !v.present }

// Float returns the numeric payload. The second return is false for text
// and missing values; callers must check it before comparing thresholds.
func (v Value) Float() (float64, bool) {
	if !v.present || !v.numeric {
		return 0, false
	}
	return v.num, true
}

// Raw returns the original text payload for non-numeric values.
func (v Value) Raw() (string, bool) {
	if !v.present || v.numeric {
		return "", false
	}
	return v.text, true
}

// String renders the value for human-facing output. Missing values render
// as "N/A" here and only here; the marker never round-trips back into a
// comparable value.
func (v Value) String() string {
	switch {
	case !v.present:
		return "N/A"
	case v.numeric:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	default:
		return v.text
	}
}

// MarshalJSON encodes numeric values as JSON numbers, text values as JSON
// strings, and missing values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case !v.present:
		return []byte("null"), nil
	case v.numeric:
		return json.Marshal(v.num)
	default:
		return json.Marshal(v.text)
	}
}

// sniffNumeric reports whether a raw token is treated as a number: only
// digits, a single optional leading '-', and at most one '.'. Tokens like
// "1.2.3", "-" or "N/A" stay text. The rule is deliberately narrower than
// strconv.ParseFloat (no exponents, no "+") to stay compatible with
// existing fixture files.
func sniffNumeric(tok string) bool {
	s := tok
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// parseValue applies the sniffing rule to a raw token.
func parseValue(tok string) Value {
	if sniffNumeric(tok) {
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return Num(f)
		}
	}
	return Text(tok)
}
