package ai

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrCoerce marks a single field value that could not be normalized to
// its declared type. Never escalated: the caller keeps the raw value and
// records a warning.
var ErrCoerce = errors.New("could not coerce field value")

type coercerFunc func(interface{}) (interface{}, error)

// Coercion table keyed by the template's declared type. Types without an
// entry (string, array) pass through unchanged.
var coercers = map[FieldType]coercerFunc{
	FieldNumber:  coerceNumber,
	FieldDate:    coerceDate,
	FieldBoolean: coerceBool,
}

// CoerceValue normalizes one extracted value to the declared field type.
// Null stays null. On failure the raw value is returned alongside an
// ErrCoerce-wrapped error so the caller can keep it as-is.
func CoerceValue(t FieldType, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	coerce, ok := coercers[t]
	if !ok {
		return v, nil
	}
	out, err := coerce(v)
	if err != nil {
		return v, fmt.Errorf("%w: %v", ErrCoerce, err)
	}
	return out, nil
}

// coerceNumber accepts JSON numbers directly and strips non-numeric
// characters from string representations ("94%" -> 94, "1 250 kg" -> 1250).
func coerceNumber(v interface{}) (interface{}, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		var b strings.Builder
		for _, r := range n {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				b.WriteRune(r)
			}
		}
		cleaned := b.String()
		if cleaned == "" {
			return nil, fmt.Errorf("no numeric content in %q", n)
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil, fmt.Errorf("unparsable number %q", n)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("unexpected type %T for number field", v)
	}
}

// Date layouts seen on certificates and analysis bulletins, FR and EN.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2 January 2006",
	"January 2, 2006",
	"2006/01/02",
}

// coerceDate normalizes to an ISO calendar date (YYYY-MM-DD).
func coerceDate(v interface{}) (interface{}, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected type %T for date field", v)
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.Format("2006-01-02"), nil
		}
	}
	return nil, fmt.Errorf("unparsable date %q", s)
}

// coerceBool accepts booleans, the literal string "true" (case-insensitive)
// and numeric truthiness.
func coerceBool(v interface{}) (interface{}, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true"), nil
	case float64:
		return b != 0, nil
	default:
		return nil, fmt.Errorf("unexpected type %T for boolean field", v)
	}
}
