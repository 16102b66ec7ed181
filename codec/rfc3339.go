// Package codec provides ready-made coercible types for common wire formats.
package codec

import (
	"fmt"
	"time"

	resguard "github.com/dhilst/resguard"
)

// TimeRFC3339 returns a coercible type that parses RFC3339 strings into
// time.Time. Use it as a field type wherever the raw representation is a
// timestamp string the plain constructor path could not handle.
func TimeRFC3339() resguard.Type {
	return resguard.Via("rfc3339", func(raw any) (any, error) {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected RFC3339 string, got %T", raw)
		}
		return parseRFC3339(s)
	})
}

// DateDMY returns a coercible type for day-first dates like "01/01/2001".
func DateDMY() resguard.Type {
	return resguard.Via("date_dmy", func(raw any) (any, error) {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected DD/MM/YYYY string, got %T", raw)
		}
		t, err := time.Parse("02/01/2006", s)
		if err != nil {
			return nil, err
		}
		return t, nil
	})
}

func parseRFC3339(s string) (any, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return nil, err
	}
	return t, nil
}
