package dates

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// layouts are tried in order on non-numeric strings; the first that parses wins.
// Missing day components default to the 1st of the month.
var layouts = []string{
	time.RFC3339, // ATOM
	"2006-1-2",   // Y-M-D
	"02.01.2006", // D.M.Y
	"2.1.2006",   // J.N.Y (no leading zeros)
	"2006-1",     // Y-M
	"1-2006",     // M-Y
}

var numericRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// twoDigitPivot splits two-digit years: below it they land in the 2000s,
// from it on in the 1900s.
const twoDigitPivot = 70

// Coerce turns a raw value (date, number or string) into a calendar date.
// It reports false when the value cannot be understood as a date; it never
// panics on unexpected input.
func Coerce(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	if num, ok := numericText(v); ok {
		return fromNumber(num)
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	return fromString(strings.TrimSpace(s))
}

// numericText returns the decimal text of v when v is a number or a numeric string.
func numericText(v any) (string, bool) {
	switch t := v.(type) {
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	case uint32:
		return strconv.FormatUint(uint64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return numericText(string(t))
	case string:
		s := strings.TrimSpace(t)
		if numericRe.MatchString(s) {
			return s, true
		}
	}
	return "", false
}

func fromNumber(num string) (time.Time, bool) {
	if isDigits(num) {
		switch len(num) {
		case 2:
			y, _ := strconv.Atoi(num)
			if y < twoDigitPivot {
				y += 2000
			} else {
				y += 1900
			}
			return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), true
		case 4:
			y, _ := strconv.Atoi(num)
			return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	sec, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(sec, 0).UTC(), true
}

func fromString(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return parseAny(s)
}

// parseAny is the last resort for free-form dates. A panic in the generic
// parser counts as a failed parse.
func parseAny(s string) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
