package trips

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDistanceLike turns a distance given as a number or free text such as
// "700 km" into a number. Everything except digits and '.' is dropped from
// text before parsing; anything that still does not parse yields 0.
func ParseDistanceLike(v interface{}) float64 {
	switch d := v.(type) {
	case nil:
		return 0
	case float64:
		return finiteOrZero(d)
	case float32:
		return finiteOrZero(float64(d))
	case int:
		return float64(d)
	case int64:
		return float64(d)
	case uint:
		return float64(d)
	case string:
		return parseDistanceText(d)
	default:
		return 0
	}
}

func parseDistanceText(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		// "1.2.3" and friends: keep the longest leading number, like a lenient parser would
		n = leadingFloat(cleaned)
	}
	return finiteOrZero(n)
}

func leadingFloat(s string) float64 {
	end := 0
	seenDot := false
	for end < len(s) {
		if s[end] == '.' {
			if seenDot {
				break
			}
			seenDot = true
		}
		end++
	}
	n, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return n
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseCoordinate parses a latitude or longitude. Unparseable input gives nil,
// never 0: 0,0 is a real place.
func ParseCoordinate(v interface{}) *float64 {
	var f float64
	switch c := v.(type) {
	case float64:
		f = c
	case float32:
		f = float64(c)
	case int:
		f = float64(c)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return nil
		}
		f = n
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// TruncateDate cuts a date-time down to its date part: everything up to the
// first 'T', and never more than 10 characters.
func TruncateDate(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 10 {
		s = s[:10]
	}
	return s
}

// ParseDate truncates s and parses it as a calendar date
func ParseDate(s string) (*time.Time, bool) {
	d, err := time.Parse(dateLayout, TruncateDate(s))
	if err != nil {
		return nil, false
	}
	return &d, true
}
