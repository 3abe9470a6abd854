package trips

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Optional is a document field that remembers whether its key was present,
// whether it was null, and whether its value had the wrong shape.
// A malformed value never fails decoding of the surrounding document.
type Optional[T any] struct {
	Value     T
	Present   bool
	Null      bool
	Malformed bool
}

// Some builds a present, valid Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if isJSONNull(data) {
		o.Null = true
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		o.Malformed = true
		return nil
	}
	o.Value = v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Valid reports whether the field carries usable data
func (o Optional[T]) Valid() bool {
	return o.Present && !o.Null && !o.Malformed
}

// Or returns the value, or def when the field is absent, null or malformed
func (o Optional[T]) Or(def T) T {
	if o.Valid() {
		return o.Value
	}
	return def
}

// Ptr returns a pointer to the value, or nil when the field is not valid
func (o Optional[T]) Ptr() *T {
	if !o.Valid() {
		return nil
	}
	v := o.Value
	return &v
}

func isJSONNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// Number is a numeric field that also accepts numeric strings ("1200.50")
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", "")), 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*n = Number(finiteOrZero(f))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Text is a string field that also accepts numbers, so a duration sent as 3
// is kept as "3" instead of being thrown away.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

// RowID is a client-echoed row id. Numbers and numeric strings are accepted.
type RowID uint

func (id *RowID) UnmarshalJSON(data []byte) error {
	var n Number
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	if n < 0 || float64(n) != float64(uint(n)) {
		return fmt.Errorf("invalid id %v", float64(n))
	}
	*id = RowID(uint(n))
	return nil
}

// Distance is a distance-bearing field. It always decodes: numbers are kept,
// text goes through ParseDistanceLike and anything else becomes 0.
type Distance float64

func (d *Distance) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*d = 0
		return nil
	}
	if b, ok := raw.(bool); ok && !b {
		*d = 0
		return nil
	}
	*d = Distance(ParseDistanceLike(raw))
	return nil
}

// Coordinate is a latitude or longitude. Unparseable input is unknown, not 0.
type Coordinate struct {
	value *float64
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		c.value = nil
		return nil
	}
	c.value = ParseCoordinate(raw)
	return nil
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if c.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*c.value)
}

// Float returns the coordinate, or nil when unknown
func (c Coordinate) Float() *float64 {
	if c.value == nil {
		return nil
	}
	v := *c.value
	return &v
}

// CoordinateOf wraps a known coordinate
func CoordinateOf(f float64) Coordinate {
	return Coordinate{value: &f}
}

// Tips is the ordered list of daily tips. Non-string entries are dropped and
// any value that is not an array decodes as an empty list.
type Tips []string

func (t *Tips) UnmarshalJSON(data []byte) error {
	*t = Tips(decodeTips(data))
	return nil
}

func decodeTips(data []byte) []string {
	tips := []string{}
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return tips
	}
	for _, item := range raw {
		if s, ok := item.(string); ok {
			tips = append(tips, s)
		}
	}
	return tips
}

// DecodeTips reads the stored textual encoding of daily tips. Missing or
// malformed input gives an empty list.
func DecodeTips(stored []byte) []string {
	if len(bytes.TrimSpace(stored)) == 0 {
		return []string{}
	}
	return decodeTips(stored)
}

// EncodeTips produces the stored textual encoding of daily tips
func EncodeTips(tips []string) []byte {
	if tips == nil {
		tips = []string{}
	}
	data, err := json.Marshal(tips)
	if err != nil {
		return []byte("[]")
	}
	return data
}
