package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a single cell of a tabular row, either numeric or categorical.
type Value struct {
	Num   float64
	Str   string
	IsStr bool
}

// Number wraps a numeric cell.
func Number(v float64) Value {
	return Value{Num: v}
}

// String wraps a categorical cell.
func String(s string) Value {
	return Value{Str: s, IsStr: true}
}

func (v Value) String() string {
	if v.IsStr {
		return strconv.Quote(v.Str)
	}
	return strconv.FormatFloat(v.Num, 'g', -1, 64)
}

// Row is one record keyed by column name.
type Row map[string]Value

// Category is a fitted label: a one-hot category or a classifier class.
// Labels are exported either as JSON strings or JSON numbers and only match
// cells of the same type.
type Category struct {
	Value
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Value = String(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("category must be a string or a number, got %s", string(data))
	}
	c.Value = Number(f)
	return nil
}

func (c Category) MarshalJSON() ([]byte, error) {
	if c.IsStr {
		return json.Marshal(c.Str)
	}
	return json.Marshal(c.Num)
}

func (c Category) matches(v Value) bool {
	if c.IsStr != v.IsStr {
		return false
	}
	if c.IsStr {
		return c.Str == v.Str
	}
	return c.Num == v.Num
}
