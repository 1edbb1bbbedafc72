package conversation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fields holds validated wizard values in the order they were collected
type Fields struct {
	keys   []string
	values map[string]any
}

// NewFields creates an empty bag
func NewFields() *Fields {
	return &Fields{values: make(map[string]any)}
}

// Set stores a value. Re-setting an existing key keeps its original position.
func (f *Fields) Set(key string, value any) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the raw value
func (f *Fields) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Has reports whether key was collected
func (f *Fields) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Keys returns the collected keys in order
func (f *Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len is the number of collected values
func (f *Fields) Len() int {
	return len(f.keys)
}

// Clone returns an independent copy
func (f *Fields) Clone() *Fields {
	c := &Fields{
		keys:   make([]string, len(f.keys)),
		values: make(map[string]any, len(f.values)),
	}
	copy(c.keys, f.keys)
	for k, v := range f.values {
		c.values[k] = v
	}
	return c
}

func (f *Fields) String(key string) string {
	s, _ := f.values[key].(string)
	return s
}

func (f *Fields) Int64(key string) int64 {
	switch v := f.values[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

func (f *Fields) Decimal(key string) decimal.Decimal {
	d, _ := f.values[key].(decimal.Decimal)
	return d
}

func (f *Fields) Bool(key string) bool {
	b, _ := f.values[key].(bool)
	return b
}

// Time returns a time value and whether it was set
func (f *Fields) Time(key string) (time.Time, bool) {
	t, ok := f.values[key].(time.Time)
	return t, ok
}

// Ints returns an int slice value
func (f *Fields) Ints(key string) []int {
	v, _ := f.values[key].([]int)
	return v
}

