package engine

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind distinguishes the three shapes a Value can take.
type ValueKind int

const (
	KindNumber ValueKind = iota
	KindString
	KindCollection
)

// Value is the runtime result of evaluating an Expression. It mirrors the
// three-way split in spec.md's data model: a cell either carries a number,
// a string, or a flattenable collection of other values.
type Value struct {
	Kind  ValueKind
	Num   float64
	Str   string
	Items []Value
}

func NumberValue(f float64) Value        { return Value{Kind: KindNumber, Num: f} }
func StringValue(s string) Value         { return Value{Kind: KindString, Str: s} }
func CollectionValue(items []Value) Value { return Value{Kind: KindCollection, Items: items} }

// ToNumber coerces a Value for arithmetic. A String that doesn't parse as a
// float64 silently falls back to 0 rather than failing — confirmed by the
// reference evaluator's `s.parse::<f64>().unwrap_or(0.0)` — and this applies
// equally to a bare argument of sum(), not only to values already flattened
// out of a Collection. A Collection coerces via its rendered text form,
// using the same fallback-to-zero rule.
func (v Value) ToNumber() float64 {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0
		}
		return f
	case KindCollection:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.ToText()), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// ToText renders a Value the way it would be displayed in a cell: numbers
// drop a trailing ".0" when integral, strings pass through unchanged, and a
// Collection joins its items with a single space.
func (v Value) ToText() string {
	switch v.Kind {
	case KindNumber:
		return formatNumber(v.Num)
	case KindString:
		return v.Str
	case KindCollection:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = item.ToText()
		}
		return strings.Join(parts, " ")
	}
	return ""
}

// Flatten expands a Collection into its leaf values, recursively. Non-
// collections flatten to a single-element slice containing themselves.
func (v Value) Flatten() []Value {
	if v.Kind != KindCollection {
		return []Value{v}
	}
	out := make([]Value, 0, len(v.Items))
	for _, item := range v.Items {
		out = append(out, item.Flatten()...)
	}
	return out
}

func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
