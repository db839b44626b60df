package types

import "time"

// ValueKind discriminates the payload of a Value.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueDate
	ValueList
)

// Value is the right-hand side of a Rule.
// The zero Value is null.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	Date Date
	List []Value
}

// NullValue returns the absent value.
func NullValue() Value { return Value{} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{Kind: ValueNumber, Num: n} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// DateValue wraps a calendar date.
func DateValue(d Date) Value { return Value{Kind: ValueDate, Date: d} }

// ListValue wraps an ordered list of values (IN / NOT IN operands).
func ListValue(vs ...Value) Value { return Value{Kind: ValueList, List: vs} }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.Kind == ValueNull }

// Date is a calendar date carrying day, month and year only.
// It has no time zone; two Dates are equal when their fields are equal.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date from its fields.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf takes the calendar fields of t in t's own location.
// No zone conversion is applied, so a midnight value stays on its day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Format lays out the date with a time package layout.
// Only date elements of the layout are meaningful.
func (d Date) Format(layout string) string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(layout)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}
