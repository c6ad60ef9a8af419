package core

import "math"

// Interval is a closed range of scalars [Min, Max]. It is empty when Min > Max.
type Interval struct {
	Min, Max float64
}

var (
	// EmptyInterval contains nothing and is the identity for Union
	EmptyInterval = Interval{Min: math.Inf(1), Max: math.Inf(-1)}
	// UniverseInterval contains every finite value
	UniverseInterval = Interval{Min: math.Inf(-1), Max: math.Inf(1)}
)

// NewInterval creates an interval from min and max
func NewInterval(min, max float64) Interval {
	return Interval{Min: min, Max: max}
}

// Size returns Max - Min (negative for empty intervals)
func (i Interval) Size() float64 {
	return i.Max - i.Min
}

// IsEmpty reports whether the interval contains no values
func (i Interval) IsEmpty() bool {
	return i.Min > i.Max
}

// Contains reports whether min <= x <= max
func (i Interval) Contains(x float64) bool {
	return i.Min <= x && x <= i.Max
}

// Surrounds reports whether min < x < max
func (i Interval) Surrounds(x float64) bool {
	return i.Min < x && x < i.Max
}

// Clamp limits x to the interval
func (i Interval) Clamp(x float64) float64 {
	if x < i.Min {
		return i.Min
	}
	if x > i.Max {
		return i.Max
	}
	return x
}

// Expand returns the interval widened by delta, half on each side
func (i Interval) Expand(delta float64) Interval {
	padding := delta / 2
	return Interval{Min: i.Min - padding, Max: i.Max + padding}
}

// Union returns the smallest interval enclosing both intervals
func (i Interval) Union(other Interval) Interval {
	return Interval{
		Min: math.Min(i.Min, other.Min),
		Max: math.Max(i.Max, other.Max),
	}
}
