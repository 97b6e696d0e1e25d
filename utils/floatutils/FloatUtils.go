// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// ClipSlice clips each element of values to the interval at the same
// index in place. It panics if the lengths differ.
func ClipSlice(values []float64, intervals []r1.Interval) {
	if len(values) != len(intervals) {
		panic("clipSlice: values and intervals must have the same length")
	}
	for i := range values {
		values[i] = ClipInterval(values[i], intervals[i])
	}
}

// Wrap wraps value periodically into [interval.Min, interval.Max)
func Wrap(value float64, interval r1.Interval) float64 {
	width := interval.Max - interval.Min
	wrapped := math.Mod(value-interval.Min, width)
	if wrapped < 0 {
		wrapped += width
	}
	return wrapped + interval.Min
}
