// Package mesh builds the channel mesh: cross lines between surveyed
// cross sections, vertex rows along them, quadrilateral/triangle
// elements between adjacent rows, and the quality report over the
// result.
package mesh

import (
	"math"

	"github.com/hydromesh/godtmw/store"
)

// CountMethod selects how the subdivision element count per cross line
// is derived from its length.
type CountMethod string

const (
	CountFixed    CountMethod = "FIX"
	CountVariable CountMethod = "VARIABLE"
	CountNone     CountMethod = "NONE"
)

// Ranges holds the global length window for the VARIABLE method,
// derived once from the shortest and longest cross section and widened
// by 20% to each side, split into five buckets.
type Ranges struct {
	Lower, Upper, Bucket float64
}

// RangesFromLengths derives the VARIABLE ranges from the cross section
// lengths.
func RangesFromLengths(lengths []float64) Ranges {
	minLen, maxLen := math.Inf(1), math.Inf(-1)
	for _, l := range lengths {
		if l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
	}
	lower := math.Floor(minLen - 0.2*minLen)
	upper := math.Floor(maxLen + 0.2*maxLen)
	return Ranges{
		Lower:  lower,
		Upper:  upper,
		Bucket: (upper - lower) / 5,
	}
}

// RangesFromSections derives the VARIABLE ranges from a cross section
// feature class.
func RangesFromSections(sections *store.FeatureClass) Ranges {
	lengths := make([]float64, 0, sections.Count())
	for _, f := range sections.Features() {
		lengths = append(lengths, shapeLength(f))
	}
	return RangesFromLengths(lengths)
}

// FixedElementCount maps a cross line length to its element count with
// the fixed thresholds: short lines get 3 elements, then one more per
// threshold, stepping by 7 meters from 21 up, capped at 14.
func FixedElementCount(length float64) int {
	switch {
	case length < 7:
		return 3
	case length < 10:
		return 4
	case length < 15:
		return 5
	case length < 21:
		return 6
	case length < 70:
		count := 6
		for i := 21.0; i <= length; i += 7 {
			count++
		}
		return count
	default:
		return 14
	}
}

// VariableElementCount maps a cross line length to its element count
// within the global ranges, stepping one element per bucket width.
func VariableElementCount(length float64, r Ranges) int {
	switch {
	case length < r.Lower:
		return 5
	case length < r.Upper:
		count := 5
		for i := r.Lower; i <= length; i += r.Bucket {
			count++
		}
		return count
	default:
		return 11
	}
}

// ElementCount dispatches on the count method. CountNone falls back to
// the fixed thresholds: the vertex generator always needs a count, even
// when cross line spacing came from a constant distance.
func ElementCount(length float64, method CountMethod, r Ranges) int {
	if method == CountVariable {
		return VariableElementCount(length, r)
	}
	return FixedElementCount(length)
}
