package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// meanOf averages the non-nil values of a window column. Returns nil when
// the column holds no values, so empty groups surface as JSON null rather
// than NaN.
func meanOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := stat.Mean(values, nil)
	return &m
}

// medianOf returns the interpolated median: the average of the two middle
// values for even counts. Returns nil for an empty series.
func medianOf(values []float64) *float64 {
	n := len(values)
	if n == 0 {
		return nil
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	var m float64
	if n%2 == 1 {
		m = sorted[n/2]
	} else {
		m = (sorted[n/2-1] + sorted[n/2]) / 2.0
	}
	return &m
}
