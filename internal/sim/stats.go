package sim

import (
	"math"
	"sort"
)

// ScoreDistribution summarizes one seat's final match scores across a
// tournament.
type ScoreDistribution struct {
	Mean   float64
	Median float64
	Stdev  float64
	Min    int
	Max    int
	Values []int
}

func distribution(values []int) ScoreDistribution {
	d := ScoreDistribution{Values: values}
	if len(values) == 0 {
		return d
	}
	d.Min, d.Max = values[0], values[0]
	sum := 0
	for _, v := range values {
		sum += v
		if v < d.Min {
			d.Min = v
		}
		if v > d.Max {
			d.Max = v
		}
	}
	d.Mean = float64(sum) / float64(len(values))
	d.Median = median(values)
	if len(values) > 1 {
		ss := 0.0
		for _, v := range values {
			diff := float64(v) - d.Mean
			ss += diff * diff
		}
		// Sample standard deviation.
		d.Stdev = math.Sqrt(ss / float64(len(values)-1))
	}
	return d
}

func median(values []int) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

func meanInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
