package util

import "math"

// ----------------------------------------------------------------------------
// Chain statistics
// ----------------------------------------------------------------------------

// Stats summarises a series of values
type Stats struct {
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	MinMaxRatio  float64 `json:"min_max_ratio"`
}

// NewStats computes mean, population standard deviation, min and max of values.
// An empty slice yields the zero value.
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	lo, hi := values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}

	ratio := 1.0
	if hi > 0 {
		ratio = lo / hi
	}

	return Stats{
		StdDeviation: math.Sqrt(sq / float64(len(values))),
		Min:          lo,
		Max:          hi,
		Mean:         mean,
		MinMaxRatio:  ratio,
	}
}

// ChainStats describes how evenly entries are spread over the buckets of a table
type ChainStats struct {
	Stats
	Buckets      int     `json:"buckets"`
	EmptyBuckets int     `json:"empty_buckets"`
	LoadFactor   float64 `json:"load_factor"`
	// Quality is 1 for a perfectly even spread and approaches 0 as chains skew
	Quality float64 `json:"quality"`
}

// NewChainStats computes ChainStats from the chain length of every bucket
func NewChainStats(chainLengths []int) ChainStats {
	values := make([]float64, len(chainLengths))
	var total, empty int
	for i, n := range chainLengths {
		values[i] = float64(n)
		total += n
		if n == 0 {
			empty++
		}
	}

	stats := NewStats(values)

	var cv float64
	if stats.Mean > 0 {
		cv = stats.StdDeviation / stats.Mean
	}

	var load float64
	if len(chainLengths) > 0 {
		load = float64(total) / float64(len(chainLengths))
	}

	return ChainStats{
		Stats:        stats,
		Buckets:      len(chainLengths),
		EmptyBuckets: empty,
		LoadFactor:   load,
		Quality:      (1.0-math.Min(1.0, cv))*0.5 + stats.MinMaxRatio*0.5,
	}
}
