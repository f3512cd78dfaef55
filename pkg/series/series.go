package series

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Sample is one observation of a time-indexed quantity.
type Sample struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series is an ordered sequence of samples with strictly increasing
// timestamps. Flow series carry m³/s, power series carry W.
type Series struct {
	Name    string   `json:"name"`
	Samples []Sample `json:"samples"`
}

// New creates a series from samples already in timestamp order.
func New(name string, samples ...Sample) Series {
	return Series{Name: name, Samples: samples}
}

// FromValues creates a series with evenly spaced timestamps starting at
// start. Mostly useful for fixtures and synthetic profiles.
func FromValues(name string, start time.Time, step time.Duration, values ...float64) Series {
	samples := make([]Sample, len(values))
	for i, v := range values {
		samples[i] = Sample{Time: start.Add(time.Duration(i) * step), Value: v}
	}
	return Series{Name: name, Samples: samples}
}

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s.Samples)
}

// Start returns the timestamp of the first sample.
func (s Series) Start() time.Time {
	if len(s.Samples) == 0 {
		return time.Time{}
	}
	return s.Samples[0].Time
}

// End returns the timestamp of the last sample.
func (s Series) End() time.Time {
	if len(s.Samples) == 0 {
		return time.Time{}
	}
	return s.Samples[len(s.Samples)-1].Time
}

// Values returns the sample values in series order.
func (s Series) Values() []float64 {
	vals := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		vals[i] = smp.Value
	}
	return vals
}

// Validate checks that timestamps are strictly increasing.
func (s Series) Validate() error {
	for i := 1; i < len(s.Samples); i++ {
		if !s.Samples[i].Time.After(s.Samples[i-1].Time) {
			return fmt.Errorf("series %q: timestamp %s at index %d does not increase",
				s.Name, s.Samples[i].Time.Format(time.RFC3339), i)
		}
	}
	return nil
}

// Since returns the sub-series of samples at or after cutoff.
func (s Series) Since(cutoff time.Time) Series {
	idx := sort.Search(len(s.Samples), func(i int) bool {
		return !s.Samples[i].Time.Before(cutoff)
	})
	return Series{Name: s.Name, Samples: s.Samples[idx:]}
}

// TrailingYears clips the series to its most recent n years, or returns
// it unchanged if it is shorter than that.
func (s Series) TrailingYears(n int) Series {
	if len(s.Samples) == 0 {
		return s
	}
	cutoff := s.End().AddDate(-n, 0, 0)
	if !cutoff.After(s.Start()) {
		return s
	}
	return s.Since(cutoff)
}

// SubScalar returns a new series with v subtracted from every sample.
func (s Series) SubScalar(v float64) Series {
	out := Series{Name: s.Name, Samples: make([]Sample, len(s.Samples))}
	for i, smp := range s.Samples {
		out.Samples[i] = Sample{Time: smp.Time, Value: smp.Value - v}
	}
	return out
}

// DayOfYearMeans builds the mean annual profile: samples are grouped by
// day of year and averaged across years. The profile is ordered by day
// index and only contains days present in the series, so it has at most
// 366 points.
func (s Series) DayOfYearMeans() []float64 {
	byDay := make(map[int][]float64)
	for _, smp := range s.Samples {
		d := smp.Time.YearDay()
		byDay[d] = append(byDay[d], smp.Value)
	}
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)
	profile := make([]float64, len(days))
	for i, d := range days {
		profile[i] = stat.Mean(byDay[d], nil)
	}
	return profile
}

// Quantile returns the p-quantile of the series values.
func (s Series) Quantile(p float64) float64 {
	return Quantile(s.Values(), p)
}

// Quantile computes the p-quantile of values by linear interpolation
// between order statistics (position (n-1)·p). Returns NaN for an empty
// input. The flow-duration-curve schedules in the estimator were
// calibrated against this estimator, so it must not be swapped for the
// empirical one.
func Quantile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	v := make([]float64, n)
	copy(v, values)
	sort.Float64s(v)
	if p <= 0 {
		return v[0]
	}
	if p >= 1 {
		return v[n-1]
	}
	h := p * float64(n-1)
	i := int(math.Floor(h))
	if i+1 >= n {
		return v[n-1]
	}
	return v[i] + (h-float64(i))*(v[i+1]-v[i])
}
