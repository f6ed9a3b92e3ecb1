package stats

import (
	"fmt"
	"math"
)

// PopulationEntry is the population of a single year. Known is false for a
// year whose count has not been published yet.
type PopulationEntry struct {
	Year  int
	Count int64
	Known bool
}

// PopulationSeries is an ordered list of yearly population counts.
// Treat it as read-only; operations return new series.
type PopulationSeries []PopulationEntry

// Known returns an entry with a known count.
func Known(year int, count int64) PopulationEntry {
	return PopulationEntry{Year: year, Count: count, Known: true}
}

// Unknown returns an entry whose count is still to be estimated.
func Unknown(year int) PopulationEntry {
	return PopulationEntry{Year: year}
}

// Lookup returns the known population for year.
func (s PopulationSeries) Lookup(year int) (int64, bool) {
	for _, e := range s {
		if e.Year == year {
			return e.Count, e.Known
		}
	}
	return 0, false
}

// Years returns the years of the series in order.
func (s PopulationSeries) Years() []int {
	years := make([]int, len(s))
	for i, e := range s {
		years[i] = e.Year
	}
	return years
}

// Complete reports whether every entry is known.
func (s PopulationSeries) Complete() bool {
	for _, e := range s {
		if !e.Known {
			return false
		}
	}
	return true
}

func (s PopulationSeries) clone() PopulationSeries {
	c := make(PopulationSeries, len(s))
	copy(c, s)
	return c
}

// CompletePopulation estimates a missing trailing population count by linear
// extrapolation of the known counts, rounded to the nearest person.
//
// Only the last entry may be unknown. A series without unknown entries is
// returned unchanged. The input series is never modified.
func CompletePopulation(series PopulationSeries) (PopulationSeries, error) {
	seen := make(map[int]bool, len(series))
	missing := -1

	for i, e := range series {
		if seen[e.Year] {
			return nil, fmt.Errorf("%w: year %d listed twice", ErrInvalidInput, e.Year)
		}
		seen[e.Year] = true

		if !e.Known {
			if missing >= 0 {
				return nil, fmt.Errorf("%w: population for both %d and %d is missing, only one year can be estimated",
					ErrInvalidInput, series[missing].Year, e.Year)
			}
			missing = i
			continue
		}
		if e.Count < 0 {
			return nil, fmt.Errorf("%w: negative population %d for %d", ErrInvalidInput, e.Count, e.Year)
		}
	}

	if missing < 0 {
		return series.clone(), nil
	}
	if missing != len(series)-1 {
		return nil, fmt.Errorf("%w: population for %d is missing but only the last year can be estimated",
			ErrInvalidInput, series[missing].Year)
	}

	values := make([]float64, missing)
	for i := 0; i < missing; i++ {
		values[i] = float64(series[i].Count)
	}

	line, err := FitLine(values)
	if err != nil {
		return nil, fmt.Errorf("estimating population for %d: %w", series[missing].Year, err)
	}

	estimate := math.Round(line.At(float64(missing)))
	if estimate < 0 {
		return nil, fmt.Errorf("%w: extrapolated population for %d is negative (%.f)",
			ErrInvalidInput, series[missing].Year, estimate)
	}

	completed := series.clone()
	completed[missing] = Known(series[missing].Year, int64(estimate))
	return completed, nil
}
