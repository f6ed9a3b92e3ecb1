package stats

import "fmt"

// YearTotal is the number of deaths summed over every period of a year.
type YearTotal struct {
	Year        int
	TotalDeaths float64
}

// YearSummary puts the deaths of a year next to the population of that year.
type YearSummary struct {
	Year                int     `json:"year"`
	TotalDeaths         float64 `json:"total_deaths"`
	Population          int64   `json:"population"`
	DeathRatePercent    float64 `json:"death_rate_percent"`
	PopulationThousands float64 `json:"population_thousands"`
}

// Aggregate sums each year column over all records, in column order. Every
// cell must hold a number.
func Aggregate(t *Table) ([]YearTotal, error) {
	totals := make([]YearTotal, len(t.Years))
	for i, y := range t.Years {
		totals[i].Year = y
	}

	for _, r := range t.Records {
		if len(r.Cells) != len(t.Years) {
			return nil, fmt.Errorf("%w: period %q has %d cells, expected %d",
				ErrMalformedInput, r.Period, len(r.Cells), len(t.Years))
		}
		for i, c := range r.Cells {
			if !c.Valid() {
				return nil, fmt.Errorf("%w: %d, period %q holds %s", ErrMalformedInput, t.Years[i], r.Period, c)
			}
			totals[i].TotalDeaths += c.Value
		}
	}
	return totals, nil
}

// Rates joins the yearly totals with the population series. Every year must
// have a known, non-zero population; nothing is returned otherwise.
func Rates(totals []YearTotal, population PopulationSeries) ([]YearSummary, error) {
	var missing []int
	for _, t := range totals {
		if _, ok := population.Lookup(t.Year); !ok {
			missing = append(missing, t.Year)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: no population for %v", ErrMissingPopulation, missing)
	}

	summaries := make([]YearSummary, 0, len(totals))
	for _, t := range totals {
		pop, _ := population.Lookup(t.Year)
		if pop == 0 {
			return nil, fmt.Errorf("%w: population for %d is zero", ErrInvalidInput, t.Year)
		}

		summaries = append(summaries, YearSummary{
			Year:                t.Year,
			TotalDeaths:         t.TotalDeaths,
			Population:          pop,
			DeathRatePercent:    t.TotalDeaths / float64(pop) * 100,
			PopulationThousands: float64(pop) / 1000,
		})
	}
	return summaries, nil
}

// Summarize aggregates an already imputed table and computes the death rate
// and population of every year column.
func Summarize(t *Table, population PopulationSeries) ([]YearSummary, error) {
	totals, err := Aggregate(t)
	if err != nil {
		return nil, err
	}
	return Rates(totals, population)
}

// Reconcile runs the whole pipeline: it completes the population series,
// imputes the current year column, aggregates the table and computes rates.
// A failure is returned as a *StageError.
//
// A nil policy skips imputation.
func Reconcile(t *Table, baseline PopulationSeries, policy *ImputationPolicy) ([]YearSummary, error) {
	population, err := CompletePopulation(baseline)
	if err != nil {
		return nil, stageError(StagePopulation, err)
	}

	if policy != nil {
		t, err = t.Impute(*policy)
		if err != nil {
			return nil, stageError(StageImputation, err)
		}
	}

	totals, err := Aggregate(t)
	if err != nil {
		return nil, stageError(StageAggregate, err)
	}

	summaries, err := Rates(totals, population)
	if err != nil {
		return nil, stageError(StageRates, err)
	}
	return summaries, nil
}
