package stats

import "fmt"

// AutoCutoff makes the imputation start right after the last observed row of
// the current year column.
const AutoCutoff = -1

// ImputationPolicy names the current (incomplete) year column and the first
// row of it that has not been observed yet.
//
// For the most recent (incomplete) year column, rows beyond the last observed
// period are imputed with the arithmetic mean of the immediately preceding
// complete year's column.
type ImputationPolicy struct {
	CurrentYear int
	Cutoff      int
}

// ImputePriorMean completes a partial column. Every row from cutoff onward is
// replaced with the mean of the prior column's observed values; rows before
// cutoff are kept as they are. A cutoff of AutoCutoff starts right after the
// last observed row of partial. Neither input is modified.
func ImputePriorMean(prior, partial []Cell, cutoff int) ([]Cell, error) {
	if len(prior) != len(partial) {
		return nil, fmt.Errorf("%w: prior column has %d rows, partial column has %d",
			ErrInvalidInput, len(prior), len(partial))
	}
	if cutoff == AutoCutoff {
		cutoff = lastObserved(partial) + 1
	}
	if cutoff < 0 || cutoff > len(partial) {
		return nil, fmt.Errorf("%w: cutoff %d outside 0..%d", ErrInvalidInput, cutoff, len(partial))
	}

	mean, err := columnMean(prior)
	if err != nil {
		return nil, err
	}

	completed := make([]Cell, len(partial))
	copy(completed, partial)
	for i := cutoff; i < len(completed); i++ {
		completed[i] = Observed(mean)
	}
	return completed, nil
}

func lastObserved(cells []Cell) int {
	for i := len(cells) - 1; i >= 0; i-- {
		if !cells[i].Missing {
			return i
		}
	}
	return -1
}

func columnMean(cells []Cell) (float64, error) {
	var sum float64
	var n int
	for i, c := range cells {
		if c.Missing {
			continue
		}
		if !c.Valid() {
			return 0, fmt.Errorf("%w: prior column row %d holds %s", ErrMalformedInput, i, c)
		}
		sum += c.Value
		n++
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: prior column has no observed values", ErrInsufficientData)
	}
	return sum / float64(n), nil
}

// Impute applies the policy to the table and returns the completed copy. The
// prior column is the one immediately left of the current year.
func (t *Table) Impute(p ImputationPolicy) (*Table, error) {
	idx := t.columnIndex(p.CurrentYear)
	if idx < 0 {
		return nil, fmt.Errorf("%w: no column for current year %d", ErrInvalidInput, p.CurrentYear)
	}
	if idx == 0 {
		return nil, fmt.Errorf("%w: current year %d has no preceding year column", ErrInvalidInput, p.CurrentYear)
	}

	prior, _ := t.Column(t.Years[idx-1])
	partial, _ := t.Column(p.CurrentYear)

	completed, err := ImputePriorMean(prior, partial, p.Cutoff)
	if err != nil {
		return nil, fmt.Errorf("imputing %d from %d: %w", p.CurrentYear, t.Years[idx-1], err)
	}
	return t.withColumn(p.CurrentYear, completed)
}
