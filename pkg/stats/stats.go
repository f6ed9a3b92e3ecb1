package stats

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimal matches plain decimal numbers. strconv.ParseFloat also accepts
// "NaN", "Inf" and hex floats, none of which are death counts.
var decimal = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

// Cell is a single death count in a mortality table.
type Cell struct {
	Value   float64
	Missing bool
	// Raw holds the original text of a cell that could not be parsed.
	Raw string
}

// Observed returns a cell holding v.
func Observed(v float64) Cell {
	return Cell{Value: v}
}

// Blank returns a missing cell.
func Blank() Cell {
	return Cell{Missing: true}
}

// Valid reports whether the cell holds a usable, finite number.
func (c Cell) Valid() bool {
	return !c.Missing && c.Raw == "" && !math.IsNaN(c.Value) && !math.IsInf(c.Value, 0)
}

func (c Cell) String() string {
	switch {
	case c.Missing:
		return "NA"
	case c.Raw != "":
		return fmt.Sprintf("%q", c.Raw)
	}
	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}

// Record is one period (a date or a week) of a mortality table, with one
// cell per year column.
type Record struct {
	Period string
	Cells  []Cell
}

// Table is a wide mortality table: one record per period, one column per year.
type Table struct {
	Years   []int
	Records []Record
}

// Column returns the cells of the given year, in record order.
func (t *Table) Column(year int) ([]Cell, bool) {
	idx := t.columnIndex(year)
	if idx < 0 {
		return nil, false
	}
	cells := make([]Cell, len(t.Records))
	for i, r := range t.Records {
		if idx < len(r.Cells) {
			cells[i] = r.Cells[idx]
		} else {
			cells[i] = Blank()
		}
	}
	return cells, true
}

func (t *Table) columnIndex(year int) int {
	for i, y := range t.Years {
		if y == year {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{
		Years:   append([]int(nil), t.Years...),
		Records: make([]Record, len(t.Records)),
	}
	for i, r := range t.Records {
		c.Records[i] = Record{Period: r.Period, Cells: append([]Cell(nil), r.Cells...)}
	}
	return c
}

// withColumn returns a copy of the table with the cells of one column replaced.
func (t *Table) withColumn(year int, cells []Cell) (*Table, error) {
	idx := t.columnIndex(year)
	if idx < 0 {
		return nil, fmt.Errorf("%w: no column for %d", ErrInvalidInput, year)
	}
	if len(cells) != len(t.Records) {
		return nil, fmt.Errorf("%w: column %d has %d cells, table has %d rows",
			ErrInvalidInput, year, len(cells), len(t.Records))
	}
	c := t.Clone()
	for i := range c.Records {
		for len(c.Records[i].Cells) < len(c.Years) {
			c.Records[i].Cells = append(c.Records[i].Cells, Blank())
		}
		c.Records[i].Cells[idx] = cells[i]
	}
	return c, nil
}

// Truncate returns a copy of the table where every row of the year column
// from cutoff onward is marked missing.
func (t *Table) Truncate(year, cutoff int) (*Table, error) {
	cells, ok := t.Column(year)
	if !ok {
		return nil, fmt.Errorf("%w: no column for %d", ErrInvalidInput, year)
	}
	if cutoff < 0 || cutoff > len(cells) {
		return nil, fmt.Errorf("%w: cutoff %d outside 0..%d", ErrInvalidInput, cutoff, len(cells))
	}
	for i := cutoff; i < len(cells); i++ {
		cells[i] = Blank()
	}
	return t.withColumn(year, cells)
}

// parseCell turns spreadsheet text into a cell. Spaces used as thousands
// separators are dropped.
func parseCell(text string, missingMarkers []string) Cell {
	v := strings.TrimSpace(text)
	if v == "" {
		return Blank()
	}
	for _, m := range missingMarkers {
		if v == m {
			return Blank()
		}
	}

	cleaned := strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(v)
	if !decimal.MatchString(cleaned) {
		return Cell{Raw: v}
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(f, 0) {
		return Cell{Raw: v}
	}
	return Observed(f)
}
