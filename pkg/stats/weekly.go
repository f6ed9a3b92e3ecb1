package stats

// Point is one period of a Series.
type Point struct {
	Period  string  `json:"period"`
	Value   float64 `json:"value"`
	Missing bool    `json:"missing,omitempty"`
}

// Series is the per-period values of one year column.
type Series struct {
	Year   int     `json:"year"`
	Points []Point `json:"points"`
}

// WeeklySeries splits a table into one series per year column, for drawing a
// line per year. Missing and unparsable cells are reported as missing points.
func WeeklySeries(t *Table) []Series {
	series := make([]Series, len(t.Years))
	for i, y := range t.Years {
		series[i] = Series{Year: y, Points: make([]Point, len(t.Records))}
		for j, r := range t.Records {
			p := Point{Period: r.Period, Missing: true}
			if i < len(r.Cells) && r.Cells[i].Valid() {
				p.Value = r.Cells[i].Value
				p.Missing = false
			}
			series[i].Points[j] = p
		}
	}
	return series
}
