package stats

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the file format of a workbook.
type Format int

const (
	FormatXLSX Format = iota
	FormatXLS
)

func (f Format) String() string {
	if f == FormatXLS {
		return "xls"
	}
	return "xlsx"
}

// DetectFormat picks the workbook format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	}
	return 0, fmt.Errorf("%w: unsupported workbook type '%s'", ErrSourceUnavailable, path)
}

// SheetSpec describes where a mortality table lives in a workbook and how its
// columns are laid out: a period label followed by one column per year.
type SheetSpec struct {
	Sheet    string
	SkipRows int
	Label    string
	Years    []int

	// MissingMarkers are cell texts that mean "no value", next to blank cells.
	MissingMarkers []string

	// ExcludePeriods are period labels to drop, e.g. a row of deaths with an
	// unknown date.
	ExcludePeriods []string

	// BlankAsZero reads empty cells as 0 deaths in every column except
	// CurrentYear, whose blanks are periods not reported yet. Missing
	// markers still read as missing.
	BlankAsZero bool
	CurrentYear int
}

// Columns returns the column names, label first.
func (s SheetSpec) Columns() []string {
	cols := []string{s.Label}
	for _, y := range s.Years {
		cols = append(cols, fmt.Sprint(y))
	}
	return cols
}

func (s SheetSpec) parse(text string, year int) Cell {
	if s.BlankAsZero && year != s.CurrentYear && strings.TrimSpace(text) == "" {
		return Observed(0)
	}
	return parseCell(text, s.MissingMarkers)
}

func (s SheetSpec) excluded(period string) bool {
	for _, p := range s.ExcludePeriods {
		if p == period {
			return true
		}
	}
	return false
}
