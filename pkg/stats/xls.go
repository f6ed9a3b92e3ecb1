package stats

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	xlsx "github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/anrid/xls"
)

// ReadTable reads a mortality table from a sheet of an .xlsx or .xls
// workbook. Fully blank rows are skipped and only the label column plus one
// column per year are read.
func ReadTable(path string, spec SheetSpec) (*Table, error) {
	if len(spec.Years) == 0 {
		return nil, fmt.Errorf("%w: sheet '%s' has no year columns configured", ErrInvalidInput, spec.Sheet)
	}

	t := &Table{Years: append([]int(nil), spec.Years...)}
	width := len(spec.Years) + 1
	index := 0

	err := ExtractDataFromFile(path, spec.Sheet, func(row []string) {
		index++
		if index <= spec.SkipRows || blankRow(row, width) {
			return
		}

		period := mustTrim(cell(row, 0))
		if spec.excluded(period) {
			return
		}

		r := Record{Period: period, Cells: make([]Cell, len(spec.Years))}
		for i, y := range spec.Years {
			r.Cells[i] = spec.parse(cell(row, i+1), y)
		}
		t.Records = append(t.Records, r)
	})
	if err != nil {
		return nil, err
	}

	if len(t.Records) == 0 {
		return nil, fmt.Errorf("%w: sheet '%s' in '%s' has no data rows after skipping %d",
			ErrSourceUnavailable, spec.Sheet, path, spec.SkipRows)
	}

	slog.Debug("Read mortality table",
		slog.String("sheet", spec.Sheet),
		slog.Any("columns", spec.Columns()),
		slog.Int("records", len(t.Records)))

	return t, nil
}

// ExtractDataFromFile calls handler for every row of the named sheet, in
// order, including blank rows.
func ExtractDataFromFile(path, sheet string, handler func(r []string)) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	if format == FormatXLS {
		return ExtractDataFromXLS(path, sheet, handler)
	}
	return ExtractDataFromXLSX(path, sheet, handler)
}

func ExtractDataFromXLS(path, sheet string, handler func(r []string)) error {
	slog.Debug("Loading XLS data", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSourceUnavailable, err)
	}
	defer f.Close()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return fmt.Errorf("%w: could not read XLS file '%s': %s", ErrSourceUnavailable, path, err)
	}

	var ws *xls.WorkSheet
	var names []string
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil {
			names = append(names, s.Name)
			if s.Name == sheet {
				ws = s
				break
			}
		}
	}
	if ws == nil {
		return fmt.Errorf("%w: no sheet '%s' in '%s' (found %s)",
			ErrSourceUnavailable, sheet, path, strings.Join(names, ", "))
	}

	slog.Debug("Sheet found", slog.String("sheet", ws.Name), slog.Int("rows", int(ws.MaxRow)))

	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			handler(nil)
			continue
		}
		var cols []string
		for j := 0; j <= row.LastCol(); j++ {
			cols = append(cols, row.Col(j))
		}
		handler(cols)
	}
	return nil
}

func ExtractDataFromXLSX(path, sheet string, handler func(r []string)) error {
	slog.Debug("Loading XLSX data", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSourceUnavailable, err)
	}
	defer f.Close()

	wb, err := xlsx.OpenReader(f)
	if err != nil {
		return fmt.Errorf("%w: could not read XLSX file '%s': %s", ErrSourceUnavailable, path, err)
	}

	names := wb.GetSheetList()
	if !contains(names, sheet) {
		return fmt.Errorf("%w: no sheet '%s' in '%s' (found %s)",
			ErrSourceUnavailable, sheet, path, strings.Join(names, ", "))
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("%w: could not get rows for sheet '%s': %s", ErrSourceUnavailable, sheet, err)
	}

	slog.Debug("Sheet found", slog.String("sheet", sheet), slog.Int("rows", len(rows)))

	for _, r := range rows {
		handler(r)
	}
	return nil
}

func mustTrim(v string) string {
	return strings.Trim(v, " \n\t\r")
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blankRow(row []string, width int) bool {
	for i := 0; i < width && i < len(row); i++ {
		if mustTrim(row[i]) != "" {
			return false
		}
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
