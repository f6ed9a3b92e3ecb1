package chart

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/anrid/mortality-stats/pkg/stats"
	"github.com/davecgh/go-spew/spew"
)

// JSON writes each view as an indented JSON document.
type JSON struct {
	Out io.Writer
}

type jsonView struct {
	Title     string              `json:"title"`
	Line      string              `json:"line,omitempty"`
	Summaries []stats.YearSummary `json:"summaries,omitempty"`
	Series    []stats.Series      `json:"series,omitempty"`
}

func (j JSON) RenderSummaries(title string, summaries []stats.YearSummary, line LineKind) error {
	return j.write(jsonView{Title: title, Line: line.label(), Summaries: summaries})
}

func (j JSON) RenderWeekly(title string, series []stats.Series) error {
	return j.write(jsonView{Title: title, Series: series})
}

func (j JSON) write(v jsonView) error {
	js, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = j.Out.Write(append(js, '\n'))
	return err
}

// Dump writes a go-spew dump of every view, for debugging.
type Dump struct {
	Out io.Writer
}

func (d Dump) RenderSummaries(title string, summaries []stats.YearSummary, line LineKind) error {
	spew.Fdump(d.Out, title, line.label(), summaries)
	return nil
}

func (d Dump) RenderWeekly(title string, series []stats.Series) error {
	spew.Fdump(d.Out, title, series)
	return nil
}

// New returns the renderer for an output format: text, json or dump.
func New(format string, out io.Writer, opts Options) (Renderer, error) {
	switch format {
	case "", "text":
		return NewConsole(out, opts), nil
	case "json":
		return JSON{Out: out}, nil
	case "dump":
		return Dump{Out: out}, nil
	}
	return nil, fmt.Errorf("unknown output format '%s'", format)
}
