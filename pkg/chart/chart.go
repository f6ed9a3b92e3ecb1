// Package chart renders mortality summaries for the console.
//
// The annual views are dual-axis charts drawn as text: a bar of total deaths
// on the left axis and a line marker on the right axis, one row per year.
package chart

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/anrid/mortality-stats/pkg/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LineKind selects the value drawn on the right axis.
type LineKind int

const (
	LinePopulation LineKind = iota
	LineDeathRate
)

func (k LineKind) label() string {
	if k == LineDeathRate {
		return "% of population"
	}
	return "population [k]"
}

func (k LineKind) value(s stats.YearSummary) float64 {
	if k == LineDeathRate {
		return s.DeathRatePercent
	}
	return s.PopulationThousands
}

// Renderer draws the annual and weekly views of a run.
type Renderer interface {
	RenderSummaries(title string, summaries []stats.YearSummary, line LineKind) error
	RenderWeekly(title string, series []stats.Series) error
}

// Options control the console layout.
type Options struct {
	// YMin and YMax limit the bar axis. When YMax <= YMin the axis runs from
	// zero to the largest total.
	YMin  float64
	YMax  float64
	Width int
}

// Console draws charts as text.
type Console struct {
	out  io.Writer
	opts Options
	p    *message.Printer
}

func NewConsole(out io.Writer, opts Options) *Console {
	if opts.Width <= 0 {
		opts.Width = 40
	}
	return &Console{
		out:  out,
		opts: opts,
		p:    message.NewPrinter(language.English),
	}
}

func (c *Console) RenderSummaries(title string, summaries []stats.YearSummary, line LineKind) error {
	if len(summaries) == 0 {
		return fmt.Errorf("nothing to draw for '%s'", title)
	}

	lo, hi := c.opts.YMin, c.opts.YMax
	if hi <= lo {
		lo, hi = 0, 0
		for _, s := range summaries {
			if s.TotalDeaths > hi {
				hi = s.TotalDeaths
			}
		}
	}

	lineLo, lineHi := line.value(summaries[0]), line.value(summaries[0])
	for _, s := range summaries {
		v := line.value(s)
		if v < lineLo {
			lineLo = v
		}
		if v > lineHi {
			lineHi = v
		}
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(fmt.Sprintf("%-6s %12s  %-*s  %16s\n",
		"year", "total dead", c.opts.Width, "", line.label()))

	for _, s := range summaries {
		bar := scale(s.TotalDeaths, lo, hi, c.opts.Width)
		marker := scale(line.value(s), lineLo, lineHi, c.opts.Width-1)

		lineText := c.p.Sprintf("%.3f", line.value(s))
		if line == LineDeathRate {
			lineText = c.p.Sprintf("%.4f%%", line.value(s))
		}

		b.WriteString(fmt.Sprintf("%-6s %12s  %-*s  %16s  %s\n",
			strconv.Itoa(s.Year),
			c.p.Sprintf("%.f", s.TotalDeaths),
			c.opts.Width, strings.Repeat("#", bar),
			lineText,
			strings.Repeat(".", marker)+"o",
		))
	}
	b.WriteString("\n")

	_, err := io.WriteString(c.out, b.String())
	return err
}

func (c *Console) RenderWeekly(title string, series []stats.Series) error {
	if len(series) == 0 {
		return fmt.Errorf("nothing to draw for '%s'", title)
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")

	b.WriteString(fmt.Sprintf("%-10s", "period"))
	for _, s := range series {
		b.WriteString(fmt.Sprintf(" %9s", strconv.Itoa(s.Year)))
	}
	b.WriteString("\n")

	for i, pt := range series[0].Points {
		b.WriteString(fmt.Sprintf("%-10s", pt.Period))
		for _, s := range series {
			if i >= len(s.Points) || s.Points[i].Missing {
				b.WriteString(fmt.Sprintf(" %9s", "-"))
				continue
			}
			b.WriteString(fmt.Sprintf(" %9s", c.p.Sprintf("%.f", s.Points[i].Value)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	_, err := io.WriteString(c.out, b.String())
	return err
}

// scale maps v in lo..hi onto 0..width, clamping values outside the range.
func scale(v, lo, hi float64, width int) int {
	if hi <= lo || width <= 0 {
		return 0
	}
	n := int((v - lo) / (hi - lo) * float64(width))
	if n < 0 {
		return 0
	}
	if n > width {
		return width
	}
	return n
}
