package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/anrid/mortality-stats/pkg/chart"
	"github.com/anrid/mortality-stats/pkg/config"
	"github.com/anrid/mortality-stats/pkg/stats"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	flags.SetOutput(stderr)

	configPath := flags.String("config", "", "YAML config file (defaults to the Swedish 2015-2021 analysis)")
	workbook := flags.String("workbook", "", "workbook with the mortality sheets, overrides the config")
	output := flags.String("output", "", "text | json | dump, overrides the config")
	logLevel := flags.String("log-level", "", "debug | info | warn | error, overrides the config")
	weekly := flags.Bool("weekly", true, "also show deaths per week when a weekly sheet is configured")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *workbook != "" {
		cfg.Workbook = *workbook
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Logging, stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	renderer, err := chart.New(cfg.Output, stdout, chart.Options{
		YMin:  cfg.Chart.YMin,
		YMax:  cfg.Chart.YMax,
		Width: cfg.Chart.Width,
	})
	if err != nil {
		return err
	}

	if err := showAnnual(cfg, renderer); err != nil {
		return err
	}
	if *weekly && cfg.Weekly != nil {
		return showWeekly(cfg, renderer)
	}
	return nil
}

func showAnnual(cfg *config.Config, renderer chart.Renderer) error {
	logger := slog.Default()

	table, err := stats.ReadTable(cfg.Workbook, cfg.Annual.Spec())
	if err != nil {
		return &stats.StageError{Stage: stats.StageLoad, Err: err}
	}
	logger.Info("Mortality table loaded",
		slog.String("workbook", cfg.Workbook),
		slog.String("sheet", cfg.Annual.Sheet),
		slog.Int("periods", len(table.Records)))

	var policy *stats.ImputationPolicy
	if cfg.Annual.Imputes() {
		p := cfg.Annual.Policy()
		policy = &p
		logger.Info("Imputing current year with previous year mean",
			slog.Int("year", p.CurrentYear),
			slog.Int("cutoff", p.Cutoff))
	}

	summaries, err := stats.Reconcile(table, cfg.PopulationSeries(), policy)
	if err != nil {
		return err
	}
	population := make(map[int]int64, len(summaries))
	for _, s := range summaries {
		population[s.Year] = s.Population
		logger.Debug("Year summary",
			slog.Int("year", s.Year),
			slog.Float64("total_deaths", s.TotalDeaths),
			slog.Float64("death_rate_percent", s.DeathRatePercent))
	}
	logger.Info("Population completed", slog.Any("population", population))

	title := cfg.Country + ": Total dead and population in [k]"
	if err := renderer.RenderSummaries(title, summaries, chart.LinePopulation); err != nil {
		return err
	}
	title = cfg.Country + ": Total dead and percentage of population"
	return renderer.RenderSummaries(title, summaries, chart.LineDeathRate)
}

func showWeekly(cfg *config.Config, renderer chart.Renderer) error {
	table, err := stats.ReadTable(cfg.Workbook, cfg.Weekly.Spec())
	if err != nil {
		return &stats.StageError{Stage: stats.StageLoad, Err: err}
	}

	if cfg.Weekly.Cutoff != nil {
		year := cfg.Weekly.Policy().CurrentYear
		table, err = table.Truncate(year, *cfg.Weekly.Cutoff)
		if err != nil {
			return &stats.StageError{Stage: stats.StageImputation, Err: err}
		}
	}

	slog.Info("Weekly table loaded",
		slog.String("sheet", cfg.Weekly.Sheet),
		slog.Int("weeks", len(table.Records)))

	return renderer.RenderWeekly(cfg.Country+": Deaths per week", stats.WeeklySeries(table))
}
