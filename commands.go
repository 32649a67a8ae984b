package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"airbnb-etl/config"
	"airbnb-etl/models"
	"airbnb-etl/services"
	"airbnb-etl/storage"
	"airbnb-etl/utils"
)

// app carries what every subcommand needs.
type app struct {
	cfg      *config.Config
	logger   *utils.Logger
	pipeline *services.Pipeline
	reporter *services.Reporter
	quiet    bool
	fromDB   string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var input, outputDir, group, logLevel string

	root := &cobra.Command{
		Use:           "airbnb-etl",
		Short:         "Clean, aggregate and analyse short-term rental listings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("input") {
				cfg.InputPath = input
			}
			if cmd.Flags().Changed("output-dir") {
				cfg.OutputDir = outputDir
			}
			if cmd.Flags().Changed("group") {
				cfg.FilterGroup = group
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			a.cfg = cfg
			a.logger = utils.NewLoggerAt(cfg.LogLevel)
			a.pipeline = services.NewPipeline(a.logger)
			a.reporter = services.NewReporter(os.Stdout, 10)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&input, "input", "i", "", "raw listings file (overrides ETL_INPUT_PATH)")
	pf.StringVarP(&outputDir, "output-dir", "o", "", "artifact directory (overrides ETL_OUTPUT_DIR)")
	pf.StringVar(&group, "group", "", "neighbourhood group to filter on (overrides ETL_FILTER_GROUP)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides ETL_LOG_LEVEL)")
	pf.StringVar(&a.fromDB, "from-db", "", "load cleaned listings from postgres or sqlite instead of the cleaned CSV")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "skip console tables")

	root.AddCommand(
		&cobra.Command{
			Use:   "clean",
			Short: "Repair, filter and categorise the raw listings file",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := a.clean(cmd.Context())
				return err
			},
		},
		&cobra.Command{
			Use:   "aggregate",
			Short: "Filter, sort and rank the cleaned listings",
			RunE: func(cmd *cobra.Command, args []string) error {
				prepared, err := a.loadCleaned(cmd.Context())
				if err != nil {
					return err
				}
				return a.aggregate(cmd.Context(), prepared)
			},
		},
		&cobra.Command{
			Use:   "analyze",
			Short: "Pivot, correlate, describe and resample the cleaned listings",
			RunE: func(cmd *cobra.Command, args []string) error {
				prepared, err := a.loadCleaned(cmd.Context())
				if err != nil {
					return err
				}
				return a.analyze(cmd.Context(), prepared)
			},
		},
		&cobra.Command{
			Use:   "run",
			Short: "Run all three stages in one pass",
			RunE: func(cmd *cobra.Command, args []string) error {
				start := time.Now()
				prepared, err := a.clean(cmd.Context())
				if err != nil {
					return err
				}
				if err := a.aggregate(cmd.Context(), prepared); err != nil {
					return err
				}
				if err := a.analyze(cmd.Context(), prepared); err != nil {
					return err
				}
				a.logger.Info("=== Pipeline finished in %v ===", time.Since(start).Round(time.Millisecond))
				return nil
			},
		},
	)
	return root
}

func (a *app) clean(ctx context.Context) (models.Table, error) {
	a.logger.Info("=== Stage 1: cleaning %s ===", a.cfg.InputPath)
	raw, err := storage.ReadListings(a.cfg.InputPath)
	if err != nil {
		return models.Table{}, err
	}
	if !a.quiet {
		a.reporter.PrintInfo("INITIAL DATA", services.Info(raw))
	}

	prepared, err := a.pipeline.Prepare(raw)
	if err != nil {
		return models.Table{}, err
	}
	if !a.quiet {
		a.reporter.PrintInfo("CLEANED DATA", services.Info(prepared))
	}

	csvWriter, err := storage.NewCSVWriter(a.cfg.OutputDir)
	if err != nil {
		return models.Table{}, err
	}
	if err := csvWriter.WriteTable(a.cfg.CleanedFile, prepared); err != nil {
		return models.Table{}, err
	}
	a.logger.Info("Cleaned listings saved to %s", a.cfg.CleanedPath())

	if err := a.persist(ctx, prepared.Rows()); err != nil {
		return models.Table{}, err
	}
	return prepared, nil
}

func (a *app) loadCleaned(ctx context.Context) (models.Table, error) {
	var prepared models.Table
	var err error
	switch a.fromDB {
	case "":
		prepared, err = storage.ReadListings(a.cfg.CleanedPath())
	case "postgres", "sqlite":
		prepared, err = a.loadStored(ctx)
	default:
		return models.Table{}, fmt.Errorf("--from-db: unknown store %q (want postgres or sqlite)", a.fromDB)
	}
	if err != nil {
		return models.Table{}, fmt.Errorf("load cleaned listings (run clean first): %w", err)
	}
	if err := prepared.Require("loader", models.ColPriceCategory, models.ColStayCategory); err != nil {
		return models.Table{}, err
	}
	a.logger.Info("Loaded %d cleaned listings", prepared.Len())
	return prepared, nil
}

func (a *app) loadStored(ctx context.Context) (models.Table, error) {
	var src storage.ListingSource
	switch a.fromDB {
	case "postgres":
		if a.cfg.PostgresDSN == "" {
			return models.Table{}, fmt.Errorf("ETL_POSTGRES_DSN is not set")
		}
		retry := &utils.RetryConfig{MaxAttempts: a.cfg.DBRetries, BaseDelay: 2 * time.Second, Logger: a.logger}
		pw, err := storage.NewPostgresWriter(ctx, a.cfg.PostgresDSN, retry)
		if err != nil {
			return models.Table{}, err
		}
		src = pw
	case "sqlite":
		if a.cfg.SQLitePath == "" {
			return models.Table{}, fmt.Errorf("ETL_SQLITE_PATH is not set")
		}
		sw, err := storage.NewSQLiteWriter(ctx, a.cfg.SQLitePath)
		if err != nil {
			return models.Table{}, err
		}
		src = sw
	}
	defer src.Close()
	return storage.LoadStored(ctx, src)
}

func (a *app) aggregate(ctx context.Context, prepared models.Table) error {
	a.logger.Info("=== Stage 2: aggregating %d listings ===", prepared.Len())
	res, err := a.pipeline.Aggregate(prepared, a.cfg.FilterGroup)
	if err != nil {
		return err
	}
	if !a.quiet {
		a.reporter.PrintAggregate(res)
	}

	csvWriter, err := storage.NewCSVWriter(a.cfg.OutputDir)
	if err != nil {
		return err
	}
	ranks := models.GroupRankFrame(res.Ranks)
	if err := csvWriter.WriteFrame(a.cfg.AggregatedFile, ranks); err != nil {
		return err
	}
	a.logger.Info("Ranked group summary saved to %s", a.cfg.AggregatedPath())

	if a.cfg.SQLitePath == "" {
		return nil
	}
	sw, err := storage.NewSQLiteWriter(ctx, a.cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer sw.Close()
	return sw.WriteFrame("group_ranks", ranks)
}

func (a *app) analyze(ctx context.Context, prepared models.Table) error {
	a.logger.Info("=== Stage 3: analysing %d listings ===", prepared.Len())
	res, err := a.pipeline.Analyze(prepared)
	if err != nil {
		return err
	}
	if !a.quiet {
		a.reporter.PrintAnalysis(res)
	}

	csvWriter, err := storage.NewCSVWriter(a.cfg.OutputDir)
	if err != nil {
		return err
	}
	averages := models.MonthlyAverageFrame(res.Averages)
	if err := csvWriter.WriteFrame(a.cfg.TimeSeriesFile, averages); err != nil {
		return err
	}
	a.logger.Info("Monthly averages saved to %s", a.cfg.TimeSeriesPath())

	sheets := []struct {
		name  string
		frame *models.Frame
	}{
		{"pivot_price", res.Pivot.Frame()},
		{"correlation", res.Correlation.Frame()},
		{"statistics", models.StatsFrame(res.Statistics)},
		{"monthly_trends", models.MonthlyTrendFrame(res.Trends)},
		{"monthly_averages", averages},
	}

	writers := []storage.FrameWriter{}
	excel, err := storage.NewExcelWriter(a.cfg.WorkbookPath())
	if err != nil {
		return err
	}
	writers = append(writers, excel)
	if a.cfg.SQLitePath != "" {
		sw, err := storage.NewSQLiteWriter(ctx, a.cfg.SQLitePath)
		if err != nil {
			_ = excel.Close()
			return err
		}
		writers = append(writers, sw)
	}

	var firstErr error
	for _, w := range writers {
		for _, s := range sheets {
			if err := w.WriteFrame(s.name, s.frame); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return firstErr
	}
	a.logger.Info("Analysis workbook saved to %s", a.cfg.WorkbookPath())
	return nil
}

// persist stores cleaned listings in the configured databases. A failing
// store is logged and skipped; the CSV artifact is already written.
func (a *app) persist(ctx context.Context, listings []models.Listing) error {
	var stores []storage.ListingWriter

	if a.cfg.PostgresDSN != "" {
		retry := &utils.RetryConfig{MaxAttempts: a.cfg.DBRetries, BaseDelay: 2 * time.Second, Logger: a.logger}
		pw, err := storage.NewPostgresWriter(ctx, a.cfg.PostgresDSN, retry)
		if err != nil {
			a.logger.Error("Failed to connect to PostgreSQL: %v", err)
		} else {
			stores = append(stores, pw)
		}
	}
	if a.cfg.SQLitePath != "" {
		sw, err := storage.NewSQLiteWriter(ctx, a.cfg.SQLitePath)
		if err != nil {
			return err
		}
		stores = append(stores, sw)
	}

	for _, s := range stores {
		if err := s.Write(ctx, listings); err != nil {
			a.logger.Error("Listing store write failed: %v", err)
		} else {
			a.logger.Info("Stored %d cleaned listings (%T)", len(listings), s)
		}
		_ = s.Close()
	}
	return nil
}
