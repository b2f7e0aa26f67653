// Command forest-report reads a table of cross-price elasticity estimates,
// reshapes it into per-study observations, prints summary reports, and
// renders a faceted forest plot.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"elastiplot/internal/config"
	"elastiplot/internal/dataset"
	"elastiplot/internal/elasticity"
	"elastiplot/internal/exporter"
	"elastiplot/internal/infrastructure"
	"elastiplot/internal/plotting"
	"elastiplot/internal/report"
)

func main() {
	inputFile := flag.String("in", "", "input table, CSV or XLSX (defaults to paths.input_file from config)")
	outputDir := flag.String("out", "", "output directory for plot and artifacts (defaults to paths.output_dir)")
	configFile := flag.String("config", "elastiplot.yaml", "configuration file")
	logFormat := flag.String("format", "", "log format override: text or json")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *inputFile != "" {
		cfg.Paths.InputFile = *inputFile
	}
	if *outputDir != "" {
		cfg.Paths.OutputDir = *outputDir
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	logger = logger.With(slog.String("run_id", uuid.NewString()))

	if err := run(cfg, logger); err != nil {
		logger.Error("Pipeline failed", "error", err)
		os.Exit(1)
	}
}

// run executes the pipeline: load, reshape, summarize, report, export, plot.
func run(cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.EnsureOutputDir(); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	records, err := dataset.Load(cfg.Paths.InputFile, logger)
	if err != nil {
		return err
	}

	mapping := elasticity.DefaultMeatMapping()

	observations, err := elasticity.Reshape(records, mapping)
	if err != nil {
		return err
	}
	logger.Info("reshaped study table",
		slog.Int("studies", len(records)),
		slog.Int("observations", len(observations)))

	summaries, err := elasticity.Summarize(observations, mapping)
	if err != nil {
		return err
	}
	missing := elasticity.ListMissingSE(observations)

	console := report.NewWriter(os.Stdout)
	console.PrintSummaryTable(summaries)
	console.PrintMissingSE(missing)

	exp := exporter.New(cfg.Paths.OutputDir, logger)
	if err := exp.WriteObservationsCSV("observations.csv", observations); err != nil {
		return err
	}
	if err := exp.WriteSummaryCSV("summary.csv", summaries); err != nil {
		return err
	}
	if err := exp.WriteSummaryJSON("summary.json", summaries); err != nil {
		return err
	}

	renderer := plotting.NewRenderer(plotting.Options{
		Title:        cfg.Plot.Title,
		WidthInches:  cfg.Plot.WidthInches,
		HeightInches: cfg.Plot.HeightInches,
		DPI:          cfg.Plot.DPI,
		Colors:       cfg.Plot.Colors,
	}, logger)
	if err := renderer.RenderForestPlot(observations, mapping, cfg.ImagePath()); err != nil {
		return err
	}

	logger.Info("pipeline complete",
		slog.String("image", cfg.ImagePath()),
		slog.Int("observations", len(observations)))
	return nil
}
