package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"voxelmetrics/pkg/config"
	"voxelmetrics/pkg/report"
	"voxelmetrics/pkg/stereology"
	"voxelmetrics/pkg/voxel"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "", "Path to YAML configuration file")
	inputPath := flag.String("input", "", "Raw label volume file")
	sizeX := flag.Int("nx", 0, "Volume size in x (overrides config)")
	sizeY := flag.Int("ny", 0, "Volume size in y (overrides config)")
	sizeZ := flag.Int("nz", 0, "Volume size in z (overrides config)")
	format := flag.String("format", "", "Raw element type: uint8, uint16 or int32 (overrides config)")
	directions := flag.Int("directions", 0, "Crofton sampling directions: 3 or 13 (overrides config)")
	numWorkers := flag.Int("workers", runtime.NumCPU(), "Number of worker goroutines")
	summary := flag.Bool("summary", true, "Print population statistics below the region table")
	verbose := flag.Bool("verbose", true, "Enable progress logging")
	initConfig := flag.String("init-config", "", "Write a default configuration file to the given path and exit")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	if *initConfig != "" {
		if err := config.CreateDefaultConfigFile(*initConfig); err != nil {
			logger.Fatal().Err(err).Msg("Failed to write default configuration")
		}
		logger.Info().Str("path", *initConfig).Msg("Wrote default configuration")
		return
	}

	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Command line overrides
	if *sizeX > 0 {
		cfg.Volume.SizeX = *sizeX
	}
	if *sizeY > 0 {
		cfg.Volume.SizeY = *sizeY
	}
	if *sizeZ > 0 {
		cfg.Volume.SizeZ = *sizeZ
	}
	if *format != "" {
		cfg.Volume.Format = *format
	}
	if *directions != 0 {
		cfg.Estimation.Directions = *directions
	}
	cfg.Estimation.NumWorkers = *numWorkers
	cfg.Output.Summary = *summary
	cfg.Output.Verbose = *verbose

	if !cfg.Output.Verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}

	rawFormat, err := voxel.ParseRawFormat(cfg.Volume.Format)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid volume format")
	}

	logger.Info().
		Str("path", *inputPath).
		Int("nx", cfg.Volume.SizeX).
		Int("ny", cfg.Volume.SizeY).
		Int("nz", cfg.Volume.SizeZ).
		Msg("Loading label volume")

	grid, err := voxel.ReadRaw(*inputPath, cfg.Volume.SizeX, cfg.Volume.SizeY, cfg.Volume.SizeZ, rawFormat)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load volume")
	}

	labels := voxel.FindLabels(grid)
	if len(labels) == 0 {
		logger.Fatal().Msg("Volume contains no labeled regions")
	}
	logger.Info().Int("regions", len(labels)).Msg("Found labeled regions")

	opts, err := cfg.EstimatorOptions()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid estimation configuration")
	}
	opts.Progress = &stereology.LogReporter{Logger: logger}

	estimator, err := stereology.NewEstimator(opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid estimation parameters")
	}

	startTime := time.Now()
	results, err := estimator.Analyze(grid, labels, cfg.Calibration())
	if err != nil {
		logger.Fatal().Err(err).Msg("Estimation failed")
	}
	elapsed := time.Since(startTime)

	if err := report.WriteTable(os.Stdout, results); err != nil {
		logger.Fatal().Err(err).Msg("Failed to write result table")
	}
	if cfg.Output.Summary {
		fmt.Println()
		if err := report.WriteSummary(os.Stdout, report.Summarize(results)); err != nil {
			logger.Fatal().Err(err).Msg("Failed to write summary")
		}
	}

	logger.Info().
		Dur("elapsed", elapsed).
		Int("regions", len(results)).
		Msg("Estimation completed")
}
