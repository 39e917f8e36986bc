// Command mcverify reads a file of concatenated CBOR journal blocks,
// decodes them under a configurable DeserializerMap preset, and checks
// the round-trip / content-address invariants every record in this
// system must satisfy. It is the module's only executable and its only
// outer surface: no network listeners, no persisted state beyond the
// input file itself (spec.md §5, §9).
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mediachain/mcrecord/internal/mcconfig"
	"github.com/mediachain/mcrecord/internal/mcverify"
	"github.com/mediachain/mcrecord/internal/record"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("mcverify", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional YAML config file")
	inputPath := fs.String("input", "", "path to a file of concatenated CBOR journal blocks")
	preset := fs.String("preset", "", "deserializer preset: transactor|datastore (default: datastore)")
	tolerant := fs.Bool("tolerant", false, "continue past per-block errors and report a summary")
	metricsAddr := fs.String("metrics-addr", "", "optional address to serve Prometheus metrics from, scrape-and-exit")
	logFormat := fs.String("log-format", "", "log output format: json|text (default: text)")
	logLevel := fs.String("log-level", "", "log level: debug|info|warn|error (default: info)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := mcconfig.Load(*configPath)
	if err != nil {
		// Load validates input_path eagerly; the -input flag below can
		// still supply it, so only bail out here on a harder failure
		// (unreadable config file, bad YAML).
		if !errors.Is(err, mcconfig.ErrMissingInputPath) {
			fmt.Fprintln(os.Stderr, "mcverify:", err)
			return 2
		}
		cfg = mcconfig.Default()
	}
	if *inputPath != "" {
		cfg.InputPath = *inputPath
	}
	if *preset != "" {
		cfg.Preset = *preset
	}
	if *tolerant {
		cfg.Tolerant = true
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "mcverify:", err)
		return 2
	}

	logger := mcverify.NewLogger(cfg.LogFormat, cfg.LogLevel)

	metrics := mcverify.NewMetrics()
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		logger.Error("failed to register metrics", "error", err)
		return 1
	}
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server exited", "error", err)
			}
		}()
	}

	data, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		logger.Error("failed to read input", "path", cfg.InputPath, "error", err)
		return 1
	}

	opts := mcverify.Options{
		Preset:   presetFromConfig(cfg),
		Tolerant: cfg.Tolerant,
	}

	summary, err := mcverify.Run(data, opts, logger, metrics)
	logger.Info("verification complete",
		"blocks_decoded", summary.BlocksDecoded,
		"records_decoded", summary.RecordsDecoded,
		"errors", summary.Errors,
	)
	if err != nil {
		return 1
	}
	if summary.Errors > 0 && !cfg.Tolerant {
		return 1
	}
	return 0
}

func presetFromConfig(cfg mcconfig.Config) record.DeserializerMap {
	transactor := cfg.Preset == string(mcconfig.PresetTransactor)
	switch {
	case transactor && cfg.StrictArrayElements:
		return record.NewTransactorPresetStrict()
	case transactor:
		return record.NewTransactorPreset()
	case cfg.StrictArrayElements:
		return record.NewDatastorePresetStrict()
	default:
		return record.NewDatastorePreset()
	}
}
