package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/c360studio/brickshape/config"
	"github.com/c360studio/brickshape/entity"
	"github.com/c360studio/brickshape/ontology"
	"github.com/c360studio/brickshape/source"
)

// loadConfig resolves the effective configuration: an explicit --config file
// or the layered lookup, then command line flags on top.
func loadConfig(f *flags, logger *slog.Logger) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFromFile(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg.ResolveSources(filepath.Dir(f.configPath))
	} else {
		cfg, err = config.NewLoader(logger).Load()
		if err != nil {
			return nil, err
		}
	}

	cfg.Merge(&config.Config{
		Sources:  f.sources,
		Prefixes: f.prefixes,
		Extraction: config.ExtractionConfig{
			MaxDepth:    f.maxDepth,
			LabelPolicy: f.labelPolicy,
		},
		Log: config.LogConfig{Level: f.logLevel},
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("%w: pass --source or set sources in %s", source.ErrNoSources, config.ProjectConfigFile)
	}
	return cfg, nil
}

// setup loads configuration and builds the logger the command runs with.
func setup(f *flags) (*config.Config, *slog.Logger, error) {
	bootstrap := newLogger(os.Stderr, f.logLevel)
	cfg, err := loadConfig(f, bootstrap)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(os.Stderr, cfg.Log.Level)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// ontologyOptions maps configuration onto ontology construction options.
func ontologyOptions(cfg *config.Config, logger *slog.Logger, metrics *ontology.Metrics) []ontology.Option {
	opts := []ontology.Option{
		ontology.WithMaxDepth(cfg.Extraction.MaxDepth),
		ontology.WithMaxListLength(cfg.Extraction.MaxListLength),
		ontology.WithLabelPolicy(entity.LabelPolicy(cfg.Extraction.LabelPolicy)),
		ontology.WithPrefixes(cfg.Prefixes),
		ontology.WithLogger(logger),
	}
	if metrics != nil {
		opts = append(opts, ontology.WithMetrics(metrics))
	}
	return opts
}

// buildOntology loads every configured source into a new snapshot.
func buildOntology(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *ontology.Metrics) (*ontology.Ontology, error) {
	res, err := source.NewLoader(nil, logger).Load(ctx, cfg.Sources)
	if err != nil {
		return nil, fmt.Errorf("load ontology: %w", err)
	}
	return ontology.New(res.Document, ontologyOptions(cfg, logger, metrics)...), nil
}
