// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

// Package main is the Tradewinds command line entry point.
//
// Tradewinds matches exporters with likely buyers. It cleans and scores
// both sides, adjusts for recent geopolitical news, generates rule-based
// candidate pairs, and refines them with trained intent and match models.
//
// Three modes are available:
//
//	tradewinds -mode train                 # train models on CSVs or demo data
//	tradewinds -mode predict               # batch inference with saved models
//	tradewinds -mode match-user -user-id X # rank buyers for one exporter
//
// Input CSVs are passed with -exporters, -buyers and -news; when any of
// them is missing a seeded synthetic demo dataset is used instead.
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables (TRADEWINDS_*), a config file
// (config.yaml or $TRADEWINDS_CONFIG), and built-in defaults.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arjunm-dev/tradewinds/internal/config"
	"github.com/arjunm-dev/tradewinds/internal/logging"
	"github.com/arjunm-dev/tradewinds/internal/ml"
	"github.com/arjunm-dev/tradewinds/internal/pipeline"
	"github.com/arjunm-dev/tradewinds/internal/store"
	"github.com/arjunm-dev/tradewinds/internal/synth"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

type cliFlags struct {
	mode        string
	exporterCSV string
	buyerCSV    string
	newsCSV     string
	labelsCSV   string
	labelCol    string
	userID      string
	countries   string
	out         string
	topN        int
	seed        int64
	metricsAddr string
}

func main() {
	var f cliFlags
	flag.StringVar(&f.mode, "mode", "train", "train, predict or match-user")
	flag.StringVar(&f.exporterCSV, "exporters", "", "exporter CSV path (demo data when empty)")
	flag.StringVar(&f.buyerCSV, "buyers", "", "buyer CSV path")
	flag.StringVar(&f.newsCSV, "news", "", "news CSV path")
	flag.StringVar(&f.labelsCSV, "labels", "", "optional real deal labels CSV for training")
	flag.StringVar(&f.labelCol, "label-col", "match_score", "label column in the labels CSV")
	flag.StringVar(&f.userID, "user-id", "", "exporter ID for match-user mode (demo profile when empty)")
	flag.StringVar(&f.countries, "countries", "", "comma-separated target countries for match-user")
	flag.StringVar(&f.out, "out", "", "output CSV path (per-mode default when empty)")
	flag.IntVar(&f.topN, "top-n", 0, "matches kept per exporter (config default when 0)")
	flag.Int64Var(&f.seed, "seed", 42, "seed for synthetic demo data")
	flag.StringVar(&f.metricsAddr, "metrics-addr", "", "address to expose Prometheus metrics on (disabled when empty)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	if f.topN > 0 {
		cfg.Matching.TopN = f.topN
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Timestamp: true,
	})
	logging.Info().
		Str("mode", f.mode).
		Str("db_path", cfg.Database.Path).
		Str("artifact_dir", cfg.ML.ArtifactDir).
		Msg("configuration loaded")

	if f.metricsAddr != "" {
		go serveMetrics(f.metricsAddr)
	}

	db, err := store.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing database")
		}
	}()

	p, err := pipeline.New(cfg, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build pipeline")
	}

	ctx := context.Background()
	switch f.mode {
	case "train":
		err = runTrain(ctx, p, f)
	case "predict":
		err = runPredict(ctx, p, f)
	case "match-user":
		err = runMatchUser(ctx, p, f)
	default:
		err = fmt.Errorf("unknown mode %q (want train, predict or match-user)", f.mode)
	}
	if err != nil {
		logging.Fatal().Err(err).Str("mode", f.mode).Msg("run failed")
	}
}

func runTrain(ctx context.Context, p *pipeline.Pipeline, f cliFlags) error {
	ds, err := loadDataset(f)
	if err != nil {
		return err
	}

	var opts pipeline.TrainOptions
	if f.labelsCSV != "" {
		if opts.Labels, err = readLabels(f.labelsCSV, f.labelCol); err != nil {
			return err
		}
		logging.Info().Int("labels", len(opts.Labels)).Str("path", f.labelsCSV).Msg("real deal labels loaded")
	}

	res, err := p.Train(ctx, ds, opts)
	if err != nil {
		return err
	}

	logWeights("exporter_intent", res.IntentExporterWeights)
	logWeights("buyer_intent", res.IntentBuyerWeights)
	logWeights("match", res.MatchWeights)
	logMetrics("exporter_intent", res.IntentExporterMetrics)
	logMetrics("buyer_intent", res.IntentBuyerMetrics)
	logMetrics("match", res.MatchMetrics)

	return writeMatches(outPath(f.out, "ml_match_results.csv"), res.Pairs)
}

func runPredict(ctx context.Context, p *pipeline.Pipeline, f cliFlags) error {
	ds, err := loadDataset(f)
	if err != nil {
		return err
	}
	res, err := p.Predict(ctx, ds)
	if err != nil {
		return err
	}
	return writeMatches(outPath(f.out, "match_results.csv"), res.Pairs)
}

func runMatchUser(ctx context.Context, p *pipeline.Pipeline, f cliFlags) error {
	ds, err := loadDataset(f)
	if err != nil {
		return err
	}

	var user trade.Exporter
	targets := splitCountries(f.countries)
	if f.userID != "" {
		if user, err = p.UserProfile(ctx, f.userID); err != nil {
			return err
		}
		logging.Info().Str("exporter_id", user.ExporterID).Str("company", user.CompanyName).Msg("profile loaded from store")
	} else {
		var demoTargets string
		user, demoTargets = synth.DemoUser(f.seed)
		if len(targets) == 0 {
			targets = splitCountries(demoTargets)
		}
		logging.Info().
			Str("exporter_id", user.ExporterID).
			Str("company", user.CompanyName).
			Str("industry", user.Industry).
			Msg("demo profile generated")
	}

	res, err := p.MatchUser(ctx, user, targets, ds)
	if err != nil {
		return err
	}
	for _, pr := range res.Pairs[:min(5, len(res.Pairs))] {
		logging.Info().
			Int("rank", pr.MatchRank).
			Str("buyer_id", pr.BuyerID).
			Str("country", pr.BuyerCountry).
			Float64("score", pr.MLMatchScore).
			Str("label", pr.MatchLabel).
			Msg("top match")
	}
	return writeMatches(outPath(f.out, "user_matches.csv"), res.Pairs)
}

// loadDataset reads the three CSVs, or generates seeded demo data when any
// path is missing.
func loadDataset(f cliFlags) (pipeline.Dataset, error) {
	if f.exporterCSV != "" && f.buyerCSV != "" && f.newsCSV != "" {
		logging.Info().
			Str("exporters", f.exporterCSV).
			Str("buyers", f.buyerCSV).
			Str("news", f.newsCSV).
			Msg("loading CSV inputs")
		return pipeline.LoadCSV(f.exporterCSV, f.buyerCSV, f.newsCSV)
	}
	opts := synth.DefaultOptions()
	opts.Seed = f.seed
	logging.Info().
		Int("exporters", opts.Exporters).
		Int("buyers", opts.Buyers).
		Int("news", opts.News).
		Int64("seed", opts.Seed).
		Msg("generating synthetic demo data")
	return pipeline.Synthetic(opts), nil
}

func readLabels(path, labelCol string) (map[trade.PairKey]float64, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open labels file: %w", err)
	}
	defer func() { _ = fh.Close() }()
	return trade.ReadMatchLabels(fh, labelCol)
}

func writeMatches(path string, pairs []trade.MatchPair) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := trade.WriteMatches(fh, pairs); err != nil {
		_ = fh.Close()
		return fmt.Errorf("failed to write matches: %w", err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	logging.Info().Str("path", path).Int("pairs", len(pairs)).Msg("match results written")
	return nil
}

func outPath(flagValue, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	return fallback
}

func splitCountries(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func logWeights(model string, weights []ml.FeatureWeight) {
	for _, w := range weights[:min(10, len(weights))] {
		logging.Info().
			Str("model", model).
			Str("feature", w.Feature).
			Float64("weight", w.Weight).
			Msg("learned feature weight")
	}
}

func logMetrics(model string, m ml.Metrics) {
	logging.Info().
		Str("model", model).
		Int("samples", m.Samples).
		Float64("r2_test", m.R2Test).
		Float64("r2_cv_mean", m.R2CVMean).
		Float64("mae", m.MAE).
		Bool("used_fallback", m.UsedFallback).
		Msg("model metrics")
}

// serveMetrics exposes the Prometheus registry. Failures are logged, not
// fatal: metrics are an observer, not a dependency.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logging.Info().Str("addr", addr).Msg("metrics endpoint listening")
	if err := srv.ListenAndServe(); err != nil {
		logging.Error().Err(err).Msg("metrics endpoint stopped")
	}
}
