// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/arjunm-dev/tradewinds/internal/cleaner"
	"github.com/arjunm-dev/tradewinds/internal/matching"
	"github.com/arjunm-dev/tradewinds/internal/metrics"
	"github.com/arjunm-dev/tradewinds/internal/ml"
	"github.com/arjunm-dev/tradewinds/internal/news"
	"github.com/arjunm-dev/tradewinds/internal/scoring"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

// TrainOptions tunes one training run.
type TrainOptions struct {
	// Labels maps (exporter, buyer) pairs to real deal outcomes. Pairs
	// present here train on the real label instead of the bootstrap
	// rule-based score.
	Labels map[trade.PairKey]float64
}

// TrainResult carries the trained artifacts' diagnostics and the final
// ML-scored pairs.
type TrainResult struct {
	Pairs     []trade.MatchPair
	Exporters []trade.Exporter
	Buyers    []trade.Buyer

	IntentExporterMetrics ml.Metrics
	IntentBuyerMetrics    ml.Metrics
	MatchMetrics          ml.Metrics

	IntentExporterWeights []ml.FeatureWeight
	IntentBuyerWeights    []ml.FeatureWeight
	MatchWeights          []ml.FeatureWeight
}

// Train runs the full training flow: clean, rule-based score and match to
// bootstrap labels, train the intent models, substitute learned intent and
// re-score, train the match model, score every pair with it, then save the
// artifacts and persist rows.
func (p *Pipeline) Train(ctx context.Context, ds Dataset, opts TrainOptions) (*TrainResult, error) {
	log := p.runLogger("train")
	start := time.Now()
	log.Info().
		Int("exporters", len(ds.Exporters)).
		Int("buyers", len(ds.Buyers)).
		Int("news", len(ds.News)).
		Msg("training started")

	exporters := cleaner.CleanExporters(ds.Exporters, ds.ExporterCols)
	buyers := cleaner.CleanBuyers(ds.Buyers, ds.BuyerCols)
	events := cleaner.CleanNews(ds.News, ds.NewsCols)

	scorer := scoring.NewEngine(p.cfg.Scoring)
	exporters = scorer.ScoreExporters(exporters)
	buyers = scorer.ScoreBuyers(buyers)

	adjuster := news.NewAdjuster(events, p.cfg.News)
	matcher := matching.NewEngine(p.cfg.Matching)
	pairs, err := matcher.Run(ctx, exporters, buyers, adjuster)
	if err != nil {
		return nil, fmt.Errorf("rule-based matching failed: %w", err)
	}
	metrics.PairsScored.Add(float64(len(pairs)))
	log.Info().Int("pairs", len(pairs)).Msg("bootstrap labels generated")

	merged := mergeLabels(pairs, opts.Labels)
	if merged > 0 {
		log.Info().Int("pairs", merged).Msg("real deal labels merged over bootstrap scores")
	}

	intent := ml.NewIntentModel(p.cfg.ML)
	if exporters, err = intent.FitExporters(exporters); err != nil {
		return nil, fmt.Errorf("exporter intent training failed: %w", err)
	}
	if buyers, err = intent.FitBuyers(buyers); err != nil {
		return nil, fmt.Errorf("buyer intent training failed: %w", err)
	}

	// The learned intent replaces the raw index, then composites are
	// rebuilt on top of it.
	for i := range exporters {
		exporters[i].IntentScore = exporters[i].MLIntentScore
	}
	for i := range buyers {
		buyers[i].IntentScore = buyers[i].MLIntentScore
	}
	exporters = scorer.ScoreExporters(exporters)
	buyers = scorer.ScoreBuyers(buyers)

	match := ml.NewMatchModel(p.cfg.ML)
	if err := match.Fit(pairs, exporters, buyers); err != nil {
		return nil, fmt.Errorf("match model training failed: %w", err)
	}
	mlScores, err := match.Predict(pairs, exporters, buyers)
	if err != nil {
		return nil, fmt.Errorf("match model scoring failed: %w", err)
	}
	for i := range pairs {
		pairs[i].MLMatchScore = mlScores[i]
	}

	res := &TrainResult{
		Pairs:     pairs,
		Exporters: exporters,
		Buyers:    buyers,
	}
	if err := p.collectDiagnostics(res, intent, match); err != nil {
		return nil, err
	}

	if err := p.artifacts.SaveIntent(ctx, intent); err != nil {
		return nil, fmt.Errorf("failed to save intent model: %w", err)
	}
	if err := p.artifacts.SaveMatch(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to save match model: %w", err)
	}

	if err := p.persist(ctx, exporters, buyers, events, pairs); err != nil {
		return nil, err
	}

	log.Info().
		Int("pairs", len(pairs)).
		Float64("intent_exporter_r2", res.IntentExporterMetrics.R2Test).
		Float64("intent_buyer_r2", res.IntentBuyerMetrics.R2Test).
		Float64("match_r2", res.MatchMetrics.R2Test).
		Dur("elapsed", time.Since(start)).
		Msg("training complete")
	return res, nil
}

// mergeLabels overwrites bootstrap scores with real outcomes where known
// and reports how many pairs were relabelled.
func mergeLabels(pairs []trade.MatchPair, labels map[trade.PairKey]float64) int {
	if len(labels) == 0 {
		return 0
	}
	merged := 0
	for i := range pairs {
		key := trade.PairKey{ExporterID: pairs[i].ExporterID, BuyerID: pairs[i].BuyerID}
		if v, ok := labels[key]; ok {
			pairs[i].MatchScore = v
			merged++
		}
	}
	return merged
}

func (p *Pipeline) collectDiagnostics(res *TrainResult, intent *ml.IntentModel, match *ml.MatchModel) error {
	var err error
	if res.IntentExporterMetrics, err = intent.ExporterMetrics(); err != nil {
		return fmt.Errorf("exporter intent metrics: %w", err)
	}
	if res.IntentBuyerMetrics, err = intent.BuyerMetrics(); err != nil {
		return fmt.Errorf("buyer intent metrics: %w", err)
	}
	if res.MatchMetrics, err = match.Metrics(); err != nil {
		return fmt.Errorf("match metrics: %w", err)
	}
	if res.IntentExporterWeights, err = intent.ExporterWeights(res.Exporters); err != nil {
		return fmt.Errorf("exporter intent weights: %w", err)
	}
	if res.IntentBuyerWeights, err = intent.BuyerWeights(res.Buyers); err != nil {
		return fmt.Errorf("buyer intent weights: %w", err)
	}
	if res.MatchWeights, err = match.FeatureWeights(res.Pairs, res.Exporters, res.Buyers); err != nil {
		return fmt.Errorf("match weights: %w", err)
	}
	return nil
}

// persist writes scored rows and pairs to the store when one is attached.
func (p *Pipeline) persist(ctx context.Context, exporters []trade.Exporter, buyers []trade.Buyer, events []trade.NewsEvent, pairs []trade.MatchPair) error {
	if p.db == nil {
		return nil
	}
	if err := p.db.SaveExporters(ctx, exporters); err != nil {
		return fmt.Errorf("failed to persist exporters: %w", err)
	}
	if err := p.db.SaveBuyers(ctx, buyers); err != nil {
		return fmt.Errorf("failed to persist buyers: %w", err)
	}
	if err := p.db.SaveNews(ctx, events); err != nil {
		return fmt.Errorf("failed to persist news: %w", err)
	}
	if err := p.db.UpsertMatches(ctx, pairs); err != nil {
		return fmt.Errorf("failed to persist matches: %w", err)
	}
	return nil
}
