// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/arjunm-dev/tradewinds/internal/cleaner"
	"github.com/arjunm-dev/tradewinds/internal/matching"
	"github.com/arjunm-dev/tradewinds/internal/metrics"
	"github.com/arjunm-dev/tradewinds/internal/ml"
	"github.com/arjunm-dev/tradewinds/internal/news"
	"github.com/arjunm-dev/tradewinds/internal/scoring"
	"github.com/arjunm-dev/tradewinds/internal/store"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

// matchUserTopN is the candidate depth for the single-exporter flow.
const matchUserTopN = 100

// PredictResult is one inference run's output: pairs ranked per exporter by
// ML match score, with presentation labels filled.
type PredictResult struct {
	Pairs     []trade.MatchPair
	Exporters []trade.Exporter
	Buyers    []trade.Buyer
}

// Predict runs batch inference with previously trained artifacts. Missing
// artifacts fail fast with ml.ErrMissingArtifact before any data work.
func (p *Pipeline) Predict(ctx context.Context, ds Dataset) (*PredictResult, error) {
	log := p.runLogger("predict")
	start := time.Now()

	intent, match, err := p.loadModels(ctx)
	if err != nil {
		return nil, err
	}

	exporters := cleaner.CleanExporters(ds.Exporters, ds.ExporterCols)
	buyers := cleaner.CleanBuyers(ds.Buyers, ds.BuyerCols)
	events := cleaner.CleanNews(ds.News, ds.NewsCols)

	scorer := scoring.NewEngine(p.cfg.Scoring)
	exporters = scorer.ScoreExporters(exporters)
	buyers = scorer.ScoreBuyers(buyers)

	if exporters, buyers, err = p.applyIntent(intent, scorer, exporters, buyers); err != nil {
		return nil, err
	}

	adjuster := news.NewAdjuster(events, p.cfg.News)
	matcher := matching.NewEngine(p.cfg.Matching)
	pairs, err := matcher.Run(ctx, exporters, buyers, adjuster)
	if err != nil {
		return nil, fmt.Errorf("matching failed: %w", err)
	}
	metrics.PairsScored.Add(float64(len(pairs)))

	if pairs, err = p.applyMatchModel(match, pairs, exporters, buyers); err != nil {
		return nil, err
	}

	if p.db != nil {
		if err := p.db.UpsertMatches(ctx, pairs); err != nil {
			return nil, fmt.Errorf("failed to persist matches: %w", err)
		}
	}

	log.Info().
		Int("exporters", len(exporters)).
		Int("buyers", len(buyers)).
		Int("pairs", len(pairs)).
		Dur("elapsed", time.Since(start)).
		Msg("prediction complete")
	return &PredictResult{Pairs: pairs, Exporters: exporters, Buyers: buyers}, nil
}

// MatchUser scores a single exporter profile against the buyer table and
// returns up to 100 candidates ranked by ML match score. When ds carries no
// buyers and a store is attached, buyers and news are read from the store.
// targetCountries restricts candidates, falling back to all countries when
// nothing matches.
func (p *Pipeline) MatchUser(ctx context.Context, user trade.Exporter, targetCountries []string, ds Dataset) (*PredictResult, error) {
	log := p.runLogger("match_user")
	start := time.Now()

	intent, match, err := p.loadModels(ctx)
	if err != nil {
		return nil, err
	}

	if len(ds.Buyers) == 0 && p.db != nil {
		if ds.Buyers, err = p.db.LoadBuyers(ctx, ""); err != nil {
			return nil, fmt.Errorf("failed to load buyers: %w", err)
		}
		ds.BuyerCols = fullColumns(trade.BuyerFloatFields, trade.BuyerStringFields)
		if ds.News, err = p.db.LoadNews(ctx); err != nil {
			return nil, fmt.Errorf("failed to load news: %w", err)
		}
		ds.NewsCols = fullColumns(trade.NewsFloatFields, trade.NewsStringFields)
	}

	applyProfileDefaults(&user)
	exporters := cleaner.CleanExporters(
		[]trade.Exporter{user},
		fullColumns(trade.ExporterFloatFields, trade.ExporterStringFields),
	)
	buyers := cleaner.CleanBuyers(ds.Buyers, ds.BuyerCols)
	events := cleaner.CleanNews(ds.News, ds.NewsCols)

	scorer := scoring.NewEngine(p.cfg.Scoring)
	exporters = scorer.ScoreExporters(exporters)
	buyers = scorer.ScoreBuyers(buyers)

	if exporters, buyers, err = p.applyIntent(intent, scorer, exporters, buyers); err != nil {
		return nil, err
	}

	candidates := filterByCountry(buyers, targetCountries)
	if len(candidates) < len(buyers) {
		log.Info().
			Int("candidates", len(candidates)).
			Strs("countries", targetCountries).
			Msg("buyers filtered by target countries")
	}

	matchCfg := p.cfg.Matching
	matchCfg.TopN = matchUserTopN
	matcher := matching.NewEngine(matchCfg)
	adjuster := news.NewAdjuster(events, p.cfg.News)
	pairs, err := matcher.Run(ctx, exporters, candidates, adjuster)
	if err != nil {
		return nil, fmt.Errorf("matching failed: %w", err)
	}
	metrics.PairsScored.Add(float64(len(pairs)))

	if pairs, err = p.applyMatchModel(match, pairs, exporters, candidates); err != nil {
		return nil, err
	}

	log.Info().
		Str("exporter_id", user.ExporterID).
		Int("matches", len(pairs)).
		Dur("elapsed", time.Since(start)).
		Msg("user matching complete")
	return &PredictResult{Pairs: pairs, Exporters: exporters, Buyers: candidates}, nil
}

// UserProfile fetches an exporter profile from the store by ID.
func (p *Pipeline) UserProfile(ctx context.Context, exporterID string) (trade.Exporter, error) {
	if p.db == nil {
		return trade.Exporter{}, fmt.Errorf("exporter %s: no store attached: %w", exporterID, store.ErrNotFound)
	}
	return p.db.GetExporter(ctx, exporterID)
}

// loadModels fails fast when either artifact is missing, before any data
// work happens.
func (p *Pipeline) loadModels(ctx context.Context) (*ml.IntentModel, *ml.MatchModel, error) {
	if !p.artifacts.HasAll() {
		return nil, nil, fmt.Errorf("run training first: %w", ml.ErrMissingArtifact)
	}
	intent, err := p.artifacts.LoadIntent(ctx, p.cfg.ML)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load intent model: %w", err)
	}
	match, err := p.artifacts.LoadMatch(ctx, p.cfg.ML)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load match model: %w", err)
	}
	return intent, match, nil
}

// applyIntent substitutes learned intent for the raw index on both sides
// and rebuilds the composites on top of it.
func (p *Pipeline) applyIntent(intent *ml.IntentModel, scorer *scoring.Engine, exporters []trade.Exporter, buyers []trade.Buyer) ([]trade.Exporter, []trade.Buyer, error) {
	expScores, err := intent.PredictExporterIntent(exporters)
	if err != nil {
		return nil, nil, fmt.Errorf("exporter intent inference failed: %w", err)
	}
	buyScores, err := intent.PredictBuyerIntent(buyers)
	if err != nil {
		return nil, nil, fmt.Errorf("buyer intent inference failed: %w", err)
	}
	for i := range exporters {
		exporters[i].MLIntentScore = expScores[i]
		exporters[i].IntentScore = expScores[i]
	}
	for i := range buyers {
		buyers[i].MLIntentScore = buyScores[i]
		buyers[i].IntentScore = buyScores[i]
	}
	return scorer.ScoreExporters(exporters), scorer.ScoreBuyers(buyers), nil
}

// applyMatchModel scores pairs with the match model, re-ranks each
// exporter's candidates by ML score and fills presentation labels.
func (p *Pipeline) applyMatchModel(match *ml.MatchModel, pairs []trade.MatchPair, exporters []trade.Exporter, buyers []trade.Buyer) ([]trade.MatchPair, error) {
	if len(pairs) == 0 {
		return pairs, nil
	}
	scores, err := match.Predict(pairs, exporters, buyers)
	if err != nil {
		return nil, fmt.Errorf("match model inference failed: %w", err)
	}
	for i := range pairs {
		pairs[i].MLMatchScore = scores[i]
	}
	rerankByMLScore(pairs)
	return pairs, nil
}

// rerankByMLScore re-sorts each exporter's contiguous candidate block by ML
// match score descending (rule order breaks ties) and reassigns contiguous
// 1-based ranks and labels.
func rerankByMLScore(pairs []trade.MatchPair) {
	for lo := 0; lo < len(pairs); {
		hi := lo + 1
		for hi < len(pairs) && pairs[hi].ExporterID == pairs[lo].ExporterID {
			hi++
		}
		block := pairs[lo:hi]
		sort.SliceStable(block, func(a, b int) bool {
			return block[a].MLMatchScore > block[b].MLMatchScore
		})
		for i := range block {
			block[i].MatchRank = i + 1
			block[i].MatchLabel = trade.MatchLabelFor(block[i].MLMatchScore)
		}
		lo = hi
	}
}

// filterByCountry keeps buyers in the target countries, returning all
// buyers when the filter is empty or matches nothing.
func filterByCountry(buyers []trade.Buyer, countries []string) []trade.Buyer {
	if len(countries) == 0 {
		return buyers
	}
	want := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		want[c] = struct{}{}
	}
	var out []trade.Buyer
	for _, b := range buyers {
		if _, ok := want[b.Country]; ok {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return buyers
	}
	return out
}

// applyProfileDefaults fills defaults for profile fields a user record may
// omit. Zero is never a meaningful value for these attributes, so a zero
// cell is treated as absent.
func applyProfileDefaults(e *trade.Exporter) {
	if e.ManufacturingCapacityTons == 0 {
		e.ManufacturingCapacityTons = 1000
	}
	if e.RevenueSizeUSD == 0 {
		e.RevenueSizeUSD = 500_000
	}
	if e.IntentScore == 0 {
		e.IntentScore = 50
	}
	if e.PromptResponseScore == 0 {
		e.PromptResponseScore = 5
	}
	if e.WarRisk == 0 {
		e.WarRisk = 0.1
	}
	if e.NaturalCalamityRisk == 0 {
		e.NaturalCalamityRisk = 0.1
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
}
