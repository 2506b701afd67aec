// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

// Package scoring computes composite 0-100 quality scores for exporters and
// buyers from weighted sub-scores.
//
// Every numeric input is min-max normalised to [0,100] relative to the
// current batch before weighting, so scores are batch-relative by design: an
// exporter's score can change when the surrounding cohort changes. A column
// with no spread normalises to the 50 midpoint for every row.
//
// Sub-score blends and the composite weights are configuration, not code;
// see config.ScoringConfig.
package scoring

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/arjunm-dev/tradewinds/internal/config"
	"github.com/arjunm-dev/tradewinds/internal/logging"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

// Engine scores exporter and buyer batches. Safe for concurrent use: it
// holds only immutable configuration.
type Engine struct {
	cfg config.ScoringConfig
	log zerolog.Logger
}

// NewEngine builds a scoring engine from validated configuration.
func NewEngine(cfg config.ScoringConfig) *Engine {
	return &Engine{
		cfg: cfg,
		log: logging.With().Str("component", "scoring").Logger(),
	}
}

// ScoreExporters fills the derived score fields on a copy of the batch.
// Composite weights: reliability, capacity, intent, risk (config).
func (e *Engine) ScoreExporters(rows []trade.Exporter) []trade.Exporter {
	out := make([]trade.Exporter, len(rows))
	copy(out, rows)
	if len(out) == 0 {
		return out
	}
	w := e.cfg.ExporterWeights

	reliability := blend(
		term{col(out, func(x *trade.Exporter) float64 { return x.GoodPaymentTerms }), 0.40},
		term{col(out, func(x *trade.Exporter) float64 { return x.PromptResponseScore }), 0.40},
		term{certBonuses(out, func(x *trade.Exporter) string { return x.Certification }, e.cfg.CertBonusPoints), 0.20},
	)
	capacity := blend(
		term{col(out, func(x *trade.Exporter) float64 { return x.ManufacturingCapacityTons }), 0.35},
		term{col(out, func(x *trade.Exporter) float64 { return x.RevenueSizeUSD }), 0.35},
		term{col(out, func(x *trade.Exporter) float64 { return x.TeamSize }), 0.15},
		term{col(out, func(x *trade.Exporter) float64 { return x.ShipmentValueUSD }), 0.15},
	)
	intent := blend(
		term{col(out, func(x *trade.Exporter) float64 { return x.IntentScore }), 0.40},
		term{col(out, func(x *trade.Exporter) float64 { return x.HiringSignal }), 0.15},
		term{col(out, func(x *trade.Exporter) float64 { return x.LinkedInActivity }), 0.15},
		term{col(out, func(x *trade.Exporter) float64 { return x.SalesNavProfileViews }), 0.20},
		term{col(out, func(x *trade.Exporter) float64 { return x.SalesNavJobChange }), 0.10},
	)
	// Risk is inverted: higher exposure lowers the sub-score. Signed shocks
	// count by magnitude.
	risk := invert(blend(
		term{col(out, func(x *trade.Exporter) float64 { return math.Abs(x.TariffImpact) }), 0.30},
		term{col(out, func(x *trade.Exporter) float64 { return x.WarRisk }), 0.30},
		term{col(out, func(x *trade.Exporter) float64 { return x.NaturalCalamityRisk }), 0.25},
		term{col(out, func(x *trade.Exporter) float64 { return math.Abs(x.StockMarketImpact) }), 0.15},
	))

	for i := range out {
		x := &out[i]
		x.ReliabilityScore = clip100(reliability[i])
		x.CapacityScore = clip100(capacity[i])
		x.IntentScoreCalc = clip100(intent[i])
		x.RiskScore = clip100(risk[i])
		x.ExporterScore = round2(clip100(
			w.Reliability*x.ReliabilityScore +
				w.Capacity*x.CapacityScore +
				w.Intent*x.IntentScoreCalc +
				w.Risk*x.RiskScore))
	}

	e.log.Debug().Int("exporters", len(out)).Msg("scored exporter batch")
	return out
}

// ScoreBuyers fills the derived score fields on a copy of the batch.
// Composite weights: creditworthiness, engagement, intent, response, risk.
func (e *Engine) ScoreBuyers(rows []trade.Buyer) []trade.Buyer {
	out := make([]trade.Buyer, len(rows))
	copy(out, rows)
	if len(out) == 0 {
		return out
	}
	w := e.cfg.BuyerWeights

	credit := blend(
		term{col(out, func(b *trade.Buyer) float64 { return b.GoodPaymentHistory }), 0.40},
		term{col(out, func(b *trade.Buyer) float64 { return b.FundingEvent }), 0.25},
		term{col(out, func(b *trade.Buyer) float64 { return b.RevenueSizeUSD }), 0.25},
		term{certBonuses(out, func(b *trade.Buyer) string { return b.Certification }, e.cfg.CertBonusPoints), 0.10},
	)
	engagement := blend(
		term{col(out, func(b *trade.Buyer) float64 { return b.EngagementSpike }), 0.35},
		term{col(out, func(b *trade.Buyer) float64 { return b.SalesNavProfileVisits }), 0.35},
		term{col(out, func(b *trade.Buyer) float64 { return b.DecisionMakerChange }), 0.30},
	)
	intent := blend(
		term{col(out, func(b *trade.Buyer) float64 { return b.IntentScore }), 0.65},
		term{col(out, func(b *trade.Buyer) float64 { return b.HiringGrowth }), 0.35},
	)
	response := blend(
		term{col(out, func(b *trade.Buyer) float64 { return b.ResponseProbability }), 0.55},
		term{col(out, func(b *trade.Buyer) float64 { return b.PromptResponse }), 0.45},
	)
	risk := invert(blend(
		term{col(out, func(b *trade.Buyer) float64 { return b.TariffNews }), 0.30},
		term{col(out, func(b *trade.Buyer) float64 { return b.WarEvent }), 0.35},
		term{col(out, func(b *trade.Buyer) float64 { return b.NaturalCalamity }), 0.20},
		term{col(out, func(b *trade.Buyer) float64 { return math.Abs(b.StockMarketShock) }), 0.15},
	))

	for i := range out {
		b := &out[i]
		b.CreditworthinessScore = clip100(credit[i])
		b.EngagementScore = clip100(engagement[i])
		b.IntentScoreCalc = clip100(intent[i])
		b.ResponseScore = clip100(response[i])
		b.RiskScore = clip100(risk[i])
		b.BuyerScore = round2(clip100(
			w.Creditworthiness*b.CreditworthinessScore +
				w.Engagement*b.EngagementScore +
				w.Intent*b.IntentScoreCalc +
				w.Response*b.ResponseScore +
				w.Risk*b.RiskScore))
	}

	e.log.Debug().Int("buyers", len(out)).Msg("scored buyer batch")
	return out
}

// term is one weighted, already-normalised column of a sub-score blend.
type term struct {
	vals   []float64
	weight float64
}

// col extracts a column via fn and min-max normalises it to [0,100].
func col[T any](rows []T, fn func(*T) float64) []float64 {
	vals := make([]float64, len(rows))
	for i := range rows {
		vals[i] = fn(&rows[i])
	}
	return Normalize(vals)
}

// certBonuses returns the raw certification bonus column (pts or 0), not
// normalised: the bonus is already an absolute point value.
func certBonuses[T any](rows []T, fn func(*T) string, pts float64) []float64 {
	vals := make([]float64, len(rows))
	for i := range rows {
		if trade.HasCertification(fn(&rows[i])) {
			vals[i] = pts
		}
	}
	return vals
}

func blend(terms ...term) []float64 {
	out := make([]float64, len(terms[0].vals))
	for _, t := range terms {
		for i, v := range t.vals {
			out[i] += t.weight * v
		}
	}
	return out
}

func invert(vals []float64) []float64 {
	for i, v := range vals {
		vals[i] = 100 - v
	}
	return vals
}

// Normalize min-max scales vals to [0,100] relative to the slice itself.
// A degenerate column (all values equal, including a single row) maps every
// entry to the 50 midpoint.
func Normalize(vals []float64) []float64 {
	out := make([]float64, len(vals))
	if len(vals) == 0 {
		return out
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		for i := range out {
			out[i] = 50
		}
		return out
	}
	for i, v := range vals {
		out[i] = (v - lo) / (hi - lo) * 100
	}
	return out
}

func clip100(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
