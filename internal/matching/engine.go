// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

// Package matching ranks buyers for every exporter with a rule-based score.
//
// The score blends a profile-similarity base (cosine and euclidean over the
// derived sub-score vectors) with additive adjustments: industry mismatch
// penalty, capacity alignment, engagement bonuses, certification match and
// the news risk delta. Feature columns are min-max normalised to [0,1]
// relative to the batch; the shorter feature vector is zero-padded so both
// sides share one width.
//
// Exporter rows are scored in parallel; output ordering is deterministic:
// exporters in input order, ranks 1..TopN within each exporter, ties broken
// by buyer input order.
package matching

import (
	"context"
	"math"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arjunm-dev/tradewinds/internal/config"
	"github.com/arjunm-dev/tradewinds/internal/logging"
	"github.com/arjunm-dev/tradewinds/internal/news"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

// Engine computes ranked exporter-buyer matches. Safe for concurrent use:
// it holds only immutable configuration.
type Engine struct {
	cfg config.MatchingConfig
	log zerolog.Logger
}

// NewEngine builds a matchmaking engine from validated configuration.
func NewEngine(cfg config.MatchingConfig) *Engine {
	return &Engine{
		cfg: cfg,
		log: logging.With().Str("component", "matching").Logger(),
	}
}

// buyerSide is the per-buyer state shared read-only across workers.
type buyerSide struct {
	feats    [][]float64
	engBonus []float64
	region   []string
}

// Run scores every exporter-buyer pair and returns the top-N buyers per
// exporter. An empty side yields an empty result and no error. The adjuster
// may be nil, in which case every news delta is 0.
func (e *Engine) Run(ctx context.Context, exporters []trade.Exporter, buyers []trade.Buyer, adjuster *news.Adjuster) ([]trade.MatchPair, error) {
	nExp, nBuy := len(exporters), len(buyers)
	if nExp == 0 || nBuy == 0 {
		return []trade.MatchPair{}, nil
	}

	expFeats, buyFeats := e.featureMatrices(exporters, buyers)
	bs := &buyerSide{
		feats:    buyFeats,
		engBonus: make([]float64, nBuy),
		region:   make([]string, nBuy),
	}
	eb := e.cfg.EngagementBonuses
	for j := range buyers {
		b := &buyers[j]
		bs.engBonus[j] = b.FundingEvent*eb.FundingEvent +
			b.DecisionMakerChange*eb.DecisionMakerChange +
			b.EngagementSpike*eb.EngagementSpike
		if adjuster != nil {
			bs.region[j] = adjuster.RegionFor(b.Country)
		}
	}

	var deltas news.DeltaTable
	if adjuster != nil {
		industries := make([]string, 0, nExp)
		for i := range exporters {
			industries = append(industries, exporters[i].Industry)
		}
		deltas = adjuster.BuildDeltaTable(industries, bs.region)
	}

	topN := e.cfg.TopN
	if topN > nBuy {
		topN = nBuy
	}
	e.log.Info().
		Int("exporters", nExp).
		Int("buyers", nBuy).
		Int("top_n", topN).
		Msg("matchmaking run")

	workers := e.cfg.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > nExp {
		workers = nExp
	}

	perExporter := make([][]trade.MatchPair, nExp)
	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				perExporter[i] = e.scoreRow(i, exporters, buyers, expFeats[i], bs, deltas, topN)
			}
		}()
	}

feed:
	for i := 0; i < nExp; i++ {
		select {
		case rows <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(rows)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]trade.MatchPair, 0, nExp*topN)
	for _, pairs := range perExporter {
		out = append(out, pairs...)
	}
	return out, nil
}

// scoreRow scores one exporter against every buyer and keeps the top-N.
func (e *Engine) scoreRow(i int, exporters []trade.Exporter, buyers []trade.Buyer, expFeat []float64, bs *buyerSide, deltas news.DeltaTable, topN int) []trade.MatchPair {
	exp := &exporters[i]
	hiringBonus := exp.HiringSignal * e.cfg.EngagementBonuses.HiringSignal
	expCertValid := trade.HasCertification(exp.Certification)

	scores := make([]float64, len(buyers))
	base := make([]float64, len(buyers))
	caps := make([]float64, len(buyers))
	for j := range buyers {
		b := &buyers[j]

		base[j] = e.baseSimilarity(expFeat, bs.feats[j])

		industry := 0.0
		if exp.Industry != b.Industry {
			industry = -e.cfg.IndustryMismatchPenalty
		}

		lo := math.Min(exp.ManufacturingCapacityTons, b.AvgOrderTons)
		hi := math.Max(exp.ManufacturingCapacityTons, b.AvgOrderTons) + 1e-9
		caps[j] = e.cfg.CapacityWeight * lo / hi * 100

		eng := bs.engBonus[j] + hiringBonus

		cert := 0.0
		if expCertValid && exp.Certification == b.Certification {
			cert = e.cfg.CertMatchBonus
		}

		delta := 0.0
		if deltas != nil {
			delta = deltas.Lookup(exp.Industry, bs.region[j])
		}

		scores[j] = clip100(base[j] + industry + caps[j] + eng + cert + delta)
	}

	pairs := make([]trade.MatchPair, 0, topN)
	for rank, j := range topIndices(scores, topN) {
		b := &buyers[j]
		industry := 0.0
		if exp.Industry != b.Industry {
			industry = -e.cfg.IndustryMismatchPenalty
		}
		cert := 0.0
		if expCertValid && exp.Certification == b.Certification {
			cert = e.cfg.CertMatchBonus
		}
		delta := 0.0
		if deltas != nil {
			delta = deltas.Lookup(exp.Industry, bs.region[j])
		}
		pairs = append(pairs, trade.MatchPair{
			ExporterID:       exp.ExporterID,
			ExporterIndustry: exp.Industry,
			ExporterScore:    round2(exp.ExporterScore),
			BuyerID:          b.BuyerID,
			BuyerCountry:     b.Country,
			BuyerIndustry:    b.Industry,
			BuyerScore:       round2(b.BuyerScore),
			PreferredChannel: b.PreferredChannel,
			BaseSimilarity:   round2(base[j]),
			IndustryBonus:    round2(industry),
			CapacityAlign:    round2(caps[j]),
			NewsDelta:        round2(delta),
			EngagementBonus:  round2(bs.engBonus[j] + hiringBonus),
			CertMatch:        round2(cert),
			MatchScore:       round2(scores[j]),
			MatchRank:        rank + 1,
		})
	}
	return pairs
}

// featureMatrices builds the normalised, width-aligned sub-score vectors.
// Exporter features: composite, reliability, capacity, intent, risk. Buyer
// features: composite, creditworthiness, engagement, intent, response, risk.
func (e *Engine) featureMatrices(exporters []trade.Exporter, buyers []trade.Buyer) ([][]float64, [][]float64) {
	expCols := [][]float64{
		column(exporters, func(x *trade.Exporter) float64 { return x.ExporterScore }),
		column(exporters, func(x *trade.Exporter) float64 { return x.ReliabilityScore }),
		column(exporters, func(x *trade.Exporter) float64 { return x.CapacityScore }),
		column(exporters, func(x *trade.Exporter) float64 { return x.IntentScoreCalc }),
		column(exporters, func(x *trade.Exporter) float64 { return x.RiskScore }),
	}
	buyCols := [][]float64{
		column(buyers, func(b *trade.Buyer) float64 { return b.BuyerScore }),
		column(buyers, func(b *trade.Buyer) float64 { return b.CreditworthinessScore }),
		column(buyers, func(b *trade.Buyer) float64 { return b.EngagementScore }),
		column(buyers, func(b *trade.Buyer) float64 { return b.IntentScoreCalc }),
		column(buyers, func(b *trade.Buyer) float64 { return b.ResponseScore }),
		column(buyers, func(b *trade.Buyer) float64 { return b.RiskScore }),
	}

	width := len(expCols)
	if len(buyCols) > width {
		width = len(buyCols)
	}
	return rowsOf(expCols, len(exporters), width), rowsOf(buyCols, len(buyers), width)
}

// column extracts and min-max normalises one feature column to [0,1]. A
// column with no spread maps to the 0.5 midpoint.
func column[T any](rows []T, fn func(*T) float64) []float64 {
	out := make([]float64, len(rows))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range rows {
		out[i] = fn(&rows[i])
		lo = math.Min(lo, out[i])
		hi = math.Max(hi, out[i])
	}
	if hi == lo {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for i, v := range out {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// rowsOf transposes columns into per-row vectors, zero-padding to width.
func rowsOf(cols [][]float64, n, width int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		row := make([]float64, width)
		for c := range cols {
			row[c] = cols[c][i]
		}
		rows[i] = row
	}
	return rows
}

// baseSimilarity blends cosine and euclidean similarity between two
// width-aligned feature vectors, each mapped to [0,100].
func (e *Engine) baseSimilarity(a, b []float64) float64 {
	var dot, na, nb, dist float64
	for k := range a {
		dot += a[k] * b[k]
		na += a[k] * a[k]
		nb += b[k] * b[k]
		d := a[k] - b[k]
		dist += d * d
	}

	cos := 0.0
	if na > 0 && nb > 0 {
		cos = dot / (math.Sqrt(na) * math.Sqrt(nb))
	}
	cosSim := (cos + 1) / 2 * 100

	maxDist := math.Sqrt(float64(len(a))) * 100
	eucSim := math.Max(0, 1-math.Sqrt(dist)/maxDist) * 100

	return e.cfg.CosineWeight*cosSim + e.cfg.EuclideanWeight*eucSim
}

func clip100(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
