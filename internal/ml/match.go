// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package ml

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arjunm-dev/tradewinds/internal/config"
	"github.com/arjunm-dev/tradewinds/internal/logging"
	"github.com/arjunm-dev/tradewinds/internal/metrics"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

// MatchModel learns pair-level match quality from engineered interaction
// features, bootstrapped from the rule-based match score. When real
// conversion labels exist they can replace the bootstrap target via
// FitLabeled.
type MatchModel struct {
	cfg config.MLConfig
	log zerolog.Logger

	mu       sync.RWMutex
	model    *GBRT
	features []string
	metrics  Metrics
}

// NewMatchModel creates an untrained match model.
func NewMatchModel(cfg config.MLConfig) *MatchModel {
	return &MatchModel{
		cfg: cfg,
		log: logging.With().Str("component", "match_model").Logger(),
	}
}

// Fit trains on the rule-based match score as the bootstrap target.
func (m *MatchModel) Fit(pairs []trade.MatchPair, exporters []trade.Exporter, buyers []trade.Buyer) error {
	y := make([]float64, len(pairs))
	for i := range pairs {
		y[i] = pairs[i].MatchScore
	}
	return m.FitLabeled(pairs, exporters, buyers, y)
}

// FitLabeled trains on explicit per-pair labels, e.g. real deal outcomes.
func (m *MatchModel) FitLabeled(pairs []trade.MatchPair, exporters []trade.Exporter, buyers []trade.Buyer, y []float64) error {
	if len(pairs) == 0 {
		return ErrNoTrainingData
	}
	start := time.Now()
	params := m.cfg.Match

	X, unknownExp, unknownBuy := pairFeatures(pairs, exporters, buyers)
	recordUnknownEntities(unknownExp, unknownBuy)
	if unknownExp+unknownBuy > 0 {
		m.log.Warn().
			Int("unknown_exporters", unknownExp).
			Int("unknown_buyers", unknownBuy).
			Msg("pairs referenced entities missing from the batch")
	}

	trainIdx, testIdx := TrainTestSplit(len(X), m.cfg.TestSize, params.Seed)
	model, testTruth, testPreds, err := trainOnSplit(X, y, trainIdx, testIdx, params)
	if err != nil {
		return err
	}
	cvMean, cvStd := CrossValR2(X, y, m.cfg.CVFolds, params)

	m.mu.Lock()
	m.model = model
	m.features = append([]string(nil), matchFeatureNames...)
	m.metrics = Metrics{
		Backend:  backendName,
		Samples:  len(X),
		Features: len(matchFeatureNames),
		MAE:      round4(MAE(testTruth, testPreds)),
		R2Test:   round4(R2(testTruth, testPreds)),
		R2CVMean: round4(cvMean),
		R2CVStd:  round4(cvStd),
	}
	m.mu.Unlock()

	metrics.RecordTraining("match", time.Since(start))
	m.log.Info().
		Int("pairs", len(pairs)).
		Float64("r2_test", m.metrics.R2Test).
		Float64("r2_cv_mean", m.metrics.R2CVMean).
		Dur("elapsed", time.Since(start)).
		Msg("match model trained")
	return nil
}

// Predict scores pairs with the trained model, clipped to [0,100], two
// decimals. Returns ErrNotTrained before Fit or restore.
func (m *MatchModel) Predict(pairs []trade.MatchPair, exporters []trade.Exporter, buyers []trade.Buyer) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.model == nil {
		return nil, ErrNotTrained
	}

	X, unknownExp, unknownBuy := pairFeatures(pairs, exporters, buyers)
	recordUnknownEntities(unknownExp, unknownBuy)

	out := m.model.PredictBatch(X)
	for i, v := range out {
		out[i] = round2(clip100(v))
	}
	return out, nil
}

// FeatureWeights returns signed learned pair-feature weights computed over
// the given pairs.
func (m *MatchModel) FeatureWeights(pairs []trade.MatchPair, exporters []trade.Exporter, buyers []trade.Buyer) ([]FeatureWeight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.model == nil {
		return nil, ErrNotTrained
	}
	X, _, _ := pairFeatures(pairs, exporters, buyers)
	return signedWeights(m.model, X, m.features), nil
}

// Metrics reports the training evaluation.
func (m *MatchModel) Metrics() (Metrics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.model == nil {
		return Metrics{}, ErrNotTrained
	}
	return m.metrics, nil
}

// IsTrained reports whether the model has been fit or restored.
func (m *MatchModel) IsTrained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.model != nil
}
