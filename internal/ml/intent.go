// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

// Package ml holds the learned layer of the pipeline: gradient-boosted
// intent models (exporter and buyer sides), the pair-level match model, and
// their artifact store.
//
// Training acquires an exclusive lock while prediction uses a shared lock,
// so a trained model is safe for concurrent scoring.
package ml

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arjunm-dev/tradewinds/internal/config"
	"github.com/arjunm-dev/tradewinds/internal/logging"
	"github.com/arjunm-dev/tradewinds/internal/metrics"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

// ErrNotTrained is returned when prediction is attempted before training or
// before a saved artifact has been restored.
var ErrNotTrained = errors.New("ml: model not trained")

// intentSide is one trained side (exporter or buyer) of the intent model.
// The scaler is fit once, on the training batch's raw predictions; later
// predictions reuse its range so scores stay comparable.
type intentSide struct {
	Model    *GBRT
	Scaler   MinMaxScaler
	Features []string
	Metrics  Metrics
}

// IntentModel learns each entity's intent from behavioural, trade, risk and
// trust signals, replacing the raw self-reported intent index. When the raw
// index turns out not to be learnable from the features (held-out R2 below
// the configured threshold), training falls back to an engineered composite
// target built from the signals themselves.
type IntentModel struct {
	cfg config.MLConfig
	log zerolog.Logger

	mu  sync.RWMutex
	exp *intentSide
	buy *intentSide
}

// NewIntentModel creates an untrained intent model.
func NewIntentModel(cfg config.MLConfig) *IntentModel {
	return &IntentModel{
		cfg: cfg,
		log: logging.With().Str("component", "intent_model").Logger(),
	}
}

// FitExporters trains the exporter side and returns a copy of the batch
// with MLIntentScore filled (0-100, two decimals).
func (m *IntentModel) FitExporters(rows []trade.Exporter) ([]trade.Exporter, error) {
	X := featureMatrix(rows, exporterIntentFeatures)
	y := make([]float64, len(rows))
	for i := range rows {
		y[i] = rows[i].IntentScore
	}

	side, scores, err := m.fitSide("exporter", X, y, func() []float64 {
		return compositeTarget(rows, exporterTargetSignals)
	})
	if err != nil {
		return nil, err
	}
	side.Features = featureNames(exporterIntentFeatures)

	m.mu.Lock()
	m.exp = side
	m.mu.Unlock()

	out := make([]trade.Exporter, len(rows))
	copy(out, rows)
	for i := range out {
		out[i].MLIntentScore = scores[i]
	}
	return out, nil
}

// FitBuyers trains the buyer side and returns a copy of the batch with
// MLIntentScore filled.
func (m *IntentModel) FitBuyers(rows []trade.Buyer) ([]trade.Buyer, error) {
	X := featureMatrix(rows, buyerIntentFeatures)
	y := make([]float64, len(rows))
	for i := range rows {
		y[i] = rows[i].IntentScore
	}

	side, scores, err := m.fitSide("buyer", X, y, func() []float64 {
		return compositeTarget(rows, buyerTargetSignals)
	})
	if err != nil {
		return nil, err
	}
	side.Features = featureNames(buyerIntentFeatures)

	m.mu.Lock()
	m.buy = side
	m.mu.Unlock()

	out := make([]trade.Buyer, len(rows))
	copy(out, rows)
	for i := range out {
		out[i].MLIntentScore = scores[i]
	}
	return out, nil
}

// fitSide runs the shared train/evaluate/fallback flow and returns the
// trained side plus scaled scores for the full batch.
func (m *IntentModel) fitSide(sideName string, X [][]float64, y []float64, fallbackTarget func() []float64) (*intentSide, []float64, error) {
	if len(X) == 0 {
		return nil, nil, ErrNoTrainingData
	}
	start := time.Now()
	params := m.cfg.Intent

	trainIdx, testIdx := TrainTestSplit(len(X), m.cfg.TestSize, params.Seed)
	model, testTruth, testPreds, err := trainOnSplit(X, y, trainIdx, testIdx, params)
	if err != nil {
		return nil, nil, err
	}

	usedFallback := false
	if R2(testTruth, testPreds) < m.cfg.FallbackR2Threshold {
		m.log.Warn().
			Str("side", sideName).
			Float64("r2", round4(R2(testTruth, testPreds))).
			Msg("raw intent not learnable, switching to composite target")
		metrics.IntentFallbackActivations.WithLabelValues(sideName).Inc()

		y = fallbackTarget()
		model, testTruth, testPreds, err = trainOnSplit(X, y, trainIdx, testIdx, params)
		if err != nil {
			return nil, nil, err
		}
		usedFallback = true
	}

	cvMean, cvStd := CrossValR2(X, y, m.cfg.CVFolds, params)

	side := &intentSide{
		Model: model,
		Metrics: Metrics{
			Backend:      backendName,
			Samples:      len(X),
			Features:     len(X[0]),
			MAE:          round4(MAE(testTruth, testPreds)),
			R2Test:       round4(R2(testTruth, testPreds)),
			R2CVMean:     round4(cvMean),
			R2CVStd:      round4(cvStd),
			UsedFallback: usedFallback,
		},
	}

	raw := model.PredictBatch(X)
	scores := side.Scaler.FitTransform(raw)
	for i, v := range scores {
		scores[i] = round2(clip100(v))
	}

	metrics.RecordTraining("intent_"+sideName, time.Since(start))
	m.log.Info().
		Str("side", sideName).
		Int("samples", side.Metrics.Samples).
		Float64("r2_test", side.Metrics.R2Test).
		Float64("r2_cv_mean", side.Metrics.R2CVMean).
		Bool("used_fallback", usedFallback).
		Dur("elapsed", time.Since(start)).
		Msg("intent side trained")
	return side, scores, nil
}

func trainOnSplit(X [][]float64, y []float64, trainIdx, testIdx []int, params config.GBRTParams) (*GBRT, []float64, []float64, error) {
	trainX := make([][]float64, len(trainIdx))
	trainY := make([]float64, len(trainIdx))
	for i, idx := range trainIdx {
		trainX[i] = X[idx]
		trainY[i] = y[idx]
	}
	model, err := TrainGBRT(trainX, trainY, params)
	if err != nil {
		return nil, nil, nil, err
	}

	testTruth := make([]float64, len(testIdx))
	testPreds := make([]float64, len(testIdx))
	for i, idx := range testIdx {
		testTruth[i] = y[idx]
		testPreds[i] = model.Predict(X[idx])
	}
	return model, testTruth, testPreds, nil
}

// PredictExporterIntent scores a batch with the trained exporter side, no
// retraining. Returns ErrNotTrained before FitExporters or restore.
func (m *IntentModel) PredictExporterIntent(rows []trade.Exporter) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.exp == nil {
		return nil, ErrNotTrained
	}
	return m.predictSide(m.exp, featureMatrix(rows, exporterIntentFeatures)), nil
}

// PredictBuyerIntent scores a batch with the trained buyer side.
func (m *IntentModel) PredictBuyerIntent(rows []trade.Buyer) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.buy == nil {
		return nil, ErrNotTrained
	}
	return m.predictSide(m.buy, featureMatrix(rows, buyerIntentFeatures)), nil
}

func (m *IntentModel) predictSide(side *intentSide, X [][]float64) []float64 {
	scores := side.Scaler.Transform(side.Model.PredictBatch(X))
	for i, v := range scores {
		scores[i] = round2(clip100(v))
	}
	return scores
}

// ExporterWeights returns signed learned weights computed over the given
// batch.
func (m *IntentModel) ExporterWeights(rows []trade.Exporter) ([]FeatureWeight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.exp == nil {
		return nil, ErrNotTrained
	}
	return signedWeights(m.exp.Model, featureMatrix(rows, exporterIntentFeatures), m.exp.Features), nil
}

// BuyerWeights returns signed learned weights computed over the given batch.
func (m *IntentModel) BuyerWeights(rows []trade.Buyer) ([]FeatureWeight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.buy == nil {
		return nil, ErrNotTrained
	}
	return signedWeights(m.buy.Model, featureMatrix(rows, buyerIntentFeatures), m.buy.Features), nil
}

// ExporterMetrics reports the exporter side's training evaluation.
func (m *IntentModel) ExporterMetrics() (Metrics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.exp == nil {
		return Metrics{}, ErrNotTrained
	}
	return m.exp.Metrics, nil
}

// BuyerMetrics reports the buyer side's training evaluation.
func (m *IntentModel) BuyerMetrics() (Metrics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.buy == nil {
		return Metrics{}, ErrNotTrained
	}
	return m.buy.Metrics, nil
}

// IsTrained reports whether both sides have been fit or restored.
func (m *IntentModel) IsTrained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.exp != nil && m.buy != nil
}
