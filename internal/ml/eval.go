// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package ml

import (
	"math"
	"math/rand"

	"github.com/arjunm-dev/tradewinds/internal/config"
)

// Metrics summarises one trained model's held-out evaluation.
type Metrics struct {
	Backend      string  `json:"backend"`
	Samples      int     `json:"n_samples"`
	Features     int     `json:"n_features"`
	MAE          float64 `json:"mae"`
	R2Test       float64 `json:"r2_test"`
	R2CVMean     float64 `json:"r2_cv_mean"`
	R2CVStd      float64 `json:"r2_cv_std"`
	UsedFallback bool    `json:"used_fallback,omitempty"`
}

// backendName identifies the learner in metrics and artifact metadata.
const backendName = "gbrt"

// R2 is the coefficient of determination. A constant truth vector yields 0
// for perfect predictions and is otherwise undefined; we return 0 in that
// degenerate case.
func R2(truth, preds []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	var mean float64
	for _, v := range truth {
		mean += v
	}
	mean /= float64(len(truth))

	var ssRes, ssTot float64
	for i, v := range truth {
		d := v - preds[i]
		ssRes += d * d
		t := v - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// MAE is the mean absolute error.
func MAE(truth, preds []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	var sum float64
	for i, v := range truth {
		sum += math.Abs(v - preds[i])
	}
	return sum / float64(len(truth))
}

// TrainTestSplit shuffles 0..n-1 with the given seed and carves off
// testSize as the held-out tail. Both parts are non-empty whenever n >= 2.
func TrainTestSplit(n int, testSize float64, seed int64) (train, test []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(math.Round(testSize * float64(n)))
	if nTest < 1 && n >= 2 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}
	return perm[:n-nTest], perm[n-nTest:]
}

// CrossValR2 runs k-fold cross validation over contiguous folds, training a
// fresh ensemble per fold, and returns the mean and standard deviation of
// the per-fold R2 scores. Folds shrink to len(X) when data is scarce.
func CrossValR2(X [][]float64, y []float64, folds int, p config.GBRTParams) (mean, std float64) {
	n := len(X)
	if folds > n {
		folds = n
	}
	if folds < 2 {
		return 0, 0
	}

	scores := make([]float64, 0, folds)
	for f := 0; f < folds; f++ {
		lo := f * n / folds
		hi := (f + 1) * n / folds
		if lo == hi {
			continue
		}

		trainX := make([][]float64, 0, n-(hi-lo))
		trainY := make([]float64, 0, n-(hi-lo))
		for i := 0; i < n; i++ {
			if i >= lo && i < hi {
				continue
			}
			trainX = append(trainX, X[i])
			trainY = append(trainY, y[i])
		}

		model, err := TrainGBRT(trainX, trainY, p)
		if err != nil {
			continue
		}
		scores = append(scores, R2(y[lo:hi], model.PredictBatch(X[lo:hi])))
	}

	if len(scores) == 0 {
		return 0, 0
	}
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))
	for _, s := range scores {
		d := s - mean
		std += d * d
	}
	std = math.Sqrt(std / float64(len(scores)))
	return mean, std
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clip100(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}
