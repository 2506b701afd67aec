// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package ml

import (
	"math"
	"sort"
)

// FeatureWeight is one signed learned weight. Tree importances are
// magnitudes only; the sign comes from the Pearson correlation between the
// feature and the model's own predictions, so a negative weight marks a
// feature that pulls the score down. Diagnostic output, not used in
// inference.
type FeatureWeight struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// signedWeights computes signed importances for a trained ensemble over X,
// sorted by descending magnitude with ties broken by feature order.
func signedWeights(model *GBRT, X [][]float64, names []string) []FeatureWeight {
	preds := model.PredictBatch(X)
	imps := model.Importances()

	out := make([]FeatureWeight, len(names))
	for j, name := range names {
		col := make([]float64, len(X))
		for i := range X {
			col[i] = X[i][j]
		}
		w := imps[j]
		if pearson(col, preds) < 0 {
			w = -w
		}
		out[j] = FeatureWeight{Feature: name, Weight: round6(w)}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Weight) > math.Abs(out[j].Weight)
	})
	return out
}

// pearson returns the correlation coefficient, 0 when either side has no
// variance.
func pearson(a, b []float64) float64 {
	n := float64(len(a))
	if n == 0 {
		return 0
	}
	var ma, mb float64
	for i := range a {
		ma += a[i]
		mb += b[i]
	}
	ma /= n
	mb /= n

	var cov, va, vb float64
	for i := range a {
		da, db := a[i]-ma, b[i]-mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return 0
	}
	return cov / math.Sqrt(va*vb)
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
