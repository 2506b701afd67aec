// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package ml

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/arjunm-dev/tradewinds/internal/config"
)

// ErrNoTrainingData is returned when a model is fit on an empty batch.
var ErrNoTrainingData = errors.New("ml: no training data")

// TreeNode is one node of a regression tree. Feature < 0 marks a leaf.
// Exported fields for gob serialization.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      int32
	Right     int32
	Value     float64
}

// RegressionTree is a depth-limited CART regression tree stored as a flat
// node array.
type RegressionTree struct {
	Nodes []TreeNode
}

func (t *RegressionTree) predict(x []float64) float64 {
	i := int32(0)
	for {
		n := &t.Nodes[i]
		if n.Feature < 0 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// GBRT is a gradient-boosted ensemble of regression trees with squared-error
// loss. Training is fully deterministic for a fixed seed: subsampling uses a
// private PRNG and split search breaks ties on the lowest feature index.
type GBRT struct {
	Params config.GBRTParams
	Init   float64
	Trees  []RegressionTree

	// FeatureGain accumulates total squared-error reduction per feature
	// across all splits, for importance reporting.
	FeatureGain []float64
}

// TrainGBRT fits a boosted ensemble on X (row-major feature matrix) and y.
func TrainGBRT(X [][]float64, y []float64, p config.GBRTParams) (*GBRT, error) {
	n := len(X)
	if n == 0 || len(y) != n {
		return nil, ErrNoTrainingData
	}
	width := len(X[0])

	m := &GBRT{
		Params:      p,
		FeatureGain: make([]float64, width),
	}
	for _, v := range y {
		m.Init += v
	}
	m.Init /= float64(n)

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = m.Init
	}

	sampleSize := int(p.Subsample * float64(n))
	if sampleSize < 1 {
		sampleSize = 1
	}
	if sampleSize > n {
		sampleSize = n
	}

	rng := rand.New(rand.NewSource(p.Seed))
	residual := make([]float64, n)
	b := &treeBuilder{x: X, target: residual, maxDepth: p.MaxDepth, gains: m.FeatureGain}

	for t := 0; t < p.Trees; t++ {
		for i := range residual {
			residual[i] = y[i] - pred[i]
		}

		samples := subsample(rng, n, sampleSize)
		tree := b.build(samples)
		m.Trees = append(m.Trees, tree)

		for i := range pred {
			pred[i] += p.LearningRate * tree.predict(X[i])
		}
	}
	return m, nil
}

// Predict returns the ensemble prediction for one feature vector.
func (m *GBRT) Predict(x []float64) float64 {
	out := m.Init
	for i := range m.Trees {
		out += m.Params.LearningRate * m.Trees[i].predict(x)
	}
	return out
}

// PredictBatch predicts every row of X.
func (m *GBRT) PredictBatch(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = m.Predict(X[i])
	}
	return out
}

// Importances returns per-feature gain shares normalised to sum 1. All
// zeros when no split ever used any feature.
func (m *GBRT) Importances() []float64 {
	out := make([]float64, len(m.FeatureGain))
	var total float64
	for _, g := range m.FeatureGain {
		total += g
	}
	if total == 0 {
		return out
	}
	for i, g := range m.FeatureGain {
		out[i] = g / total
	}
	return out
}

// subsample draws k distinct row indices, sorted so tree construction is
// order-independent of the draw.
func subsample(rng *rand.Rand, n, k int) []int {
	if k >= n {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := rng.Perm(n)[:k]
	sort.Ints(idx)
	return idx
}

// treeBuilder fits one CART regression tree on the current residuals.
type treeBuilder struct {
	x        [][]float64
	target   []float64
	maxDepth int
	gains    []float64

	nodes []TreeNode
	// scratch reused across splits
	order []int
}

func (b *treeBuilder) build(samples []int) RegressionTree {
	b.nodes = b.nodes[:0]
	b.split(samples, 0)
	nodes := make([]TreeNode, len(b.nodes))
	copy(nodes, b.nodes)
	return RegressionTree{Nodes: nodes}
}

// split grows the subtree for samples and returns its node index.
func (b *treeBuilder) split(samples []int, depth int) int32 {
	var sum float64
	for _, i := range samples {
		sum += b.target[i]
	}
	n := float64(len(samples))
	mean := sum / n

	self := int32(len(b.nodes))
	b.nodes = append(b.nodes, TreeNode{Feature: -1, Value: mean})

	if depth >= b.maxDepth || len(samples) < 2 {
		return self
	}

	feature, threshold, gain := b.bestSplit(samples, sum)
	if feature < 0 {
		return self
	}
	b.gains[feature] += gain

	left := make([]int, 0, len(samples))
	right := make([]int, 0, len(samples))
	for _, i := range samples {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	b.nodes[self].Feature = feature
	b.nodes[self].Threshold = threshold
	b.nodes[self].Left = b.split(left, depth+1)
	b.nodes[self].Right = b.split(right, depth+1)
	return self
}

// bestSplit scans every feature for the threshold maximising squared-error
// reduction. Returns feature -1 when no split improves on the parent.
func (b *treeBuilder) bestSplit(samples []int, totalSum float64) (int, float64, float64) {
	n := float64(len(samples))
	parentScore := totalSum * totalSum / n

	bestFeature := -1
	var bestThreshold, bestGain float64

	if cap(b.order) < len(samples) {
		b.order = make([]int, len(samples))
	}
	order := b.order[:len(samples)]

	for f := 0; f < len(b.x[samples[0]]); f++ {
		copy(order, samples)
		sort.Slice(order, func(a, c int) bool { return b.x[order[a]][f] < b.x[order[c]][f] })

		var leftSum float64
		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			leftSum += b.target[i]

			v, next := b.x[i][f], b.x[order[k+1]][f]
			if v == next {
				continue
			}

			nl := float64(k + 1)
			nr := n - nl
			rightSum := totalSum - leftSum
			gain := leftSum*leftSum/nl + rightSum*rightSum/nr - parentScore
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = v + (next-v)/2
			}
		}
	}
	return bestFeature, bestThreshold, bestGain
}
