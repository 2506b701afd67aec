// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package matching

import "sort"

// topIndices returns the indices of the n highest scores, ordered by score
// descending with ties broken by ascending index, so selection is fully
// deterministic. Runs in O(len) expected time via quickselect before the
// final O(n log n) sort of the selected prefix.
func topIndices(scores []float64, n int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	better := func(a, b int) bool {
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		return a < b
	}

	if n < len(idx) {
		quickselect(idx, n, better)
		idx = idx[:n]
	}
	sort.Slice(idx, func(i, j int) bool { return better(idx[i], idx[j]) })
	return idx
}

// quickselect partitions idx so that the n best elements under better occupy
// idx[:n], in arbitrary order.
func quickselect(idx []int, n int, better func(a, b int) bool) {
	lo, hi := 0, len(idx)-1
	for lo < hi {
		p := partition(idx, lo, hi, better)
		switch {
		case p == n-1:
			return
		case p < n-1:
			lo = p + 1
		default:
			hi = p - 1
		}
	}
}

func partition(idx []int, lo, hi int, better func(a, b int) bool) int {
	// Median-of-three pivot guards against sorted-input quadratic behaviour.
	mid := lo + (hi-lo)/2
	if better(idx[mid], idx[lo]) {
		idx[lo], idx[mid] = idx[mid], idx[lo]
	}
	if better(idx[hi], idx[lo]) {
		idx[lo], idx[hi] = idx[hi], idx[lo]
	}
	if better(idx[hi], idx[mid]) {
		idx[mid], idx[hi] = idx[hi], idx[mid]
	}
	pivot := idx[mid]
	idx[mid], idx[hi] = idx[hi], idx[mid]

	store := lo
	for i := lo; i < hi; i++ {
		if better(idx[i], pivot) {
			idx[i], idx[store] = idx[store], idx[i]
			store++
		}
	}
	idx[store], idx[hi] = idx[hi], idx[store]
	return store
}
