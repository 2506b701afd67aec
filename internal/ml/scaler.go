// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package ml

// MinMaxScaler maps values onto [0,100] using the range observed at fit
// time. Fit once at training; later transforms reuse the training range so
// scores stay comparable across batches. Exported fields for gob.
type MinMaxScaler struct {
	Min    float64
	Max    float64
	Fitted bool
}

// Fit records the value range.
func (s *MinMaxScaler) Fit(vals []float64) {
	if len(vals) == 0 {
		return
	}
	s.Min, s.Max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Fitted = true
}

// Transform scales vals onto [0,100]. Values outside the fitted range clip
// to the bounds; a degenerate fitted range maps everything to the midpoint.
func (s *MinMaxScaler) Transform(vals []float64) []float64 {
	out := make([]float64, len(vals))
	span := s.Max - s.Min
	for i, v := range vals {
		if span == 0 {
			out[i] = 50
			continue
		}
		x := (v - s.Min) / span * 100
		if x < 0 {
			x = 0
		} else if x > 100 {
			x = 100
		}
		out[i] = x
	}
	return out
}

// FitTransform fits on vals and returns their scaled form.
func (s *MinMaxScaler) FitTransform(vals []float64) []float64 {
	s.Fit(vals)
	return s.Transform(vals)
}
