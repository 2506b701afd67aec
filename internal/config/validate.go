// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package config

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// weightSumTolerance absorbs float literal rounding in config files.
const weightSumTolerance = 1e-9

// Validate checks struct tags and the domain invariants the tag language
// cannot express: every composite weight set sums to exactly 1.0 and the
// news delta clip range is ordered.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ew := c.Scoring.ExporterWeights
	if err := checkWeightSum("scoring.exporter_weights",
		ew.Reliability, ew.Capacity, ew.Intent, ew.Risk); err != nil {
		return err
	}

	bw := c.Scoring.BuyerWeights
	if err := checkWeightSum("scoring.buyer_weights",
		bw.Creditworthiness, bw.Engagement, bw.Intent, bw.Response, bw.Risk); err != nil {
		return err
	}

	if err := checkWeightSum("matching cosine/euclidean weights",
		c.Matching.CosineWeight, c.Matching.EuclideanWeight); err != nil {
		return err
	}

	if c.News.DeltaMin >= c.News.DeltaMax {
		return fmt.Errorf("news.delta_min (%v) must be below news.delta_max (%v)",
			c.News.DeltaMin, c.News.DeltaMax)
	}

	return nil
}

func checkWeightSum(name string, weights ...float64) error {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%s must sum to 1.0, got %v", name, sum)
	}
	return nil
}
