// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

// Package config provides layered configuration for Tradewinds via Koanf v2.
//
// Precedence (highest wins): environment variables (TRADEWINDS_ prefix) >
// YAML config file > built-in defaults. All scoring weights, matching
// tuning, news adjuster scales and ML hyperparameters live here so that
// behaviour can be tuned without touching engine code.
package config

// Config is the root configuration for the matchmaking pipeline.
type Config struct {
	Logging  LoggingConfig  `koanf:"logging"`
	Database DatabaseConfig `koanf:"database"`
	Scoring  ScoringConfig  `koanf:"scoring"`
	Matching MatchingConfig `koanf:"matching"`
	News     NewsConfig     `koanf:"news"`
	ML       MLConfig       `koanf:"ml"`
}

// LoggingConfig controls the global zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// DatabaseConfig configures the DuckDB row store.
type DatabaseConfig struct {
	// Path is the DuckDB database file. Empty means in-memory.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`

	// Threads for DuckDB. 0 = runtime.NumCPU().
	Threads int `koanf:"threads"`

	// UpsertBatchSize bounds rows per write batch to respect store limits.
	UpsertBatchSize int `koanf:"upsert_batch_size" validate:"min=1"`
}

// ExporterWeights is the convex combination over exporter sub-scores.
// Must sum to 1.0.
type ExporterWeights struct {
	Reliability float64 `koanf:"reliability" validate:"min=0,max=1"`
	Capacity    float64 `koanf:"capacity" validate:"min=0,max=1"`
	Intent      float64 `koanf:"intent" validate:"min=0,max=1"`
	Risk        float64 `koanf:"risk" validate:"min=0,max=1"`
}

// BuyerWeights is the convex combination over buyer sub-scores.
// Must sum to 1.0.
type BuyerWeights struct {
	Creditworthiness float64 `koanf:"creditworthiness" validate:"min=0,max=1"`
	Engagement       float64 `koanf:"engagement" validate:"min=0,max=1"`
	Intent           float64 `koanf:"intent" validate:"min=0,max=1"`
	Response         float64 `koanf:"response" validate:"min=0,max=1"`
	Risk             float64 `koanf:"risk" validate:"min=0,max=1"`
}

// ScoringConfig tunes the rule-based composite scoring engine.
type ScoringConfig struct {
	ExporterWeights ExporterWeights `koanf:"exporter_weights"`
	BuyerWeights    BuyerWeights    `koanf:"buyer_weights"`

	// CertBonusPoints is awarded when an entity holds a non-null certification.
	CertBonusPoints float64 `koanf:"cert_bonus_points" validate:"min=0"`
}

// EngagementBonuses are flat per-event point values added to a pair score.
type EngagementBonuses struct {
	FundingEvent        float64 `koanf:"funding_event"`
	DecisionMakerChange float64 `koanf:"decision_maker_change"`
	EngagementSpike     float64 `koanf:"engagement_spike"`
	HiringSignal        float64 `koanf:"hiring_signal"`
}

// MatchingConfig tunes the matchmaking engine.
type MatchingConfig struct {
	// TopN buyers recommended per exporter.
	TopN int `koanf:"top_n" validate:"min=1"`

	// IndustryMismatchPenalty points deducted when industries differ.
	IndustryMismatchPenalty float64 `koanf:"industry_mismatch_penalty" validate:"min=0"`

	// CapacityWeight scales the capacity-alignment bonus.
	CapacityWeight float64 `koanf:"capacity_weight" validate:"min=0,max=1"`

	// CosineWeight vs EuclideanWeight blend the base similarity.
	// Must sum to 1.0.
	CosineWeight    float64 `koanf:"cosine_weight" validate:"min=0,max=1"`
	EuclideanWeight float64 `koanf:"euclidean_weight" validate:"min=0,max=1"`

	EngagementBonuses EngagementBonuses `koanf:"engagement_bonuses"`

	// CertMatchBonus when both sides share a non-null certification.
	CertMatchBonus float64 `koanf:"cert_match_bonus" validate:"min=0"`

	// NumWorkers for row-parallel matrix computation. 0 = runtime.NumCPU().
	NumWorkers int `koanf:"num_workers" validate:"min=0"`
}

// NewsConfig tunes the news risk adjuster.
type NewsConfig struct {
	LookbackDays int `koanf:"lookback_days" validate:"min=1"`

	TariffPenaltyScale float64 `koanf:"tariff_penalty_scale"`
	WarPenaltyPerEvent float64 `koanf:"war_penalty_per_event"`
	CalamityPenalty    float64 `koanf:"calamity_penalty"`
	StockPenaltyScale  float64 `koanf:"stock_penalty_scale"`
	TariffBonusScale   float64 `koanf:"tariff_bonus_scale"`

	// DeltaMin/DeltaMax clip the final delta. Penalty-dominant by design:
	// the downside range is larger than the capped upside.
	DeltaMin float64 `koanf:"delta_min"`
	DeltaMax float64 `koanf:"delta_max"`

	// CountryRegions maps buyer countries to news regions. Countries absent
	// from the map fall into the "Unknown" region bucket.
	CountryRegions map[string]string `koanf:"country_regions"`
}

// GBRTParams are gradient-boosted regression hyperparameters.
type GBRTParams struct {
	Trees        int     `koanf:"trees" validate:"min=1"`
	LearningRate float64 `koanf:"learning_rate" validate:"gt=0,max=1"`
	MaxDepth     int     `koanf:"max_depth" validate:"min=1"`
	Subsample    float64 `koanf:"subsample" validate:"gt=0,max=1"`
	Seed         int64   `koanf:"seed"`
}

// MLConfig tunes model training and artifact storage.
type MLConfig struct {
	Intent GBRTParams `koanf:"intent"`
	Match  GBRTParams `koanf:"match"`

	// TestSize is the held-out fraction of the train/test split.
	TestSize float64 `koanf:"test_size" validate:"gt=0,lt=1"`

	// CVFolds for cross-validated R².
	CVFolds int `koanf:"cv_folds" validate:"min=2"`

	// FallbackR2Threshold: below this held-out R² the nominal intent target
	// is deemed unlearnable and the engineered composite target is used.
	FallbackR2Threshold float64 `koanf:"fallback_r2_threshold"`

	// ArtifactDir holds serialized model bundles.
	ArtifactDir string `koanf:"artifact_dir"`
}

// defaultConfig returns a Config with all default values. Defaults mirror the
// tuned production weights; every weight set sums to 1.0 by construction.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Path:            "tradewinds.duckdb",
			MaxMemory:       "2GB",
			Threads:         0,
			UpsertBatchSize: 100,
		},
		Scoring: ScoringConfig{
			ExporterWeights: ExporterWeights{
				Reliability: 0.30,
				Capacity:    0.25,
				Intent:      0.25,
				Risk:        0.20,
			},
			BuyerWeights: BuyerWeights{
				Creditworthiness: 0.30,
				Engagement:       0.20,
				Intent:           0.25,
				Response:         0.15,
				Risk:             0.10,
			},
			CertBonusPoints: 10.0,
		},
		Matching: MatchingConfig{
			TopN:                    5,
			IndustryMismatchPenalty: 30.0,
			CapacityWeight:          0.15,
			CosineWeight:            0.55,
			EuclideanWeight:         0.45,
			EngagementBonuses: EngagementBonuses{
				FundingEvent:        3.0,
				DecisionMakerChange: 2.5,
				EngagementSpike:     2.0,
				HiringSignal:        1.5,
			},
			CertMatchBonus: 5.0,
			NumWorkers:     0,
		},
		News: NewsConfig{
			LookbackDays:       90,
			TariffPenaltyScale: 30,
			WarPenaltyPerEvent: 5,
			CalamityPenalty:    4,
			StockPenaltyScale:  20,
			TariffBonusScale:   15,
			DeltaMin:           -20,
			DeltaMax:           10,
			CountryRegions: map[string]string{
				"USA":       "North America",
				"Canada":    "North America",
				"Brazil":    "South America",
				"Germany":   "Europe",
				"France":    "Europe",
				"UK":        "Europe",
				"UAE":       "Middle East",
				"Japan":     "Asia",
				"Singapore": "Asia",
				"Australia": "Asia",
			},
		},
		ML: MLConfig{
			Intent: GBRTParams{
				Trees:        300,
				LearningRate: 0.05,
				MaxDepth:     4,
				Subsample:    0.8,
				Seed:         42,
			},
			Match: GBRTParams{
				Trees:        400,
				LearningRate: 0.04,
				MaxDepth:     5,
				Subsample:    0.8,
				Seed:         42,
			},
			TestSize:            0.2,
			CVFolds:             5,
			FallbackR2Threshold: 0.05,
			ArtifactDir:         "models",
		},
	}
}

// Default returns the built-in default configuration without touching the
// environment or filesystem. Used by tests and the demo mode.
func Default() *Config {
	return defaultConfig()
}
