// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package store

import (
	"context"
	"fmt"
)

// Table schemas. Entity tables mirror the canonical trade structs including
// derived score columns, so the training flow can write scored snapshots
// back and the match-user flow can read a full profile by ID.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS exporters (
		exporter_id VARCHAR PRIMARY KEY,
		record_id VARCHAR,
		company_name VARCHAR,
		industry VARCHAR,
		country VARCHAR,
		state VARCHAR,
		event_date TIMESTAMP,
		manufacturing_capacity_tons DOUBLE,
		revenue_size_usd DOUBLE,
		team_size DOUBLE,
		shipment_value_usd DOUBLE,
		quantity_tons DOUBLE,
		good_payment_terms DOUBLE,
		prompt_response_score DOUBLE,
		certification VARCHAR,
		msme_udyam DOUBLE,
		hiring_signal DOUBLE,
		linkedin_activity DOUBLE,
		salesnav_profile_views DOUBLE,
		salesnav_job_change DOUBLE,
		intent_score DOUBLE,
		tariff_impact DOUBLE,
		stock_market_impact DOUBLE,
		war_risk DOUBLE,
		natural_calamity_risk DOUBLE,
		currency_shift DOUBLE,
		reliability_score DOUBLE,
		capacity_score DOUBLE,
		intent_score_calc DOUBLE,
		risk_score DOUBLE,
		exporter_score DOUBLE,
		ml_intent_score DOUBLE,
		updated_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS buyers (
		buyer_id VARCHAR PRIMARY KEY,
		record_id VARCHAR,
		country VARCHAR,
		industry VARCHAR,
		event_date TIMESTAMP,
		avg_order_tons DOUBLE,
		revenue_size_usd DOUBLE,
		team_size DOUBLE,
		good_payment_history DOUBLE,
		certification VARCHAR,
		funding_event DOUBLE,
		engagement_spike DOUBLE,
		decision_maker_change DOUBLE,
		salesnav_profile_visits DOUBLE,
		hiring_growth DOUBLE,
		response_probability DOUBLE,
		prompt_response DOUBLE,
		intent_score DOUBLE,
		tariff_news DOUBLE,
		stock_market_shock DOUBLE,
		war_event DOUBLE,
		natural_calamity DOUBLE,
		currency_fluctuation DOUBLE,
		preferred_channel VARCHAR,
		creditworthiness_score DOUBLE,
		engagement_score DOUBLE,
		intent_score_calc DOUBLE,
		response_score DOUBLE,
		risk_score DOUBLE,
		buyer_score DOUBLE,
		ml_intent_score DOUBLE,
		updated_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS news_events (
		news_id VARCHAR PRIMARY KEY,
		event_date TIMESTAMP,
		region VARCHAR,
		event_type VARCHAR,
		affected_industry VARCHAR,
		impact_level DOUBLE,
		tariff_change DOUBLE,
		stock_market_shock DOUBLE,
		war_flag DOUBLE,
		natural_calamity_flag DOUBLE,
		currency_shift DOUBLE,
		updated_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS match_results (
		exporter_id VARCHAR NOT NULL,
		buyer_id VARCHAR NOT NULL,
		exporter_industry VARCHAR,
		exporter_score DOUBLE,
		buyer_country VARCHAR,
		buyer_industry VARCHAR,
		buyer_score DOUBLE,
		preferred_channel VARCHAR,
		base_similarity DOUBLE,
		industry_bonus DOUBLE,
		capacity_align DOUBLE,
		news_delta DOUBLE,
		engagement_bonus DOUBLE,
		cert_match DOUBLE,
		match_score DOUBLE,
		match_rank INTEGER,
		ml_match_score DOUBLE,
		match_label VARCHAR,
		updated_at TIMESTAMP,
		PRIMARY KEY (exporter_id, buyer_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_match_results_rank
		ON match_results (exporter_id, match_rank)`,
}

func (db *DB) initialize(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
