// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/arjunm-dev/tradewinds/internal/metrics"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

const upsertMatchSQL = `INSERT INTO match_results (
	exporter_id, buyer_id, exporter_industry, exporter_score,
	buyer_country, buyer_industry, buyer_score, preferred_channel,
	base_similarity, industry_bonus, capacity_align, news_delta,
	engagement_bonus, cert_match,
	match_score, match_rank, ml_match_score, match_label, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (exporter_id, buyer_id) DO UPDATE SET
	exporter_industry = EXCLUDED.exporter_industry,
	exporter_score = EXCLUDED.exporter_score,
	buyer_country = EXCLUDED.buyer_country,
	buyer_industry = EXCLUDED.buyer_industry,
	buyer_score = EXCLUDED.buyer_score,
	preferred_channel = EXCLUDED.preferred_channel,
	base_similarity = EXCLUDED.base_similarity,
	industry_bonus = EXCLUDED.industry_bonus,
	capacity_align = EXCLUDED.capacity_align,
	news_delta = EXCLUDED.news_delta,
	engagement_bonus = EXCLUDED.engagement_bonus,
	cert_match = EXCLUDED.cert_match,
	match_score = EXCLUDED.match_score,
	match_rank = EXCLUDED.match_rank,
	ml_match_score = EXCLUDED.ml_match_score,
	match_label = EXCLUDED.match_label,
	updated_at = EXCLUDED.updated_at`

// UpsertMatches writes scored pairs on the (exporter_id, buyer_id) compound
// key, last-write-wins, chunked to the configured batch size.
func (db *DB) UpsertMatches(ctx context.Context, pairs []trade.MatchPair) error {
	start := time.Now()
	now := time.Now().UTC()
	err := db.inChunks(len(pairs), func(lo, hi int) error {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		for i := lo; i < hi; i++ {
			p := &pairs[i]
			if _, err := tx.ExecContext(ctx, upsertMatchSQL,
				p.ExporterID, p.BuyerID, p.ExporterIndustry, p.ExporterScore,
				p.BuyerCountry, p.BuyerIndustry, p.BuyerScore, p.PreferredChannel,
				p.BaseSimilarity, p.IndustryBonus, p.CapacityAlign, p.NewsDelta,
				p.EngagementBonus, p.CertMatch,
				p.MatchScore, p.MatchRank, p.MLMatchScore, p.MatchLabel, now,
			); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to upsert match %s/%s: %w", p.ExporterID, p.BuyerID, err)
			}
		}
		return tx.Commit()
	})
	metrics.RecordDBQuery("upsert", "match_results", time.Since(start), err)
	if err == nil {
		metrics.MatchesUpserted.Add(float64(len(pairs)))
		db.log.Debug().Int("rows", len(pairs)).Msg("match results upserted")
	}
	return err
}

const selectMatchSQL = `SELECT
	exporter_id, buyer_id, exporter_industry, exporter_score,
	buyer_country, buyer_industry, buyer_score, preferred_channel,
	base_similarity, industry_bonus, capacity_align, news_delta,
	engagement_bonus, cert_match,
	match_score, match_rank, ml_match_score, match_label
FROM match_results`

// TopMatches returns an exporter's stored matches ordered by rank. A limit
// of 0 returns all of them.
func (db *DB) TopMatches(ctx context.Context, exporterID string, limit int) ([]trade.MatchPair, error) {
	query := selectMatchSQL + " WHERE exporter_id = ? ORDER BY match_rank"
	args := []any{exporterID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "match_results", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []trade.MatchPair
	for rows.Next() {
		var p trade.MatchPair
		if err := rows.Scan(
			&p.ExporterID, &p.BuyerID, &p.ExporterIndustry, &p.ExporterScore,
			&p.BuyerCountry, &p.BuyerIndustry, &p.BuyerScore, &p.PreferredChannel,
			&p.BaseSimilarity, &p.IndustryBonus, &p.CapacityAlign, &p.NewsDelta,
			&p.EngagementBonus, &p.CertMatch,
			&p.MatchScore, &p.MatchRank, &p.MLMatchScore, &p.MatchLabel,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MatchCount reports the number of stored match rows.
func (db *DB) MatchCount(ctx context.Context) (int, error) {
	start := time.Now()
	var n int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM match_results").Scan(&n)
	metrics.RecordDBQuery("select", "match_results", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return n, nil
}
