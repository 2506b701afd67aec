// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arjunm-dev/tradewinds/internal/metrics"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

// ErrNotFound is returned when a lookup by business ID matches no row.
var ErrNotFound = errors.New("store: not found")

const upsertExporterSQL = `INSERT OR REPLACE INTO exporters (
	exporter_id, record_id, company_name, industry, country, state, event_date,
	manufacturing_capacity_tons, revenue_size_usd, team_size,
	shipment_value_usd, quantity_tons,
	good_payment_terms, prompt_response_score, certification, msme_udyam,
	hiring_signal, linkedin_activity, salesnav_profile_views,
	salesnav_job_change, intent_score,
	tariff_impact, stock_market_impact, war_risk, natural_calamity_risk,
	currency_shift,
	reliability_score, capacity_score, intent_score_calc, risk_score,
	exporter_score, ml_intent_score, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
	?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SaveExporters upserts an exporter snapshot keyed by exporter_id,
// last-write-wins. The training flow calls this after scoring so the store
// holds derived scores alongside the raw attributes.
func (db *DB) SaveExporters(ctx context.Context, rows []trade.Exporter) error {
	start := time.Now()
	now := time.Now().UTC()
	err := db.inChunks(len(rows), func(lo, hi int) error {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		for i := lo; i < hi; i++ {
			e := &rows[i]
			if _, err := tx.ExecContext(ctx, upsertExporterSQL,
				e.ExporterID, e.RecordID, e.CompanyName, e.Industry, e.Country, e.State, e.Date,
				e.ManufacturingCapacityTons, e.RevenueSizeUSD, e.TeamSize,
				e.ShipmentValueUSD, e.QuantityTons,
				e.GoodPaymentTerms, e.PromptResponseScore, e.Certification, e.MSMEUdyam,
				e.HiringSignal, e.LinkedInActivity, e.SalesNavProfileViews,
				e.SalesNavJobChange, e.IntentScore,
				e.TariffImpact, e.StockMarketImpact, e.WarRisk, e.NaturalCalamityRisk,
				e.CurrencyShift,
				e.ReliabilityScore, e.CapacityScore, e.IntentScoreCalc, e.RiskScore,
				e.ExporterScore, e.MLIntentScore, now,
			); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to upsert exporter %s: %w", e.ExporterID, err)
			}
		}
		return tx.Commit()
	})
	metrics.RecordDBQuery("upsert", "exporters", time.Since(start), err)
	if err == nil {
		db.log.Debug().Int("rows", len(rows)).Msg("exporters saved")
	}
	return err
}

const selectExporterSQL = `SELECT
	exporter_id, record_id, company_name, industry, country, state, event_date,
	manufacturing_capacity_tons, revenue_size_usd, team_size,
	shipment_value_usd, quantity_tons,
	good_payment_terms, prompt_response_score, certification, msme_udyam,
	hiring_signal, linkedin_activity, salesnav_profile_views,
	salesnav_job_change, intent_score,
	tariff_impact, stock_market_impact, war_risk, natural_calamity_risk,
	currency_shift,
	reliability_score, capacity_score, intent_score_calc, risk_score,
	exporter_score, ml_intent_score
FROM exporters`

func scanExporter(scan func(dest ...any) error) (trade.Exporter, error) {
	var e trade.Exporter
	err := scan(
		&e.ExporterID, &e.RecordID, &e.CompanyName, &e.Industry, &e.Country, &e.State, &e.Date,
		&e.ManufacturingCapacityTons, &e.RevenueSizeUSD, &e.TeamSize,
		&e.ShipmentValueUSD, &e.QuantityTons,
		&e.GoodPaymentTerms, &e.PromptResponseScore, &e.Certification, &e.MSMEUdyam,
		&e.HiringSignal, &e.LinkedInActivity, &e.SalesNavProfileViews,
		&e.SalesNavJobChange, &e.IntentScore,
		&e.TariffImpact, &e.StockMarketImpact, &e.WarRisk, &e.NaturalCalamityRisk,
		&e.CurrencyShift,
		&e.ReliabilityScore, &e.CapacityScore, &e.IntentScoreCalc, &e.RiskScore,
		&e.ExporterScore, &e.MLIntentScore,
	)
	return e, err
}

// LoadExporters returns all stored exporters ordered by ID.
func (db *DB) LoadExporters(ctx context.Context) ([]trade.Exporter, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, selectExporterSQL+" ORDER BY exporter_id")
	metrics.RecordDBQuery("select", "exporters", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query exporters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []trade.Exporter
	for rows.Next() {
		e, err := scanExporter(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exporter: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetExporter fetches a single exporter profile by ID.
func (db *DB) GetExporter(ctx context.Context, exporterID string) (trade.Exporter, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx, selectExporterSQL+" WHERE exporter_id = ?", exporterID)
	e, err := scanExporter(row.Scan)
	metrics.RecordDBQuery("select", "exporters", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return trade.Exporter{}, fmt.Errorf("exporter %s: %w", exporterID, ErrNotFound)
	}
	if err != nil {
		return trade.Exporter{}, fmt.Errorf("failed to fetch exporter %s: %w", exporterID, err)
	}
	return e, nil
}

const upsertBuyerSQL = `INSERT OR REPLACE INTO buyers (
	buyer_id, record_id, country, industry, event_date,
	avg_order_tons, revenue_size_usd, team_size,
	good_payment_history, certification,
	funding_event, engagement_spike, decision_maker_change,
	salesnav_profile_visits, hiring_growth,
	response_probability, prompt_response, intent_score,
	tariff_news, stock_market_shock, war_event, natural_calamity,
	currency_fluctuation, preferred_channel,
	creditworthiness_score, engagement_score, intent_score_calc,
	response_score, risk_score, buyer_score, ml_intent_score, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
	?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SaveBuyers upserts a buyer snapshot keyed by buyer_id, last-write-wins.
func (db *DB) SaveBuyers(ctx context.Context, rows []trade.Buyer) error {
	start := time.Now()
	now := time.Now().UTC()
	err := db.inChunks(len(rows), func(lo, hi int) error {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		for i := lo; i < hi; i++ {
			b := &rows[i]
			if _, err := tx.ExecContext(ctx, upsertBuyerSQL,
				b.BuyerID, b.RecordID, b.Country, b.Industry, b.Date,
				b.AvgOrderTons, b.RevenueSizeUSD, b.TeamSize,
				b.GoodPaymentHistory, b.Certification,
				b.FundingEvent, b.EngagementSpike, b.DecisionMakerChange,
				b.SalesNavProfileVisits, b.HiringGrowth,
				b.ResponseProbability, b.PromptResponse, b.IntentScore,
				b.TariffNews, b.StockMarketShock, b.WarEvent, b.NaturalCalamity,
				b.CurrencyFluctuation, b.PreferredChannel,
				b.CreditworthinessScore, b.EngagementScore, b.IntentScoreCalc,
				b.ResponseScore, b.RiskScore, b.BuyerScore, b.MLIntentScore, now,
			); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to upsert buyer %s: %w", b.BuyerID, err)
			}
		}
		return tx.Commit()
	})
	metrics.RecordDBQuery("upsert", "buyers", time.Since(start), err)
	if err == nil {
		db.log.Debug().Int("rows", len(rows)).Msg("buyers saved")
	}
	return err
}

const selectBuyerSQL = `SELECT
	buyer_id, record_id, country, industry, event_date,
	avg_order_tons, revenue_size_usd, team_size,
	good_payment_history, certification,
	funding_event, engagement_spike, decision_maker_change,
	salesnav_profile_visits, hiring_growth,
	response_probability, prompt_response, intent_score,
	tariff_news, stock_market_shock, war_event, natural_calamity,
	currency_fluctuation, preferred_channel,
	creditworthiness_score, engagement_score, intent_score_calc,
	response_score, risk_score, buyer_score, ml_intent_score
FROM buyers`

func scanBuyer(scan func(dest ...any) error) (trade.Buyer, error) {
	var b trade.Buyer
	err := scan(
		&b.BuyerID, &b.RecordID, &b.Country, &b.Industry, &b.Date,
		&b.AvgOrderTons, &b.RevenueSizeUSD, &b.TeamSize,
		&b.GoodPaymentHistory, &b.Certification,
		&b.FundingEvent, &b.EngagementSpike, &b.DecisionMakerChange,
		&b.SalesNavProfileVisits, &b.HiringGrowth,
		&b.ResponseProbability, &b.PromptResponse, &b.IntentScore,
		&b.TariffNews, &b.StockMarketShock, &b.WarEvent, &b.NaturalCalamity,
		&b.CurrencyFluctuation, &b.PreferredChannel,
		&b.CreditworthinessScore, &b.EngagementScore, &b.IntentScoreCalc,
		&b.ResponseScore, &b.RiskScore, &b.BuyerScore, &b.MLIntentScore,
	)
	return b, err
}

// LoadBuyers returns stored buyers ordered by ID. A non-empty country
// restricts the result to that buyer country.
func (db *DB) LoadBuyers(ctx context.Context, country string) ([]trade.Buyer, error) {
	query := selectBuyerSQL
	var args []any
	if country != "" {
		query += " WHERE country = ?"
		args = append(args, country)
	}
	query += " ORDER BY buyer_id"

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "buyers", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query buyers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []trade.Buyer
	for rows.Next() {
		b, err := scanBuyer(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan buyer: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

const upsertNewsSQL = `INSERT OR REPLACE INTO news_events (
	news_id, event_date, region, event_type, affected_industry,
	impact_level, tariff_change, stock_market_shock,
	war_flag, natural_calamity_flag, currency_shift, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SaveNews upserts news events keyed by news_id.
func (db *DB) SaveNews(ctx context.Context, rows []trade.NewsEvent) error {
	start := time.Now()
	now := time.Now().UTC()
	err := db.inChunks(len(rows), func(lo, hi int) error {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		for i := lo; i < hi; i++ {
			n := &rows[i]
			if _, err := tx.ExecContext(ctx, upsertNewsSQL,
				n.NewsID, n.Date, n.Region, n.EventType, n.AffectedIndustry,
				n.ImpactLevel, n.TariffChange, n.StockMarketShock,
				n.WarFlag, n.NaturalCalamityFlag, n.CurrencyShift, now,
			); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to upsert news event %s: %w", n.NewsID, err)
			}
		}
		return tx.Commit()
	})
	metrics.RecordDBQuery("upsert", "news_events", time.Since(start), err)
	return err
}

// LoadNews returns all stored news events ordered by date then ID.
func (db *DB) LoadNews(ctx context.Context) ([]trade.NewsEvent, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `SELECT
		news_id, event_date, region, event_type, affected_industry,
		impact_level, tariff_change, stock_market_shock,
		war_flag, natural_calamity_flag, currency_shift
	FROM news_events ORDER BY event_date, news_id`)
	metrics.RecordDBQuery("select", "news_events", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query news events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []trade.NewsEvent
	for rows.Next() {
		var n trade.NewsEvent
		if err := rows.Scan(
			&n.NewsID, &n.Date, &n.Region, &n.EventType, &n.AffectedIndustry,
			&n.ImpactLevel, &n.TariffChange, &n.StockMarketShock,
			&n.WarFlag, &n.NaturalCalamityFlag, &n.CurrencyShift,
		); err != nil {
			return nil, fmt.Errorf("failed to scan news event: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
