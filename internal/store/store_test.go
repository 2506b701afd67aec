// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/arjunm-dev/tradewinds/internal/config"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := config.Default().Database
	cfg.Path = "" // in-memory
	cfg.UpsertBatchSize = 3
	db, err := New(&cfg)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestExporterRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	date := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	in := []trade.Exporter{
		{
			ExporterID:                "EXP001",
			CompanyName:               "Deccan Steelworks",
			Industry:                  "Steel",
			Country:                   "India",
			State:                     "Maharashtra",
			Date:                      date,
			ManufacturingCapacityTons: 1200,
			RevenueSizeUSD:            5_000_000,
			PromptResponseScore:       8.5,
			Certification:             "ISO9001",
			IntentScore:               74,
			WarRisk:                   0.1,
			ExporterScore:             81.25,
			MLIntentScore:             69.4,
		},
		{ExporterID: "EXP002", Industry: "Textiles", Country: "India", Date: date},
	}
	if err := db.SaveExporters(ctx, in); err != nil {
		t.Fatal(err)
	}

	out, err := db.LoadExporters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("loaded %d exporters, want 2", len(out))
	}
	got := out[0]
	if got.ExporterID != "EXP001" || got.CompanyName != "Deccan Steelworks" {
		t.Fatalf("unexpected first row: %+v", got)
	}
	if got.ManufacturingCapacityTons != 1200 || got.ExporterScore != 81.25 || got.MLIntentScore != 69.4 {
		t.Fatalf("numeric fields lost: %+v", got)
	}
	if !got.Date.Equal(date) {
		t.Fatalf("date = %v, want %v", got.Date, date)
	}
}

func TestExporterUpsertLastWriteWins(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.SaveExporters(ctx, []trade.Exporter{{ExporterID: "EXP001", IntentScore: 40}}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveExporters(ctx, []trade.Exporter{{ExporterID: "EXP001", IntentScore: 90}}); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetExporter(ctx, "EXP001")
	if err != nil {
		t.Fatal(err)
	}
	if got.IntentScore != 90 {
		t.Fatalf("intent = %v, want the second write", got.IntentScore)
	}

	rows, err := db.LoadExporters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 after double upsert", len(rows))
	}
}

func TestGetExporterNotFound(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.GetExporter(context.Background(), "EXP404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBuyerCountryFilter(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	in := []trade.Buyer{
		{BuyerID: "BUY001", Country: "Germany", Industry: "Steel", PreferredChannel: "Email"},
		{BuyerID: "BUY002", Country: "USA", Industry: "Gems"},
		{BuyerID: "BUY003", Country: "Germany", Industry: "Textiles"},
	}
	if err := db.SaveBuyers(ctx, in); err != nil {
		t.Fatal(err)
	}

	all, err := db.LoadBuyers(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("all buyers = %d, want 3", len(all))
	}

	german, err := db.LoadBuyers(ctx, "Germany")
	if err != nil {
		t.Fatal(err)
	}
	if len(german) != 2 {
		t.Fatalf("german buyers = %d, want 2", len(german))
	}
	if german[0].BuyerID != "BUY001" || german[1].BuyerID != "BUY003" {
		t.Fatalf("filter order wrong: %s, %s", german[0].BuyerID, german[1].BuyerID)
	}
	if german[0].PreferredChannel != "Email" {
		t.Fatalf("channel lost: %+v", german[0])
	}
}

func TestNewsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	in := []trade.NewsEvent{
		{NewsID: "NEWS002", Date: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), Region: "Europe", EventType: "Tariff Hike", AffectedIndustry: "Steel", ImpactLevel: 4, TariffChange: 0.2},
		{NewsID: "NEWS001", Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Region: "Asia", EventType: "War", WarFlag: 1},
	}
	if err := db.SaveNews(ctx, in); err != nil {
		t.Fatal(err)
	}

	out, err := db.LoadNews(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("loaded %d events, want 2", len(out))
	}
	// Date ascending.
	if out[0].NewsID != "NEWS001" || out[1].NewsID != "NEWS002" {
		t.Fatalf("order = %s, %s", out[0].NewsID, out[1].NewsID)
	}
	if out[1].TariffChange != 0.2 || out[1].ImpactLevel != 4 {
		t.Fatalf("fields lost: %+v", out[1])
	}
}

func TestUpsertMatches(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// More pairs than the batch size of 3 to exercise chunking.
	var pairs []trade.MatchPair
	for i := 1; i <= 7; i++ {
		pairs = append(pairs, trade.MatchPair{
			ExporterID:     "EXP001",
			BuyerID:        fmt.Sprintf("BUY%03d", i),
			BuyerCountry:   "Germany",
			MatchScore:     float64(100 - i),
			MatchRank:      i,
			MLMatchScore:   float64(95 - i),
			MatchLabel:     trade.MatchLabelFor(float64(95 - i)),
			BaseSimilarity: 77.5,
		})
	}
	if err := db.UpsertMatches(ctx, pairs); err != nil {
		t.Fatal(err)
	}

	n, err := db.MatchCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Fatalf("count = %d, want 7", n)
	}

	// Re-upserting the same keys with new scores must not grow the table.
	pairs[0].MLMatchScore = 50
	pairs[0].MatchLabel = trade.MatchLabelFor(50)
	if err := db.UpsertMatches(ctx, pairs); err != nil {
		t.Fatal(err)
	}
	n, err = db.MatchCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Fatalf("count after re-upsert = %d, want 7", n)
	}

	top, err := db.TopMatches(ctx, "EXP001", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 3 {
		t.Fatalf("top = %d, want 3", len(top))
	}
	if top[0].BuyerID != "BUY001" || top[0].MatchRank != 1 {
		t.Fatalf("top row = %+v", top[0])
	}
	if top[0].MLMatchScore != 50 || top[0].MatchLabel != "Weak" {
		t.Fatalf("last write did not win: %+v", top[0])
	}
	if top[0].BaseSimilarity != 77.5 {
		t.Fatalf("components lost: %+v", top[0])
	}
}

func TestTopMatchesUnknownExporter(t *testing.T) {
	db := openTestDB(t)
	top, err := db.TopMatches(context.Background(), "EXP404", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 0 {
		t.Fatalf("top = %d, want empty", len(top))
	}
}

func TestFileBackedDatabase(t *testing.T) {
	cfg := config.Default().Database
	cfg.Path = filepath.Join(t.TempDir(), "data", "trade.duckdb")
	db, err := New(&cfg)
	if err != nil {
		t.Fatalf("failed to open file-backed database: %v", err)
	}
	ctx := context.Background()
	if err := db.SaveExporters(ctx, []trade.Exporter{{ExporterID: "EXP001"}}); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen and verify persistence.
	db2, err := New(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db2.Close() }()
	rows, err := db2.LoadExporters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ExporterID != "EXP001" {
		t.Fatalf("rows = %+v", rows)
	}
}
