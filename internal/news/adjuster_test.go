// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package news

import (
	"math"
	"testing"
	"time"

	"github.com/arjunm-dev/tradewinds/internal/config"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

var newsRef = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time { return newsRef.AddDate(0, 0, offset) }

func newsCfg() config.NewsConfig { return config.Default().News }

func TestRiskDeltaNoRelevantEvents(t *testing.T) {
	a := NewAdjusterAt([]trade.NewsEvent{
		{NewsID: "N1", Date: day(-5), AffectedIndustry: "Steel", Region: "Europe", WarFlag: 1},
	}, newsCfg(), newsRef)

	if d := a.RiskDelta("Textiles", "Asia"); d != 0 {
		t.Fatalf("delta = %v, want 0 for irrelevant context", d)
	}
}

func TestRiskDeltaEmptyFeed(t *testing.T) {
	a := NewAdjuster(nil, newsCfg())
	if d := a.RiskDelta("Steel", "Europe"); d != 0 {
		t.Fatalf("delta = %v, want 0 for empty feed", d)
	}
}

func TestRiskDeltaTariffHikePenalty(t *testing.T) {
	a := NewAdjusterAt([]trade.NewsEvent{
		{NewsID: "N1", Date: day(-10), AffectedIndustry: "Steel", Region: "Europe", TariffChange: 0.2},
	}, newsCfg(), newsRef)

	// 0.2 hike * penalty scale 30 = -6.
	if d := a.RiskDelta("Steel", "Asia"); math.Abs(d-(-6)) > 1e-9 {
		t.Fatalf("delta = %v, want -6", d)
	}
}

func TestRiskDeltaTariffCutBonus(t *testing.T) {
	a := NewAdjusterAt([]trade.NewsEvent{
		{NewsID: "N1", Date: day(-10), AffectedIndustry: "Steel", Region: "Europe", TariffChange: -0.4},
	}, newsCfg(), newsRef)

	// 0.4 reduction * bonus scale 15 = +6.
	if d := a.RiskDelta("Steel", "Asia"); math.Abs(d-6) > 1e-9 {
		t.Fatalf("delta = %v, want +6", d)
	}
}

func TestRiskDeltaWarCalamityStock(t *testing.T) {
	a := NewAdjusterAt([]trade.NewsEvent{
		{NewsID: "N1", Date: day(-1), Region: "Asia", WarFlag: 1},
		{NewsID: "N2", Date: day(-2), Region: "Asia", NaturalCalamityFlag: 1},
		{NewsID: "N3", Date: day(-3), Region: "Asia", StockMarketShock: -0.3},
		// Positive stock shocks are neutral.
		{NewsID: "N4", Date: day(-4), Region: "Asia", StockMarketShock: 0.5},
	}, newsCfg(), newsRef)

	// -(1*5) - (1*4) - (0.3*20) = -15.
	if d := a.RiskDelta("Textiles", "Asia"); math.Abs(d-(-15)) > 1e-9 {
		t.Fatalf("delta = %v, want -15", d)
	}
}

func TestRiskDeltaClipped(t *testing.T) {
	cfg := newsCfg()
	a := NewAdjusterAt([]trade.NewsEvent{
		{NewsID: "N1", Date: day(-1), Region: "Asia", WarFlag: 1},
		{NewsID: "N2", Date: day(-2), Region: "Asia", WarFlag: 1},
		{NewsID: "N3", Date: day(-3), Region: "Asia", WarFlag: 1},
		{NewsID: "N4", Date: day(-4), Region: "Asia", WarFlag: 1},
		{NewsID: "N5", Date: day(-5), Region: "Asia", WarFlag: 1},
	}, cfg, newsRef)

	if d := a.RiskDelta("Textiles", "Asia"); d != cfg.DeltaMin {
		t.Fatalf("delta = %v, want clipped to %v", d, cfg.DeltaMin)
	}

	b := NewAdjusterAt([]trade.NewsEvent{
		{NewsID: "N1", Date: day(-1), Region: "Asia", TariffChange: -1},
	}, cfg, newsRef)
	if d := b.RiskDelta("Textiles", "Asia"); d != cfg.DeltaMax {
		t.Fatalf("delta = %v, want clipped to %v", d, cfg.DeltaMax)
	}
}

func TestLookbackWindow(t *testing.T) {
	cfg := newsCfg()
	a := NewAdjusterAt([]trade.NewsEvent{
		{NewsID: "old", Date: day(-cfg.LookbackDays - 1), Region: "Asia", WarFlag: 1},
		{NewsID: "edge", Date: day(-cfg.LookbackDays), Region: "Asia", WarFlag: 1},
	}, cfg, newsRef)

	// The cutoff is inclusive: only the stale event is dropped.
	if d := a.RiskDelta("Textiles", "Asia"); math.Abs(d-(-5)) > 1e-9 {
		t.Fatalf("delta = %v, want -5 (one in-window war event)", d)
	}
}

func TestReferenceDateDefaultsToNewestEvent(t *testing.T) {
	a := NewAdjuster([]trade.NewsEvent{
		{NewsID: "N1", Date: day(-40), Region: "Asia"},
		{NewsID: "N2", Date: day(-3), Region: "Asia"},
	}, newsCfg())

	if !a.ReferenceDate().Equal(day(-3)) {
		t.Fatalf("reference date = %v, want %v", a.ReferenceDate(), day(-3))
	}
}

func TestRegionFor(t *testing.T) {
	a := NewAdjuster(nil, newsCfg())
	if r := a.RegionFor("Germany"); r != "Europe" {
		t.Errorf("Germany -> %q, want Europe", r)
	}
	if r := a.RegionFor("Atlantis"); r != "Unknown" {
		t.Errorf("unmapped country -> %q, want Unknown", r)
	}
}

func TestSummary(t *testing.T) {
	a := NewAdjusterAt([]trade.NewsEvent{
		{NewsID: "N1", Date: day(-1), Region: "Asia", WarFlag: 1, TariffChange: 0.2, StockMarketShock: -0.4},
		{NewsID: "N2", Date: day(-2), Region: "Asia", NaturalCalamityFlag: 1, TariffChange: -0.1},
	}, newsCfg(), newsRef)

	s := a.Summary("Textiles", "Asia")
	if s.Events != 2 || s.WarEvents != 1 || s.CalamityEvents != 1 {
		t.Fatalf("counts = %+v", s)
	}
	if math.Abs(s.AvgTariffChange-0.05) > 1e-9 {
		t.Errorf("avg tariff = %v, want 0.05", s.AvgTariffChange)
	}
	if math.Abs(s.AvgStockShock-(-0.2)) > 1e-9 {
		t.Errorf("avg stock = %v, want -0.2", s.AvgStockShock)
	}
	if s.Delta != a.RiskDelta("Textiles", "Asia") {
		t.Errorf("summary delta %v != RiskDelta %v", s.Delta, a.RiskDelta("Textiles", "Asia"))
	}

	if empty := a.Summary("Steel", "Mars"); empty.Events != 0 || empty.Delta != 0 {
		t.Fatalf("empty summary = %+v", empty)
	}
}

func TestDeltaTableMatchesDirectComputation(t *testing.T) {
	a := NewAdjusterAt([]trade.NewsEvent{
		{NewsID: "N1", Date: day(-1), AffectedIndustry: "Steel", Region: "Asia", WarFlag: 1},
		{NewsID: "N2", Date: day(-2), AffectedIndustry: "Textiles", Region: "Europe", TariffChange: -0.5},
	}, newsCfg(), newsRef)

	table := a.BuildDeltaTable(
		[]string{"Steel", "Textiles", "Steel"},
		[]string{"Asia", "Europe", "Unknown"},
	)

	for _, ind := range []string{"Steel", "Textiles"} {
		for _, reg := range []string{"Asia", "Europe", "Unknown"} {
			if got, want := table.Lookup(ind, reg), a.RiskDelta(ind, reg); got != want {
				t.Errorf("table[%s,%s] = %v, want %v", ind, reg, got, want)
			}
		}
	}
	if d := table.Lookup("Unseen", "Nowhere"); d != 0 {
		t.Fatalf("unseen context = %v, want 0", d)
	}
}
