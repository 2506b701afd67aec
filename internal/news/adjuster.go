// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

// Package news translates recent geopolitical and macro events into score
// deltas applied to exporter-buyer pairs.
//
// An event is relevant to a pair when it falls inside the lookback window
// and its affected industry matches the exporter's industry OR its region
// matches the buyer's region. Tariff hikes, war flags, calamities and
// negative stock shocks penalise; tariff reductions reward. The final delta
// is clipped to a penalty-dominant range.
//
// The reference date anchoring the lookback window defaults to the newest
// event date in the feed, so a static dataset stays reproducible. Override
// it with NewAdjusterAt for live feeds or tests.
package news

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/arjunm-dev/tradewinds/internal/config"
	"github.com/arjunm-dev/tradewinds/internal/logging"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

// Adjuster computes pair-level risk deltas from a cleaned news feed.
// Safe for concurrent use after construction.
type Adjuster struct {
	events  []trade.NewsEvent
	cfg     config.NewsConfig
	refDate time.Time
	cutoff  time.Time
	log     zerolog.Logger
}

// NewAdjuster anchors the lookback window at the newest event date.
func NewAdjuster(events []trade.NewsEvent, cfg config.NewsConfig) *Adjuster {
	var ref time.Time
	for _, ev := range events {
		if ev.Date.After(ref) {
			ref = ev.Date
		}
	}
	return NewAdjusterAt(events, cfg, ref)
}

// NewAdjusterAt anchors the lookback window at an explicit reference date.
func NewAdjusterAt(events []trade.NewsEvent, cfg config.NewsConfig, ref time.Time) *Adjuster {
	a := &Adjuster{
		events:  events,
		cfg:     cfg,
		refDate: ref,
		cutoff:  ref.AddDate(0, 0, -cfg.LookbackDays),
		log:     logging.With().Str("component", "news").Logger(),
	}
	a.log.Debug().
		Int("events", len(events)).
		Time("reference_date", ref).
		Int("lookback_days", cfg.LookbackDays).
		Msg("news adjuster ready")
	return a
}

// ReferenceDate returns the date anchoring the lookback window.
func (a *Adjuster) ReferenceDate() time.Time { return a.refDate }

// RegionFor maps a buyer country to its news region. Countries outside the
// configured map fall into the "Unknown" bucket.
func (a *Adjuster) RegionFor(country string) string {
	if r, ok := a.cfg.CountryRegions[country]; ok {
		return r
	}
	return "Unknown"
}

func (a *Adjuster) relevant(industry, region string) []trade.NewsEvent {
	var out []trade.NewsEvent
	for i := range a.events {
		ev := &a.events[i]
		if ev.Date.Before(a.cutoff) {
			continue
		}
		if ev.AffectedIndustry == industry || ev.Region == region {
			out = append(out, *ev)
		}
	}
	return out
}

// RiskDelta returns the clipped score delta for a pair context. Negative
// means the news environment penalises the match; positive rewards it.
// No relevant events means exactly 0.
func (a *Adjuster) RiskDelta(industry, region string) float64 {
	recent := a.relevant(industry, region)
	if len(recent) == 0 {
		return 0
	}
	return a.delta(recent)
}

func (a *Adjuster) delta(recent []trade.NewsEvent) float64 {
	var hikes, cuts, wars, calamities, shocks float64
	for i := range recent {
		ev := &recent[i]
		if ev.TariffChange > 0 {
			hikes += ev.TariffChange
		} else {
			cuts += -ev.TariffChange
		}
		wars += ev.WarFlag
		calamities += ev.NaturalCalamityFlag
		if ev.StockMarketShock < 0 {
			shocks += -ev.StockMarketShock
		}
	}

	delta := cuts*a.cfg.TariffBonusScale -
		hikes*a.cfg.TariffPenaltyScale -
		wars*a.cfg.WarPenaltyPerEvent -
		calamities*a.cfg.CalamityPenalty -
		shocks*a.cfg.StockPenaltyScale

	return math.Min(a.cfg.DeltaMax, math.Max(a.cfg.DeltaMin, delta))
}

// RiskSummary is a per-pair breakdown of the risk environment for
// diagnostics and cards.
type RiskSummary struct {
	Events          int     `json:"events"`
	WarEvents       int     `json:"war_events,omitempty"`
	CalamityEvents  int     `json:"calamity_events,omitempty"`
	AvgTariffChange float64 `json:"avg_tariff_change,omitempty"`
	AvgStockShock   float64 `json:"avg_stock_shock,omitempty"`
	Delta           float64 `json:"delta"`
}

// Summary reports the risk component breakdown for a pair context.
func (a *Adjuster) Summary(industry, region string) RiskSummary {
	recent := a.relevant(industry, region)
	if len(recent) == 0 {
		return RiskSummary{}
	}

	var wars, calamities, tariffSum, stockSum float64
	for i := range recent {
		wars += recent[i].WarFlag
		calamities += recent[i].NaturalCalamityFlag
		tariffSum += recent[i].TariffChange
		stockSum += recent[i].StockMarketShock
	}
	n := float64(len(recent))
	return RiskSummary{
		Events:          len(recent),
		WarEvents:       int(wars),
		CalamityEvents:  int(calamities),
		AvgTariffChange: round3(tariffSum / n),
		AvgStockShock:   round3(stockSum / n),
		Delta:           a.delta(recent),
	}
}

// DeltaTable is a precomputed (industry, region) -> delta lookup. Matching
// runs over every exporter-buyer pair; the distinct contexts are few, so
// the table collapses millions of delta calls into one pass.
type DeltaTable map[deltaKey]float64

type deltaKey struct {
	industry string
	region   string
}

// BuildDeltaTable precomputes deltas for the cross product of the given
// industries and regions. Duplicates in the inputs are collapsed.
func (a *Adjuster) BuildDeltaTable(industries, regions []string) DeltaTable {
	table := DeltaTable{}
	for _, ind := range industries {
		for _, reg := range regions {
			k := deltaKey{ind, reg}
			if _, done := table[k]; done {
				continue
			}
			table[k] = a.RiskDelta(ind, reg)
		}
	}
	a.log.Debug().Int("contexts", len(table)).Msg("news delta table built")
	return table
}

// Lookup returns the precomputed delta, 0 for unseen contexts.
func (t DeltaTable) Lookup(industry, region string) float64 {
	return t[deltaKey{industry, region}]
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
