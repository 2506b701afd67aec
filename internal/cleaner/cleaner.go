// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

// Package cleaner validates, imputes and clips raw trade tables into the
// canonical schema.
//
// Per entity type the contract is:
//
//  1. Declared numeric columns absent from the input are injected with a
//     documented default (see the per-schema default maps below).
//  2. Remaining numeric gaps (NaN cells) are filled with the column median;
//     news gaps fill with 0 instead.
//  3. Categorical gaps become the literal "Unknown" sentinel.
//  4. Domain-specific columns are clipped to their documented ranges.
//
// Cleaning never fails on missing optional columns — only identity columns
// are assumed present. Input slices are not mutated (copy-on-write), and
// cleaning is idempotent: cleaning already-clean data is a no-op.
package cleaner

import (
	"math"
	"sort"

	"github.com/arjunm-dev/tradewinds/internal/trade"
)

// exporterDefaults are injected for declared exporter columns missing from
// the input entirely. Columns without an entry default to 0.
var exporterDefaults = map[string]float64{
	"Manufacturing_Capacity_Tons": 0,
	"Revenue_Size_USD":            0,
	"Intent_Score":                50,
	"Prompt_Response_Score":       5.0,
	"War_Risk":                    0.1,
	"Natural_Calamity_Risk":       0.1,
	"Currency_Shift":              0.0,
}

// newsDefaults for absent news columns. Impact level is a 1-5 ordinal with a
// neutral midpoint default.
var newsDefaults = map[string]float64{
	"Impact_Level": 3,
}

// clip bounds a value to [lo, hi].
func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// CleanExporters returns a schema-complete, range-valid copy of the input.
func CleanExporters(rows []trade.Exporter, cols trade.ColumnSet) []trade.Exporter {
	out := make([]trade.Exporter, len(rows))
	copy(out, rows)

	imputeFloats(out, cols, trade.ExporterFloatFields, exporterDefaults, true)
	fillUnknown(out, trade.ExporterStringFields)

	for i := range out {
		e := &out[i]
		e.ManufacturingCapacityTons = math.Max(0, e.ManufacturingCapacityTons)
		e.RevenueSizeUSD = math.Max(0, e.RevenueSizeUSD)
		e.IntentScore = clip(e.IntentScore, 0, 100)
		e.PromptResponseScore = clip(e.PromptResponseScore, 1, 10)
		e.WarRisk = clip(e.WarRisk, 0, 1)
		e.NaturalCalamityRisk = clip(e.NaturalCalamityRisk, 0, 1)
		e.CurrencyShift = clip(e.CurrencyShift, -1, 1)
	}
	return out
}

// CleanBuyers returns a schema-complete, range-valid copy of the input.
func CleanBuyers(rows []trade.Buyer, cols trade.ColumnSet) []trade.Buyer {
	out := make([]trade.Buyer, len(rows))
	copy(out, rows)

	imputeFloats(out, cols, trade.BuyerFloatFields, nil, true)
	fillUnknown(out, trade.BuyerStringFields)

	for i := range out {
		b := &out[i]
		b.IntentScore = clip(b.IntentScore, 0, 100)
		b.ResponseProbability = clip(b.ResponseProbability, 0, 1)
		b.PromptResponse = clip(b.PromptResponse, 1, 10)
		b.CurrencyFluctuation = clip(b.CurrencyFluctuation, -1, 1)
	}
	return out
}

// CleanNews returns a schema-complete, range-valid copy of the input.
// Unlike entity tables, news gaps fill with 0, not the median: an absent
// shock is no shock.
func CleanNews(rows []trade.NewsEvent, cols trade.ColumnSet) []trade.NewsEvent {
	out := make([]trade.NewsEvent, len(rows))
	copy(out, rows)

	imputeFloats(out, cols, trade.NewsFloatFields, newsDefaults, false)
	fillUnknown(out, trade.NewsStringFields)

	for i := range out {
		n := &out[i]
		n.ImpactLevel = clip(n.ImpactLevel, 1, 5)
		n.TariffChange = clip(n.TariffChange, -1, 1)
		n.CurrencyShift = clip(n.CurrencyShift, -1, 1)
		n.WarFlag = clip(n.WarFlag, 0, 1)
		n.NaturalCalamityFlag = clip(n.NaturalCalamityFlag, 0, 1)
	}
	return out
}

// imputeFloats resolves every NaN: absent columns get their documented
// default (or 0), present columns impute the batch median (or 0 when
// useMedian is false or the column is entirely NaN).
func imputeFloats[T any](rows []T, cols trade.ColumnSet, fields []trade.FloatField[T], defaults map[string]float64, useMedian bool) {
	for _, f := range fields {
		def, hasDef := defaults[f.Name]
		if !hasDef {
			def = 0
		}

		if cols != nil && !cols.Has(f.Name) {
			for i := range rows {
				f.Set(&rows[i], def)
			}
			continue
		}

		fill := def
		if useMedian {
			if med, ok := columnMedian(rows, f); ok {
				fill = med
			}
		}
		for i := range rows {
			if math.IsNaN(f.Get(&rows[i])) {
				f.Set(&rows[i], fill)
			}
		}
	}
}

// columnMedian returns the median over non-NaN cells, false when every cell
// is NaN.
func columnMedian[T any](rows []T, f trade.FloatField[T]) (float64, bool) {
	vals := make([]float64, 0, len(rows))
	for i := range rows {
		if v := f.Get(&rows[i]); !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return 0, false
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid], true
	}
	return (vals[mid-1] + vals[mid]) / 2, true
}

func fillUnknown[T any](rows []T, fields []trade.StringField[T]) {
	for _, f := range fields {
		for i := range rows {
			if f.Get(&rows[i]) == "" {
				f.Set(&rows[i], "Unknown")
			}
		}
	}
}
