// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package synth

import (
	"reflect"
	"testing"
)

func TestGenerateDimensions(t *testing.T) {
	opts := DefaultOptions()
	exporters, buyers, news := Generate(opts)
	if len(exporters) != opts.Exporters || len(buyers) != opts.Buyers || len(news) != opts.News {
		t.Fatalf("dimensions = %d/%d/%d, want %d/%d/%d",
			len(exporters), len(buyers), len(news), opts.Exporters, opts.Buyers, opts.News)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	opts := Options{Exporters: 10, Buyers: 10, News: 10, Seed: 7}
	e1, b1, n1 := Generate(opts)
	e2, b2, n2 := Generate(opts)
	if !reflect.DeepEqual(e1, e2) || !reflect.DeepEqual(b1, b2) || !reflect.DeepEqual(n1, n2) {
		t.Fatal("same seed produced different batches")
	}

	e3, _, _ := Generate(Options{Exporters: 10, Buyers: 10, News: 10, Seed: 8})
	if reflect.DeepEqual(e1, e3) {
		t.Fatal("different seeds produced identical exporters")
	}
}

func TestGenerateRanges(t *testing.T) {
	exporters, buyers, news := Generate(DefaultOptions())

	for i, e := range exporters {
		if e.ExporterID == "" || e.Industry == "" || e.State == "" {
			t.Fatalf("exporter %d missing identity: %+v", i, e)
		}
		if e.IntentScore < 0 || e.IntentScore > 100 {
			t.Fatalf("exporter %d intent %v outside [0,100]", i, e.IntentScore)
		}
		if e.PromptResponseScore < 1 || e.PromptResponseScore > 10 {
			t.Fatalf("exporter %d prompt %v outside [1,10]", i, e.PromptResponseScore)
		}
		if e.WarRisk < 0 || e.WarRisk > 1 {
			t.Fatalf("exporter %d war risk %v outside [0,1]", i, e.WarRisk)
		}
		if e.GoodPaymentTerms != 0 && e.GoodPaymentTerms != 1 {
			t.Fatalf("exporter %d payment flag %v not binary", i, e.GoodPaymentTerms)
		}
		if e.ExporterScore != 0 || e.MLIntentScore != 0 {
			t.Fatalf("exporter %d has pre-filled derived scores", i)
		}
	}
	for i, b := range buyers {
		if b.ResponseProbability < 0 || b.ResponseProbability > 1 {
			t.Fatalf("buyer %d response prob %v outside [0,1]", i, b.ResponseProbability)
		}
		if b.PreferredChannel == "" || b.Country == "" {
			t.Fatalf("buyer %d missing profile: %+v", i, b)
		}
	}
	for i, n := range news {
		if n.ImpactLevel < 1 || n.ImpactLevel > 5 {
			t.Fatalf("news %d impact %v outside [1,5]", i, n.ImpactLevel)
		}
		if n.TariffChange < -0.30 || n.TariffChange > 0.30 {
			t.Fatalf("news %d tariff change %v outside range", i, n.TariffChange)
		}
	}
}
