// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package scoring

import (
	"math"
	"testing"

	"github.com/arjunm-dev/tradewinds/internal/config"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

func newTestEngine() *Engine {
	return NewEngine(config.Default().Scoring)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"empty", nil, []float64{}},
		{"spread", []float64{0, 5, 10}, []float64{0, 50, 100}},
		{"negative range", []float64{-10, 0, 10}, []float64{0, 50, 100}},
		{"degenerate", []float64{7, 7, 7}, []float64{50, 50, 50}},
		{"single row", []float64{42}, []float64{50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScoreExportersRange(t *testing.T) {
	e := newTestEngine()
	rows := []trade.Exporter{
		{ExporterID: "E1", GoodPaymentTerms: 1, PromptResponseScore: 9, Certification: "ISO9001",
			ManufacturingCapacityTons: 500, RevenueSizeUSD: 2e6, TeamSize: 50, ShipmentValueUSD: 1e5,
			IntentScore: 80, HiringSignal: 1, LinkedInActivity: 30, SalesNavProfileViews: 120, SalesNavJobChange: 1,
			TariffImpact: 0.1, WarRisk: 0.1, NaturalCalamityRisk: 0.1, StockMarketImpact: -0.05},
		{ExporterID: "E2", GoodPaymentTerms: 0, PromptResponseScore: 3, Certification: "None",
			ManufacturingCapacityTons: 50, RevenueSizeUSD: 1e5, TeamSize: 5, ShipmentValueUSD: 1e4,
			IntentScore: 20, HiringSignal: 0, LinkedInActivity: 2, SalesNavProfileViews: 10, SalesNavJobChange: 0,
			TariffImpact: -0.6, WarRisk: 0.8, NaturalCalamityRisk: 0.6, StockMarketImpact: 0.4},
	}
	out := e.ScoreExporters(rows)

	for _, x := range out {
		for _, v := range []float64{x.ReliabilityScore, x.CapacityScore, x.IntentScoreCalc, x.RiskScore, x.ExporterScore} {
			if v < 0 || v > 100 || math.IsNaN(v) {
				t.Fatalf("%s: score %v outside [0,100]", x.ExporterID, v)
			}
		}
	}

	// The strong exporter must outrank the weak one on every axis.
	if out[0].ExporterScore <= out[1].ExporterScore {
		t.Errorf("composite: strong %v <= weak %v", out[0].ExporterScore, out[1].ExporterScore)
	}
	if out[0].RiskScore <= out[1].RiskScore {
		t.Errorf("risk: calm %v <= exposed %v", out[0].RiskScore, out[1].RiskScore)
	}
}

func TestScoreExportersTwoRowExact(t *testing.T) {
	e := newTestEngine()
	// With two rows every column normalises to {0,100} (or 50 when tied), so
	// sub-scores are exactly computable by hand.
	rows := []trade.Exporter{
		{ExporterID: "HI", GoodPaymentTerms: 1, PromptResponseScore: 10, Certification: "ISO9001",
			ManufacturingCapacityTons: 100, RevenueSizeUSD: 100, TeamSize: 100, ShipmentValueUSD: 100,
			IntentScore: 100, HiringSignal: 1, LinkedInActivity: 100, SalesNavProfileViews: 100, SalesNavJobChange: 1},
		{ExporterID: "LO", GoodPaymentTerms: 0, PromptResponseScore: 1, Certification: "None",
			ManufacturingCapacityTons: 0, RevenueSizeUSD: 0, TeamSize: 0, ShipmentValueUSD: 0,
			IntentScore: 0, HiringSignal: 0, LinkedInActivity: 0, SalesNavProfileViews: 0, SalesNavJobChange: 0},
	}
	out := e.ScoreExporters(rows)

	// HI: reliability = .40*100 + .40*100 + .20*10 = 82; capacity = 100;
	// intent = 100. All risk inputs tie at 0 → normalise to 50 → risk = 50.
	if got := out[0].ReliabilityScore; math.Abs(got-82) > 1e-9 {
		t.Errorf("HI reliability = %v, want 82", got)
	}
	if got := out[0].CapacityScore; math.Abs(got-100) > 1e-9 {
		t.Errorf("HI capacity = %v, want 100", got)
	}
	if got := out[0].RiskScore; math.Abs(got-50) > 1e-9 {
		t.Errorf("HI risk = %v, want 50", got)
	}
	// Composite: .30*82 + .25*100 + .25*100 + .20*50 = 84.60
	if got := out[0].ExporterScore; math.Abs(got-84.60) > 1e-9 {
		t.Errorf("HI composite = %v, want 84.60", got)
	}
	// LO: reliability 0, capacity 0, intent 0, risk 50 → 10.00
	if got := out[1].ExporterScore; math.Abs(got-10.00) > 1e-9 {
		t.Errorf("LO composite = %v, want 10.00", got)
	}
}

func TestScoreBuyersTwoRowExact(t *testing.T) {
	e := newTestEngine()
	rows := []trade.Buyer{
		{BuyerID: "HI", GoodPaymentHistory: 1, FundingEvent: 1, RevenueSizeUSD: 100, Certification: "FDA",
			EngagementSpike: 1, SalesNavProfileVisits: 100, DecisionMakerChange: 1,
			IntentScore: 100, HiringGrowth: 1,
			ResponseProbability: 1, PromptResponse: 10},
		{BuyerID: "LO", GoodPaymentHistory: 0, FundingEvent: 0, RevenueSizeUSD: 0, Certification: "",
			EngagementSpike: 0, SalesNavProfileVisits: 0, DecisionMakerChange: 0,
			IntentScore: 0, HiringGrowth: 0,
			ResponseProbability: 0, PromptResponse: 1},
	}
	out := e.ScoreBuyers(rows)

	// HI credit = .40*100 + .25*100 + .25*100 + .10*10 = 91; engagement,
	// intent, response = 100 each; risk inputs all tie → 50.
	if got := out[0].CreditworthinessScore; math.Abs(got-91) > 1e-9 {
		t.Errorf("HI credit = %v, want 91", got)
	}
	// Composite: .30*91 + .20*100 + .25*100 + .15*100 + .10*50 = 92.30
	if got := out[0].BuyerScore; math.Abs(got-92.30) > 1e-9 {
		t.Errorf("HI composite = %v, want 92.30", got)
	}
	if out[0].BuyerScore <= out[1].BuyerScore {
		t.Errorf("strong buyer %v <= weak buyer %v", out[0].BuyerScore, out[1].BuyerScore)
	}
}

func TestScoreDoesNotMutateInput(t *testing.T) {
	e := newTestEngine()
	rows := []trade.Exporter{{ExporterID: "E1", IntentScore: 40}, {ExporterID: "E2", IntentScore: 60}}
	_ = e.ScoreExporters(rows)
	if rows[0].ExporterScore != 0 || rows[1].ExporterScore != 0 {
		t.Fatal("input slice was mutated")
	}
}

func TestScoreEmptyBatch(t *testing.T) {
	e := newTestEngine()
	if out := e.ScoreExporters(nil); len(out) != 0 {
		t.Fatalf("exporters: len = %d, want 0", len(out))
	}
	if out := e.ScoreBuyers(nil); len(out) != 0 {
		t.Fatalf("buyers: len = %d, want 0", len(out))
	}
}
