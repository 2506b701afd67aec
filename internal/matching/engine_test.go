// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package matching

import (
	"context"
	"math"
	"testing"

	"github.com/arjunm-dev/tradewinds/internal/config"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

func newTestEngine(topN int) *Engine {
	cfg := config.Default().Matching
	cfg.TopN = topN
	cfg.NumWorkers = 2
	return NewEngine(cfg)
}

func someExporter(id, industry string) trade.Exporter {
	return trade.Exporter{
		ExporterID: id, Industry: industry,
		ManufacturingCapacityTons: 500,
		ExporterScore:             70, ReliabilityScore: 70, CapacityScore: 70,
		IntentScoreCalc: 70, RiskScore: 70,
	}
}

func someBuyer(id, industry string) trade.Buyer {
	return trade.Buyer{
		BuyerID: id, Industry: industry, Country: "Germany",
		AvgOrderTons: 100,
		BuyerScore:   60, CreditworthinessScore: 60, EngagementScore: 60,
		IntentScoreCalc: 60, ResponseScore: 60, RiskScore: 60,
	}
}

func TestRunEmptySides(t *testing.T) {
	e := newTestEngine(5)
	for _, tc := range []struct {
		name string
		exps []trade.Exporter
		buys []trade.Buyer
	}{
		{"no exporters", nil, []trade.Buyer{someBuyer("B1", "Steel")}},
		{"no buyers", []trade.Exporter{someExporter("E1", "Steel")}, nil},
		{"both empty", nil, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			pairs, err := e.Run(context.Background(), tc.exps, tc.buys, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(pairs) != 0 {
				t.Fatalf("pairs = %d, want 0", len(pairs))
			}
		})
	}
}

func TestRunSameIndustryRanksHigher(t *testing.T) {
	e := newTestEngine(2)
	exps := []trade.Exporter{someExporter("E1", "Steel")}
	buys := []trade.Buyer{
		someBuyer("B-other", "Textiles"),
		someBuyer("B-same", "Steel"),
	}

	pairs, err := e.Run(context.Background(), exps, buys, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 {
		t.Fatalf("pairs = %d, want 2", len(pairs))
	}
	if pairs[0].BuyerID != "B-same" {
		t.Fatalf("rank 1 = %s, want the same-industry buyer", pairs[0].BuyerID)
	}
	if pairs[0].IndustryBonus != 0 {
		t.Errorf("same-industry bonus = %v, want 0", pairs[0].IndustryBonus)
	}
	if pairs[1].IndustryBonus != -e.cfg.IndustryMismatchPenalty {
		t.Errorf("mismatch bonus = %v, want %v", pairs[1].IndustryBonus, -e.cfg.IndustryMismatchPenalty)
	}
	if pairs[0].MatchScore <= pairs[1].MatchScore {
		t.Errorf("scores not ordered: %v <= %v", pairs[0].MatchScore, pairs[1].MatchScore)
	}
}

func TestRunTopNAndRanks(t *testing.T) {
	e := newTestEngine(3)
	exps := []trade.Exporter{someExporter("E1", "Steel"), someExporter("E2", "Steel")}
	var buys []trade.Buyer
	for _, id := range []string{"B1", "B2", "B3", "B4", "B5", "B6", "B7"} {
		buys = append(buys, someBuyer(id, "Steel"))
	}

	pairs, err := e.Run(context.Background(), exps, buys, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 6 {
		t.Fatalf("pairs = %d, want 2 exporters x top 3", len(pairs))
	}
	// Exporters appear in input order with contiguous 1-based ranks.
	wantExp := []string{"E1", "E1", "E1", "E2", "E2", "E2"}
	for i, p := range pairs {
		if p.ExporterID != wantExp[i] {
			t.Errorf("pair %d exporter = %s, want %s", i, p.ExporterID, wantExp[i])
		}
		if want := i%3 + 1; p.MatchRank != want {
			t.Errorf("pair %d rank = %d, want %d", i, p.MatchRank, want)
		}
	}
}

func TestRunDeterministicTieBreak(t *testing.T) {
	e := newTestEngine(3)
	exps := []trade.Exporter{someExporter("E1", "Steel")}
	// Identical buyers: all pair scores tie, so ranking must follow input order.
	buys := []trade.Buyer{
		someBuyer("B-c", "Steel"), someBuyer("B-a", "Steel"), someBuyer("B-b", "Steel"),
	}

	first, err := e.Run(context.Background(), exps, buys, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"B-c", "B-a", "B-b"}
	for i, p := range first {
		if p.BuyerID != want[i] {
			t.Fatalf("rank %d = %s, want %s (input order)", i+1, p.BuyerID, want[i])
		}
	}

	// Repeat runs agree despite worker parallelism.
	for run := 0; run < 5; run++ {
		again, err := e.Run(context.Background(), exps, buys, nil)
		if err != nil {
			t.Fatal(err)
		}
		for i := range again {
			if again[i] != first[i] {
				t.Fatalf("run %d diverged at pair %d", run, i)
			}
		}
	}
}

func TestRunTopNLargerThanBuyers(t *testing.T) {
	e := newTestEngine(50)
	exps := []trade.Exporter{someExporter("E1", "Steel")}
	buys := []trade.Buyer{someBuyer("B1", "Steel"), someBuyer("B2", "Steel")}

	pairs, err := e.Run(context.Background(), exps, buys, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 {
		t.Fatalf("pairs = %d, want all buyers", len(pairs))
	}
}

func TestRunCapacityAlignment(t *testing.T) {
	e := newTestEngine(1)
	exp := someExporter("E1", "Steel")
	exp.ManufacturingCapacityTons = 400
	buy := someBuyer("B1", "Steel")
	buy.AvgOrderTons = 100

	pairs, err := e.Run(context.Background(), []trade.Exporter{exp}, []trade.Buyer{buy}, nil)
	if err != nil {
		t.Fatal(err)
	}
	// 0.15 * (100/400) * 100 = 3.75.
	if got := pairs[0].CapacityAlign; math.Abs(got-3.75) > 0.01 {
		t.Fatalf("capacity align = %v, want 3.75", got)
	}
}

func TestRunCertAndEngagementBonuses(t *testing.T) {
	e := newTestEngine(2)
	exp := someExporter("E1", "Steel")
	exp.Certification = "ISO9001"
	exp.HiringSignal = 1

	matched := someBuyer("B-cert", "Steel")
	matched.Certification = "ISO9001"
	matched.FundingEvent = 1
	matched.EngagementSpike = 1

	plain := someBuyer("B-plain", "Steel")
	plain.Certification = "None"

	pairs, err := e.Run(context.Background(), []trade.Exporter{exp}, []trade.Buyer{matched, plain}, nil)
	if err != nil {
		t.Fatal(err)
	}

	byID := map[string]trade.MatchPair{}
	for _, p := range pairs {
		byID[p.BuyerID] = p
	}

	if got := byID["B-cert"].CertMatch; got != e.cfg.CertMatchBonus {
		t.Errorf("cert match = %v, want %v", got, e.cfg.CertMatchBonus)
	}
	if got := byID["B-plain"].CertMatch; got != 0 {
		t.Errorf("plain cert match = %v, want 0", got)
	}
	// funding 3.0 + spike 2.0 + exporter hiring 1.5 = 6.5.
	if got := byID["B-cert"].EngagementBonus; math.Abs(got-6.5) > 1e-9 {
		t.Errorf("engagement bonus = %v, want 6.5", got)
	}
	if got := byID["B-plain"].EngagementBonus; math.Abs(got-1.5) > 1e-9 {
		t.Errorf("plain engagement bonus = %v, want 1.5 (hiring only)", got)
	}
}

func TestRunNullCertNeverMatches(t *testing.T) {
	e := newTestEngine(1)
	exp := someExporter("E1", "Steel")
	exp.Certification = "Unknown"
	buy := someBuyer("B1", "Steel")
	buy.Certification = "Unknown"

	pairs, err := e.Run(context.Background(), []trade.Exporter{exp}, []trade.Buyer{buy}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if pairs[0].CertMatch != 0 {
		t.Fatalf("null cert matched: %v", pairs[0].CertMatch)
	}
}

func TestRunScoreWithinRange(t *testing.T) {
	e := newTestEngine(5)
	exps := []trade.Exporter{someExporter("E1", "Steel"), someExporter("E2", "Textiles")}
	buys := []trade.Buyer{
		someBuyer("B1", "Steel"), someBuyer("B2", "Gems"), someBuyer("B3", "Textiles"),
	}
	buys[0].FundingEvent = 1
	buys[0].EngagementSpike = 1
	buys[0].DecisionMakerChange = 1

	pairs, err := e.Run(context.Background(), exps, buys, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range pairs {
		if p.MatchScore < 0 || p.MatchScore > 100 {
			t.Errorf("%s-%s score %v outside [0,100]", p.ExporterID, p.BuyerID, p.MatchScore)
		}
		if p.BaseSimilarity < 0 || p.BaseSimilarity > 100 {
			t.Errorf("%s-%s base similarity %v outside [0,100]", p.ExporterID, p.BuyerID, p.BaseSimilarity)
		}
	}
}

func TestRunCancelledContext(t *testing.T) {
	e := newTestEngine(5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var exps []trade.Exporter
	for i := 0; i < 100; i++ {
		exps = append(exps, someExporter("E", "Steel"))
	}
	_, err := e.Run(ctx, exps, []trade.Buyer{someBuyer("B1", "Steel")}, nil)
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestTopIndices(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		n      int
		want   []int
	}{
		{"basic", []float64{10, 50, 30, 40, 20}, 3, []int{1, 3, 2}},
		{"ties by index", []float64{5, 9, 9, 9, 1}, 2, []int{1, 2}},
		{"all tied", []float64{7, 7, 7}, 2, []int{0, 1}},
		{"n equals len", []float64{3, 1, 2}, 3, []int{0, 2, 1}},
		{"n exceeds len", []float64{3, 1}, 10, []int{0, 1}},
		{"single", []float64{4}, 1, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := topIndices(tt.scores, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
