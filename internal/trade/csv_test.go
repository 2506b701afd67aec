// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package trade

import (
	"math"
	"strings"
	"testing"
)

func TestReadExportersTracksPresence(t *testing.T) {
	in := "Exporter_ID,Industry,Intent_Score,Date\nEXP0001,Textiles,72.5,2024-03-01\nEXP0002,Steel,,2024-03-02\n"

	rows, cols, err := ReadExporters(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadExporters() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	if !cols.Has("Intent_Score") {
		t.Error("Intent_Score should be present")
	}
	if cols.Has("War_Risk") {
		t.Error("War_Risk should be absent")
	}

	if rows[0].IntentScore != 72.5 {
		t.Errorf("IntentScore = %v, want 72.5", rows[0].IntentScore)
	}
	// Blank cell becomes NaN for the cleaner.
	if !math.IsNaN(rows[1].IntentScore) {
		t.Errorf("blank IntentScore = %v, want NaN", rows[1].IntentScore)
	}
	// Absent columns become NaN too.
	if !math.IsNaN(rows[0].WarRisk) {
		t.Errorf("absent WarRisk = %v, want NaN", rows[0].WarRisk)
	}
	if rows[0].Date.Year() != 2024 {
		t.Errorf("Date = %v, want 2024 date", rows[0].Date)
	}
}

func TestReadExportersMalformedNumericIsNaN(t *testing.T) {
	in := "Exporter_ID,Revenue_Size_USD\nEXP1,not-a-number\n"
	rows, _, err := ReadExporters(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadExporters() error = %v", err)
	}
	if !math.IsNaN(rows[0].RevenueSizeUSD) {
		t.Errorf("malformed cell = %v, want NaN", rows[0].RevenueSizeUSD)
	}
}

func TestReadBuyersIgnoresUnknownColumns(t *testing.T) {
	in := "Buyer_ID,Country,Some_Future_Column,Avg_Order_Tons\nBUY1,Germany,whatever,120\n"
	rows, cols, err := ReadBuyers(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadBuyers() error = %v", err)
	}
	if rows[0].AvgOrderTons != 120 {
		t.Errorf("AvgOrderTons = %v, want 120", rows[0].AvgOrderTons)
	}
	if cols.Has("Some_Future_Column") {
		t.Error("unknown column must not be tracked")
	}
}

func TestReadNewsEmptyInput(t *testing.T) {
	rows, cols, err := ReadNews(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadNews() error = %v", err)
	}
	if len(rows) != 0 || len(cols) != 0 {
		t.Errorf("empty input: rows=%d cols=%d, want 0/0", len(rows), len(cols))
	}
}

func TestWriteMatchesRoundTripColumns(t *testing.T) {
	pairs := []MatchPair{{
		ExporterID: "EXP1", BuyerID: "BUY1", ExporterIndustry: "Steel",
		BuyerCountry: "UK", BuyerIndustry: "Steel",
		BaseSimilarity: 80.5, MatchScore: 91.25, MatchRank: 1,
		MLMatchScore: 88.12, MatchLabel: "Good",
	}}

	var sb strings.Builder
	if err := WriteMatches(&sb, pairs); err != nil {
		t.Fatalf("WriteMatches() error = %v", err)
	}

	out := sb.String()
	for _, want := range []string{"base_similarity", "match_rank", "EXP1", "91.25", "Good"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReadMatchLabels(t *testing.T) {
	in := "Exporter_ID,Buyer_ID,deal_outcome\nEXP1,BUY1,75\nEXP1,BUY2,\nEXP2,BUY1,20\n"
	labels, err := ReadMatchLabels(strings.NewReader(in), "deal_outcome")
	if err != nil {
		t.Fatalf("ReadMatchLabels() error = %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("len(labels) = %d, want 2 (blank label skipped)", len(labels))
	}
	if got := labels[PairKey{"EXP1", "BUY1"}]; got != 75 {
		t.Errorf("label = %v, want 75", got)
	}
}

func TestMatchLabelFor(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, "Excellent"}, {90, "Excellent"}, {80, "Good"}, {60, "Fair"}, {10, "Weak"},
	}
	for _, tt := range tests {
		if got := MatchLabelFor(tt.score); got != tt.want {
			t.Errorf("MatchLabelFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
