// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package ml

import (
	"math"

	"github.com/arjunm-dev/tradewinds/internal/metrics"
	"github.com/arjunm-dev/tradewinds/internal/scoring"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

// intentFeature binds a canonical column name to its accessor. The name
// order defines the trained feature layout and is validated on artifact
// load.
type intentFeature[T any] struct {
	name string
	get  func(*T) float64
}

var exporterIntentFeatures = []intentFeature[trade.Exporter]{
	// Behavioural signals
	{"Hiring_Signal", func(e *trade.Exporter) float64 { return e.HiringSignal }},
	{"LinkedIn_Activity", func(e *trade.Exporter) float64 { return e.LinkedInActivity }},
	{"SalesNav_ProfileViews", func(e *trade.Exporter) float64 { return e.SalesNavProfileViews }},
	{"SalesNav_JobChange", func(e *trade.Exporter) float64 { return e.SalesNavJobChange }},
	{"Prompt_Response_Score", func(e *trade.Exporter) float64 { return e.PromptResponseScore }},
	// Trade signals
	{"Shipment_Value_USD", func(e *trade.Exporter) float64 { return e.ShipmentValueUSD }},
	{"Quantity_Tons", func(e *trade.Exporter) float64 { return e.QuantityTons }},
	{"Manufacturing_Capacity_Tons", func(e *trade.Exporter) float64 { return e.ManufacturingCapacityTons }},
	{"Revenue_Size_USD", func(e *trade.Exporter) float64 { return e.RevenueSizeUSD }},
	// Risk signals
	{"Tariff_Impact", func(e *trade.Exporter) float64 { return e.TariffImpact }},
	{"StockMarket_Impact", func(e *trade.Exporter) float64 { return e.StockMarketImpact }},
	{"War_Risk", func(e *trade.Exporter) float64 { return e.WarRisk }},
	{"Natural_Calamity_Risk", func(e *trade.Exporter) float64 { return e.NaturalCalamityRisk }},
	{"Currency_Shift", func(e *trade.Exporter) float64 { return e.CurrencyShift }},
	// Trust signals
	{"Good_Payment_Terms", func(e *trade.Exporter) float64 { return e.GoodPaymentTerms }},
	{"MSME_Udyam", func(e *trade.Exporter) float64 { return e.MSMEUdyam }},
}

var buyerIntentFeatures = []intentFeature[trade.Buyer]{
	// Behavioural signals
	{"Hiring_Growth", func(b *trade.Buyer) float64 { return b.HiringGrowth }},
	{"Funding_Event", func(b *trade.Buyer) float64 { return b.FundingEvent }},
	{"Engagement_Spike", func(b *trade.Buyer) float64 { return b.EngagementSpike }},
	{"SalesNav_ProfileVisits", func(b *trade.Buyer) float64 { return b.SalesNavProfileVisits }},
	{"DecisionMaker_Change", func(b *trade.Buyer) float64 { return b.DecisionMakerChange }},
	{"Prompt_Response", func(b *trade.Buyer) float64 { return b.PromptResponse }},
	{"Response_Probability", func(b *trade.Buyer) float64 { return b.ResponseProbability }},
	// Trade signals
	{"Avg_Order_Tons", func(b *trade.Buyer) float64 { return b.AvgOrderTons }},
	{"Revenue_Size_USD", func(b *trade.Buyer) float64 { return b.RevenueSizeUSD }},
	{"Team_Size", func(b *trade.Buyer) float64 { return b.TeamSize }},
	// Risk signals
	{"Tariff_News", func(b *trade.Buyer) float64 { return b.TariffNews }},
	{"StockMarket_Shock", func(b *trade.Buyer) float64 { return b.StockMarketShock }},
	{"War_Event", func(b *trade.Buyer) float64 { return b.WarEvent }},
	{"Natural_Calamity", func(b *trade.Buyer) float64 { return b.NaturalCalamity }},
	{"Currency_Fluctuation", func(b *trade.Buyer) float64 { return b.CurrencyFluctuation }},
	// Trust signals
	{"Good_Payment_History", func(b *trade.Buyer) float64 { return b.GoodPaymentHistory }},
}

func featureNames[T any](feats []intentFeature[T]) []string {
	names := make([]string, len(feats))
	for i, f := range feats {
		names[i] = f.name
	}
	return names
}

func featureMatrix[T any](rows []T, feats []intentFeature[T]) [][]float64 {
	X := make([][]float64, len(rows))
	for i := range rows {
		row := make([]float64, len(feats))
		for j, f := range feats {
			row[j] = f.get(&rows[i])
		}
		X[i] = row
	}
	return X
}

// weightedSignal is one term of the engineered composite intent target.
type weightedSignal[T any] struct {
	get    func(*T) float64
	weight float64
}

// Composite target weights for the fallback: behavioural and trust signals
// add, risk signals subtract.
var exporterTargetSignals = []weightedSignal[trade.Exporter]{
	{func(e *trade.Exporter) float64 { return e.HiringSignal }, 15},
	{func(e *trade.Exporter) float64 { return e.LinkedInActivity }, 10},
	{func(e *trade.Exporter) float64 { return e.SalesNavProfileViews }, 12},
	{func(e *trade.Exporter) float64 { return e.SalesNavJobChange }, 8},
	{func(e *trade.Exporter) float64 { return e.PromptResponseScore }, 12},
	{func(e *trade.Exporter) float64 { return e.GoodPaymentTerms }, 10},
	{func(e *trade.Exporter) float64 { return e.ShipmentValueUSD }, 10},
	{func(e *trade.Exporter) float64 { return e.RevenueSizeUSD }, 8},
	{func(e *trade.Exporter) float64 { return e.ManufacturingCapacityTons }, 8},
	{func(e *trade.Exporter) float64 { return e.MSMEUdyam }, 7},
	{func(e *trade.Exporter) float64 { return e.WarRisk }, -15},
	{func(e *trade.Exporter) float64 { return e.NaturalCalamityRisk }, -10},
	{func(e *trade.Exporter) float64 { return e.TariffImpact }, -10},
	{func(e *trade.Exporter) float64 { return e.StockMarketImpact }, -5},
}

var buyerTargetSignals = []weightedSignal[trade.Buyer]{
	{func(b *trade.Buyer) float64 { return b.FundingEvent }, 15},
	{func(b *trade.Buyer) float64 { return b.EngagementSpike }, 12},
	{func(b *trade.Buyer) float64 { return b.DecisionMakerChange }, 8},
	{func(b *trade.Buyer) float64 { return b.HiringGrowth }, 10},
	{func(b *trade.Buyer) float64 { return b.SalesNavProfileVisits }, 10},
	{func(b *trade.Buyer) float64 { return b.ResponseProbability }, 12},
	{func(b *trade.Buyer) float64 { return b.GoodPaymentHistory }, 10},
	{func(b *trade.Buyer) float64 { return b.RevenueSizeUSD }, 8},
	{func(b *trade.Buyer) float64 { return b.AvgOrderTons }, 5},
	{func(b *trade.Buyer) float64 { return b.WarEvent }, -15},
	{func(b *trade.Buyer) float64 { return b.NaturalCalamity }, -10},
	{func(b *trade.Buyer) float64 { return b.TariffNews }, -10},
	{func(b *trade.Buyer) float64 { return b.StockMarketShock }, -5},
}

// compositeTarget builds the engineered fallback target: each signal column
// normalised to [0,100] and weighted-summed, floored at 0, then rescaled to
// [0,100].
func compositeTarget[T any](rows []T, signals []weightedSignal[T]) []float64 {
	raw := make([]float64, len(rows))
	for _, s := range signals {
		col := make([]float64, len(rows))
		for i := range rows {
			col[i] = s.get(&rows[i])
		}
		for i, v := range scoring.Normalize(col) {
			raw[i] += s.weight * v
		}
	}
	for i, v := range raw {
		raw[i] = math.Max(0, v)
	}
	return scoring.Normalize(raw)
}

// matchFeatureNames is the trained pair-feature layout, validated on load.
var matchFeatureNames = []string{
	"industry_match",
	"capacity_ratio",
	"revenue_ratio",
	"cert_match",
	"combined_war_risk",
	"tariff_delta",
	"currency_mismatch",
	"stock_combined",
	"exp_intent",
	"buy_intent",
	"intent_product",
	"exp_reliability",
	"buy_creditworthiness",
	"engagement_sum",
	"exporter_score",
	"buyer_score",
	"base_similarity",
	"capacity_align",
	"news_delta",
	"engagement_bonus",
}

// pairFeatures engineers the interaction feature matrix for match pairs.
// Pairs referencing an unknown exporter or buyer get zero-valued entity
// signals; substitutions are counted in the returned tallies so callers can
// surface them.
func pairFeatures(pairs []trade.MatchPair, exporters []trade.Exporter, buyers []trade.Buyer) (X [][]float64, unknownExp, unknownBuy int) {
	expByID := make(map[string]*trade.Exporter, len(exporters))
	for i := range exporters {
		// First occurrence wins for duplicate IDs.
		if _, ok := expByID[exporters[i].ExporterID]; !ok {
			expByID[exporters[i].ExporterID] = &exporters[i]
		}
	}
	buyByID := make(map[string]*trade.Buyer, len(buyers))
	for i := range buyers {
		if _, ok := buyByID[buyers[i].BuyerID]; !ok {
			buyByID[buyers[i].BuyerID] = &buyers[i]
		}
	}

	var zeroExp trade.Exporter
	var zeroBuy trade.Buyer

	X = make([][]float64, len(pairs))
	for i := range pairs {
		p := &pairs[i]

		e, ok := expByID[p.ExporterID]
		if !ok {
			e = &zeroExp
			unknownExp++
		}
		b, ok := buyByID[p.BuyerID]
		if !ok {
			b = &zeroBuy
			unknownBuy++
		}

		industryMatch := 0.0
		if e.Industry == b.Industry {
			industryMatch = 1
		}
		certMatch := 0.0
		if trade.HasCertification(e.Certification) && e.Certification == b.Certification {
			certMatch = 1
		}

		expIntent := e.IntentScore / 100
		buyIntent := b.IntentScore / 100

		X[i] = []float64{
			industryMatch,
			ratio(e.ManufacturingCapacityTons, b.AvgOrderTons),
			ratio(e.RevenueSizeUSD, b.RevenueSizeUSD),
			certMatch,
			e.WarRisk * b.WarEvent,
			math.Abs(e.TariffImpact - b.TariffNews),
			math.Abs(e.CurrencyShift - b.CurrencyFluctuation),
			math.Abs(e.StockMarketImpact) + math.Abs(b.StockMarketShock),
			expIntent,
			buyIntent,
			expIntent * buyIntent,
			(e.GoodPaymentTerms + e.PromptResponseScore/10) / 2,
			(b.GoodPaymentHistory + b.FundingEvent + b.ResponseProbability) / 3,
			e.HiringSignal + b.HiringGrowth + b.EngagementSpike + b.FundingEvent + b.DecisionMakerChange,
			e.ExporterScore / 100,
			b.BuyerScore / 100,
			p.BaseSimilarity / 100,
			p.CapacityAlign / 100,
			p.NewsDelta,
			p.EngagementBonus,
		}
	}
	return X, unknownExp, unknownBuy
}

// ratio is the smaller-over-larger alignment of two magnitudes, in [0,1].
func ratio(a, b float64) float64 {
	lo := math.Min(a, b)
	hi := math.Max(a, b) + 1e-9
	return lo / hi
}

func recordUnknownEntities(unknownExp, unknownBuy int) {
	if unknownExp > 0 {
		metrics.UnknownEntitySubstitutions.WithLabelValues("exporter").Add(float64(unknownExp))
	}
	if unknownBuy > 0 {
		metrics.UnknownEntitySubstitutions.WithLabelValues("buyer").Add(float64(unknownBuy))
	}
}
