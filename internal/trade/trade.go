// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

// Package trade defines the canonical record types flowing through the
// matchmaking pipeline: exporters, buyers, news events and match pairs.
//
// Numeric attributes are float64 throughout; binary flags carry 0/1. A value
// of NaN marks a cell that was blank or unparseable at the ingestion
// boundary — the cleaner resolves every NaN before records reach scoring or
// the models (models must never see NaN inputs).
//
// Field names here are the single canonical vocabulary. External column
// aliases (Sim_Score, Cap_Score, News_Score, Engage_Score) are translated at
// the CSV/store boundary only.
package trade

import "time"

// Exporter is one seller-side record. Derived scores are computed by the
// scoring engine and the intent model; they are never ingested.
type Exporter struct {
	// Identity
	RecordID    string
	ExporterID  string
	CompanyName string
	Industry    string
	Country     string
	State       string
	Date        time.Time

	// Capacity
	ManufacturingCapacityTons float64
	RevenueSizeUSD            float64
	TeamSize                  float64
	ShipmentValueUSD          float64
	QuantityTons              float64

	// Trust
	GoodPaymentTerms    float64 // 0/1
	PromptResponseScore float64 // 1-10
	Certification       string
	MSMEUdyam           float64 // 0/1

	// Behaviour / intent
	HiringSignal         float64 // 0/1
	LinkedInActivity     float64
	SalesNavProfileViews float64
	SalesNavJobChange    float64 // 0/1
	IntentScore          float64 // 0-100 raw intent index

	// Risk
	TariffImpact        float64 // signed [-1,1]
	StockMarketImpact   float64 // signed [-1,1]
	WarRisk             float64 // [0,1]
	NaturalCalamityRisk float64 // [0,1]
	CurrencyShift       float64 // signed [-1,1]

	// Derived (computed, never input)
	ReliabilityScore float64
	CapacityScore    float64
	IntentScoreCalc  float64
	RiskScore        float64
	ExporterScore    float64
	MLIntentScore    float64
}

// Buyer is one importer-side record.
type Buyer struct {
	// Identity
	RecordID string
	BuyerID  string
	Country  string
	Industry string
	Date     time.Time

	// Order profile
	AvgOrderTons   float64
	RevenueSizeUSD float64
	TeamSize       float64

	// Trust
	GoodPaymentHistory float64 // 0/1
	Certification      string

	// Engagement
	FundingEvent          float64 // 0/1
	EngagementSpike       float64 // 0/1
	DecisionMakerChange   float64 // 0/1
	SalesNavProfileVisits float64
	HiringGrowth          float64 // 0/1

	// Responsiveness
	ResponseProbability float64 // [0,1]
	PromptResponse      float64 // 1-10

	// Intent
	IntentScore float64 // 0-100 raw intent index

	// Risk
	TariffNews          float64 // 0/1 tariff news flag
	StockMarketShock    float64 // signed [-1,1]
	WarEvent            float64 // 0/1
	NaturalCalamity     float64 // 0/1
	CurrencyFluctuation float64 // signed [-1,1]

	PreferredChannel string

	// Derived (computed, never input)
	CreditworthinessScore float64
	EngagementScore       float64
	IntentScoreCalc       float64
	ResponseScore         float64
	RiskScore             float64
	BuyerScore            float64
	MLIntentScore         float64
}

// NewsEvent is one geopolitical/macro event.
type NewsEvent struct {
	NewsID              string
	Date                time.Time
	Region              string
	EventType           string
	AffectedIndustry    string
	ImpactLevel         float64 // 1-5
	TariffChange        float64 // signed fraction
	StockMarketShock    float64 // signed fraction
	WarFlag             float64 // 0/1
	NaturalCalamityFlag float64 // 0/1
	CurrencyShift       float64 // signed fraction
}

// MatchPair is one scored (exporter, buyer) pair. The compound
// (ExporterID, BuyerID) key is unique; upserts are last-write-wins.
type MatchPair struct {
	ExporterID       string
	ExporterIndustry string
	ExporterScore    float64
	BuyerID          string
	BuyerCountry     string
	BuyerIndustry    string
	BuyerScore       float64
	PreferredChannel string

	// Decomposed rule-based score components.
	BaseSimilarity  float64
	IndustryBonus   float64 // 0 or negative mismatch penalty
	CapacityAlign   float64
	NewsDelta       float64
	EngagementBonus float64
	CertMatch       float64

	// MatchScore is the aggregate rule-based score, clipped to [0,100].
	MatchScore float64

	// MatchRank is the 1-based rank among this exporter's candidates,
	// unique and contiguous per exporter.
	MatchRank int

	// MLMatchScore is filled by the match model after inference.
	MLMatchScore float64

	// MatchLabel is a presentation bucket (Excellent/Good/Fair/Weak)
	// derived from MLMatchScore in the prediction flow.
	MatchLabel string
}

// HasCertification reports whether cert names a real certification rather
// than one of the null sentinels ("", "None", "Unknown").
func HasCertification(cert string) bool {
	switch cert {
	case "", "None", "Unknown":
		return false
	}
	return true
}

// MatchLabelFor buckets an ML match score for display.
func MatchLabelFor(score float64) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 60:
		return "Fair"
	default:
		return "Weak"
	}
}
