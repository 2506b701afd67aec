// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

// Package synth generates seeded synthetic batches of the three trade
// schemas for demos and tests. Replace with real CSV inputs in production.
package synth

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/arjunm-dev/tradewinds/internal/trade"
)

// Vocabularies for the synthetic universe: Indian exporter profiles
// matched against global importers.
var (
	Industries = []string{"Textiles", "Agri-Foods", "Pharma", "Electronics", "Chemicals",
		"Auto Parts", "Handicrafts", "Steel", "Leather", "Spices"}
	Countries = []string{"USA", "Germany", "UAE", "UK", "Australia",
		"Japan", "France", "Brazil", "Singapore", "Canada"}
	Certifications = []string{"ISO 9001", "CE", "FDA", "FSSAI", "BIS", "REACH", "None"}
	Regions        = []string{"Asia", "Europe", "North America", "Middle East", "South America"}
	EventTypes     = []string{"Tariff Change", "Stock Shock", "War Escalation",
		"Natural Calamity", "Currency Devaluation", "Policy Reform"}
	States   = []string{"Maharashtra", "Gujarat", "Tamil Nadu", "Rajasthan", "UP", "Karnataka"}
	Channels = []string{"Email", "LinkedIn", "WhatsApp", "Phone"}
)

// Options sizes a synthetic batch. The zero value is not useful; use
// DefaultOptions.
type Options struct {
	Exporters int
	Buyers    int
	News      int
	Seed      int64
}

// DefaultOptions mirrors the demo dataset dimensions.
func DefaultOptions() Options {
	return Options{Exporters: 50, Buyers: 80, News: 30, Seed: 42}
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Generate produces seeded exporter, buyer and news batches. The same
// Options always yield the same data.
func Generate(opts Options) ([]trade.Exporter, []trade.Buyer, []trade.NewsEvent) {
	rng := rand.New(rand.NewSource(opts.Seed))

	news := make([]trade.NewsEvent, opts.News)
	for i := range news {
		news[i] = trade.NewsEvent{
			NewsID:              fmt.Sprintf("N%04d", i),
			Date:                epoch.AddDate(0, 0, 7*i),
			Region:              pick(rng, Regions),
			EventType:           pick(rng, EventTypes),
			AffectedIndustry:    pick(rng, Industries),
			ImpactLevel:         float64(1 + rng.Intn(5)),
			TariffChange:        uniform(rng, -0.30, 0.30),
			StockMarketShock:    uniform(rng, -0.20, 0.20),
			WarFlag:             flag(rng),
			NaturalCalamityFlag: flag(rng),
			CurrencyShift:       uniform(rng, -0.15, 0.15),
		}
	}

	exporters := make([]trade.Exporter, opts.Exporters)
	for i := range exporters {
		exporters[i] = trade.Exporter{
			RecordID:                  fmt.Sprintf("R%04d", i),
			ExporterID:                fmt.Sprintf("EXP%04d", i),
			CompanyName:               fmt.Sprintf("Exporter %04d", i),
			Date:                      epoch.AddDate(0, 0, 3*i),
			State:                     pick(rng, States),
			Country:                   "India",
			Industry:                  pick(rng, Industries),
			MSMEUdyam:                 flag(rng),
			ManufacturingCapacityTons: float64(100 + rng.Intn(4900)),
			RevenueSizeUSD:            float64(50_000 + rng.Intn(4_950_000)),
			TeamSize:                  float64(10 + rng.Intn(490)),
			Certification:             pick(rng, Certifications),
			GoodPaymentTerms:          flag(rng),
			PromptResponseScore:       uniform(rng, 1, 10),
			HiringSignal:              flag(rng),
			LinkedInActivity:          flag(rng),
			SalesNavProfileViews:      float64(rng.Intn(500)),
			SalesNavJobChange:         flag(rng),
			IntentScore:               uniform(rng, 0, 100),
			ShipmentValueUSD:          float64(10_000 + rng.Intn(490_000)),
			QuantityTons:              float64(10 + rng.Intn(2990)),
			TariffImpact:              uniform(rng, -1, 1),
			StockMarketImpact:         uniform(rng, -1, 1),
			WarRisk:                   uniform(rng, 0, 1),
			NaturalCalamityRisk:       uniform(rng, 0, 1),
			CurrencyShift:             uniform(rng, -0.15, 0.15),
		}
	}

	buyers := make([]trade.Buyer, opts.Buyers)
	for i := range buyers {
		buyers[i] = trade.Buyer{
			RecordID:              fmt.Sprintf("R%04d", i),
			BuyerID:               fmt.Sprintf("BUY%04d", i),
			Date:                  epoch.AddDate(0, 0, 2*i),
			Country:               pick(rng, Countries),
			Industry:              pick(rng, Industries),
			AvgOrderTons:          float64(5 + rng.Intn(1995)),
			RevenueSizeUSD:        float64(100_000 + rng.Intn(9_900_000)),
			TeamSize:              float64(5 + rng.Intn(995)),
			Certification:         pick(rng, Certifications),
			GoodPaymentHistory:    flag(rng),
			PromptResponse:        uniform(rng, 1, 10),
			HiringGrowth:          flag(rng),
			FundingEvent:          flag(rng),
			EngagementSpike:       flag(rng),
			SalesNavProfileVisits: float64(rng.Intn(300)),
			DecisionMakerChange:   flag(rng),
			IntentScore:           uniform(rng, 0, 100),
			PreferredChannel:      pick(rng, Channels),
			ResponseProbability:   uniform(rng, 0, 1),
			TariffNews:            flag(rng),
			StockMarketShock:      uniform(rng, -1, 1),
			WarEvent:              flag(rng),
			NaturalCalamity:       flag(rng),
			CurrencyFluctuation:   uniform(rng, -0.15, 0.15),
		}
	}

	return exporters, buyers, news
}

// demoCompanies seeds the demo match-user profile.
var demoCompanies = []struct {
	name, industry, targets string
}{
	{"AgroVista Exports Ltd.", "Agri-Foods", "UK,Germany,UAE"},
	{"SteelCore Industries", "Steel", "USA,Germany"},
	{"TextileCraft Pvt. Ltd.", "Textiles", "UK,France,USA"},
	{"ChemPro Solutions", "Chemicals", "UAE,Singapore,UK"},
	{"LeatherLux International", "Leather", "France,Germany,UAE"},
	{"AutoParts Global", "Auto Parts", "USA,Germany,UAE"},
	{"ElectroHub Exports", "Electronics", "UK,USA,Singapore"},
}

// DemoUser generates one seeded exporter profile for the match-user demo
// path, plus its comma-separated target countries.
func DemoUser(seed int64) (trade.Exporter, string) {
	rng := rand.New(rand.NewSource(seed))
	c := demoCompanies[rng.Intn(len(demoCompanies))]
	user := trade.Exporter{
		ExporterID:                fmt.Sprintf("DEMO%04d", 1000+rng.Intn(9000)),
		CompanyName:               c.name,
		Industry:                  c.industry,
		Country:                   "India",
		Date:                      time.Now().UTC(),
		ManufacturingCapacityTons: uniform(rng, 500, 15000),
		RevenueSizeUSD:            uniform(rng, 200_000, 5_000_000),
		TeamSize:                  float64(10 + rng.Intn(490)),
		ShipmentValueUSD:          uniform(rng, 50_000, 2_000_000),
		QuantityTons:              uniform(rng, 100, 10_000),
		GoodPaymentTerms:          flag(rng),
		PromptResponseScore:       uniform(rng, 4, 10),
		Certification:             pick(rng, []string{"ISO 9001", "CE", "FDA", "None"}),
		MSMEUdyam:                 flag(rng),
		IntentScore:               uniform(rng, 40, 95),
		HiringSignal:              flag(rng),
		LinkedInActivity:          uniform(rng, 0, 100),
		SalesNavProfileViews:      float64(rng.Intn(500)),
		SalesNavJobChange:         flag(rng),
		TariffImpact:              uniform(rng, -0.3, 0.3),
		WarRisk:                   uniform(rng, 0, 0.4),
		NaturalCalamityRisk:       uniform(rng, 0, 0.3),
		StockMarketImpact:         uniform(rng, -0.2, 0.2),
		CurrencyShift:             uniform(rng, -0.2, 0.2),
	}
	return user, c.targets
}

func pick(rng *rand.Rand, vals []string) string {
	return vals[rng.Intn(len(vals))]
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func flag(rng *rand.Rand) float64 {
	return float64(rng.Intn(2))
}
