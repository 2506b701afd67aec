// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package trade

// ColumnSet records which input columns were actually present in a batch.
// The cleaner uses it to tell "column absent, inject documented default"
// apart from "column present with missing cells, impute the median".
type ColumnSet map[string]struct{}

// Has reports whether the named column was present in the input.
func (c ColumnSet) Has(name string) bool {
	_, ok := c[name]
	return ok
}

// Add marks a column as present.
func (c ColumnSet) Add(name string) {
	c[name] = struct{}{}
}

// FloatField binds an external column name to a numeric struct field.
type FloatField[T any] struct {
	Name string
	Get  func(*T) float64
	Set  func(*T, float64)
}

// StringField binds an external column name to a categorical struct field.
type StringField[T any] struct {
	Name string
	Get  func(*T) string
	Set  func(*T, string)
}

// ExporterFloatFields enumerates every ingestable numeric exporter column.
// Order matches the external schema; derived score fields are not listed
// because they are never read from input.
var ExporterFloatFields = []FloatField[Exporter]{
	{"Manufacturing_Capacity_Tons", func(e *Exporter) float64 { return e.ManufacturingCapacityTons }, func(e *Exporter, v float64) { e.ManufacturingCapacityTons = v }},
	{"Revenue_Size_USD", func(e *Exporter) float64 { return e.RevenueSizeUSD }, func(e *Exporter, v float64) { e.RevenueSizeUSD = v }},
	{"Team_Size", func(e *Exporter) float64 { return e.TeamSize }, func(e *Exporter, v float64) { e.TeamSize = v }},
	{"Shipment_Value_USD", func(e *Exporter) float64 { return e.ShipmentValueUSD }, func(e *Exporter, v float64) { e.ShipmentValueUSD = v }},
	{"Quantity_Tons", func(e *Exporter) float64 { return e.QuantityTons }, func(e *Exporter, v float64) { e.QuantityTons = v }},
	{"Good_Payment_Terms", func(e *Exporter) float64 { return e.GoodPaymentTerms }, func(e *Exporter, v float64) { e.GoodPaymentTerms = v }},
	{"Prompt_Response_Score", func(e *Exporter) float64 { return e.PromptResponseScore }, func(e *Exporter, v float64) { e.PromptResponseScore = v }},
	{"MSME_Udyam", func(e *Exporter) float64 { return e.MSMEUdyam }, func(e *Exporter, v float64) { e.MSMEUdyam = v }},
	{"Hiring_Signal", func(e *Exporter) float64 { return e.HiringSignal }, func(e *Exporter, v float64) { e.HiringSignal = v }},
	{"LinkedIn_Activity", func(e *Exporter) float64 { return e.LinkedInActivity }, func(e *Exporter, v float64) { e.LinkedInActivity = v }},
	{"SalesNav_ProfileViews", func(e *Exporter) float64 { return e.SalesNavProfileViews }, func(e *Exporter, v float64) { e.SalesNavProfileViews = v }},
	{"SalesNav_JobChange", func(e *Exporter) float64 { return e.SalesNavJobChange }, func(e *Exporter, v float64) { e.SalesNavJobChange = v }},
	{"Intent_Score", func(e *Exporter) float64 { return e.IntentScore }, func(e *Exporter, v float64) { e.IntentScore = v }},
	{"Tariff_Impact", func(e *Exporter) float64 { return e.TariffImpact }, func(e *Exporter, v float64) { e.TariffImpact = v }},
	{"StockMarket_Impact", func(e *Exporter) float64 { return e.StockMarketImpact }, func(e *Exporter, v float64) { e.StockMarketImpact = v }},
	{"War_Risk", func(e *Exporter) float64 { return e.WarRisk }, func(e *Exporter, v float64) { e.WarRisk = v }},
	{"Natural_Calamity_Risk", func(e *Exporter) float64 { return e.NaturalCalamityRisk }, func(e *Exporter, v float64) { e.NaturalCalamityRisk = v }},
	{"Currency_Shift", func(e *Exporter) float64 { return e.CurrencyShift }, func(e *Exporter, v float64) { e.CurrencyShift = v }},
}

// ExporterStringFields enumerates the categorical exporter columns.
var ExporterStringFields = []StringField[Exporter]{
	{"Record_ID", func(e *Exporter) string { return e.RecordID }, func(e *Exporter, v string) { e.RecordID = v }},
	{"Exporter_ID", func(e *Exporter) string { return e.ExporterID }, func(e *Exporter, v string) { e.ExporterID = v }},
	{"Company_Name", func(e *Exporter) string { return e.CompanyName }, func(e *Exporter, v string) { e.CompanyName = v }},
	{"Industry", func(e *Exporter) string { return e.Industry }, func(e *Exporter, v string) { e.Industry = v }},
	{"Country", func(e *Exporter) string { return e.Country }, func(e *Exporter, v string) { e.Country = v }},
	{"State", func(e *Exporter) string { return e.State }, func(e *Exporter, v string) { e.State = v }},
	{"Certification", func(e *Exporter) string { return e.Certification }, func(e *Exporter, v string) { e.Certification = v }},
}

// BuyerFloatFields enumerates every ingestable numeric buyer column.
var BuyerFloatFields = []FloatField[Buyer]{
	{"Avg_Order_Tons", func(b *Buyer) float64 { return b.AvgOrderTons }, func(b *Buyer, v float64) { b.AvgOrderTons = v }},
	{"Revenue_Size_USD", func(b *Buyer) float64 { return b.RevenueSizeUSD }, func(b *Buyer, v float64) { b.RevenueSizeUSD = v }},
	{"Team_Size", func(b *Buyer) float64 { return b.TeamSize }, func(b *Buyer, v float64) { b.TeamSize = v }},
	{"Good_Payment_History", func(b *Buyer) float64 { return b.GoodPaymentHistory }, func(b *Buyer, v float64) { b.GoodPaymentHistory = v }},
	{"Funding_Event", func(b *Buyer) float64 { return b.FundingEvent }, func(b *Buyer, v float64) { b.FundingEvent = v }},
	{"Engagement_Spike", func(b *Buyer) float64 { return b.EngagementSpike }, func(b *Buyer, v float64) { b.EngagementSpike = v }},
	{"DecisionMaker_Change", func(b *Buyer) float64 { return b.DecisionMakerChange }, func(b *Buyer, v float64) { b.DecisionMakerChange = v }},
	{"SalesNav_ProfileVisits", func(b *Buyer) float64 { return b.SalesNavProfileVisits }, func(b *Buyer, v float64) { b.SalesNavProfileVisits = v }},
	{"Hiring_Growth", func(b *Buyer) float64 { return b.HiringGrowth }, func(b *Buyer, v float64) { b.HiringGrowth = v }},
	{"Response_Probability", func(b *Buyer) float64 { return b.ResponseProbability }, func(b *Buyer, v float64) { b.ResponseProbability = v }},
	{"Prompt_Response", func(b *Buyer) float64 { return b.PromptResponse }, func(b *Buyer, v float64) { b.PromptResponse = v }},
	{"Intent_Score", func(b *Buyer) float64 { return b.IntentScore }, func(b *Buyer, v float64) { b.IntentScore = v }},
	{"Tariff_News", func(b *Buyer) float64 { return b.TariffNews }, func(b *Buyer, v float64) { b.TariffNews = v }},
	{"StockMarket_Shock", func(b *Buyer) float64 { return b.StockMarketShock }, func(b *Buyer, v float64) { b.StockMarketShock = v }},
	{"War_Event", func(b *Buyer) float64 { return b.WarEvent }, func(b *Buyer, v float64) { b.WarEvent = v }},
	{"Natural_Calamity", func(b *Buyer) float64 { return b.NaturalCalamity }, func(b *Buyer, v float64) { b.NaturalCalamity = v }},
	{"Currency_Fluctuation", func(b *Buyer) float64 { return b.CurrencyFluctuation }, func(b *Buyer, v float64) { b.CurrencyFluctuation = v }},
}

// BuyerStringFields enumerates the categorical buyer columns.
var BuyerStringFields = []StringField[Buyer]{
	{"Record_ID", func(b *Buyer) string { return b.RecordID }, func(b *Buyer, v string) { b.RecordID = v }},
	{"Buyer_ID", func(b *Buyer) string { return b.BuyerID }, func(b *Buyer, v string) { b.BuyerID = v }},
	{"Country", func(b *Buyer) string { return b.Country }, func(b *Buyer, v string) { b.Country = v }},
	{"Industry", func(b *Buyer) string { return b.Industry }, func(b *Buyer, v string) { b.Industry = v }},
	{"Certification", func(b *Buyer) string { return b.Certification }, func(b *Buyer, v string) { b.Certification = v }},
	{"Preferred_Channel", func(b *Buyer) string { return b.PreferredChannel }, func(b *Buyer, v string) { b.PreferredChannel = v }},
}

// NewsFloatFields enumerates the numeric news columns.
var NewsFloatFields = []FloatField[NewsEvent]{
	{"Impact_Level", func(n *NewsEvent) float64 { return n.ImpactLevel }, func(n *NewsEvent, v float64) { n.ImpactLevel = v }},
	{"Tariff_Change", func(n *NewsEvent) float64 { return n.TariffChange }, func(n *NewsEvent, v float64) { n.TariffChange = v }},
	{"StockMarket_Shock", func(n *NewsEvent) float64 { return n.StockMarketShock }, func(n *NewsEvent, v float64) { n.StockMarketShock = v }},
	{"War_Flag", func(n *NewsEvent) float64 { return n.WarFlag }, func(n *NewsEvent, v float64) { n.WarFlag = v }},
	{"Natural_Calamity_Flag", func(n *NewsEvent) float64 { return n.NaturalCalamityFlag }, func(n *NewsEvent, v float64) { n.NaturalCalamityFlag = v }},
	{"Currency_Shift", func(n *NewsEvent) float64 { return n.CurrencyShift }, func(n *NewsEvent, v float64) { n.CurrencyShift = v }},
}

// NewsStringFields enumerates the categorical news columns.
var NewsStringFields = []StringField[NewsEvent]{
	{"News_ID", func(n *NewsEvent) string { return n.NewsID }, func(n *NewsEvent, v string) { n.NewsID = v }},
	{"Region", func(n *NewsEvent) string { return n.Region }, func(n *NewsEvent, v string) { n.Region = v }},
	{"Event_Type", func(n *NewsEvent) string { return n.EventType }, func(n *NewsEvent, v string) { n.EventType = v }},
	{"Affected_Industry", func(n *NewsEvent) string { return n.AffectedIndustry }, func(n *NewsEvent, v string) { n.AffectedIndustry = v }},
}
