// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package trade

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// dateColumn is the shared calendar-date column across all three schemas.
// Dates are calendar days; no time-zone semantics.
const dateColumn = "Date"

var dateLayouts = []string{"2006-01-02", "2006/01/02", time.RFC3339}

// ReadExporters loads an exporter CSV. Columns are resolved by header name;
// unknown columns are ignored, declared-but-absent columns are reported via
// the returned ColumnSet. Blank or unparseable numeric cells become NaN for
// the cleaner to resolve.
func ReadExporters(r io.Reader) ([]Exporter, ColumnSet, error) {
	return readTable(r, ExporterFloatFields, ExporterStringFields,
		func(e *Exporter, t time.Time) { e.Date = t })
}

// ReadBuyers loads a buyer CSV.
func ReadBuyers(r io.Reader) ([]Buyer, ColumnSet, error) {
	return readTable(r, BuyerFloatFields, BuyerStringFields,
		func(b *Buyer, t time.Time) { b.Date = t })
}

// ReadNews loads a news event CSV.
func ReadNews(r io.Reader) ([]NewsEvent, ColumnSet, error) {
	return readTable(r, NewsFloatFields, NewsStringFields,
		func(n *NewsEvent, t time.Time) { n.Date = t })
}

// ReadExportersFile, ReadBuyersFile and ReadNewsFile open and read a CSV
// from disk. A missing file surfaces the os error for the caller to type.
func ReadExportersFile(path string) ([]Exporter, ColumnSet, error) {
	return readFile(path, ReadExporters)
}

func ReadBuyersFile(path string) ([]Buyer, ColumnSet, error) {
	return readFile(path, ReadBuyers)
}

func ReadNewsFile(path string) ([]NewsEvent, ColumnSet, error) {
	return readFile(path, ReadNews)
}

func readFile[T any](path string, read func(io.Reader) ([]T, ColumnSet, error)) ([]T, ColumnSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	rows, cols, err := read(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, cols, nil
}

// readTable parses a headered CSV into records via the field tables.
func readTable[T any](r io.Reader, floats []FloatField[T], strs []StringField[T], setDate func(*T, time.Time)) ([]T, ColumnSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ColumnSet{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	present := ColumnSet{}
	for _, f := range floats {
		if _, ok := index[f.Name]; ok {
			present.Add(f.Name)
		}
	}
	for _, s := range strs {
		if _, ok := index[s.Name]; ok {
			present.Add(s.Name)
		}
	}
	if _, ok := index[dateColumn]; ok {
		present.Add(dateColumn)
	}

	var rows []T
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}

		var row T
		// Absent columns and blank cells both start life as NaN; the
		// cleaner decides between documented defaults and medians.
		for _, f := range floats {
			f.Set(&row, math.NaN())
		}
		for _, f := range floats {
			if i, ok := index[f.Name]; ok && i < len(record) {
				f.Set(&row, parseFloatCell(record[i]))
			}
		}
		for _, s := range strs {
			if i, ok := index[s.Name]; ok && i < len(record) {
				s.Set(&row, strings.TrimSpace(record[i]))
			}
		}
		if i, ok := index[dateColumn]; ok && i < len(record) {
			setDate(&row, parseDateCell(record[i]))
		}
		rows = append(rows, row)
	}

	return rows, present, nil
}

// parseFloatCell maps blank or malformed cells to NaN, never propagating a
// parse error: the cleaner owns the recovery policy.
func parseFloatCell(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseDateCell(cell string) time.Time {
	cell = strings.TrimSpace(cell)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t
		}
	}
	return time.Time{}
}

// matchHeader is the canonical exported column order for match results.
var matchHeader = []string{
	"Exporter_ID", "Exporter_Industry", "Exporter_Score",
	"Buyer_ID", "Buyer_Country", "Buyer_Industry", "Buyer_Score",
	"Preferred_Channel",
	"base_similarity", "industry_bonus", "capacity_align",
	"news_delta", "engagement_bonus", "cert_match",
	"match_score", "match_rank", "ml_match_score", "match_label",
}

// WriteMatches writes the ranked match table with canonical column names.
func WriteMatches(w io.Writer, pairs []MatchPair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(matchHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range pairs {
		p := &pairs[i]
		record := []string{
			p.ExporterID, p.ExporterIndustry, formatFloat(p.ExporterScore),
			p.BuyerID, p.BuyerCountry, p.BuyerIndustry, formatFloat(p.BuyerScore),
			p.PreferredChannel,
			formatFloat(p.BaseSimilarity), formatFloat(p.IndustryBonus), formatFloat(p.CapacityAlign),
			formatFloat(p.NewsDelta), formatFloat(p.EngagementBonus), formatFloat(p.CertMatch),
			formatFloat(p.MatchScore), strconv.Itoa(p.MatchRank), formatFloat(p.MLMatchScore), p.MatchLabel,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// PairKey identifies a match pair by its compound key.
type PairKey struct {
	ExporterID string
	BuyerID    string
}

// ReadMatchLabels loads real outcome labels keyed by (exporter, buyer) from a
// CSV with Exporter_ID, Buyer_ID and the named label column. Used to swap the
// bootstrap target for supervised labels when deal outcomes exist.
func ReadMatchLabels(r io.Reader, labelCol string) (map[PairKey]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	expIdx, ok := index["Exporter_ID"]
	if !ok {
		return nil, fmt.Errorf("label csv: missing Exporter_ID column")
	}
	buyIdx, ok := index["Buyer_ID"]
	if !ok {
		return nil, fmt.Errorf("label csv: missing Buyer_ID column")
	}
	labelIdx, ok := index[labelCol]
	if !ok {
		return nil, fmt.Errorf("label csv: missing label column %q", labelCol)
	}

	labels := make(map[PairKey]float64)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if labelIdx >= len(record) || expIdx >= len(record) || buyIdx >= len(record) {
			continue
		}
		v := parseFloatCell(record[labelIdx])
		if math.IsNaN(v) {
			continue
		}
		labels[PairKey{record[expIdx], record[buyIdx]}] = v
	}
	return labels, nil
}
