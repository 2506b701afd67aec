// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

// Package pipeline sequences the cleaning, scoring, matching and model
// stages into the three end-to-end flows: training, batch prediction and
// single-exporter match-user. Stages run synchronously; parallelism lives
// inside the matching engine.
package pipeline

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arjunm-dev/tradewinds/internal/config"
	"github.com/arjunm-dev/tradewinds/internal/logging"
	"github.com/arjunm-dev/tradewinds/internal/ml"
	"github.com/arjunm-dev/tradewinds/internal/store"
	"github.com/arjunm-dev/tradewinds/internal/synth"
	"github.com/arjunm-dev/tradewinds/internal/trade"
)

// Pipeline wires the stages together. The store is optional: a nil db skips
// row persistence and the flows work purely in memory.
type Pipeline struct {
	cfg       *config.Config
	db        *store.DB
	artifacts *ml.Store
	log       zerolog.Logger
}

// New builds a pipeline over the configured artifact directory. db may be
// nil to disable row persistence.
func New(cfg *config.Config, db *store.DB) (*Pipeline, error) {
	artifacts, err := ml.NewStore(cfg.ML.ArtifactDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact store: %w", err)
	}
	return &Pipeline{
		cfg:       cfg,
		db:        db,
		artifacts: artifacts,
		log:       logging.With().Str("component", "pipeline").Logger(),
	}, nil
}

// runLogger tags every event of one flow invocation with a fresh run ID.
func (p *Pipeline) runLogger(flow string) zerolog.Logger {
	return p.log.With().
		Str("flow", flow).
		Str("run_id", uuid.NewString()).
		Logger()
}

// Dataset is one batch of raw inputs plus the column presence sets from
// ingestion. The cleaner needs the sets to distinguish absent columns from
// blank cells.
type Dataset struct {
	Exporters    []trade.Exporter
	ExporterCols trade.ColumnSet
	Buyers       []trade.Buyer
	BuyerCols    trade.ColumnSet
	News         []trade.NewsEvent
	NewsCols     trade.ColumnSet
}

// LoadCSV reads the three input files into a Dataset.
func LoadCSV(exporterPath, buyerPath, newsPath string) (Dataset, error) {
	var ds Dataset
	var err error
	if ds.Exporters, ds.ExporterCols, err = trade.ReadExportersFile(exporterPath); err != nil {
		return Dataset{}, fmt.Errorf("failed to read exporters: %w", err)
	}
	if ds.Buyers, ds.BuyerCols, err = trade.ReadBuyersFile(buyerPath); err != nil {
		return Dataset{}, fmt.Errorf("failed to read buyers: %w", err)
	}
	if ds.News, ds.NewsCols, err = trade.ReadNewsFile(newsPath); err != nil {
		return Dataset{}, fmt.Errorf("failed to read news: %w", err)
	}
	return ds, nil
}

// Synthetic generates a seeded demo Dataset. Generated batches carry every
// column, so the presence sets are full.
func Synthetic(opts synth.Options) Dataset {
	exporters, buyers, news := synth.Generate(opts)
	return Dataset{
		Exporters:    exporters,
		ExporterCols: fullColumns(trade.ExporterFloatFields, trade.ExporterStringFields),
		Buyers:       buyers,
		BuyerCols:    fullColumns(trade.BuyerFloatFields, trade.BuyerStringFields),
		News:         news,
		NewsCols:     fullColumns(trade.NewsFloatFields, trade.NewsStringFields),
	}
}

func fullColumns[T any](floats []trade.FloatField[T], strs []trade.StringField[T]) trade.ColumnSet {
	cols := trade.ColumnSet{}
	for _, f := range floats {
		cols.Add(f.Name)
	}
	for _, s := range strs {
		cols.Add(s.Name)
	}
	cols.Add("Date")
	return cols
}
