// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

package ml

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/arjunm-dev/tradewinds/internal/config"
	"github.com/arjunm-dev/tradewinds/internal/logging"
)

// ErrMissingArtifact is returned when a requested model artifact does not
// exist on disk. Prediction flows fail fast on it instead of retraining.
var ErrMissingArtifact = errors.New("ml: model artifact not found")

const (
	intentArtifact = "intent_model"
	matchArtifact  = "match_model"
)

// ArtifactMetadata is the JSON sidecar written next to every model file.
type ArtifactMetadata struct {
	Name      string             `json:"name"`
	TrainedAt time.Time          `json:"trained_at"`
	Checksum  string             `json:"checksum"`
	Backend   string             `json:"backend"`
	Features  map[string][]string `json:"features"`
	Metrics   map[string]Metrics `json:"metrics"`
}

// IntentModelState is the serialized form of a trained IntentModel.
type IntentModelState struct {
	Exporter *intentSide
	Buyer    *intentSide
}

// MatchModelState is the serialized form of a trained MatchModel.
type MatchModelState struct {
	Model    *GBRT
	Features []string
	Metrics  Metrics
}

// Store persists trained models as gzip-compressed gob blobs with a JSON
// metadata sidecar. The sha256 checksum of the raw gob bytes is verified on
// load.
type Store struct {
	dir string
}

// NewStore creates the artifact directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Has reports whether both required artifacts exist.
func (s *Store) Has(name string) bool {
	_, err := os.Stat(s.modelPath(name))
	return err == nil
}

// HasAll reports whether every artifact the prediction flow needs exists.
func (s *Store) HasAll() bool {
	return s.Has(intentArtifact) && s.Has(matchArtifact)
}

// SaveIntent writes the intent model's state and metadata.
func (s *Store) SaveIntent(ctx context.Context, m *IntentModel) error {
	st, err := m.state()
	if err != nil {
		return err
	}
	meta := ArtifactMetadata{
		Name:      intentArtifact,
		TrainedAt: time.Now().UTC(),
		Backend:   backendName,
		Features: map[string][]string{
			"exporter": st.Exporter.Features,
			"buyer":    st.Buyer.Features,
		},
		Metrics: map[string]Metrics{
			"exporter": st.Exporter.Metrics,
			"buyer":    st.Buyer.Metrics,
		},
	}
	return s.save(ctx, intentArtifact, st, meta)
}

// LoadIntent restores an intent model, validating the stored feature layout
// against the current one.
func (s *Store) LoadIntent(ctx context.Context, cfg config.MLConfig) (*IntentModel, error) {
	var st IntentModelState
	if _, err := s.load(ctx, intentArtifact, &st); err != nil {
		return nil, err
	}
	m := NewIntentModel(cfg)
	if err := m.restore(&st); err != nil {
		return nil, err
	}
	return m, nil
}

// SaveMatch writes the match model's state and metadata.
func (s *Store) SaveMatch(ctx context.Context, m *MatchModel) error {
	st, err := m.state()
	if err != nil {
		return err
	}
	meta := ArtifactMetadata{
		Name:      matchArtifact,
		TrainedAt: time.Now().UTC(),
		Backend:   backendName,
		Features:  map[string][]string{"pair": st.Features},
		Metrics:   map[string]Metrics{"pair": st.Metrics},
	}
	return s.save(ctx, matchArtifact, st, meta)
}

// LoadMatch restores a match model, validating the stored feature layout.
func (s *Store) LoadMatch(ctx context.Context, cfg config.MLConfig) (*MatchModel, error) {
	var st MatchModelState
	if _, err := s.load(ctx, matchArtifact, &st); err != nil {
		return nil, err
	}
	m := NewMatchModel(cfg)
	if err := m.restore(&st); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) save(ctx context.Context, name string, state any, meta ArtifactMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(state); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	sum := sha256.Sum256(raw.Bytes())
	meta.Checksum = hex.EncodeToString(sum[:])

	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if _, err := gz.Write(raw.Bytes()); err != nil {
		return fmt.Errorf("compress model: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	// Write-then-rename so a crash never leaves a torn artifact.
	tmp := s.modelPath(name) + ".tmp"
	if err := os.WriteFile(tmp, compressed.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	if err := os.Rename(tmp, s.modelPath(name)); err != nil {
		return fmt.Errorf("place model file: %w", err)
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(s.metaPath(name), metaBytes, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	logging.Info().
		Str("artifact", name).
		Str("path", s.modelPath(name)).
		Int("bytes", compressed.Len()).
		Msg("model artifact saved")
	return nil
}

func (s *Store) load(ctx context.Context, name string, target any) (*ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.modelPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, name)
		}
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }()

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read model data: %w", err)
	}

	meta, err := s.readMeta(name)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(raw)
	if got := hex.EncodeToString(sum[:]); got != meta.Checksum {
		return nil, fmt.Errorf("checksum mismatch for %s: expected %s, got %s", name, meta.Checksum, got)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return meta, nil
}

func (s *Store) readMeta(name string) (*ArtifactMetadata, error) {
	data, err := os.ReadFile(s.metaPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s metadata", ErrMissingArtifact, name)
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var meta ArtifactMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &meta, nil
}

func (s *Store) modelPath(name string) string {
	return filepath.Join(s.dir, name+".gob.gz")
}

func (s *Store) metaPath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// state snapshots a trained intent model for persistence.
func (m *IntentModel) state() (*IntentModelState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.exp == nil || m.buy == nil {
		return nil, ErrNotTrained
	}
	return &IntentModelState{Exporter: m.exp, Buyer: m.buy}, nil
}

// restore installs a loaded state after validating its feature layout.
func (m *IntentModel) restore(st *IntentModelState) error {
	if st.Exporter == nil || st.Buyer == nil || st.Exporter.Model == nil || st.Buyer.Model == nil {
		return fmt.Errorf("intent artifact incomplete")
	}
	if err := validateFeatures("exporter intent", st.Exporter.Features, featureNames(exporterIntentFeatures)); err != nil {
		return err
	}
	if err := validateFeatures("buyer intent", st.Buyer.Features, featureNames(buyerIntentFeatures)); err != nil {
		return err
	}
	m.mu.Lock()
	m.exp = st.Exporter
	m.buy = st.Buyer
	m.mu.Unlock()
	return nil
}

// state snapshots a trained match model for persistence.
func (m *MatchModel) state() (*MatchModelState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.model == nil {
		return nil, ErrNotTrained
	}
	return &MatchModelState{Model: m.model, Features: m.features, Metrics: m.metrics}, nil
}

func (m *MatchModel) restore(st *MatchModelState) error {
	if st.Model == nil {
		return fmt.Errorf("match artifact incomplete")
	}
	if err := validateFeatures("match", st.Features, matchFeatureNames); err != nil {
		return err
	}
	m.mu.Lock()
	m.model = st.Model
	m.features = st.Features
	m.metrics = st.Metrics
	m.mu.Unlock()
	return nil
}

// validateFeatures rejects artifacts trained on a different feature layout:
// positional weights would silently misalign otherwise.
func validateFeatures(label string, stored, current []string) error {
	if len(stored) != len(current) {
		return fmt.Errorf("%s artifact has %d features, current layout has %d", label, len(stored), len(current))
	}
	for i := range stored {
		if stored[i] != current[i] {
			return fmt.Errorf("%s artifact feature %d is %q, current layout expects %q", label, i, stored[i], current[i])
		}
	}
	return nil
}
