// Package artifact persists and loads the model artifact set: vocabulary,
// topic-term weights, corpus records, and precomputed corpus distributions.
// The four files are versioned as a unit; mixing files from different
// training runs is rejected at load time via the manifest checksums.
package artifact

import (
	"github.com/kailas-cloud/jobscope/internal/domain"
	"github.com/kailas-cloud/jobscope/internal/topic"
)

// FormatVersion is embedded in the manifest and checked on load.
const FormatVersion = 1

// File names inside an artifact directory.
const (
	ManifestFile      = "manifest.json"
	VocabularyFile    = "vocabulary.json"
	TopicsFile        = "topics.f64"
	RecordsFile       = "jobs.jsonl"
	DistributionsFile = "distributions.f64"
)

// Manifest describes an artifact set and how to validate it.
type Manifest struct {
	FormatVersion int               `json:"format_version"`
	CreatedAt     string            `json:"created_at"`
	Topics        int               `json:"topics"`
	VocabSize     int               `json:"vocab_size"`
	Records       int               `json:"records"`
	Alpha         float64           `json:"alpha"`
	Seed          int64             `json:"seed"`
	Checksums     map[string]string `json:"checksums"`
}

// Set is a fully loaded, mutually consistent artifact set.
type Set struct {
	Manifest      Manifest
	Vocabulary    *topic.Vocabulary
	Model         *topic.Model
	Records       []domain.Record
	Distributions [][]float64
}
