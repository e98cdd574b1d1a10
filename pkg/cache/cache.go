// Package cache stores fetched dataset bytes and rendered artifacts.
//
// A [Cache] is a byte-oriented key/value store with per-entry TTL. Three
// backends are provided:
//
//   - [FileCache]: entries as JSON files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the server
//   - [NullCache]: never stores anything
//
// Keys are produced by a [Keyer] so every caller agrees on their layout.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// DatasetKey is the key of the raw dataset bytes fetched for id.
	DatasetKey(id string) string
	// ArtifactKey is the key of an artifact rendered from a dataset whose
	// bytes hash to datasetHash.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format      string     `json:"format"`
	Type        string     `json:"type"`
	Collapsed   bool       `json:"collapsed"`
	Expand      []string   `json:"expand,omitempty"`
	Plot        bool       `json:"plot"`
	Width       float64    `json:"width"`
	Height      float64    `json:"height"`
	ShowContent bool       `json:"show_content"`
	RowPolicy   string     `json:"row_policy"`
	Detailed    bool       `json:"detailed"`
	FontSize    float64    `json:"font_size"`
	Style       [4]string  `json:"style"`
	Margins     [3]float64 `json:"margins"`
}

// DefaultKeyer produces "dataset:<id>" and "artifact:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey returns the dataset key for id.
func (DefaultKeyer) DatasetKey(id string) string { return "dataset:" + id }

// ArtifactKey hashes the dataset hash together with opts.
func (DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", []any{datasetHash, opts})
}
