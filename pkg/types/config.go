// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "lead-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the literature-index fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResultsPerTerm caps the number of publications fetched per search
	// term (default 50; the efetch endpoint batches up to 100).
	MaxResultsPerTerm int `json:"max_results_per_term" yaml:"max_results_per_term"`

	// TermDelay is the pause between consecutive search terms (default 500ms),
	// per NCBI usage guidelines.
	TermDelay time.Duration `json:"term_delay" yaml:"term_delay"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// ContactEmail is sent with every request, per E-utilities etiquette.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
}

// StoreConfig holds settings for the lead store.
type StoreConfig struct {
	// DataDir is the base directory for pipeline output (contains leads.db
	// and exports/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
