// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

// Package rules loads and validates the keyword and scoring rule
// configuration consumed by the pipeline. A malformed rule file is a
// construction-time error: the pipeline refuses to run rather than score
// with undefined weights.
package rules

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/axiombio/lead-engine/pkg/types"
)

// Recognized scoring weight names. Load rejects any other key so a typo in
// the rule file fails up front instead of silently contributing zero.
const (
	WeightKeywordMatch        = "keyword_match"
	WeightRecentPublication   = "recent_publication"
	WeightHubLocation         = "hub_location"
	WeightCorrespondingAuthor = "corresponding_author"
	WeightSimilarTech         = "similar_tech_institution"
)

var weightNames = []string{
	WeightKeywordMatch,
	WeightRecentPublication,
	WeightHubLocation,
	WeightCorrespondingAuthor,
	WeightSimilarTech,
}

// RoleKeyword maps a lowercase substring pattern to a role. The extractor
// evaluates the list in order; first match wins.
type RoleKeyword struct {
	Pattern string     `yaml:"pattern"`
	Role    types.Role `yaml:"role"`
}

// Config is the rule configuration for one pipeline run. Immutable after
// Load; pass it by pointer into the extractor and scorer.
type Config struct {
	// SearchTerms are the literature-index queries the fetch stage runs.
	SearchTerms []string `yaml:"search_terms"`

	// ScoringKeywords contribute the keyword_match weight when any of them
	// appears in a researcher's role or affiliation text.
	ScoringKeywords []string `yaml:"scoring_keywords"`

	// RoleKeywords is the ordered pattern-to-role list for role inference.
	RoleKeywords []RoleKeyword `yaml:"role_keywords"`

	// HubLocations are geographies that contribute the hub_location weight.
	HubLocations []string `yaml:"hub_locations"`

	// SimilarTechInstitutions are organizations already known to use
	// comparable technology; a match contributes the similar_tech weight.
	SimilarTechInstitutions []string `yaml:"similar_tech_institutions"`

	// EmailDenyDomains lists generic consumer-mail domains. Addresses on
	// these domains are never reported.
	EmailDenyDomains []string `yaml:"email_deny_domains"`

	// RecencyWindowYears is the window within which a publication counts as
	// recent. The boundary year is inclusive.
	RecencyWindowYears int `yaml:"recency_window_years"`

	// ScoringWeights maps recognized rule names to point values.
	ScoringWeights map[string]int `yaml:"scoring_weights"`
}

// Defaults returns the built-in rule configuration for the 3D in-vitro
// equipment vertical.
func Defaults() *Config {
	return &Config{
		SearchTerms: []string{
			"drug-induced liver injury",
			"3D cell culture",
			"organ-on-chip",
			"hepatic spheroids",
			"investigative toxicology",
			"hepatotoxicity",
			"preclinical safety",
		},
		ScoringKeywords: []string{"toxicology", "safety"},
		RoleKeywords: []RoleKeyword{
			{Pattern: "director", Role: types.RoleDirector},
			{Pattern: "head of", Role: types.RoleDirector},
			{Pattern: "chief", Role: types.RoleDirector},
			{Pattern: "vp ", Role: types.RoleDirector},
			{Pattern: "professor", Role: types.RoleFaculty},
			{Pattern: "principal investigator", Role: types.RoleFaculty},
			{Pattern: "faculty", Role: types.RoleFaculty},
			{Pattern: "lecturer", Role: types.RoleFaculty},
			{Pattern: "researcher", Role: types.RoleResearcher},
			{Pattern: "scientist", Role: types.RoleResearcher},
			{Pattern: "postdoc", Role: types.RoleResearcher},
			{Pattern: "phd student", Role: types.RoleStudent},
			{Pattern: "graduate student", Role: types.RoleStudent},
			{Pattern: "student", Role: types.RoleStudent},
		},
		HubLocations: []string{
			"boston", "cambridge", "san francisco", "bay area",
			"san diego", "basel", "london", "oxford",
		},
		SimilarTechInstitutions: []string{},
		EmailDenyDomains: []string{
			"gmail.com", "yahoo.com", "hotmail.com", "outlook.com",
			"icloud.com", "aol.com", "qq.com", "163.com", "126.com",
		},
		RecencyWindowYears: 2,
		ScoringWeights: map[string]int{
			WeightKeywordMatch:        30,
			WeightRecentPublication:   40,
			WeightHubLocation:         10,
			WeightCorrespondingAuthor: 15,
			WeightSimilarTech:         15,
		},
	}
}

// Load reads a rule file, rejecting unknown keys, and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	return Parse(data)
}

// Parse decodes rule YAML with strict field checking and validates it.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing rule file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required keys and enumerated values, and applies the
// recency window default. All other fields may be empty: an empty list
// simply never matches.
func (c *Config) Validate() error {
	if len(c.ScoringWeights) == 0 {
		return fmt.Errorf("rule file missing scoring_weights")
	}
	for name := range c.ScoringWeights {
		if !isWeightName(name) {
			return fmt.Errorf("unrecognized scoring weight %q (known: %s)",
				name, strings.Join(weightNames, ", "))
		}
	}

	for i, rk := range c.RoleKeywords {
		if strings.TrimSpace(rk.Pattern) == "" {
			return fmt.Errorf("role_keywords[%d]: empty pattern", i)
		}
		switch rk.Role {
		case types.RoleDirector, types.RoleFaculty, types.RoleResearcher, types.RoleStudent:
		default:
			return fmt.Errorf("role_keywords[%d]: unrecognized role %q", i, rk.Role)
		}
	}

	if c.RecencyWindowYears < 0 {
		return fmt.Errorf("recency_window_years must be non-negative, got %d", c.RecencyWindowYears)
	}
	if c.RecencyWindowYears == 0 {
		c.RecencyWindowYears = 2
	}
	return nil
}

// Weight returns the configured value for a rule name, or 0 when the rule
// file leaves it unset.
func (c *Config) Weight(name string) int {
	return c.ScoringWeights[name]
}

// WriteFile marshals the configuration to a YAML rule file. Used to seed a
// default rule file on first run.
func (c *Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Summary returns a one-line description of the rule set for CLI output.
func (c *Config) Summary() string {
	names := make([]string, 0, len(c.ScoringWeights))
	for name := range c.ScoringWeights {
		names = append(names, fmt.Sprintf("%s=%d", name, c.ScoringWeights[name]))
	}
	sort.Strings(names)
	return fmt.Sprintf("%d search terms, %d role patterns, %d hubs, weights: %s",
		len(c.SearchTerms), len(c.RoleKeywords), len(c.HubLocations), strings.Join(names, " "))
}

func isWeightName(name string) bool {
	for _, n := range weightNames {
		if n == name {
			return true
		}
	}
	return false
}
