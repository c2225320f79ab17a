// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

// Package types defines shared data structures for the lead-engine pipeline.
package types

// RawAuthor is one author entry on a bibliographic record, in source order.
type RawAuthor struct {
	// Name is the author name as returned by the literature index.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the free-text affiliation attached to this author.
	Affiliation string `json:"affiliation" yaml:"affiliation"`

	// IsCorresponding marks the author designated as the publication's
	// primary contact.
	IsCorresponding bool `json:"is_corresponding" yaml:"is_corresponding"`
}

// RawRecord is one bibliographic entry as returned by the literature index,
// flattened to a single author: the fetch layer emits one RawRecord per
// (paper, author) pair. The pipeline borrows it read-only.
type RawRecord struct {
	// SourceID is the index identifier of the publication (e.g. a PMID).
	SourceID string `json:"source_id" yaml:"source_id"`

	// AuthorName is the author name as returned by the index.
	AuthorName string `json:"author_name" yaml:"author_name"`

	// Affiliation is the author's free-text affiliation, which may embed
	// an email address and location fragments.
	Affiliation string `json:"affiliation" yaml:"affiliation"`

	// PaperTitle is the article title.
	PaperTitle string `json:"paper_title" yaml:"paper_title"`

	// Journal is the publication venue, when known.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// PubYear is the publication year, or 0 when unknown.
	PubYear int `json:"pub_year" yaml:"pub_year"`

	// IsCorresponding marks whether this author is the publication's
	// corresponding author.
	IsCorresponding bool `json:"is_corresponding" yaml:"is_corresponding"`

	// SearchTerm records which configured search term surfaced the record.
	SearchTerm string `json:"search_term,omitempty" yaml:"search_term,omitempty"`
}

// NormalizedRecord is a RawRecord with its free-text fields case-folded,
// whitespace-collapsed, and stripped of bibliographic punctuation artifacts.
// Derived 1:1 from a RawRecord.
type NormalizedRecord struct {
	SourceID        string
	AuthorName      string
	Affiliation     string
	PaperTitle      string
	Journal         string
	PubYear         int
	IsCorresponding bool
	SearchTerm      string
}

// Role classifies a researcher's inferred position.
type Role string

const (
	RoleDirector   Role = "director"
	RoleFaculty    Role = "faculty"
	RoleResearcher Role = "researcher"
	RoleStudent    Role = "student"
	RoleUnknown    Role = "unknown"
)

// Rank orders roles for merge upgrades: a higher value is stronger
// evidence. Unknown ranks lowest.
func (r Role) Rank() int {
	switch r {
	case RoleDirector:
		return 4
	case RoleFaculty:
		return 3
	case RoleResearcher:
		return 2
	case RoleStudent:
		return 1
	default:
		return 0
	}
}

// ExtractedSignals holds the per-record derived facts used for merging and
// scoring. Every field degrades independently to its zero value on
// malformed input.
type ExtractedSignals struct {
	// SourceID back-references the record the signals came from.
	SourceID string `json:"source_id" yaml:"source_id"`

	// Name is the normalized author name.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the normalized affiliation text.
	Affiliation string `json:"affiliation" yaml:"affiliation"`

	// Email is a syntactically valid address whose domain passed the
	// consumer-mail deny-list, or empty when none qualified.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Location is the matched hub location or a trailing "city, st" token,
	// or empty when neither was found.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Role is the inferred position, RoleUnknown when no keyword matched.
	Role Role `json:"role" yaml:"role"`

	// KeywordMatch reports whether a scoring keyword appears in this
	// record's affiliation or role text.
	KeywordMatch bool `json:"keyword_match" yaml:"keyword_match"`

	// HubMatch reports whether this record's location matches a configured
	// hub. Never true when Location is empty.
	HubMatch bool `json:"hub_match" yaml:"hub_match"`

	// SimilarTechMatch reports whether the affiliation names an institution
	// already known to use comparable technology.
	SimilarTechMatch bool `json:"similar_tech_match" yaml:"similar_tech_match"`

	// IsCorresponding copies the per-author marking from the source record.
	IsCorresponding bool `json:"is_corresponding" yaml:"is_corresponding"`

	// PublicationYear is the source record's publication year, 0 if unknown.
	PublicationYear int `json:"publication_year" yaml:"publication_year"`

	// IsRecent reports whether the publication falls within the configured
	// recency window. The boundary year is inclusive.
	IsRecent bool `json:"is_recent" yaml:"is_recent"`
}

// ResearcherRecord is the merged view of all signals that share an identity
// key (normalized name + affiliation fingerprint). Immutable once the merge
// pass completes.
type ResearcherRecord struct {
	// Key is the identity key the merger grouped on.
	Key string `json:"key" yaml:"key"`

	// Name is the canonical researcher name.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the canonical affiliation text (first seen).
	Affiliation string `json:"affiliation" yaml:"affiliation"`

	// Email is the best-known address: first non-empty, with a
	// corresponding-author address replacing a non-corresponding one.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// EmailFromCorresponding records whether Email came from a record on
	// which the researcher was the corresponding author.
	EmailFromCorresponding bool `json:"email_from_corresponding,omitempty" yaml:"email_from_corresponding,omitempty"`

	// Location is the best-known location (first non-empty).
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Role is the highest-rank role seen across merged records.
	Role Role `json:"role" yaml:"role"`

	// KeywordMatch is the OR of per-record keyword matches across merged
	// evidence. Kept per record rather than recomputed from the canonical
	// affiliation so the score never depends on which variant arrived first.
	KeywordMatch bool `json:"keyword_match" yaml:"keyword_match"`

	// HubMatch is the OR of per-record hub matches across merged evidence.
	HubMatch bool `json:"hub_match" yaml:"hub_match"`

	// SimilarTechMatch is the OR of per-record similar-tech matches across
	// merged evidence.
	SimilarTechMatch bool `json:"similar_tech_match" yaml:"similar_tech_match"`

	// HasRecentPaper is the OR of IsRecent across merged evidence.
	HasRecentPaper bool `json:"has_recent_paper" yaml:"has_recent_paper"`

	// WasEverCorresponding is the OR of IsCorresponding across merged evidence.
	WasEverCorresponding bool `json:"was_ever_corresponding" yaml:"was_ever_corresponding"`

	// SourceIDs lists the contributing publication identifiers in arrival order.
	SourceIDs []string `json:"source_ids" yaml:"source_ids"`
}

// ScoredLead is a ResearcherRecord with its rule-weighted score and final
// rank. Terminal artifact of the pipeline, consumed by export and storage.
type ScoredLead struct {
	ResearcherRecord `yaml:",inline"`

	// Score is the clamped additive rule score in [0, 100].
	Score int `json:"score" yaml:"score"`

	// Rank is the 1-based position after sorting; consecutive even on ties.
	Rank int `json:"rank" yaml:"rank"`
}
