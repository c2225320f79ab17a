// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

package pipeline

import (
	"strings"

	"github.com/axiombio/lead-engine/pkg/types"
)

// genericAffiliationTokens are skipped when fingerprinting an affiliation.
// They name organizational structure, not the organization.
var genericAffiliationTokens = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "and": true, "for": true,
	"department": true, "dept": true, "dept.": true, "division": true,
	"laboratory": true, "lab": true, "unit": true, "group": true,
	"school": true, "faculty": true, "section": true, "program": true,
	"university": true, "college": true, "institute": true,
	"hospital": true, "center": true, "centre": true,
}

// Merger collapses signals that share an identity key into one researcher
// record. State is run-scoped: build one Merger per pipeline invocation and
// discard it after Records.
type Merger struct {
	order []string
	table map[string]*types.ResearcherRecord
}

// NewMerger returns an empty identity table.
func NewMerger() *Merger {
	return &Merger{table: make(map[string]*types.ResearcherRecord)}
}

// IdentityKey builds the merge key: normalized name plus a coarse
// affiliation fingerprint. Records with different keys never merge, even
// for plausibly identical people; duplicate leads are cheaper than false
// identity collisions.
func IdentityKey(name, affiliation string) string {
	return name + "|" + affiliationFingerprint(affiliation)
}

// affiliationFingerprint returns the first significant token of the
// normalized affiliation, or "" when none exists.
func affiliationFingerprint(affiliation string) string {
	for _, tok := range strings.Fields(affiliation) {
		tok = strings.Trim(tok, ",.")
		if tok == "" || genericAffiliationTokens[tok] {
			continue
		}
		return tok
	}
	return ""
}

// Add folds one record's signals into the identity table. First sighting of
// a key creates the record; later sightings accumulate evidence. Boolean
// evidence, including the per-record text matches, ORs across sightings;
// email and location keep the first non-empty value (a corresponding-author
// email supersedes one that is not); the role upgrades to the highest rank
// seen. Arrival order only affects the display fields, never the union of
// evidence, so the eventual score is order-independent.
func (m *Merger) Add(sig types.ExtractedSignals) {
	key := IdentityKey(sig.Name, sig.Affiliation)

	rec, ok := m.table[key]
	if !ok {
		rec = &types.ResearcherRecord{
			Key:         key,
			Name:        titleCase(sig.Name),
			Affiliation: sig.Affiliation,
			Role:        types.RoleUnknown,
		}
		m.table[key] = rec
		m.order = append(m.order, key)
	}

	if sig.Email != "" {
		switch {
		case rec.Email == "":
			rec.Email = sig.Email
			rec.EmailFromCorresponding = sig.IsCorresponding
		case sig.IsCorresponding && !rec.EmailFromCorresponding:
			rec.Email = sig.Email
			rec.EmailFromCorresponding = true
		}
	}
	if rec.Location == "" {
		rec.Location = sig.Location
	}
	if sig.Role.Rank() > rec.Role.Rank() {
		rec.Role = sig.Role
	}
	rec.KeywordMatch = rec.KeywordMatch || sig.KeywordMatch
	rec.HubMatch = rec.HubMatch || sig.HubMatch
	rec.SimilarTechMatch = rec.SimilarTechMatch || sig.SimilarTechMatch
	rec.HasRecentPaper = rec.HasRecentPaper || sig.IsRecent
	rec.WasEverCorresponding = rec.WasEverCorresponding || sig.IsCorresponding

	if sig.SourceID != "" && !containsString(rec.SourceIDs, sig.SourceID) {
		rec.SourceIDs = append(rec.SourceIDs, sig.SourceID)
	}
}

// Records returns the merged researcher records in first-sighting order.
// Each aggregates at least one signal set; keys are unique within the run.
func (m *Merger) Records() []types.ResearcherRecord {
	out := make([]types.ResearcherRecord, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, *m.table[key])
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
