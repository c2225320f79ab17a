// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

package pipeline

import (
	"strings"

	"github.com/axiombio/lead-engine/internal/rules"
	"github.com/axiombio/lead-engine/pkg/types"
)

// Score applies the weighted additive rules to a merged researcher record.
// Each rule contributes independently; the sum clamps to [0, 100]. The
// function is pure: identical record and rules always produce the identical
// value.
//
// Every rule keys on the record's merged evidence flags, never on its
// display text. The flags are ORed per sighting during the merge, so the
// score depends only on the union of evidence, not on which duplicate's
// affiliation or location text won the first-sighting slot.
func Score(rec types.ResearcherRecord, cfg *rules.Config) int {
	score := 0

	if rec.KeywordMatch {
		score += cfg.Weight(rules.WeightKeywordMatch)
	}
	if rec.HasRecentPaper {
		score += cfg.Weight(rules.WeightRecentPublication)
	}
	if rec.HubMatch {
		score += cfg.Weight(rules.WeightHubLocation)
	}
	if rec.WasEverCorresponding {
		score += cfg.Weight(rules.WeightCorrespondingAuthor)
	}
	if rec.SimilarTechMatch {
		score += cfg.Weight(rules.WeightSimilarTech)
	}

	return clamp(score, 0, 100)
}

// matchesAny reports whether any configured keyword appears in the text.
// Keywords are compared case-insensitively against already-folded text.
func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
