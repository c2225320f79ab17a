// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

package pipeline

import (
	"testing"

	"github.com/axiombio/lead-engine/internal/rules"
	"github.com/axiombio/lead-engine/pkg/types"
)

// J. Reinhart at a toxicology department with a current-year paper:
// keyword match (+30) and recent publication (+40), nothing else. Score 70.
func TestScoreAdditiveRules(t *testing.T) {
	cfg := testRules()
	rec := types.ResearcherRecord{
		Name:           "J Reinhart",
		Affiliation:    "university of illinois, dept. of toxicology",
		Email:          "jreinha2@illinois.edu",
		Role:           types.RoleResearcher,
		KeywordMatch:   true,
		HasRecentPaper: true,
	}
	if got := Score(rec, cfg); got != 70 {
		t.Errorf("Score = %d, want 70 (keyword 30 + recent 40)", got)
	}
}

// All five rules triggered sums to 110 with default weights and must clamp
// to 100.
func TestScoreClampsAt100(t *testing.T) {
	cfg := testRules()
	rec := types.ResearcherRecord{
		Name:                 "Maxed Out",
		Affiliation:          "mimetas safety sciences",
		Location:             "boston",
		Role:                 types.RoleDirector,
		KeywordMatch:         true,
		HubMatch:             true,
		SimilarTechMatch:     true,
		HasRecentPaper:       true,
		WasEverCorresponding: true,
	}
	if got := Score(rec, cfg); got != 100 {
		t.Errorf("Score = %d, want clamp to 100", got)
	}
}

// Negative penalty weights may push the sum below zero; the contract clamps
// to the closed interval either way.
func TestScoreClampsAtZero(t *testing.T) {
	cfg := testRules()
	cfg.ScoringWeights[rules.WeightRecentPublication] = -150
	rec := types.ResearcherRecord{HasRecentPaper: true}
	if got := Score(rec, cfg); got != 0 {
		t.Errorf("Score = %d, want clamp to 0", got)
	}
}

func TestScoreBounds(t *testing.T) {
	cfg := testRules()
	records := []types.ResearcherRecord{
		{},
		{KeywordMatch: true, HasRecentPaper: true, WasEverCorresponding: true, HubMatch: true},
		{KeywordMatch: true, HubMatch: true, SimilarTechMatch: true, HasRecentPaper: true, WasEverCorresponding: true},
	}
	for _, rec := range records {
		got := Score(rec, cfg)
		if got < 0 || got > 100 {
			t.Errorf("Score(%+v) = %d, out of [0,100]", rec, got)
		}
	}
}

// Flipping a true evidence flag on never decreases the score, all else equal.
func TestScoreMonotonic(t *testing.T) {
	cfg := testRules()
	base := types.ResearcherRecord{Affiliation: "university of x"}

	withRecent := base
	withRecent.HasRecentPaper = true
	if Score(withRecent, cfg) < Score(base, cfg) {
		t.Error("adding recent-paper evidence decreased the score")
	}

	withCorr := base
	withCorr.WasEverCorresponding = true
	if Score(withCorr, cfg) < Score(base, cfg) {
		t.Error("adding corresponding-author evidence decreased the score")
	}

	withKeyword := base
	withKeyword.KeywordMatch = true
	if Score(withKeyword, cfg) < Score(base, cfg) {
		t.Error("adding keyword evidence decreased the score")
	}
}

func TestScoreDeterministic(t *testing.T) {
	cfg := testRules()
	rec := types.ResearcherRecord{
		Affiliation:    "safety pharmacology unit, basel",
		Location:       "basel",
		HubMatch:       true,
		HasRecentPaper: true,
	}
	first := Score(rec, cfg)
	for i := 0; i < 10; i++ {
		if got := Score(rec, cfg); got != first {
			t.Fatalf("Score not reproducible: %d then %d", first, got)
		}
	}
}

// The score keys on merged evidence flags only. Display text alone, without
// the matching flag, contributes nothing: the flags carry the union of
// evidence across merged duplicates while text fields keep whichever variant
// arrived first.
func TestScoreIgnoresDisplayText(t *testing.T) {
	cfg := testRules()
	rec := types.ResearcherRecord{
		Affiliation: "mimetas toxicology and safety",
		Location:    "boston",
	}
	if got := Score(rec, cfg); got != 0 {
		t.Errorf("Score = %d, want 0 from text without evidence flags", got)
	}
}
