// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

package pipeline

import (
	"reflect"
	"testing"
	"time"

	"github.com/axiombio/lead-engine/internal/rules"
	"github.com/axiombio/lead-engine/pkg/types"
)

var fixedNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func TestRunEndToEnd(t *testing.T) {
	cfg := testRules()
	records := []types.RawRecord{
		{
			SourceID:        "40001",
			AuthorName:      "J. Reinhart",
			Affiliation:     "University of Illinois, Dept. of Toxicology. jreinha2@illinois.edu",
			PaperTitle:      "Hepatic spheroid screening",
			PubYear:         2026,
			IsCorresponding: false,
		},
		{
			// Same person, older paper, no email: merges into the record above.
			SourceID:    "40002",
			AuthorName:  "Dr. J. Reinhart",
			Affiliation: "University of Illinois, Dept. of Toxicology",
			PaperTitle:  "Microtissue models",
			PubYear:     2021,
		},
		{
			SourceID:    "40003",
			AuthorName:  "Ana Keller",
			Affiliation: "Safety Pharmacology, Roche, Basel, Switzerland",
			PaperTitle:  "In vitro liver panels",
			PubYear:     2020,
		},
		{
			// No author name: skipped, never a lead.
			SourceID:    "40004",
			Affiliation: "Somewhere",
		},
	}

	leads, summary, err := Run(records, cfg, fixedNow)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.RecordsIn != 4 || summary.Skipped != 1 || summary.DupsMerged != 1 || summary.Leads != 2 {
		t.Errorf("summary = %+v, want 4 in / 1 skipped / 1 merged / 2 leads", summary)
	}
	if summary.EmailsFound != 1 {
		t.Errorf("EmailsFound = %d, want 1", summary.EmailsFound)
	}

	// Reinhart: keyword (toxicology) +30, recent (2026) +40 = 70.
	// Keller: keyword (safety) +30, hub (basel) +10 = 40.
	if leads[0].Name != "J Reinhart" || leads[0].Score != 70 || leads[0].Rank != 1 {
		t.Errorf("lead 1 = %s score %d rank %d, want J Reinhart 70 1",
			leads[0].Name, leads[0].Score, leads[0].Rank)
	}
	if leads[1].Name != "Ana Keller" || leads[1].Score != 40 || leads[1].Rank != 2 {
		t.Errorf("lead 2 = %s score %d rank %d, want Ana Keller 40 2",
			leads[1].Name, leads[1].Score, leads[1].Rank)
	}

	// Merged evidence: the 2026 paper makes the researcher recent even
	// though the 2021 sighting was not, and both publications contribute.
	if !leads[0].HasRecentPaper {
		t.Error("merged lead lost recent-paper evidence")
	}
	if want := []string{"40001", "40002"}; !reflect.DeepEqual(leads[0].SourceIDs, want) {
		t.Errorf("SourceIDs = %v, want %v", leads[0].SourceIDs, want)
	}
	if leads[0].Email != "jreinha2@illinois.edu" {
		t.Errorf("Email = %q, want address from first sighting", leads[0].Email)
	}
}

// A rule configuration without scoring weights refuses to run before any
// record is processed.
func TestRunRejectsInvalidConfig(t *testing.T) {
	_, _, err := Run([]types.RawRecord{{AuthorName: "X Y"}}, &rules.Config{}, fixedNow)
	if err == nil {
		t.Fatal("Run accepted a config with no scoring weights")
	}

	if _, _, err := Run(nil, nil, fixedNow); err == nil {
		t.Fatal("Run accepted a nil config")
	}
}

func TestRunDeterministic(t *testing.T) {
	cfg := testRules()
	records := []types.RawRecord{
		{SourceID: "1", AuthorName: "B Author", Affiliation: "toxicology institute", PubYear: 2026},
		{SourceID: "2", AuthorName: "A Author", Affiliation: "toxicology institute", PubYear: 2026},
	}

	first, _, err := Run(records, cfg, fixedNow)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, _, err := Run(records, cfg, fixedNow)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Run output differs across repeated invocations")
	}
}

// Feeding the same two duplicate records in either order must produce the
// same score, even though only one of the affiliation variants carries the
// scoring keyword.
func TestRunScoreIndependentOfRecordOrder(t *testing.T) {
	cfg := testRules()
	a := types.RawRecord{
		SourceID:    "50001",
		AuthorName:  "R. Chen",
		Affiliation: "Stanford University School of Medicine",
		PubYear:     2026,
	}
	b := types.RawRecord{
		SourceID:    "50002",
		AuthorName:  "R. Chen",
		Affiliation: "Stanford Department of Toxicology",
		PubYear:     2021,
	}

	forward, _, err := Run([]types.RawRecord{a, b}, cfg, fixedNow)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	reverse, _, err := Run([]types.RawRecord{b, a}, cfg, fixedNow)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(forward) != 1 || len(reverse) != 1 {
		t.Fatalf("got %d and %d leads, want 1 merged lead each", len(forward), len(reverse))
	}
	if forward[0].Score != reverse[0].Score {
		t.Errorf("score depends on arrival order: %d vs %d", forward[0].Score, reverse[0].Score)
	}
	if forward[0].Score != 70 {
		t.Errorf("Score = %d, want 70 (keyword 30 + recent 40)", forward[0].Score)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	leads, summary, err := Run(nil, testRules(), fixedNow)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(leads) != 0 || summary.Leads != 0 {
		t.Errorf("empty batch produced %d leads", len(leads))
	}
}
