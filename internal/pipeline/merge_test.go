// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

package pipeline

import (
	"testing"

	"github.com/axiombio/lead-engine/pkg/types"
)

func TestIdentityKey(t *testing.T) {
	tests := []struct {
		name        string
		author      string
		affiliation string
		want        string
	}{
		{"plain", "jane smith", "harvard medical school", "jane smith|harvard"},
		{"skips generic tokens", "jane smith", "department of toxicology, university of x", "jane smith|toxicology"},
		{"empty affiliation", "jane smith", "", "jane smith|"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IdentityKey(tt.author, tt.affiliation); got != tt.want {
				t.Errorf("IdentityKey = %q, want %q", got, tt.want)
			}
		})
	}
}

// Two signal sets for the same person: one missing recency, one with a
// recent paper. Merged evidence ORs, so the researcher has a recent paper
// and appears exactly once.
func TestMergeORsBooleanEvidence(t *testing.T) {
	m := NewMerger()
	m.Add(types.ExtractedSignals{
		SourceID: "1", Name: "jane smith", Affiliation: "harvard medical school",
		IsRecent: false, IsCorresponding: true,
	})
	m.Add(types.ExtractedSignals{
		SourceID: "2", Name: "jane smith", Affiliation: "harvard medical school",
		IsRecent: true, IsCorresponding: false,
	})

	records := m.Records()
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	rec := records[0]
	if !rec.HasRecentPaper {
		t.Error("HasRecentPaper = false, want OR across merged evidence")
	}
	if !rec.WasEverCorresponding {
		t.Error("WasEverCorresponding = false, want OR across merged evidence")
	}
	if len(rec.SourceIDs) != 2 {
		t.Errorf("SourceIDs = %v, want both contributing publications", rec.SourceIDs)
	}
}

func TestMergeFirstNonEmptyWins(t *testing.T) {
	m := NewMerger()
	m.Add(types.ExtractedSignals{Name: "jane smith", Affiliation: "harvard", Email: "", Location: ""})
	m.Add(types.ExtractedSignals{Name: "jane smith", Affiliation: "harvard", Email: "js@hms.edu", Location: "boston"})
	m.Add(types.ExtractedSignals{Name: "jane smith", Affiliation: "harvard", Email: "other@hms.edu", Location: "cambridge"})

	rec := m.Records()[0]
	if rec.Email != "js@hms.edu" {
		t.Errorf("Email = %q, want first non-empty", rec.Email)
	}
	if rec.Location != "boston" {
		t.Errorf("Location = %q, want first non-empty", rec.Location)
	}
}

// A corresponding-author email supersedes an earlier non-corresponding one,
// but never the other way around.
func TestMergeCorrespondingEmailPreferred(t *testing.T) {
	m := NewMerger()
	m.Add(types.ExtractedSignals{Name: "j s", Affiliation: "x", Email: "first@uni.edu"})
	m.Add(types.ExtractedSignals{Name: "j s", Affiliation: "x", Email: "corr@uni.edu", IsCorresponding: true})
	m.Add(types.ExtractedSignals{Name: "j s", Affiliation: "x", Email: "late@uni.edu"})

	rec := m.Records()[0]
	if rec.Email != "corr@uni.edu" {
		t.Errorf("Email = %q, want corresponding-author address", rec.Email)
	}
}

func TestMergeRoleUpgradesToHigherRank(t *testing.T) {
	m := NewMerger()
	m.Add(types.ExtractedSignals{Name: "j s", Affiliation: "x", Role: types.RoleUnknown})
	m.Add(types.ExtractedSignals{Name: "j s", Affiliation: "x", Role: types.RoleResearcher})
	m.Add(types.ExtractedSignals{Name: "j s", Affiliation: "x", Role: types.RoleDirector})
	m.Add(types.ExtractedSignals{Name: "j s", Affiliation: "x", Role: types.RoleStudent})

	rec := m.Records()[0]
	if rec.Role != types.RoleDirector {
		t.Errorf("Role = %q, want highest rank seen", rec.Role)
	}
}

// Identical names with different affiliation fingerprints never merge.
// Duplicate leads are the accepted cost of avoiding false identity collisions.
func TestMergeConservative(t *testing.T) {
	m := NewMerger()
	m.Add(types.ExtractedSignals{Name: "jane smith", Affiliation: "harvard medical school"})
	m.Add(types.ExtractedSignals{Name: "jane smith", Affiliation: "stanford university"})

	if got := len(m.Records()); got != 2 {
		t.Errorf("len(records) = %d, want 2 distinct identities", got)
	}
}

// Arrival order may change which duplicate's weak fields win, but never the
// union of evidence, so never the score.
func TestMergeOrderIndependentEvidence(t *testing.T) {
	a := types.ExtractedSignals{Name: "j s", Affiliation: "x", IsRecent: true, Role: types.RoleResearcher}
	b := types.ExtractedSignals{Name: "j s", Affiliation: "x", IsCorresponding: true, Role: types.RoleDirector}

	forward := NewMerger()
	forward.Add(a)
	forward.Add(b)
	reverse := NewMerger()
	reverse.Add(b)
	reverse.Add(a)

	fr, rr := forward.Records()[0], reverse.Records()[0]
	if fr.HasRecentPaper != rr.HasRecentPaper ||
		fr.WasEverCorresponding != rr.WasEverCorresponding ||
		fr.Role != rr.Role {
		t.Errorf("evidence differs by arrival order:\nforward = %+v\nreverse = %+v", fr, rr)
	}
}

// The same person often appears under affiliation variants that share a
// fingerprint but differ in text ("stanford university school of medicine"
// vs "stanford department of toxicology"). Only one variant carries the
// scoring keyword; whichever arrives first becomes the display text, but the
// score must come out the same either way.
func TestMergeOrderIndependentScoreAcrossAffiliationVariants(t *testing.T) {
	cfg := testRules()
	plain := Extract(types.NormalizedRecord{
		AuthorName:  "r chen",
		Affiliation: "stanford university school of medicine",
		PubYear:     2026,
	}, cfg, 2026)
	keyword := Extract(types.NormalizedRecord{
		AuthorName:  "r chen",
		Affiliation: "stanford department of toxicology",
	}, cfg, 2026)

	forward := NewMerger()
	forward.Add(plain)
	forward.Add(keyword)
	reverse := NewMerger()
	reverse.Add(keyword)
	reverse.Add(plain)

	fr, rr := forward.Records()[0], reverse.Records()[0]
	if fr.Key != rr.Key {
		t.Fatalf("identity keys differ: %q vs %q", fr.Key, rr.Key)
	}
	if !fr.KeywordMatch || !rr.KeywordMatch {
		t.Error("keyword evidence lost for one arrival order")
	}
	if fs, rs := Score(fr, cfg), Score(rr, cfg); fs != rs {
		t.Errorf("score depends on arrival order: %d vs %d", fs, rs)
	} else if fs != 70 {
		t.Errorf("Score = %d, want 70 (keyword 30 + recent 40)", fs)
	}
}

func TestMergeCanonicalName(t *testing.T) {
	m := NewMerger()
	m.Add(types.ExtractedSignals{Name: "jane smith", Affiliation: "harvard"})
	if got := m.Records()[0].Name; got != "Jane Smith" {
		t.Errorf("Name = %q, want title-cased canonical form", got)
	}
}
