// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

// Package pipeline turns raw bibliographic records into a deduplicated,
// scored, ranked list of researcher leads. Stages run in order: normalize,
// extract, merge, score, rank. Every stage is a pure transformation; only
// the merger keeps state, and only within a single run.
package pipeline

import (
	"strings"
	"unicode"

	"github.com/axiombio/lead-engine/pkg/types"
)

// nameNoise lists academic titles and degrees stripped from author names.
// Matched as whole tokens after case-folding.
var nameNoise = map[string]bool{
	"dr":    true,
	"dr.":   true,
	"prof":  true,
	"prof.": true,
	"phd":   true,
	"ph.d":  true,
	"ph.d.": true,
	"md":    true,
	"m.d.":  true,
	"mr":    true,
	"mr.":   true,
	"mrs":   true,
	"mrs.":  true,
	"ms":    true,
	"ms.":   true,
}

// Normalize derives the canonical form of a raw record. It is total: empty
// or unparseable fields normalize to empty strings, never an error, and
// re-normalizing an already-normalized record is a no-op.
func Normalize(r types.RawRecord) types.NormalizedRecord {
	return types.NormalizedRecord{
		SourceID:        strings.TrimSpace(r.SourceID),
		AuthorName:      normalizeName(r.AuthorName),
		Affiliation:     normalizeText(r.Affiliation),
		PaperTitle:      normalizeText(r.PaperTitle),
		Journal:         normalizeText(r.Journal),
		PubYear:         r.PubYear,
		IsCorresponding: r.IsCorresponding,
		SearchTerm:      normalizeText(r.SearchTerm),
	}
}

// normalizeText case-folds, collapses whitespace, and strips bibliographic
// punctuation artifacts (brackets, quotes, semicolons). Characters that
// carry signal downstream survive: commas for "city, st" shapes, and the
// @ . - _ + set so embedded email addresses stay intact.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		case r == ',' || r == '.' || r == '@' || r == '-' || r == '_' || r == '+' || r == '&' || r == '/':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// normalizeName normalizes like normalizeText and additionally drops
// academic titles and degrees, so "Dr. Jane Q. Smith, PhD" and
// "jane q. smith" collapse to the same identity.
func normalizeName(s string) string {
	fields := strings.Fields(normalizeText(s))
	kept := fields[:0]
	for _, f := range fields {
		if nameNoise[strings.Trim(f, ",")] {
			continue
		}
		f = strings.Trim(f, ",.")
		if f == "" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// titleCase renders a normalized (lowercase) name for display, capitalizing
// the first letter of each token.
func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		r := []rune(f)
		r[0] = unicode.ToUpper(r[0])
		fields[i] = string(r)
	}
	return strings.Join(fields, " ")
}
