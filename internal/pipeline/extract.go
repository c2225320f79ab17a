// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

package pipeline

import (
	"regexp"
	"strings"

	"github.com/axiombio/lead-engine/internal/rules"
	"github.com/axiombio/lead-engine/pkg/types"
)

// emailRe matches an email token in already case-folded text.
var emailRe = regexp.MustCompile(`[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)

// Extract derives structured signals from a normalized record. It never
// fails: every field independently degrades to its unknown value when the
// source text carries no usable evidence.
//
// The scoring-relevant text matches (keyword, hub, similar-tech) are
// evaluated here, against this record's own text, so the merger can OR them
// across sightings whose affiliation variants differ.
func Extract(rec types.NormalizedRecord, cfg *rules.Config, currentYear int) types.ExtractedSignals {
	location := extractLocation(rec.Affiliation, cfg.HubLocations)
	role := inferRole(rec, cfg.RoleKeywords)

	return types.ExtractedSignals{
		SourceID:         rec.SourceID,
		Name:             rec.AuthorName,
		Affiliation:      rec.Affiliation,
		Email:            extractEmail(rec.Affiliation, cfg.EmailDenyDomains),
		Location:         location,
		Role:             role,
		KeywordMatch:     matchesAny(rec.Affiliation+" "+string(role), cfg.ScoringKeywords),
		HubMatch:         location != "" && matchesAny(location, cfg.HubLocations),
		SimilarTechMatch: matchesAny(rec.Affiliation, cfg.SimilarTechInstitutions),
		IsCorresponding:  rec.IsCorresponding,
		PublicationYear:  rec.PubYear,
		IsRecent:         rec.PubYear > 0 && rec.PubYear >= currentYear-cfg.RecencyWindowYears,
	}
}

// extractEmail returns the first syntactically valid address whose domain
// is not on the deny-list. When every candidate is a generic consumer-mail
// address the result is empty: no email beats a low-quality one.
func extractEmail(text string, denyDomains []string) string {
	for _, match := range emailRe.FindAllString(text, -1) {
		email := strings.Trim(match, ".")
		at := strings.LastIndex(email, "@")
		if at <= 0 || at == len(email)-1 {
			continue
		}
		if denied(email[at+1:], denyDomains) {
			continue
		}
		return email
	}
	return ""
}

func denied(domain string, denyDomains []string) bool {
	for _, d := range denyDomains {
		d = strings.ToLower(d)
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}

// extractLocation matches the affiliation against the configured hub list
// first, then falls back to a trailing "city, st" shape. Hub matches return
// the configured hub text so downstream comparisons are exact.
func extractLocation(affiliation string, hubs []string) string {
	for _, hub := range hubs {
		h := strings.ToLower(strings.TrimSpace(hub))
		if h != "" && strings.Contains(affiliation, h) {
			return h
		}
	}
	return trailingCityState(affiliation)
}

// trailingCityState looks for a "city, st" pair at the end of the
// affiliation: a two-letter segment preceded by a named segment. A trailing
// country word ("usa", "uk") or an embedded email is skipped first.
func trailingCityState(affiliation string) string {
	segs := strings.Split(affiliation, ",")
	for i := len(segs) - 1; i > 0; i-- {
		seg := strings.Trim(strings.TrimSpace(segs[i]), ".")
		if seg == "" || seg == "usa" || seg == "uk" || strings.Contains(seg, "@") {
			continue
		}
		if len(seg) != 2 || !isAlpha(seg) {
			return ""
		}
		city := strings.Trim(strings.TrimSpace(segs[i-1]), ".")
		if city == "" || strings.Contains(city, "@") {
			return ""
		}
		return city + ", " + seg
	}
	return ""
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// inferRole evaluates the ordered role keyword list against the affiliation
// and paper title. First match wins; no match yields RoleUnknown.
func inferRole(rec types.NormalizedRecord, keywords []rules.RoleKeyword) types.Role {
	for _, rk := range keywords {
		p := strings.ToLower(rk.Pattern)
		if strings.Contains(rec.Affiliation, p) || strings.Contains(rec.PaperTitle, p) {
			return rk.Role
		}
	}
	return types.RoleUnknown
}
