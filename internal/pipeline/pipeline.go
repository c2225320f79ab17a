// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"time"

	"github.com/axiombio/lead-engine/internal/rules"
	"github.com/axiombio/lead-engine/pkg/types"
)

// Summary holds counts from one pipeline run.
type Summary struct {
	RecordsIn   int
	Skipped     int
	DupsMerged  int
	Leads       int
	EmailsFound int
}

// Run transforms a batch of raw records into the ranked lead list. The rule
// configuration is validated before any record is processed; beyond that
// nothing fails. Records with no usable author name are skipped and every
// other malformed field degrades to its unknown value.
func Run(records []types.RawRecord, cfg *rules.Config, now time.Time) ([]types.ScoredLead, Summary, error) {
	if cfg == nil {
		return nil, Summary{}, fmt.Errorf("rule configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, Summary{}, fmt.Errorf("invalid rule configuration: %w", err)
	}

	summary := Summary{RecordsIn: len(records)}
	currentYear := now.Year()

	merger := NewMerger()
	for _, raw := range records {
		rec := Normalize(raw)
		if rec.AuthorName == "" {
			summary.Skipped++
			continue
		}
		merger.Add(Extract(rec, cfg, currentYear))
	}

	merged := merger.Records()
	summary.DupsMerged = summary.RecordsIn - summary.Skipped - len(merged)

	leads := make([]types.ScoredLead, 0, len(merged))
	for _, rec := range merged {
		if rec.Email != "" {
			summary.EmailsFound++
		}
		leads = append(leads, types.ScoredLead{
			ResearcherRecord: rec,
			Score:            Score(rec, cfg),
		})
	}

	ranked := Rank(leads)
	summary.Leads = len(ranked)
	return ranked, summary, nil
}
