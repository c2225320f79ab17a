// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

package pipeline

import (
	"sort"

	"github.com/axiombio/lead-engine/pkg/types"
)

// Rank orders scored leads into the final list: score descending, then
// recent-paper evidence, then canonical name ascending, so equal scores
// still land in a deterministic total order. Ranks are assigned 1..N with
// no gaps; tied scores get consecutive ranks, never shared ones.
func Rank(leads []types.ScoredLead) []types.ScoredLead {
	ranked := make([]types.ScoredLead, len(leads))
	copy(ranked, leads)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].HasRecentPaper != ranked[j].HasRecentPaper {
			return ranked[i].HasRecentPaper
		}
		return ranked[i].Name < ranked[j].Name
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
