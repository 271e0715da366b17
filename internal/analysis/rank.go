package analysis

import "sort"

// NamedSummary labels a scenario's summary for side-by-side comparison.
type NamedSummary struct {
	Name    string  `json:"name"`
	Summary Summary `json:"summary"`
}

// RankByWelfare sorts descending by community welfare; ties keep input order.
func RankByWelfare(in []NamedSummary) []NamedSummary {
	out := append([]NamedSummary(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Summary.Indexes.CommunityWelfare > out[j].Summary.Indexes.CommunityWelfare
	})
	return out
}
