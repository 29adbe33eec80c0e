package model

import (
	"regexp"
	"strings"
)

var bracketedGroup = regexp.MustCompile(`\[([^\[\]]+)\]`)

// ClusterAnalyzer resolves each row's cluster group and decides which
// clusters are large enough to earn the rank-improvement boost.
type ClusterAnalyzer struct {
	minPages int
	sentinel string
}

// NewClusterAnalyzer creates a cluster analyzer from the given policy.
func NewClusterAnalyzer(policy Policy) *ClusterAnalyzer {
	return &ClusterAnalyzer{
		minPages: policy.ClusterMinPages,
		sentinel: policy.NoClusterSentinel,
	}
}

// ResolveGroup returns the row's cluster group: the explicit column when
// present, else the first bracketed substring of the assigned page, else
// the no-cluster sentinel.
func (a *ClusterAnalyzer) ResolveGroup(row KeywordRow) string {
	if group := strings.TrimSpace(row.ClusterGroup); group != "" {
		return group
	}
	if match := bracketedGroup.FindStringSubmatch(row.AssignedPage); match != nil {
		if group := strings.TrimSpace(match[1]); group != "" {
			return group
		}
	}
	return a.sentinel
}

// Annotate returns a copy of rows with every ClusterGroup resolved.
// Input rows are not mutated.
func (a *ClusterAnalyzer) Annotate(rows []KeywordRow) []KeywordRow {
	annotated := make([]KeywordRow, len(rows))
	for i, row := range rows {
		row.ClusterGroup = a.ResolveGroup(row)
		annotated[i] = row
	}
	return annotated
}

// Eligibility reports, per cluster group, whether the group qualifies for
// the cluster boost: at least minPages distinct assigned pages and not
// the no-cluster sentinel. Rows must already be annotated.
func (a *ClusterAnalyzer) Eligibility(rows []KeywordRow) map[string]bool {
	pagesByGroup := make(map[string]map[string]struct{})
	for _, row := range rows {
		pages, ok := pagesByGroup[row.ClusterGroup]
		if !ok {
			pages = make(map[string]struct{})
			pagesByGroup[row.ClusterGroup] = pages
		}
		pages[row.AssignedPage] = struct{}{}
	}

	eligible := make(map[string]bool, len(pagesByGroup))
	for group, pages := range pagesByGroup {
		eligible[group] = group != a.sentinel && len(pages) >= a.minPages
	}
	return eligible
}
