// Package notify defines the notification interface and implementations
// for announcing promising manifest analyses.
package notify

import (
	"context"
	"slices"
	"strings"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// maxCategories is how many categories a payload carries, by estimated value.
const maxCategories = 3

// AnalysisPayload contains the data needed to announce a stored analysis.
type AnalysisPayload struct {
	ManifestID     string
	FileName       string
	URL            string
	Action         domain.RecommendedAction
	ValidItems     int
	TotalItems     int
	RetailValue    float64
	ExpectedProfit float64
	AverageROI     float64
	Confidence     float64
	HighRiskItems  int
	TopCategories  []domain.CategoryBreakdown
}

// PayloadFrom builds a payload from a completed analysis. When baseURL is
// set, URL points at the analysis resource under it.
func PayloadFrom(a *domain.ManifestAnalysis, baseURL string) AnalysisPayload {
	p := AnalysisPayload{
		ManifestID:     a.ManifestID,
		FileName:       a.FileName,
		Action:         a.ExecutiveSummary.RecommendedAction,
		ValidItems:     a.ValidItems,
		TotalItems:     a.TotalItems,
		RetailValue:    a.TotalRetailValue,
		ExpectedProfit: a.ExecutiveSummary.ExpectedProfit,
		AverageROI:     a.ExecutiveSummary.AverageROI,
		Confidence:     a.ExecutiveSummary.ConfidenceScore,
		HighRiskItems:  a.ExecutiveSummary.HighRiskItems,
	}
	if baseURL != "" {
		p.URL = strings.TrimRight(baseURL, "/") + "/api/v1/manifests/" + a.ManifestID
	}

	cats := slices.Clone(a.Categories)
	slices.SortStableFunc(cats, func(x, y domain.CategoryBreakdown) int {
		switch {
		case x.EstimatedValue > y.EstimatedValue:
			return -1
		case x.EstimatedValue < y.EstimatedValue:
			return 1
		default:
			return 0
		}
	})
	p.TopCategories = cats[:min(len(cats), maxCategories)]

	return p
}

// Notifier defines the interface for sending analysis notifications.
type Notifier interface {
	NotifyAnalysis(ctx context.Context, p *AnalysisPayload) error
}

// actionRank orders recommendations from weakest to strongest.
var actionRank = map[domain.RecommendedAction]int{
	domain.ActionPass:      0,
	domain.ActionConsider:  1,
	domain.ActionBuy:       2,
	domain.ActionStrongBuy: 3,
}

// ParseAction maps a recommendation name onto the closed set,
// case-insensitively.
func ParseAction(s string) (domain.RecommendedAction, bool) {
	for a := range actionRank {
		if strings.EqualFold(strings.TrimSpace(s), string(a)) {
			return a, true
		}
	}
	return "", false
}

// MeetsThreshold reports whether action is at least as strong as minAction.
func MeetsThreshold(action, minAction domain.RecommendedAction) bool {
	got, ok := actionRank[action]
	if !ok {
		return false
	}
	return got >= actionRank[minAction]
}
