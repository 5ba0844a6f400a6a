package output

import (
	"time"

	"github.com/ktanaka/fireplan/internal/domain"
)

// Report bundles everything a formatter may render. Bands is nil for purely
// deterministic runs; Warnings carries non-fatal plan findings such as
// expense coverage gaps.
type Report struct {
	GeneratedAt time.Time                     `json:"generatedAt"`
	Warnings    []string                      `json:"warnings,omitempty"`
	Result      *domain.FireCalculationResult `json:"result"`
	Bands       []domain.PercentileBand       `json:"bands,omitempty"`
}

// NewReport stamps a report with the current time.
func NewReport(result *domain.FireCalculationResult, bands []domain.PercentileBand, warnings []string) *Report {
	return &Report{
		GeneratedAt: time.Now(),
		Warnings:    warnings,
		Result:      result,
		Bands:       bands,
	}
}

// band returns the band at the given percentile, or nil.
func (r *Report) band(percentile int) *domain.PercentileBand {
	for i := range r.Bands {
		if r.Bands[i].Percentile == percentile {
			return &r.Bands[i]
		}
	}
	return nil
}
