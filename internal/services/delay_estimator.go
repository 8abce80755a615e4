package services

import (
	"sort"

	"hazard-route-service/internal/domain"
)

// DelayEstimator converts a hazard snapshot into added travel minutes. It is
// pure: the table is copied at construction and never mutated.
type DelayEstimator struct {
	table map[domain.HazardCategory]domain.DelayRule
}

func NewDelayEstimator(table map[domain.HazardCategory]domain.DelayRule) *DelayEstimator {
	t := make(map[domain.HazardCategory]domain.DelayRule, len(table))
	for k, v := range table {
		t[k] = v
	}
	return &DelayEstimator{table: t}
}

// Estimate sums base + perSeverity*(severity-1) over every report. Reports of
// categories absent from the table add nothing. Contributions are grouped by
// display bucket and ordered by minutes, largest first.
func (e *DelayEstimator) Estimate(reports []domain.HazardReport) domain.DelayEstimate {
	buckets := make(map[domain.HazardCategory]*domain.CategoryDelay)
	total := 0

	for _, r := range reports {
		rule, ok := e.table[r.Category]
		if !ok {
			continue
		}
		minutes := rule.Minutes(r.ClampedSeverity())
		total += minutes

		key := r.Category.DisplayBucket()
		b, ok := buckets[key]
		if !ok {
			b = &domain.CategoryDelay{Category: key}
			buckets[key] = b
		}
		b.Minutes += minutes
		b.Reports++
	}

	contributions := make([]domain.CategoryDelay, 0, len(buckets))
	for _, b := range buckets {
		contributions = append(contributions, *b)
	}
	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].Minutes != contributions[j].Minutes {
			return contributions[i].Minutes > contributions[j].Minutes
		}
		return contributions[i].Category < contributions[j].Category
	})

	return domain.DelayEstimate{TotalMinutes: total, Contributions: contributions}
}
