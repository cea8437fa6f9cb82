package pipeline

import (
	"sort"

	"github.com/couchcryptid/weather-obs-pipeline/internal/domain"
)

// AggregateByYear groups the sampled rows by year and computes the mean
// precipitation per group plus the decade bucket. Missing values were removed
// upstream, so every row contributes to its year's mean. Output is ordered by
// ascending year, one row per distinct year.
func AggregateByYear(rows []domain.CleanObservation) []domain.YearlyAggregate {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, o := range rows {
		sums[o.Year] += o.Prcp
		counts[o.Year]++
	}

	years := make([]int, 0, len(sums))
	for y := range sums {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]domain.YearlyAggregate, 0, len(years))
	for _, y := range years {
		out = append(out, domain.YearlyAggregate{
			Year:    y,
			AvgPrcp: sums[y] / float64(counts[y]),
			Decade:  domain.Decade(y),
		})
	}
	return out
}
