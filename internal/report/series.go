// Package report projects pipeline results into the flat series shapes the
// external charting frontend consumes. It never recomputes anything; each
// series is a field projection of the sampled set or the yearly aggregates.
package report

import (
	"time"

	"github.com/couchcryptid/weather-obs-pipeline/internal/domain"
)

// ScatterPoint is one sampled observation for the precipitation/snowfall
// scatter chart.
type ScatterPoint struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	Prcp float64   `json:"prcp"`
	Snow float64   `json:"snow"`
}

// BoxPoint is one sampled observation for the per-year temperature box plot.
type BoxPoint struct {
	Year int     `json:"year"`
	Tmax float64 `json:"tmax"`
	Tmin float64 `json:"tmin"`
}

// BarPoint is one yearly aggregate for the mean-precipitation bar chart,
// colored by decade.
type BarPoint struct {
	Year    int     `json:"year"`
	AvgPrcp float64 `json:"avg_prcp"`
	Decade  int     `json:"decade"`
}

// Scatter projects the sampled set for the scatter chart.
func Scatter(sample []domain.CleanObservation) []ScatterPoint {
	out := make([]ScatterPoint, 0, len(sample))
	for _, o := range sample {
		out = append(out, ScatterPoint{ID: o.ID, Date: o.Date, Prcp: o.Prcp, Snow: o.Snow})
	}
	return out
}

// Box projects the sampled set for the box plot.
func Box(sample []domain.CleanObservation) []BoxPoint {
	out := make([]BoxPoint, 0, len(sample))
	for _, o := range sample {
		out = append(out, BoxPoint{Year: o.Year, Tmax: o.Tmax, Tmin: o.Tmin})
	}
	return out
}

// Bar projects the yearly aggregates for the bar chart.
func Bar(aggregates []domain.YearlyAggregate) []BarPoint {
	out := make([]BarPoint, 0, len(aggregates))
	for _, a := range aggregates {
		out = append(out, BarPoint{Year: a.Year, AvgPrcp: a.AvgPrcp, Decade: a.Decade})
	}
	return out
}
