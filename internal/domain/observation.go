package domain

import "time"

// RawObservation is one station-day row exactly as read from the source
// table. Numeric fields stay strings until type coercion so that unparseable
// values can degrade to missing instead of failing the load.
type RawObservation struct {
	ID   string
	Date string
	Prcp string
	Snow string
	Tmax string
	Tmin string

	// Extra holds station metadata columns the pipeline does not use.
	// They are passed through untouched for callers that want them.
	Extra map[string]string
}

// Observation is the working row between cleaning stages. Nil numeric fields
// mean the value was missing or uncoercible in the source.
type Observation struct {
	ID    string
	Date  time.Time
	Year  int
	Month int
	Day   int
	Prcp  *float64
	Snow  *float64
	Tmax  *float64
	Tmin  *float64
}

// CleanObservation is a fully populated observation after unit conversion,
// consistency filtering and missing-value removal. All fields are comparable,
// so duplicate removal can key a map on the row value itself.
type CleanObservation struct {
	ID    string    `json:"id"`
	Date  time.Time `json:"date"`
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Day   int       `json:"day"`
	Prcp  float64   `json:"prcp"` // millimeters
	Snow  float64   `json:"snow"` // source units, unconverted
	Tmax  float64   `json:"tmax"` // degrees Celsius
	Tmin  float64   `json:"tmin"` // degrees Celsius
}

// YearlyAggregate is the per-year precipitation summary derived from the
// sampled observation set.
type YearlyAggregate struct {
	Year    int     `json:"year"`
	AvgPrcp float64 `json:"avg_prcp"`
	Decade  int     `json:"decade"`
}

// Consistent reports whether the row satisfies the physical consistency rule:
// tmax must exceed tmin whenever both are present. With either temperature
// missing the rule cannot be evaluated and the row passes.
func (o Observation) Consistent() bool {
	if o.Tmax == nil || o.Tmin == nil {
		return true
	}
	return *o.Tmax > *o.Tmin
}

// Complete reports whether every numeric field is present.
func (o Observation) Complete() bool {
	return o.Prcp != nil && o.Snow != nil && o.Tmax != nil && o.Tmin != nil
}

// Clean narrows a complete working row to a CleanObservation. The second
// return is false when any field is still missing.
func (o Observation) Clean() (CleanObservation, bool) {
	if !o.Complete() || o.ID == "" || o.Date.IsZero() {
		return CleanObservation{}, false
	}
	return CleanObservation{
		ID:    o.ID,
		Date:  o.Date,
		Year:  o.Year,
		Month: o.Month,
		Day:   o.Day,
		Prcp:  *o.Prcp,
		Snow:  *o.Snow,
		Tmax:  *o.Tmax,
		Tmin:  *o.Tmin,
	}, true
}

// Decade returns the ten-year bucket for a year using floored division, so
// 2015 -> 2010 and 2009 -> 2000.
func Decade(year int) int {
	d := year / 10
	if year < 0 && year%10 != 0 {
		d--
	}
	return d * 10
}
