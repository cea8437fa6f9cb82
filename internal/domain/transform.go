package domain

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the accepted date encodings, tried in order. NOAA exports
// use the compact form; notebook-style extracts use ISO.
var dateLayouts = []string{"2006-01-02", "20060102"}

// missingSentinel is the NOAA marker for an unreported element.
const missingSentinel = -9999

// ParseRawObservation turns a raw row into a working Observation: it parses
// the date, derives year/month/day, and coerces the numeric fields. A bad
// date is a fatal *MalformedDateError; a bad numeric field just becomes
// missing. Values are still in source units afterwards — see ConvertUnits.
func ParseRawObservation(raw RawObservation) (Observation, error) {
	date, err := parseDate(raw.Date)
	if err != nil {
		return Observation{}, err
	}

	return Observation{
		ID:    raw.ID,
		Date:  date,
		Year:  date.Year(),
		Month: int(date.Month()),
		Day:   date.Day(),
		Prcp:  coerceNumeric(raw.Prcp),
		Snow:  coerceNumeric(raw.Snow),
		Tmax:  coerceNumeric(raw.Tmax),
		Tmin:  coerceNumeric(raw.Tmin),
	}, nil
}

// parseDate tries each accepted layout in UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &MalformedDateError{Value: s}
}

// coerceNumeric parses a raw field as float64. Empty, unparseable, or
// sentinel values become missing (nil), never an error.
func coerceNumeric(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == missingSentinel {
		return nil
	}
	return &v
}

// ConvertUnits rescales the tenths-encoded fields to native units: prcp to
// millimeters, tmax/tmin to degrees Celsius. Snow is already in native units
// and passes through. Missing values stay missing.
func ConvertUnits(o Observation) Observation {
	o.Prcp = scaleTenths(o.Prcp)
	o.Tmax = scaleTenths(o.Tmax)
	o.Tmin = scaleTenths(o.Tmin)
	return o
}

// scaleTenths divides a present value by 10, returning a fresh pointer so the
// input row is never mutated.
func scaleTenths(v *float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := *v / 10
	return &scaled
}
