// Package domain models daily surface weather observations in the GHCN
// (Global Historical Climatology Network) style.
//
// # Data Source
//
// Observations arrive as one row per station per day, exported from the NOAA
// daily summaries as a wide CSV: station identifier, calendar date, and the
// four core elements PRCP, SNOW, TMAX, TMIN. Any further station metadata
// columns are carried through untouched.
//
// # Encoding Conventions
//
// Units:
//
//	PRCP is recorded in tenths of millimeters: raw 123 = 12.3 mm.
//	TMAX and TMIN are recorded in tenths of degrees Celsius: raw -55 = -5.5 °C.
//	SNOW is already in native units (mm) and is never rescaled.
//
// Dates:
//
//	Either ISO "2006-01-02" or the compact NOAA form "20060102". Anything
//	else is a fatal [MalformedDateError], because the year/month/day
//	derivation that all downstream grouping depends on cannot proceed.
//
// Missing values:
//
//	Numeric fields that are empty or not parseable as a number are missing,
//	represented as nil pointers. Missing is not an error at parse time; rows
//	with any missing field are removed by a later pipeline stage. The NOAA
//	sentinel "-9999" used by some exports also maps to missing rather than
//	being kept as a real measurement.
//
// # Physical Consistency
//
// A day's maximum temperature must exceed its minimum. Rows where both
// temperatures are present and TMAX <= TMIN are physically impossible and are
// discarded. When either temperature is missing the rule cannot be evaluated
// and the row passes; the missing-value removal that runs afterwards is what
// actually drops it. See [Observation.Consistent].
//
// # Decades
//
// A decade is the ten-year bucket floor(year/10)*10: 2015 -> 2010,
// 2009 -> 2000. See [Decade].
package domain
