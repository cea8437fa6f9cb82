package pipeline

import (
	"fmt"

	"github.com/couchcryptid/weather-obs-pipeline/internal/domain"
)

// ParseAll derives date parts and coerces numeric fields for every raw row.
// Precondition: none. Postcondition: every returned row has a valid date and
// year/month/day set; numeric fields may be nil (missing).
// The first unparseable date aborts the whole stage.
func ParseAll(raw []domain.RawObservation) ([]domain.Observation, error) {
	out := make([]domain.Observation, 0, len(raw))
	for i, r := range raw {
		obs, err := domain.ParseRawObservation(r)
		if err != nil {
			return nil, fmt.Errorf("row %d (station %s): %w", i, r.ID, err)
		}
		out = append(out, obs)
	}
	return out, nil
}

// ConvertAll rescales tenths-encoded fields on every row.
// Precondition: rows hold source-unit values. Postcondition: prcp is in mm,
// tmax/tmin in °C, snow untouched; row count unchanged.
func ConvertAll(rows []domain.Observation) []domain.Observation {
	out := make([]domain.Observation, 0, len(rows))
	for _, o := range rows {
		out = append(out, domain.ConvertUnits(o))
	}
	return out
}

// FilterConsistent drops rows where both temperatures are present and
// tmax <= tmin. Precondition: values are unit-converted. Postcondition: every
// surviving row with both temperatures satisfies tmax > tmin; rows missing a
// temperature survive untouched. This stage must run before DropMissing.
func FilterConsistent(rows []domain.Observation) []domain.Observation {
	out := make([]domain.Observation, 0, len(rows))
	for _, o := range rows {
		if o.Consistent() {
			out = append(out, o)
		}
	}
	return out
}

// DropMissing removes rows with any missing field and narrows the survivors
// to CleanObservation. Precondition: consistency filtering already ran.
// Postcondition: every returned row is fully populated.
func DropMissing(rows []domain.Observation) []domain.CleanObservation {
	out := make([]domain.CleanObservation, 0, len(rows))
	for _, o := range rows {
		if clean, ok := o.Clean(); ok {
			out = append(out, clean)
		}
	}
	return out
}

// Deduplicate keeps the first occurrence of each fully identical row,
// preserving input order. Postcondition: no two returned rows are field-wise
// equal.
func Deduplicate(rows []domain.CleanObservation) []domain.CleanObservation {
	seen := make(map[domain.CleanObservation]struct{}, len(rows))
	out := make([]domain.CleanObservation, 0, len(rows))
	for _, o := range rows {
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}
