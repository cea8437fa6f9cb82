package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestParseRawObservation(t *testing.T) {
	t.Run("ISO date row", func(t *testing.T) {
		raw := RawObservation{
			ID:   "USW00094846",
			Date: "2015-06-03",
			Prcp: "123",
			Snow: "0",
			Tmax: "211",
			Tmin: "94",
		}

		obs, err := ParseRawObservation(raw)

		require.NoError(t, err)
		assert.Equal(t, "USW00094846", obs.ID)
		assert.Equal(t, time.Date(2015, 6, 3, 0, 0, 0, 0, time.UTC), obs.Date)
		assert.Equal(t, 2015, obs.Year)
		assert.Equal(t, 6, obs.Month)
		assert.Equal(t, 3, obs.Day)
		require.NotNil(t, obs.Prcp)
		assert.Equal(t, 123.0, *obs.Prcp)
		require.NotNil(t, obs.Tmax)
		assert.Equal(t, 211.0, *obs.Tmax)
	})

	t.Run("compact NOAA date", func(t *testing.T) {
		raw := RawObservation{ID: "USC00519397", Date: "20091231"}
		obs, err := ParseRawObservation(raw)

		require.NoError(t, err)
		assert.Equal(t, 2009, obs.Year)
		assert.Equal(t, 12, obs.Month)
		assert.Equal(t, 31, obs.Day)
	})

	t.Run("malformed date is fatal", func(t *testing.T) {
		raw := RawObservation{ID: "X", Date: "not-a-date"}
		_, err := ParseRawObservation(raw)

		require.Error(t, err)
		var mde *MalformedDateError
		require.True(t, errors.As(err, &mde))
		assert.Contains(t, mde.Error(), "not-a-date")
	})

	t.Run("uncoercible fields become missing", func(t *testing.T) {
		raw := RawObservation{
			ID:   "X",
			Date: "2012-01-05",
			Prcp: "n/a",
			Snow: "",
			Tmax: "  77 ",
			Tmin: "abc",
		}

		obs, err := ParseRawObservation(raw)

		require.NoError(t, err)
		assert.Nil(t, obs.Prcp)
		assert.Nil(t, obs.Snow)
		assert.Nil(t, obs.Tmin)
		require.NotNil(t, obs.Tmax)
		assert.Equal(t, 77.0, *obs.Tmax)
	})

	t.Run("NOAA sentinel becomes missing", func(t *testing.T) {
		raw := RawObservation{ID: "X", Date: "2012-01-05", Tmax: "-9999"}
		obs, err := ParseRawObservation(raw)

		require.NoError(t, err)
		assert.Nil(t, obs.Tmax)
	})
}

func TestConvertUnits(t *testing.T) {
	obs := Observation{
		Prcp: fptr(123),
		Snow: fptr(40),
		Tmax: fptr(-55),
		Tmin: fptr(-120),
	}

	out := ConvertUnits(obs)

	require.NotNil(t, out.Prcp)
	assert.InDelta(t, 12.3, *out.Prcp, 1e-9)
	require.NotNil(t, out.Tmax)
	assert.InDelta(t, -5.5, *out.Tmax, 1e-9)
	require.NotNil(t, out.Tmin)
	assert.InDelta(t, -12.0, *out.Tmin, 1e-9)

	// Snow is never rescaled.
	require.NotNil(t, out.Snow)
	assert.Equal(t, 40.0, *out.Snow)

	// The input row is untouched.
	assert.Equal(t, 123.0, *obs.Prcp)
}

func TestConvertUnits_MissingStaysMissing(t *testing.T) {
	out := ConvertUnits(Observation{Snow: fptr(0)})

	assert.Nil(t, out.Prcp)
	assert.Nil(t, out.Tmax)
	assert.Nil(t, out.Tmin)
}

func TestObservation_Consistent(t *testing.T) {
	tests := []struct {
		name     string
		tmax     *float64
		tmin     *float64
		expected bool
	}{
		{"tmax above tmin", fptr(21.1), fptr(9.4), true},
		{"tmax equal tmin", fptr(10.0), fptr(10.0), false},
		{"tmax below tmin", fptr(5.0), fptr(9.0), false},
		{"tmax missing", nil, fptr(9.0), true},
		{"tmin missing", fptr(5.0), nil, true},
		{"both missing", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := Observation{Tmax: tt.tmax, Tmin: tt.tmin}
			assert.Equal(t, tt.expected, obs.Consistent())
		})
	}
}

func TestObservation_Clean(t *testing.T) {
	date := time.Date(2015, 6, 3, 0, 0, 0, 0, time.UTC)

	t.Run("complete row narrows", func(t *testing.T) {
		obs := Observation{
			ID: "USW00094846", Date: date, Year: 2015, Month: 6, Day: 3,
			Prcp: fptr(12.3), Snow: fptr(0), Tmax: fptr(21.1), Tmin: fptr(9.4),
		}

		clean, ok := obs.Clean()

		require.True(t, ok)
		assert.Equal(t, CleanObservation{
			ID: "USW00094846", Date: date, Year: 2015, Month: 6, Day: 3,
			Prcp: 12.3, Snow: 0, Tmax: 21.1, Tmin: 9.4,
		}, clean)
	})

	t.Run("missing field rejects", func(t *testing.T) {
		obs := Observation{
			ID: "X", Date: date,
			Prcp: fptr(1), Snow: fptr(0), Tmax: fptr(5), // Tmin missing
		}
		_, ok := obs.Clean()
		assert.False(t, ok)
	})

	t.Run("empty id rejects", func(t *testing.T) {
		obs := Observation{
			Date: date,
			Prcp: fptr(1), Snow: fptr(0), Tmax: fptr(5), Tmin: fptr(1),
		}
		_, ok := obs.Clean()
		assert.False(t, ok)
	})
}

func TestDecade(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		expected int
	}{
		{"mid decade", 2015, 2010},
		{"decade start", 2010, 2010},
		{"decade end", 2009, 2000},
		{"century boundary", 2000, 2000},
		{"nineteenth century", 1899, 1890},
		{"negative year floors", -5, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Decade(tt.year))
		})
	}
}
