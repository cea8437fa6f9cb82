package csvfile

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `STATION,NAME,DATE,PRCP,SNOW,TMAX,TMIN
USW00094846,"CHICAGO OHARE, IL US",2015-06-03,123,0,211,94
USC00519397,"WAIKIKI, HI US",2015-06-04,,0,302,224
`

func TestParse(t *testing.T) {
	rows, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "USW00094846", first.ID)
	assert.Equal(t, "2015-06-03", first.Date)
	assert.Equal(t, "123", first.Prcp)
	assert.Equal(t, "0", first.Snow)
	assert.Equal(t, "211", first.Tmax)
	assert.Equal(t, "94", first.Tmin)
	assert.Equal(t, "CHICAGO OHARE, IL US", first.Extra["NAME"])

	// Missing numeric cells stay empty strings; coercion happens downstream.
	assert.Equal(t, "", rows[1].Prcp)
}

func TestParse_LowercaseIDHeader(t *testing.T) {
	rows, err := Parse(strings.NewReader("id,date,prcp,snow,tmax,tmin\nX,2012-01-05,1,0,20,10\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "X", rows[0].ID)
	assert.Empty(t, rows[0].Extra)
}

func TestParse_ShortRow(t *testing.T) {
	rows, err := Parse(strings.NewReader("STATION,DATE,PRCP,SNOW,TMAX,TMIN\nX,2012-01-05,1\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].Prcp)
	assert.Equal(t, "", rows[0].Tmin)
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("STATION,PRCP\nX,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing required column "date"`)
}

func TestParse_NoDataRows(t *testing.T) {
	_, err := Parse(strings.NewReader("STATION,DATE\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestReader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	rows, err := NewReader(path, slog.Default()).Load()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReader_Load_MissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "absent.csv"), slog.Default()).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open observations file")
}
