// Command genobs generates synthetic GHCN-Daily style CSV fixtures for local
// runs and test suites. The output mixes clean rows with the defect classes
// the pipeline must handle: missing values, the -9999 sentinel, physically
// inconsistent temperature pairs, exact duplicates, and compact dates.
//
// Usage:
//
//	go run ./cmd/genobs -out data/observations.csv -rows 20000 -seed 7
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var stations = []string{
	"USW00094846", "USC00519397", "USC00513117", "USW00022536",
	"USC00516128", "USW00094728", "USC00044534", "USW00023174",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	rows := flag.Int("rows", 20000, "number of data rows to generate")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *rows <= 0 {
		return fmt.Errorf("invalid -rows %d: want a positive integer", *rows)
	}

	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ID", "DATE", "PRCP", "SNOW", "TMAX", "TMIN", "NAME"}); err != nil {
		return err
	}

	stats := map[string]int{}
	var prev []string
	for i := 0; i < *rows; i++ {
		var row []string

		// Roughly one row in ten is an exact duplicate of its predecessor.
		if prev != nil && rng.Intn(10) == 0 {
			row = prev
			stats["duplicate"]++
		} else {
			row = generateRow(rng, stats)
		}

		if err := w.Write(row); err != nil {
			return err
		}
		prev = row
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	log.Printf("wrote %d rows to %s", *rows, *out)
	log.Printf("defects: duplicate=%d missing=%d sentinel=%d inconsistent=%d compact_date=%d",
		stats["duplicate"], stats["missing"], stats["sentinel"], stats["inconsistent"], stats["compact_date"])
	return nil
}

// generateRow produces one CSV row in source units: tenths of mm for
// precipitation, mm for snowfall, tenths of degrees Celsius for temperatures.
func generateRow(rng *rand.Rand, stats map[string]int) []string {
	station := stations[rng.Intn(len(stations))]
	date := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, rng.Intn(365*20))

	dateStr := date.Format("2006-01-02")
	if rng.Intn(20) == 0 {
		dateStr = date.Format("20060102")
		stats["compact_date"]++
	}

	tmin := rng.Intn(500) - 200 // -20.0°C .. 30.0°C in tenths
	tmax := tmin + 1 + rng.Intn(200)
	if rng.Intn(15) == 0 {
		// Physically impossible pair, removed by the consistency filter.
		tmax, tmin = tmin, tmax+rng.Intn(50)
		stats["inconsistent"]++
	}

	prcp := strconv.Itoa(rng.Intn(800))
	snow := strconv.Itoa(rng.Intn(100))
	tmaxStr := strconv.Itoa(tmax)
	tminStr := strconv.Itoa(tmin)

	switch rng.Intn(25) {
	case 0:
		prcp = ""
		stats["missing"]++
	case 1:
		tminStr = "-9999"
		stats["sentinel"]++
	case 2:
		snow = ""
		stats["missing"]++
	}

	return []string{station, dateStr, prcp, snow, tmaxStr, tminStr, "STATION " + station}
}
