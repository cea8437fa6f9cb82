// Command validate runs the full cleaning pipeline over a CSV file and checks
// the output properties end to end: exact sample size, no duplicates, no
// missing values, physical temperature consistency, and yearly aggregate
// correctness. The yearly means are recomputed independently with a dataframe
// group-by and compared against the pipeline's own aggregation.
//
// Usage:
//
//	go run ./cmd/validate -input data/observations.csv -sample-size 10000 -seed 1
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"

	"github.com/couchcryptid/weather-obs-pipeline/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-obs-pipeline/internal/domain"
	"github.com/couchcryptid/weather-obs-pipeline/internal/observability"
	"github.com/couchcryptid/weather-obs-pipeline/internal/pipeline"
	"github.com/go-gota/gota/dataframe"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	input := flag.String("input", "", "path to the observations CSV file")
	sampleSize := flag.Int("sample-size", 10000, "number of rows to sample")
	seed := flag.Int64("seed", 1, "random seed for sampling")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*input, *sampleSize, *seed); code != 0 {
		os.Exit(code)
	}
}

func run(input string, sampleSize int, seed int64) int {
	logger := observability.NewLogger("warn", "text")

	fmt.Println("=== Observation Pipeline Validation ===")
	fmt.Println()

	reader := csvfile.NewReader(input, logger)
	raw, err := reader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}

	rng := rand.New(rand.NewSource(seed))
	p := pipeline.New(logger, observability.NewMetricsForTesting(), sampleSize, rng)
	result, err := p.Run(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: pipeline run: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateSample(result.Sample, sampleSize),
		validateAggregates(result.Sample, result.Aggregates),
		crossCheckMeans(result.Sample, result.Aggregates),
	}

	fmt.Println()
	allPassed := true
	for _, ph := range phases {
		status := "\033[32mPASS\033[0m"
		if !ph.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(ph.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", ph.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d raw, %d sampled, %d aggregate years\n",
		len(raw), len(result.Sample), len(result.Aggregates))

	for _, ph := range phases {
		if ph.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", ph.name)
		for i, e := range ph.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Sample Properties ──
// Exact size, no duplicates, consistent temperatures, coherent date fields.

func validateSample(sample []domain.CleanObservation, want int) *phase {
	p := &phase{name: "Phase 1: Sample Properties"}

	if len(sample) != want {
		p.errorf("sample size: expected exactly %d, got %d", want, len(sample))
	}

	seen := map[domain.CleanObservation]int{}
	for i, o := range sample {
		if j, dup := seen[o]; dup {
			p.errorf("rows %d and %d are identical (%s %s)", j, i, o.ID, o.Date.Format("2006-01-02"))
			continue
		}
		seen[o] = i

		if o.ID == "" {
			p.errorf("row %d: empty station ID", i)
		}
		if o.Tmax <= o.Tmin {
			p.errorf("row %d (%s): tmax %.1f <= tmin %.1f", i, o.ID, o.Tmax, o.Tmin)
		}
		if o.Date.Year() != o.Year || int(o.Date.Month()) != o.Month || o.Date.Day() != o.Day {
			p.errorf("row %d (%s): date %s disagrees with year=%d month=%d day=%d",
				i, o.ID, o.Date.Format("2006-01-02"), o.Year, o.Month, o.Day)
		}
		if o.Prcp < 0 || o.Snow < 0 {
			p.errorf("row %d (%s): negative precipitation or snowfall", i, o.ID)
		}
	}
	return p
}

// ── Phase 2: Aggregate Structure ──
// One row per sampled year, ascending order, floored decades.

func validateAggregates(sample []domain.CleanObservation, aggs []domain.YearlyAggregate) *phase {
	p := &phase{name: "Phase 2: Aggregate Structure"}

	sampleYears := map[int]bool{}
	for _, o := range sample {
		sampleYears[o.Year] = true
	}

	aggYears := map[int]bool{}
	for i, a := range aggs {
		if aggYears[a.Year] {
			p.errorf("year %d appears more than once", a.Year)
		}
		aggYears[a.Year] = true

		if i > 0 && aggs[i-1].Year >= a.Year {
			p.errorf("years not strictly ascending at index %d (%d then %d)", i, aggs[i-1].Year, a.Year)
		}
		if want := domain.Decade(a.Year); a.Decade != want {
			p.errorf("year %d: decade %d, expected %d", a.Year, a.Decade, want)
		}
		if !sampleYears[a.Year] {
			p.errorf("year %d has an aggregate but no sampled rows", a.Year)
		}
	}

	for y := range sampleYears {
		if !aggYears[y] {
			p.errorf("year %d is sampled but has no aggregate row", y)
		}
	}
	return p
}

// ── Phase 3: Mean Cross-Check ──
// Recomputes the per-year precipitation means with a dataframe group-by and
// compares them against the pipeline's aggregates.

type sampleRow struct {
	Year int
	Prcp float64
}

func crossCheckMeans(sample []domain.CleanObservation, aggs []domain.YearlyAggregate) *phase {
	p := &phase{name: "Phase 3: Mean Cross-Check (dataframe)"}

	rows := make([]sampleRow, len(sample))
	for i, o := range sample {
		rows[i] = sampleRow{Year: o.Year, Prcp: o.Prcp}
	}

	df := dataframe.LoadStructs(rows)
	if df.Err != nil {
		p.errorf("load dataframe: %v", df.Err)
		return p
	}

	means := df.GroupBy("Year").Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_MEAN},
		[]string{"Prcp"},
	)
	if means.Err != nil {
		p.errorf("group-by aggregation: %v", means.Err)
		return p
	}

	yearCol := means.Col("Year")
	meanCol := means.Col("Prcp_MEAN")

	got := map[int]float64{}
	for i := 0; i < means.Nrow(); i++ {
		got[int(yearCol.Elem(i).Float())] = meanCol.Elem(i).Float()
	}

	want := map[int]float64{}
	for _, a := range aggs {
		want[a.Year] = a.AvgPrcp
	}

	years := make([]int, 0, len(want))
	for y := range want {
		years = append(years, y)
	}
	sort.Ints(years)

	for _, y := range years {
		mean, ok := got[y]
		if !ok {
			p.errorf("year %d missing from dataframe group-by", y)
			continue
		}
		if math.Abs(mean-want[y]) > 1e-6 {
			p.errorf("year %d: pipeline mean %.6f, dataframe mean %.6f", y, want[y], mean)
		}
	}
	for y := range got {
		if _, ok := want[y]; !ok {
			p.errorf("year %d in dataframe group-by but not in aggregates", y)
		}
	}
	return p
}
