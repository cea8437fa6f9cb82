package pipeline

import (
	"fmt"
	"math/rand"

	"github.com/couchcryptid/weather-obs-pipeline/internal/domain"
)

// InsufficientDataError reports that cleaning left fewer rows than the
// requested sample size. It is fatal: returning a short sample silently would
// skew every downstream aggregate, so the run aborts instead.
type InsufficientDataError struct {
	Have int
	Want int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d clean rows available, need %d for sampling", e.Have, e.Want)
}

// Sample draws exactly n rows uniformly at random without replacement, using
// the caller's random source so runs are reproducible under a fixed seed. The
// input slice is never reordered; the draw order becomes the output order.
func Sample(rows []domain.CleanObservation, n int, rng *rand.Rand) ([]domain.CleanObservation, error) {
	if len(rows) < n {
		return nil, &InsufficientDataError{Have: len(rows), Want: n}
	}

	out := make([]domain.CleanObservation, 0, n)
	for _, i := range rng.Perm(len(rows))[:n] {
		out = append(out, rows[i])
	}
	return out, nil
}
