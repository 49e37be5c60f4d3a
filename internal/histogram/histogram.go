// Package histogram buckets signed timing errors for display.
//
// Bins span [-tolerance, +tolerance] and are sign inverted: late inputs, which
// have a negative error, land in the high bins.
package histogram

import (
	"fmt"
	"time"
)

// Limits keep 2 * tolerance * bins inside int64
const (
	MaxTolerance = time.Hour
	MaxBins      = 10001
)

type Histogram struct {
	tolerance time.Duration
	bins      int
}

type Bins struct {
	Counts []int
	Max    int
}

// New requires an odd number of bins so that zero error has its own center bin
func New(tolerance time.Duration, bins int) (*Histogram, error) {
	if tolerance <= 0 || tolerance > MaxTolerance {
		return nil, fmt.Errorf("tolerance must be positive and at most %v, got %v", MaxTolerance, tolerance)
	}
	if bins < 1 || bins%2 == 0 || bins > MaxBins {
		return nil, fmt.Errorf("bin count must be odd and between 1 and %d, got %d", MaxBins, bins)
	}
	return &Histogram{tolerance: tolerance, bins: bins}, nil
}

func (h *Histogram) Len() int {
	return h.bins
}

// Bin returns the index of the bin an error falls in
func (h *Histogram) Bin(err time.Duration) int {
	if err > h.tolerance {
		err = h.tolerance
	} else if err < -h.tolerance {
		err = -h.tolerance
	}
	idx := int(int64(h.tolerance-err) * int64(h.bins) / int64(2*h.tolerance))
	if idx >= h.bins {
		idx = h.bins - 1
	}
	return idx
}

// Compute counts errs from scratch
func (h *Histogram) Compute(errs []time.Duration) Bins {
	b := Bins{Counts: make([]int, h.bins)}
	for _, e := range errs {
		idx := h.Bin(e)
		b.Counts[idx]++
		if b.Counts[idx] > b.Max {
			b.Max = b.Counts[idx]
		}
	}
	return b
}
