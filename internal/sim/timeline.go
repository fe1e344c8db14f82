package sim

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/frameloop/internal/config"
	"github.com/vovakirdan/frameloop/internal/refresh"
)

// Timeline produces the refresh deltas of a timing profile. Same spec, rate
// and seed always yield the same sequence.
type Timeline struct {
	spec     config.ProfileSpec
	interval time.Duration
	rng      *rand.Rand
	frame    int
}

// NewTimeline creates a timeline for spec at the given refresh rate in Hz.
func NewTimeline(spec config.ProfileSpec, rate int, seed int64) *Timeline {
	scale := spec.RateScale
	if scale <= 0 {
		scale = 1
	}
	return &Timeline{
		spec:     spec,
		interval: time.Duration(float64(refresh.Interval(rate)) / scale),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Interval returns the nominal refresh interval.
func (t *Timeline) Interval() time.Duration {
	return t.interval
}

// Next returns the delta until the next refresh. Never negative.
func (t *Timeline) Next() time.Duration {
	t.frame++
	if t.spec.StallEvery > 0 && t.frame%t.spec.StallEvery == 0 {
		return t.spec.Stall
	}

	d := t.interval
	if t.spec.Jitter > 0 {
		// Uniform in [1-jitter, 1+jitter] of the interval
		f := 1 + t.spec.Jitter*(2*t.rng.Float64()-1)
		d = time.Duration(float64(d) * f)
	}
	return max(d, 0)
}
