package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Profile names a refresh-timing preset used by headless simulations.
type Profile string

const (
	ProfileSteady Profile = "steady" // every refresh exactly on time
	ProfileJitter Profile = "jitter" // random spread around the interval
	ProfileStall  Profile = "stall"  // periodic long frames, like GC pauses
	ProfileSlow   Profile = "slow"   // refresh slower than the fixed step
)

// ProfileSpec describes the frame deltas a profile produces.
type ProfileSpec struct {
	// RateScale multiplies the configured refresh rate.
	RateScale float64
	// Jitter is the maximum relative deviation of each delta, 0..1.
	Jitter float64
	// StallEvery inserts a stall every N frames; 0 disables stalls.
	StallEvery int
	// Stall is the length of a stalled frame.
	Stall time.Duration
}

// Profiles maps every known preset to its timing.
var Profiles = map[Profile]ProfileSpec{
	ProfileSteady: {RateScale: 1},
	ProfileJitter: {RateScale: 1, Jitter: 0.5},
	ProfileStall:  {RateScale: 1, Jitter: 0.1, StallEvery: 120, Stall: 400 * time.Millisecond},
	ProfileSlow:   {RateScale: 0.25},
}

// ParseProfile resolves a profile name, case-insensitively.
func ParseProfile(name string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := Profiles[p]; !ok {
		return "", fmt.Errorf("config: unknown profile %q (want one of %s)", name, strings.Join(ProfileNames(), ", "))
	}
	return p, nil
}

// ProfileNames returns the preset names in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(Profiles))
	for p := range Profiles {
		names = append(names, string(p))
	}
	slices.Sort(names)
	return names
}

// ApplyProfile switches the simulation to the named preset.
func ApplyProfile(cfg *Config, p Profile) {
	cfg.Simulation.Profile = p
}
