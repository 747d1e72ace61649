// Package shuffle provides a seeded, deterministic permutation used for
// the daily rotation of curated content: the same seed always yields the
// same order, and the seed changes once per calendar day.
package shuffle

import "time"

// The permutation is driven by a classic linear congruential generator
// with the recurrence
//
//	state = (state*9301 + 49297) mod 233280
//
// These constants are fixed: the seed-to-order mapping must stay stable
// across runs, or "today's" curated order would change between requests.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// lcg is a deterministic pseudo-random source.
type lcg struct {
	state int64
}

func newLCG(seed int64) *lcg {
	// Normalize into [0, modulus) so negative seeds behave.
	state := ((seed % lcgModulus) + lcgModulus) % lcgModulus
	return &lcg{state: state}
}

// next returns the next value in [0, n).
func (g *lcg) next(n int) int {
	g.state = (g.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return int(g.state * int64(n) / lcgModulus)
}

// Shuffle returns a new slice with the items permuted by a Fisher-Yates
// pass driven by the seeded generator. It is a pure function: identical
// input and seed produce an identical order; the input is not modified.
func Shuffle[T any](items []T, seed int64) []T {
	out := make([]T, len(items))
	copy(out, items)

	g := newLCG(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := g.next(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// DailySeed derives the shuffle seed from a date by summing its numeric
// components, so the seed changes once per calendar day and is identical
// for every caller on the same day. Callers pass the clock in explicitly
// to keep the shuffle itself pure.
func DailySeed(t time.Time) int64 {
	return int64(t.Year()) + int64(t.Month()) + int64(t.Day())
}
