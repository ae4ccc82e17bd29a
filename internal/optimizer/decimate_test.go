package optimizer

import (
	"math"
	"testing"
)

type scalarKey struct {
	time  float64
	value float64
}

func decimateScalars(src []scalarKey, tolerance float64) []scalarKey {
	return decimate(
		src,
		tolerance,
		func(k scalarKey) float64 { return k.time },
		func(k scalarKey) float64 { return k.value },
		func(interpolated, actual, tol float64) bool { return math.Abs(interpolated-actual) <= tol },
		func(a, b, alpha float64) float64 { return a + (b-a)*alpha },
	)
}

func times(keys []scalarKey) []float64 {
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = k.time
	}
	return out
}

func TestDecimateEmptyAndTiny(t *testing.T) {
	if got := decimateScalars(nil, 0.1); got != nil {
		t.Fatalf("nil input should stay nil, got %v", got)
	}
	one := []scalarKey{{0, 5}}
	if got := decimateScalars(one, 0.1); len(got) != 1 || got[0] != one[0] {
		t.Fatalf("single key must be retained: %v", got)
	}
	two := []scalarKey{{0, 5}, {1, 7}}
	if got := decimateScalars(two, 100); len(got) != 2 {
		t.Fatalf("both endpoints must be retained: %v", got)
	}
}

func TestDecimateDropsCollinearRun(t *testing.T) {
	src := []scalarKey{{0, 0}, {0.25, 1}, {0.5, 2}, {0.75, 3}, {1, 4}}
	got := decimateScalars(src, 1e-9)
	want := []float64{0, 1}
	if len(got) != len(want) {
		t.Fatalf("retained %v, want times %v", got, want)
	}
	for i, ts := range times(got) {
		if ts != want[i] {
			t.Fatalf("retained times %v, want %v", times(got), want)
		}
	}
}

func TestDecimateRetainsCorner(t *testing.T) {
	// Value ramps to 1 then holds; the corner at t=0.5 cannot be interpolated
	// across.
	src := []scalarKey{{0, 0}, {0.25, 0.5}, {0.5, 1}, {0.75, 1}, {1, 1}}
	got := decimateScalars(src, 0.01)
	retained := times(got)
	if retained[0] != 0 || retained[len(retained)-1] != 1 {
		t.Fatalf("endpoints missing: %v", retained)
	}
	found := false
	for _, ts := range retained {
		if ts == 0.5 {
			found = true
		}
	}
	if !found {
		t.Fatalf("corner key at 0.5 must be retained: %v", retained)
	}
}

func TestDecimateZeroToleranceKeepsInexactKeys(t *testing.T) {
	src := []scalarKey{{0, 0}, {0.3, 0.8}, {0.6, 0.1}, {1, 0.5}}
	got := decimateScalars(src, 0)
	if len(got) != len(src) {
		t.Fatalf("tolerance 0 should retain all %d keys, got %d", len(src), len(got))
	}
}

func TestDecimateIsMonotonic(t *testing.T) {
	src := []scalarKey{{0, 0}, {0.1, 2}, {0.2, -1}, {0.5, 4}, {0.7, 4.1}, {1, 0}}
	for _, tol := range []float64{0, 0.05, 0.5, 10} {
		got := decimateScalars(src, tol)
		if len(got) > len(src) {
			t.Fatalf("tolerance %v: output grew: %d > %d", tol, len(got), len(src))
		}
		if got[0] != src[0] || got[len(got)-1] != src[len(src)-1] {
			t.Fatalf("tolerance %v: endpoints not preserved: %v", tol, got)
		}
	}
}

func TestDecimateErrorBoundHolds(t *testing.T) {
	src := make([]scalarKey, 0, 21)
	for i := 0; i <= 20; i++ {
		ts := float64(i) / 20
		src = append(src, scalarKey{ts, math.Sin(ts * 6)})
	}
	const tol = 0.05
	got := decimateScalars(src, tol)

	// Reconstruct every original key from its retained neighbors.
	for _, orig := range src {
		left := got[0]
		right := got[len(got)-1]
		for _, k := range got {
			if k.time <= orig.time {
				left = k
			}
		}
		for i := len(got) - 1; i >= 0; i-- {
			if got[i].time >= orig.time {
				right = got[i]
			}
		}
		var rebuilt float64
		if left.time == right.time {
			rebuilt = left.value
		} else {
			alpha := (orig.time - left.time) / (right.time - left.time)
			rebuilt = left.value + (right.value-left.value)*alpha
		}
		if math.Abs(rebuilt-orig.value) > tol {
			t.Fatalf("key at t=%v reconstructs to %v, want within %v of %v", orig.time, rebuilt, tol, orig.value)
		}
	}
}
