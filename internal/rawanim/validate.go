package rawanim

import (
	"errors"
	"fmt"
)

// ErrInvalid reports an animation that violates its structural invariants.
var ErrInvalid = errors.New("rawanim: invalid animation")

// Validate checks the animation's own invariants: duration strictly positive,
// every curve's key times strictly increasing and within [0, duration].
// Track/joint count agreement is the optimizer's concern, not the animation's.
func (a *Animation) Validate() error {
	if a.Duration <= 0 {
		return fmt.Errorf("%w: duration %v is not positive", ErrInvalid, a.Duration)
	}
	for i := range a.Tracks {
		track := &a.Tracks[i]
		if err := validateTimes(a.Duration, translationTimes(track.Translations)); err != nil {
			return fmt.Errorf("%w: track %d translations: %v", ErrInvalid, i, err)
		}
		if err := validateTimes(a.Duration, rotationTimes(track.Rotations)); err != nil {
			return fmt.Errorf("%w: track %d rotations: %v", ErrInvalid, i, err)
		}
		if err := validateTimes(a.Duration, scaleTimes(track.Scales)); err != nil {
			return fmt.Errorf("%w: track %d scales: %v", ErrInvalid, i, err)
		}
	}
	return nil
}

func validateTimes(duration float64, times []float64) error {
	previous := -1.0
	for i, t := range times {
		if t < 0 || t > duration {
			return fmt.Errorf("key %d time %v outside [0, %v]", i, t, duration)
		}
		if t <= previous {
			return fmt.Errorf("key %d time %v not after %v", i, t, previous)
		}
		previous = t
	}
	return nil
}

func translationTimes(keys []TranslationKey) []float64 {
	times := make([]float64, len(keys))
	for i := range keys {
		times[i] = keys[i].Time
	}
	return times
}

func rotationTimes(keys []RotationKey) []float64 {
	times := make([]float64, len(keys))
	for i := range keys {
		times[i] = keys[i].Time
	}
	return times
}

func scaleTimes(keys []ScaleKey) []float64 {
	times := make([]float64, len(keys))
	for i := range keys {
		times[i] = keys[i].Time
	}
	return times
}
