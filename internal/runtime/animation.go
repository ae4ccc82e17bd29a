// Package runtime holds the packed playback form of an animation and the jobs
// that consume it: sampling local poses and composing them into model space.
//
// Playback reconstructs dropped keyframes with the interpolation laws from
// package rawanim, the same laws the offline optimizer validated against.
// Using any other blend here would silently void the optimizer's error bounds.
package runtime

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// channel is one packed curve: parallel time/value slices, times strictly
// increasing.
type channel[V any] struct {
	times  []float64
	values []V
}

func (c *channel[V]) empty() bool { return len(c.times) == 0 }

// track is the packed form of one joint's three curves.
type track struct {
	translations channel[mgl64.Vec3]
	rotations    channel[mgl64.Quat]
	scales       channel[mgl64.Vec3]
}

// Animation is an immutable, builder-packed animation ready for sampling.
//
// Every build gets a fresh BuildID. Sampling caches key off that ID rather
// than the pointer, so rebuilding an animation into recycled storage can never
// leave a cache trusting stale cursors.
type Animation struct {
	buildID  uuid.UUID
	name     string
	duration float64
	tracks   []track
}

// BuildID returns the identity assigned when the animation was packed.
func (a *Animation) BuildID() uuid.UUID { return a.buildID }

// Name returns the animation name carried over from the raw form.
func (a *Animation) Name() string { return a.name }

// Duration returns the playback length in seconds.
func (a *Animation) Duration() float64 { return a.duration }

// NumTracks returns the joint track count.
func (a *Animation) NumTracks() int { return len(a.tracks) }

// KeyCount returns the total packed key count across all tracks.
func (a *Animation) KeyCount() int {
	total := 0
	for i := range a.tracks {
		total += len(a.tracks[i].translations.times)
		total += len(a.tracks[i].rotations.times)
		total += len(a.tracks[i].scales.times)
	}
	return total
}
