// Package rawanim holds the editable keyframe representation of a skeletal
// animation, its validation rules, and the interpolation laws shared by the
// offline optimizer and the runtime sampler.
//
// The interpolation functions in this package are the single source of truth:
// decimation error bounds are only valid if playback reconstructs dropped keys
// with exactly these laws.
package rawanim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tiendc/go-deepcopy"
)

// TranslationKey is a (time, position) sample of a translation curve.
type TranslationKey struct {
	Time  float64
	Value mgl64.Vec3
}

// RotationKey is a (time, orientation) sample of a rotation curve. Values are
// expected to be unit quaternions.
type RotationKey struct {
	Time  float64
	Value mgl64.Quat
}

// ScaleKey is a (time, scale) sample of a scale curve.
type ScaleKey struct {
	Time  float64
	Value mgl64.Vec3
}

// JointTrack groups the three independently sized curves of one joint. Any
// curve may be empty; an empty scale curve means implicit uniform scale 1.
type JointTrack struct {
	Translations []TranslationKey
	Rotations    []RotationKey
	Scales       []ScaleKey
}

// KeyCount returns the total number of keys across the three curves.
func (t *JointTrack) KeyCount() int {
	return len(t.Translations) + len(t.Rotations) + len(t.Scales)
}

// Animation is a raw, uncompressed animation: a strictly positive duration in
// seconds and one track per skeleton joint, index aligned.
type Animation struct {
	Name     string
	Duration float64
	Tracks   []JointTrack
}

// NumTracks returns the track count.
func (a *Animation) NumTracks() int {
	return len(a.Tracks)
}

// KeyCount returns the total key count across all tracks and channels.
func (a *Animation) KeyCount() int {
	total := 0
	for i := range a.Tracks {
		total += a.Tracks[i].KeyCount()
	}
	return total
}

// Clone returns a deep copy of the animation.
func (a *Animation) Clone() (*Animation, error) {
	out := &Animation{}
	if err := deepcopy.Copy(out, a); err != nil {
		return nil, fmt.Errorf("clone animation: %w", err)
	}
	return out, nil
}

// Transform is a local translation/rotation/scale triple for one joint.
type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3
}

// IdentityTransform returns the rest transform: zero translation, identity
// rotation, unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}
