package rawanim

import (
	"sort"
)

// SampleTrack evaluates a joint track at the given time using the shared
// interpolation laws. Empty curves produce the identity component: zero
// translation, identity rotation, unit scale. Times outside the key range
// clamp to the first or last key.
func SampleTrack(track *JointTrack, time float64) Transform {
	out := IdentityTransform()

	if n := len(track.Translations); n > 0 {
		left, right, alpha := locate(n, time, func(i int) float64 { return track.Translations[i].Time })
		out.Translation = LerpTranslation(track.Translations[left].Value, track.Translations[right].Value, alpha)
	}
	if n := len(track.Rotations); n > 0 {
		left, right, alpha := locate(n, time, func(i int) float64 { return track.Rotations[i].Time })
		out.Rotation = LerpRotation(track.Rotations[left].Value, track.Rotations[right].Value, alpha)
	}
	if n := len(track.Scales); n > 0 {
		left, right, alpha := locate(n, time, func(i int) float64 { return track.Scales[i].Time })
		out.Scale = LerpScale(track.Scales[left].Value, track.Scales[right].Value, alpha)
	}
	return out
}

// SamplePose evaluates every track of the animation at the given time.
func (a *Animation) SamplePose(time float64) []Transform {
	pose := make([]Transform, len(a.Tracks))
	for i := range a.Tracks {
		pose[i] = SampleTrack(&a.Tracks[i], time)
	}
	return pose
}

// locate finds the interpolation interval [left, right] bracketing time and
// the blend factor within it. Clamps outside the key range.
func locate(n int, time float64, at func(int) float64) (left, right int, alpha float64) {
	if time <= at(0) {
		return 0, 0, 0
	}
	if time >= at(n-1) {
		return n - 1, n - 1, 0
	}
	// First key with time strictly greater than the sample time.
	right = sort.Search(n, func(i int) bool { return at(i) > time })
	left = right - 1
	span := at(right) - at(left)
	alpha = (time - at(left)) / span
	return left, right, alpha
}
