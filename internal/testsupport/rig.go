package testsupport

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"animopt/internal/rawanim"
	"animopt/internal/skeleton"
)

// ChainSkeleton builds a single chain of joints rooted at index 0, with the
// last joint marked as a leaf.
func ChainSkeleton(names ...string) *skeleton.Skeleton {
	skel := &skeleton.Skeleton{Joints: make([]skeleton.Joint, len(names))}
	for i, name := range names {
		skel.Joints[i] = skeleton.Joint{Name: name, Parent: i - 1}
	}
	if n := len(skel.Joints); n > 0 {
		skel.Joints[0].Parent = skeleton.NoParent
		skel.Joints[n-1].IsLeaf = true
	}
	return skel
}

// WaveAnimation builds an animation binding to skel where every joint
// translates along x with a sine wave and rotates about y, sampled at
// keysPerTrack uniform key times. It contains redundancy for the optimizer to
// remove without being trivially constant.
func WaveAnimation(skel *skeleton.Skeleton, duration float64, keysPerTrack int) *rawanim.Animation {
	anim := &rawanim.Animation{
		Name:     "wave",
		Duration: duration,
		Tracks:   make([]rawanim.JointTrack, skel.NumJoints()),
	}
	for j := range anim.Tracks {
		track := &anim.Tracks[j]
		phase := float64(j) * 0.4
		for i := 0; i < keysPerTrack; i++ {
			at := duration * float64(i) / float64(keysPerTrack-1)
			track.Translations = append(track.Translations, rawanim.TranslationKey{
				Time:  at,
				Value: mgl64.Vec3{0.3 * math.Sin(at*2+phase), 0.5, 0},
			})
			track.Rotations = append(track.Rotations, rawanim.RotationKey{
				Time:  at,
				Value: mgl64.QuatRotate(0.8*math.Sin(at+phase), mgl64.Vec3{0, 1, 0}),
			})
		}
	}
	return anim
}
