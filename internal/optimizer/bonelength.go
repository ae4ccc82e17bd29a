package optimizer

import (
	"math"

	"animopt/internal/rawanim"
	"animopt/internal/skeleton"
)

// jointSpec carries a joint's own maximum translation amplitude and maximum
// scale amplitude while the hierarchy walk propagates cumulative parent scale
// through it.
type jointSpec struct {
	length float64
	scale  float64
}

// BoneLengths computes, for every joint, the maximum reach of its subtree:
// the distance an error at that joint can displace the farthest point below
// it. Amplitudes come from the animation's translation and scale tracks. A
// zero-joint animation yields a nil table.
func BoneLengths(anim *rawanim.Animation, skel *skeleton.Skeleton) []float64 {
	if anim.NumTracks() == 0 {
		return nil
	}

	specs := make([]jointSpec, len(anim.Tracks))
	lengths := make([]float64, len(anim.Tracks))

	for i := range anim.Tracks {
		track := &anim.Tracks[i]

		maxLength := 0.0
		for _, key := range track.Translations {
			maxLength = math.Max(maxLength, key.Value.Len())
		}
		specs[i].length = maxLength

		maxScale := 0.0
		if len(track.Scales) > 0 {
			for _, key := range track.Scales {
				maxScale = math.Max(maxScale, key.Value.X())
				maxScale = math.Max(maxScale, key.Value.Y())
				maxScale = math.Max(maxScale, key.Value.Z())
			}
		} else {
			maxScale = 1
		}
		specs[i].scale = maxScale
	}

	for _, root := range skel.Roots() {
		accumulateReach(skel, root, specs, lengths)
	}
	return lengths
}

// accumulateReach resolves one joint during the depth-first walk and returns
// the subtree reach seen from the joint's parent. Parents are always resolved
// before children because of the skeleton's index ordering, so the parent's
// cumulative scale is final when it is applied here.
func accumulateReach(skel *skeleton.Skeleton, joint int, specs []jointSpec, lengths []float64) float64 {
	if parent := skel.Joints[joint].Parent; parent != skeleton.NoParent {
		specs[joint].length *= specs[parent].scale
		specs[joint].scale *= specs[parent].scale
	}

	if skel.Joints[joint].IsLeaf {
		// A leaf protects nobody below it; its own track tolerances are
		// sufficient.
		lengths[joint] = 0
	} else {
		for _, child := range skel.Children(joint) {
			lengths[joint] = math.Max(lengths[joint], accumulateReach(skel, child, specs, lengths))
		}
	}

	return lengths[joint] + specs[joint].length
}
