package optimizer_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"animopt/internal/optimizer"
	"animopt/internal/rawanim"
	"animopt/internal/skeleton"
)

func translationTrack(amplitude float64) rawanim.JointTrack {
	return rawanim.JointTrack{
		Translations: []rawanim.TranslationKey{
			{Time: 0, Value: mgl64.Vec3{0, 0, 0}},
			{Time: 1, Value: mgl64.Vec3{amplitude, 0, 0}},
		},
	}
}

func TestBoneLengthsChainAccumulation(t *testing.T) {
	skel := &skeleton.Skeleton{Joints: []skeleton.Joint{
		{Name: "root", Parent: skeleton.NoParent},
		{Name: "mid", Parent: 0},
		{Name: "leaf", Parent: 1, IsLeaf: true},
	}}
	anim := &rawanim.Animation{
		Duration: 1,
		Tracks: []rawanim.JointTrack{
			translationTrack(0.5),
			translationTrack(2),
			translationTrack(3),
		},
	}

	lengths := optimizer.BoneLengths(anim, skel)

	// leaf protects nothing; mid's reach is the leaf's own amplitude; root's
	// reach adds mid's amplitude on top.
	want := []float64{5, 3, 0}
	for i, w := range want {
		if math.Abs(lengths[i]-w) > 1e-12 {
			t.Errorf("lengths[%d] = %v, want %v (all: %v)", i, lengths[i], w, lengths)
		}
	}
}

func TestBoneLengthsAppliesParentScale(t *testing.T) {
	skel := &skeleton.Skeleton{Joints: []skeleton.Joint{
		{Name: "root", Parent: skeleton.NoParent},
		{Name: "mid", Parent: 0},
		{Name: "leaf", Parent: 1, IsLeaf: true},
	}}
	mid := translationTrack(2)
	mid.Scales = []rawanim.ScaleKey{
		{Time: 0, Value: mgl64.Vec3{1, 1, 1}},
		{Time: 1, Value: mgl64.Vec3{2, 1, 1}},
	}
	anim := &rawanim.Animation{
		Duration: 1,
		Tracks: []rawanim.JointTrack{
			translationTrack(0.5),
			mid,
			translationTrack(3),
		},
	}

	lengths := optimizer.BoneLengths(anim, skel)

	// mid's max scale of 2 doubles the leaf's amplitude seen from above.
	want := []float64{8, 6, 0}
	for i, w := range want {
		if math.Abs(lengths[i]-w) > 1e-12 {
			t.Errorf("lengths[%d] = %v, want %v (all: %v)", i, lengths[i], w, lengths)
		}
	}
}

func TestBoneLengthsBranchesTakeMax(t *testing.T) {
	skel := &skeleton.Skeleton{Joints: []skeleton.Joint{
		{Name: "root", Parent: skeleton.NoParent},
		{Name: "short", Parent: 0, IsLeaf: true},
		{Name: "long", Parent: 0, IsLeaf: true},
	}}
	anim := &rawanim.Animation{
		Duration: 1,
		Tracks: []rawanim.JointTrack{
			translationTrack(1),
			translationTrack(0.5),
			translationTrack(4),
		},
	}

	lengths := optimizer.BoneLengths(anim, skel)
	if lengths[0] != 4 {
		t.Errorf("root reach = %v, want max child amplitude 4", lengths[0])
	}
	if lengths[1] != 0 || lengths[2] != 0 {
		t.Errorf("leaf reaches = %v/%v, want 0/0", lengths[1], lengths[2])
	}
}

func TestBoneLengthsZeroJoints(t *testing.T) {
	lengths := optimizer.BoneLengths(&rawanim.Animation{Duration: 1}, &skeleton.Skeleton{})
	if lengths != nil {
		t.Errorf("expected nil table for zero joints, got %v", lengths)
	}
}
