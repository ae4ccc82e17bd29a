package optimizer_test

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"animopt/internal/optimizer"
	"animopt/internal/rawanim"
	"animopt/internal/skeleton"
)

func singleJointSkeleton() *skeleton.Skeleton {
	return &skeleton.Skeleton{Joints: []skeleton.Joint{
		{Name: "root", Parent: skeleton.NoParent, IsLeaf: true},
	}}
}

func TestOptimizeDropsCollinearTranslationKey(t *testing.T) {
	anim := &rawanim.Animation{
		Duration: 1,
		Tracks: []rawanim.JointTrack{{
			Translations: []rawanim.TranslationKey{
				{Time: 0, Value: mgl64.Vec3{0, 0, 0}},
				{Time: 0.5, Value: mgl64.Vec3{1, 0, 0}},
				{Time: 1, Value: mgl64.Vec3{2, 0, 0}},
			},
		}},
	}

	opt := optimizer.New(nil)
	opt.TranslationTolerance = 0.01
	out, err := opt.Optimize(anim, singleJointSkeleton())
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}

	keys := out.Tracks[0].Translations
	if len(keys) != 2 {
		t.Fatalf("retained %d keys, want 2: %+v", len(keys), keys)
	}
	if keys[0].Time != 0 || keys[1].Time != 1 {
		t.Fatalf("retained times %v/%v, want 0/1", keys[0].Time, keys[1].Time)
	}
	if keys[0].Value != anim.Tracks[0].Translations[0].Value ||
		keys[1].Value != anim.Tracks[0].Translations[2].Value {
		t.Fatal("endpoint values must be preserved verbatim")
	}
}

func TestOptimizeTrackCountMismatch(t *testing.T) {
	anim := &rawanim.Animation{Duration: 1, Tracks: make([]rawanim.JointTrack, 2)}
	skel := &skeleton.Skeleton{Joints: []skeleton.Joint{
		{Parent: skeleton.NoParent},
		{Parent: 0},
		{Parent: 1, IsLeaf: true},
	}}

	out, err := optimizer.New(nil).Optimize(anim, skel)
	if !errors.Is(err, optimizer.ErrTrackCountMismatch) {
		t.Fatalf("expected ErrTrackCountMismatch, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected no output on failure, got %+v", out)
	}
}

func TestOptimizeInvalidSource(t *testing.T) {
	anim := &rawanim.Animation{Duration: -1}
	out, err := optimizer.New(nil).Optimize(anim, &skeleton.Skeleton{})
	if !errors.Is(err, rawanim.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if out != nil {
		t.Fatal("expected no output on failure")
	}
}

func TestOptimizeZeroJoints(t *testing.T) {
	anim := &rawanim.Animation{Duration: 2}
	out, err := optimizer.New(nil).Optimize(anim, &skeleton.Skeleton{})
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}
	if out.Duration != 2 || out.NumTracks() != 0 {
		t.Fatalf("unexpected shape: %+v", out)
	}
}

func TestOptimizeZeroToleranceRetainsEverything(t *testing.T) {
	anim := &rawanim.Animation{
		Duration: 1,
		Tracks: []rawanim.JointTrack{{
			Translations: []rawanim.TranslationKey{
				{Time: 0, Value: mgl64.Vec3{0, 0, 0}},
				{Time: 0.3, Value: mgl64.Vec3{0.8, 0.2, 0}},
				{Time: 0.6, Value: mgl64.Vec3{0.1, 0.9, 0.4}},
				{Time: 1, Value: mgl64.Vec3{0.5, 0.5, 0.5}},
			},
			Rotations: []rawanim.RotationKey{
				{Time: 0, Value: mgl64.QuatRotate(0.1, mgl64.Vec3{1, 0, 0})},
				{Time: 0.5, Value: mgl64.QuatRotate(0.9, mgl64.Vec3{0, 1, 0})},
				{Time: 1, Value: mgl64.QuatRotate(0.4, mgl64.Vec3{0, 0, 1})},
			},
			Scales: []rawanim.ScaleKey{
				{Time: 0, Value: mgl64.Vec3{1, 1, 1}},
				{Time: 0.4, Value: mgl64.Vec3{1.5, 1, 0.7}},
				{Time: 1, Value: mgl64.Vec3{1, 2, 1}},
			},
		}},
	}

	opt := optimizer.New(nil)
	opt.TranslationTolerance = 0
	opt.RotationTolerance = 0
	opt.ScaleTolerance = 0
	out, err := opt.Optimize(anim, singleJointSkeleton())
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}
	if got, want := out.Tracks[0].KeyCount(), anim.Tracks[0].KeyCount(); got != want {
		t.Fatalf("tolerance 0 dropped keys: got %d, want %d", got, want)
	}
}

func TestOptimizeMonotonicReductionAndEndpoints(t *testing.T) {
	track := rawanim.JointTrack{}
	for i := 0; i <= 30; i++ {
		ts := float64(i) / 30
		track.Translations = append(track.Translations, rawanim.TranslationKey{
			Time:  ts,
			Value: mgl64.Vec3{math.Sin(ts * 4), math.Cos(ts * 3), 0},
		})
		track.Rotations = append(track.Rotations, rawanim.RotationKey{
			Time:  ts,
			Value: mgl64.QuatRotate(ts*2, mgl64.Vec3{0, 1, 0}),
		})
		track.Scales = append(track.Scales, rawanim.ScaleKey{
			Time:  ts,
			Value: mgl64.Vec3{1 + 0.2*math.Sin(ts*5), 1, 1},
		})
	}
	anim := &rawanim.Animation{Duration: 1, Tracks: []rawanim.JointTrack{track}}

	opt := optimizer.New(nil)
	opt.TranslationTolerance = 0.02
	opt.RotationTolerance = 0.01
	opt.ScaleTolerance = 0.01
	out, err := opt.Optimize(anim, singleJointSkeleton())
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}

	got := &out.Tracks[0]
	if len(got.Translations) > len(track.Translations) ||
		len(got.Rotations) > len(track.Rotations) ||
		len(got.Scales) > len(track.Scales) {
		t.Fatal("a channel grew during optimization")
	}
	if len(got.Translations) >= len(track.Translations) {
		t.Fatal("expected the smooth translation curve to lose keys")
	}
	if got.Translations[0] != track.Translations[0] ||
		got.Translations[len(got.Translations)-1] != track.Translations[len(track.Translations)-1] {
		t.Fatal("translation endpoints not preserved")
	}
	if got.Rotations[0] != track.Rotations[0] ||
		got.Rotations[len(got.Rotations)-1] != track.Rotations[len(track.Rotations)-1] {
		t.Fatal("rotation endpoints not preserved")
	}

	// Error bound: reconstruct at every original key time.
	for _, key := range track.Translations {
		rebuilt := rawanim.SampleTrack(got, key.Time).Translation
		if rebuilt.Sub(key.Value).Len() > opt.TranslationTolerance+1e-12 {
			t.Fatalf("translation at t=%v off by %v", key.Time, rebuilt.Sub(key.Value).Len())
		}
	}
	for _, key := range track.Rotations {
		rebuilt := rawanim.SampleTrack(got, key.Time).Rotation
		if d := rawanim.AngleBetween(rebuilt, key.Value); d > opt.RotationTolerance+1e-12 {
			t.Fatalf("rotation at t=%v off by %v rad", key.Time, d)
		}
	}
}

func TestOptimizeQuaternionSignDisambiguation(t *testing.T) {
	axis := mgl64.Vec3{1, 0, 0}
	anim := &rawanim.Animation{
		Duration: 1,
		Tracks: []rawanim.JointTrack{{
			Rotations: []rawanim.RotationKey{
				{Time: 0, Value: mgl64.QuatRotate(0.2, axis)},
				{Time: 0.5, Value: mgl64.QuatRotate(0.4, axis).Scale(-1)},
				{Time: 1, Value: mgl64.QuatRotate(0.6, axis).Scale(-1)},
			},
		}},
	}
	if anim.Tracks[0].Rotations[0].Value.Dot(anim.Tracks[0].Rotations[2].Value) >= 0 {
		t.Fatal("test setup: endpoints must have negative dot product")
	}

	opt := optimizer.New(nil)
	opt.RotationTolerance = 0.01
	out, err := opt.Optimize(anim, singleJointSkeleton())
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}

	keys := out.Tracks[0].Rotations
	if len(keys) != 2 {
		t.Fatalf("retained %d rotation keys, want 2", len(keys))
	}
	// Reconstruction through the retained pair must take the short arc:
	// angular distance to both endpoints stays under 180 degrees, and the
	// midpoint lands on the 0.4 rad rotation.
	mid := rawanim.SampleTrack(&out.Tracks[0], 0.5).Rotation
	if d := rawanim.AngleBetween(mid, keys[0].Value); d >= math.Pi {
		t.Fatalf("midpoint is %v rad from the left endpoint", d)
	}
	if d := rawanim.AngleBetween(mid, keys[1].Value); d >= math.Pi {
		t.Fatalf("midpoint is %v rad from the right endpoint", d)
	}
	want := mgl64.QuatRotate(0.4, axis)
	if d := rawanim.AngleBetween(mid, want); d > 0.01 {
		t.Fatalf("midpoint deviates from the 0.4 rad rotation by %v rad", d)
	}
}

func TestOptimizeReachTightensRotationBudget(t *testing.T) {
	// Same rotation wobble on a joint with a long subtree and on a leaf. The
	// wobble sits inside the nominal tolerance but outside the down-weighted
	// one, so only the leaf loses the middle key.
	wobble := []rawanim.RotationKey{
		{Time: 0, Value: mgl64.QuatIdent()},
		{Time: 0.5, Value: mgl64.QuatRotate(0.004, mgl64.Vec3{0, 0, 1})},
		{Time: 1, Value: mgl64.QuatIdent()},
	}
	longArm := rawanim.JointTrack{
		Rotations: append([]rawanim.RotationKey(nil), wobble...),
	}
	tip := rawanim.JointTrack{
		Translations: []rawanim.TranslationKey{
			{Time: 0, Value: mgl64.Vec3{10, 0, 0}},
			{Time: 1, Value: mgl64.Vec3{10, 0, 0}},
		},
		Rotations: append([]rawanim.RotationKey(nil), wobble...),
	}

	skel := &skeleton.Skeleton{Joints: []skeleton.Joint{
		{Name: "arm", Parent: skeleton.NoParent},
		{Name: "tip", Parent: 0, IsLeaf: true},
	}}
	anim := &rawanim.Animation{Duration: 1, Tracks: []rawanim.JointTrack{longArm, tip}}

	opt := optimizer.New(nil)
	opt.RotationTolerance = 0.005
	out, err := opt.Optimize(anim, skel)
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}

	if got := len(out.Tracks[0].Rotations); got != 3 {
		t.Errorf("arm joint (reach 10) should keep the wobble, got %d keys", got)
	}
	if got := len(out.Tracks[1].Rotations); got != 2 {
		t.Errorf("tip joint (reach 0) should drop the wobble, got %d keys", got)
	}
}
