package optimizer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"animopt/internal/logging"
	"animopt/internal/rawanim"
	"animopt/internal/skeleton"
)

// Default tolerances favor quality over compression.
const (
	// DefaultTranslationTolerance is 1 millimeter.
	DefaultTranslationTolerance = 1e-3
	// DefaultRotationTolerance is 0.1 degree, in radians.
	DefaultRotationTolerance = 0.1 * math.Pi / 180
	// DefaultScaleTolerance is 0.1%.
	DefaultScaleTolerance = 1e-3
)

// ErrTrackCountMismatch reports an animation whose track count differs from
// the skeleton's joint count.
var ErrTrackCountMismatch = errors.New("optimizer: animation track count does not match skeleton joint count")

// Optimizer decimates raw animation tracks within the configured error
// budgets. Tolerances are uniform across joints; rotation and scale budgets
// are additionally down-weighted per joint by its subtree reach.
//
// An Optimizer is stateless across calls and safe for concurrent use over
// distinct animations.
type Optimizer struct {
	// TranslationTolerance is the positional reconstruction budget in meters.
	TranslationTolerance float64
	// RotationTolerance is the angular reconstruction budget in radians.
	RotationTolerance float64
	// ScaleTolerance is the relative scale reconstruction budget.
	ScaleTolerance float64

	logger *slog.Logger
}

// New constructs an optimizer with default tolerances.
func New(logger *slog.Logger) *Optimizer {
	return &Optimizer{
		TranslationTolerance: DefaultTranslationTolerance,
		RotationTolerance:    DefaultRotationTolerance,
		ScaleTolerance:       DefaultScaleTolerance,
		logger:               logging.NewComponentLogger(logger, "optimizer"),
	}
}

// Optimize produces a decimated copy of src. The source and skeleton are not
// modified. It fails, returning no output, when src fails self-validation or
// when its track count differs from the skeleton's joint count.
func (o *Optimizer) Optimize(src *rawanim.Animation, skel *skeleton.Skeleton) (*rawanim.Animation, error) {
	if src == nil || skel == nil {
		return nil, errors.New("optimizer: source animation and skeleton are required")
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("validate source animation: %w", err)
	}
	if src.NumTracks() != skel.NumJoints() {
		return nil, fmt.Errorf("%w: %d tracks, %d joints", ErrTrackCountMismatch, src.NumTracks(), skel.NumJoints())
	}

	lengths := BoneLengths(src, skel)

	out := &rawanim.Animation{
		Name:     src.Name,
		Duration: src.Duration,
		Tracks:   make([]rawanim.JointTrack, src.NumTracks()),
	}

	for i := range src.Tracks {
		track := &src.Tracks[i]
		reach := 0.0
		if lengths != nil {
			reach = lengths[i]
		}

		out.Tracks[i].Translations = decimate(
			track.Translations,
			o.TranslationTolerance,
			func(k rawanim.TranslationKey) float64 { return k.Time },
			func(k rawanim.TranslationKey) mgl64.Vec3 { return k.Value },
			compareTranslation,
			rawanim.LerpTranslation,
		)
		out.Tracks[i].Rotations = decimate(
			track.Rotations,
			downWeight(o.RotationTolerance, reach),
			func(k rawanim.RotationKey) float64 { return k.Time },
			func(k rawanim.RotationKey) mgl64.Quat { return k.Value },
			compareRotation,
			rawanim.LerpRotation,
		)
		out.Tracks[i].Scales = decimate(
			track.Scales,
			downWeight(o.ScaleTolerance, reach),
			func(k rawanim.ScaleKey) float64 { return k.Time },
			func(k rawanim.ScaleKey) mgl64.Vec3 { return k.Value },
			compareScale,
			rawanim.LerpScale,
		)

		o.logger.Debug("decimated track",
			logging.Int("joint", i),
			logging.Float64("reach", reach),
			logging.Int("keys_in", track.KeyCount()),
			logging.Int("keys_out", out.Tracks[i].KeyCount()),
		)
	}

	o.selfCheck(src, out)

	o.logger.Info("optimized animation",
		logging.String(logging.FieldAnimation, src.Name),
		logging.Int(logging.FieldJointCount, skel.NumJoints()),
		logging.Int("keys_in", src.KeyCount()),
		logging.Int("keys_out", out.KeyCount()),
	)
	return out, nil
}

// selfCheck asserts the structural invariants of the produced animation. A
// violation here is a bug in decimation or reach propagation, not bad input.
func (o *Optimizer) selfCheck(src, out *rawanim.Animation) {
	if err := out.Validate(); err != nil {
		panic(fmt.Sprintf("optimizer: produced invalid animation: %v", err))
	}
	if out.NumTracks() != src.NumTracks() || out.Duration != src.Duration {
		panic("optimizer: produced animation with mismatched shape")
	}
	for i := range out.Tracks {
		if len(out.Tracks[i].Translations) > len(src.Tracks[i].Translations) ||
			len(out.Tracks[i].Rotations) > len(src.Tracks[i].Rotations) ||
			len(out.Tracks[i].Scales) > len(src.Tracks[i].Scales) {
			panic(fmt.Sprintf("optimizer: track %d grew during decimation", i))
		}
	}
}

// downWeight converts a nominal tolerance into the per-joint effective
// tolerance. Reaches within one unit keep the nominal budget, so short bones
// and leaves behave exactly like the unscaled algorithm; larger subtrees
// tighten proportionally because the same local error displaces their tip
// further in model space.
func downWeight(tolerance, reach float64) float64 {
	if reach <= 1 {
		return tolerance
	}
	return tolerance / reach
}

func compareTranslation(a, b mgl64.Vec3, tolerance float64) bool {
	return a.Sub(b).Len() <= tolerance
}

func compareRotation(a, b mgl64.Quat, tolerance float64) bool {
	return rawanim.AngleBetween(a, b) <= tolerance
}

func compareScale(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) <= tolerance &&
		math.Abs(a.Y()-b.Y()) <= tolerance &&
		math.Abs(a.Z()-b.Z()) <= tolerance
}
