// Package report measures what optimization did to an animation: per-joint
// key counts before and after, and the model-space positional error between
// the raw and optimized poses over uniformly spaced sample times.
//
// The optimized animation is measured through the packed runtime path, so the
// numbers reflect what playback will actually reconstruct.
package report

import (
	"fmt"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"animopt/internal/logging"
	"animopt/internal/rawanim"
	"animopt/internal/runtime"
	"animopt/internal/skeleton"
)

// ChannelDiff is the before/after key count of one channel.
type ChannelDiff struct {
	Before int
	After  int
}

// Dropped returns the number of keys removed from the channel.
func (d ChannelDiff) Dropped() int { return d.Before - d.After }

// JointDiff is the per-channel key delta for one joint.
type JointDiff struct {
	Joint        int
	Name         string
	Translations ChannelDiff
	Rotations    ChannelDiff
	Scales       ChannelDiff
}

// Report summarizes one optimization run.
type Report struct {
	Animation   string
	SampleCount int

	KeysBefore int
	KeysAfter  int
	Joints     []JointDiff

	// Model-space positional error across all joints and sample times.
	MaxPositionError    float64
	MeanPositionError   float64
	MedianPositionError float64
}

// Compression returns the surviving key fraction, 1 when the source had no
// keys.
func (r *Report) Compression() float64 {
	if r.KeysBefore == 0 {
		return 1
	}
	return float64(r.KeysAfter) / float64(r.KeysBefore)
}

// Measurer builds optimization reports.
type Measurer struct {
	logger *slog.Logger
}

// NewMeasurer constructs a measurer.
func NewMeasurer(logger *slog.Logger) *Measurer {
	return &Measurer{logger: logging.NewComponentLogger(logger, "report")}
}

// Measure compares src against its optimized counterpart over samples
// uniformly spaced times. Both animations must bind to skel.
func (m *Measurer) Measure(src, optimized *rawanim.Animation, skel *skeleton.Skeleton, samples int) (*Report, error) {
	if samples < 2 {
		return nil, fmt.Errorf("report: need at least 2 samples, got %d", samples)
	}
	joints := skel.NumJoints()
	if src.NumTracks() != joints || optimized.NumTracks() != joints {
		return nil, fmt.Errorf("report: track counts %d/%d do not match %d joints",
			src.NumTracks(), optimized.NumTracks(), joints)
	}

	rep := &Report{
		Animation:   src.Name,
		SampleCount: samples,
		KeysBefore:  src.KeyCount(),
		KeysAfter:   optimized.KeyCount(),
		Joints:      jointDiffs(src, optimized, skel),
	}

	packed, err := runtime.NewBuilder(m.logger).Build(optimized)
	if err != nil {
		return nil, fmt.Errorf("report: pack optimized animation: %w", err)
	}

	cache := runtime.NewCache()
	optLocal := make([]rawanim.Transform, joints)
	srcModel := make([]rawanim.Transform, joints)
	optModel := make([]rawanim.Transform, joints)

	errs := make([]float64, 0, samples*joints)
	for i := 0; i < samples; i++ {
		at := src.Duration * float64(i) / float64(samples-1)

		srcLocal := src.SamplePose(at)
		job := runtime.SamplingJob{Animation: packed, Cache: cache, Time: at, Output: optLocal}
		if err := job.Run(); err != nil {
			return nil, fmt.Errorf("report: sample optimized animation: %w", err)
		}

		srcJob := runtime.LocalToModelJob{Skeleton: skel, Input: srcLocal, Output: srcModel}
		if err := srcJob.Run(); err != nil {
			return nil, fmt.Errorf("report: compose source pose: %w", err)
		}
		optJob := runtime.LocalToModelJob{Skeleton: skel, Input: optLocal, Output: optModel}
		if err := optJob.Run(); err != nil {
			return nil, fmt.Errorf("report: compose optimized pose: %w", err)
		}

		for j := 0; j < joints; j++ {
			errs = append(errs, srcModel[j].Translation.Sub(optModel[j].Translation).Len())
		}
	}

	if len(errs) > 0 {
		sort.Float64s(errs)
		rep.MaxPositionError = errs[len(errs)-1]
		rep.MeanPositionError = stat.Mean(errs, nil)
		rep.MedianPositionError = stat.Quantile(0.5, stat.Empirical, errs, nil)
	}

	m.logger.Debug("measured optimization",
		logging.String(logging.FieldAnimation, src.Name),
		logging.Int("keys_before", rep.KeysBefore),
		logging.Int("keys_after", rep.KeysAfter),
		logging.Float64("max_position_error", rep.MaxPositionError),
	)
	return rep, nil
}

func jointDiffs(src, optimized *rawanim.Animation, skel *skeleton.Skeleton) []JointDiff {
	diffs := make([]JointDiff, src.NumTracks())
	for j := range diffs {
		before := &src.Tracks[j]
		after := &optimized.Tracks[j]
		diffs[j] = JointDiff{
			Joint:        j,
			Name:         skel.JointName(j),
			Translations: ChannelDiff{Before: len(before.Translations), After: len(after.Translations)},
			Rotations:    ChannelDiff{Before: len(before.Rotations), After: len(after.Rotations)},
			Scales:       ChannelDiff{Before: len(before.Scales), After: len(after.Scales)},
		}
	}
	return diffs
}
