package runtime

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"animopt/internal/logging"
	"animopt/internal/rawanim"
)

// Builder packs validated raw animations into the runtime form.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder constructs a builder.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{logger: logging.NewComponentLogger(logger, "builder")}
}

// Build packs src. The source must pass its own validation; the packed result
// is independent of src and carries a fresh BuildID.
func (b *Builder) Build(src *rawanim.Animation) (*Animation, error) {
	if src == nil {
		return nil, fmt.Errorf("builder: source animation is required")
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}

	out := &Animation{
		buildID:  uuid.New(),
		name:     src.Name,
		duration: src.Duration,
		tracks:   make([]track, len(src.Tracks)),
	}

	for i := range src.Tracks {
		raw := &src.Tracks[i]
		packed := &out.tracks[i]
		packed.translations = packTranslations(raw.Translations)
		packed.rotations = packRotations(raw.Rotations)
		packed.scales = packScales(raw.Scales)
	}

	b.logger.Debug("packed animation",
		logging.String(logging.FieldAnimation, src.Name),
		logging.String("build_id", out.buildID.String()),
		logging.Int(logging.FieldKeyCount, out.KeyCount()),
	)
	return out, nil
}

func packTranslations(keys []rawanim.TranslationKey) channel[mgl64.Vec3] {
	c := channel[mgl64.Vec3]{
		times:  make([]float64, len(keys)),
		values: make([]mgl64.Vec3, len(keys)),
	}
	for i, key := range keys {
		c.times[i] = key.Time
		c.values[i] = key.Value
	}
	return c
}

func packRotations(keys []rawanim.RotationKey) channel[mgl64.Quat] {
	c := channel[mgl64.Quat]{
		times:  make([]float64, len(keys)),
		values: make([]mgl64.Quat, len(keys)),
	}
	for i, key := range keys {
		c.times[i] = key.Time
		c.values[i] = key.Value
	}
	return c
}

func packScales(keys []rawanim.ScaleKey) channel[mgl64.Vec3] {
	c := channel[mgl64.Vec3]{
		times:  make([]float64, len(keys)),
		values: make([]mgl64.Vec3, len(keys)),
	}
	for i, key := range keys {
		c.times[i] = key.Time
		c.values[i] = key.Value
	}
	return c
}
