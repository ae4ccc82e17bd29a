package runtime

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"animopt/internal/rawanim"
)

// Cache accelerates repeated sampling of one animation by remembering, per
// track and channel, the key interval the previous sample time landed in.
// Nearby sample times then resolve without a binary search.
//
// A cache is bound to the BuildID of the animation it last served. Sampling a
// differently built animation, even one occupying the same memory, resets the
// cursors before use. Callers may also reset explicitly with Invalidate.
// A Cache must not be shared between goroutines.
type Cache struct {
	buildID uuid.UUID
	valid   bool
	cursors []trackCursor
}

type trackCursor struct {
	translation int
	rotation    int
	scale       int
}

// NewCache returns an empty cache ready for any animation.
func NewCache() *Cache {
	return &Cache{}
}

// Invalidate forgets everything the cache learned.
func (c *Cache) Invalidate() {
	c.valid = false
	c.buildID = uuid.UUID{}
	c.cursors = c.cursors[:0]
}

func (c *Cache) ensure(anim *Animation) {
	if c.valid && c.buildID == anim.buildID && len(c.cursors) == len(anim.tracks) {
		return
	}
	c.buildID = anim.buildID
	c.valid = true
	if cap(c.cursors) < len(anim.tracks) {
		c.cursors = make([]trackCursor, len(anim.tracks))
	} else {
		c.cursors = c.cursors[:len(anim.tracks)]
		for i := range c.cursors {
			c.cursors[i] = trackCursor{}
		}
	}
}

// SamplingJob reconstructs the local pose of every joint track at Time.
//
// Output must hold at least NumTracks transforms. Channels without keys
// produce the identity component. Run uses the interpolation laws from
// package rawanim, matching the optimizer bit for bit.
type SamplingJob struct {
	Animation *Animation
	Cache     *Cache
	Time      float64
	Output    []rawanim.Transform
}

// Run validates the job and fills Output.
func (j *SamplingJob) Run() error {
	if j.Animation == nil {
		return fmt.Errorf("sampling: animation is required")
	}
	if j.Cache == nil {
		return fmt.Errorf("sampling: cache is required")
	}
	if len(j.Output) < len(j.Animation.tracks) {
		return fmt.Errorf("sampling: output holds %d transforms, need %d", len(j.Output), len(j.Animation.tracks))
	}

	j.Cache.ensure(j.Animation)

	for i := range j.Animation.tracks {
		tr := &j.Animation.tracks[i]
		cursor := &j.Cache.cursors[i]
		out := rawanim.IdentityTransform()

		if !tr.translations.empty() {
			left, right, alpha := seek(tr.translations.times, j.Time, &cursor.translation)
			out.Translation = rawanim.LerpTranslation(tr.translations.values[left], tr.translations.values[right], alpha)
		}
		if !tr.rotations.empty() {
			left, right, alpha := seek(tr.rotations.times, j.Time, &cursor.rotation)
			out.Rotation = rawanim.LerpRotation(tr.rotations.values[left], tr.rotations.values[right], alpha)
		}
		if !tr.scales.empty() {
			left, right, alpha := seek(tr.scales.times, j.Time, &cursor.scale)
			out.Scale = rawanim.LerpScale(tr.scales.values[left], tr.scales.values[right], alpha)
		}
		j.Output[i] = out
	}
	return nil
}

// seek resolves the interpolation interval for time, preferring the cached
// cursor and its immediate successor before falling back to a binary search.
// The cursor is updated to the resolved left index.
func seek(times []float64, time float64, cursor *int) (left, right int, alpha float64) {
	n := len(times)
	if time <= times[0] {
		*cursor = 0
		return 0, 0, 0
	}
	if time >= times[n-1] {
		*cursor = n - 1
		return n - 1, n - 1, 0
	}

	// Intervals are half-open on the right so that a sample landing exactly on
	// a key resolves to that key with alpha 0, exactly like the offline pass.
	left = *cursor
	switch {
	case left < n-1 && times[left] <= time && time < times[left+1]:
		// Cache hit.
	case left < n-2 && times[left+1] <= time && time < times[left+2]:
		// Forward playback: the next interval.
		left++
	default:
		idx := sort.SearchFloat64s(times, time)
		if idx < n && times[idx] == time {
			left = idx
		} else {
			left = idx - 1
		}
	}
	if left >= n-1 {
		left = n - 2
	}
	*cursor = left

	span := times[left+1] - times[left]
	alpha = (time - times[left]) / span
	return left, left + 1, alpha
}

// vec3Mul multiplies two vectors component-wise.
func vec3Mul(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}
