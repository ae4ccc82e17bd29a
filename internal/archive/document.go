// Package archive reads and writes animation documents: a JSON container
// holding a skeleton and a raw animation, fingerprinted so tampering or
// truncation is detected on load. The optimize command stores its results
// here and the other commands read their inputs from the same format.
package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"animopt/internal/rawanim"
	"animopt/internal/skeleton"
)

// DocumentVersion is the current document schema version.
const DocumentVersion = 1

// KeyDoc is one translation or scale key on disk.
type KeyDoc struct {
	Time  float64    `json:"t"`
	Value [3]float64 `json:"v"`
}

// RotationKeyDoc is one rotation key on disk, quaternion stored w, x, y, z.
type RotationKeyDoc struct {
	Time  float64    `json:"t"`
	Value [4]float64 `json:"v"`
}

// TrackDoc is one joint track on disk.
type TrackDoc struct {
	Translations []KeyDoc         `json:"translations,omitempty"`
	Rotations    []RotationKeyDoc `json:"rotations,omitempty"`
	Scales       []KeyDoc         `json:"scales,omitempty"`
}

// AnimationDoc is a raw animation on disk.
type AnimationDoc struct {
	Name     string     `json:"name"`
	Duration float64    `json:"duration"`
	Tracks   []TrackDoc `json:"tracks"`
}

// Document is the full animation container.
type Document struct {
	Version     int                `json:"version"`
	CreatedAt   time.Time          `json:"created_at"`
	Fingerprint string             `json:"fingerprint,omitempty"`
	Skeleton    *skeleton.Skeleton `json:"skeleton,omitempty"`
	Animation   AnimationDoc       `json:"animation"`
}

// NewDocument builds a fingerprinted document from in-memory data. The
// skeleton may be nil for animation-only documents.
func NewDocument(skel *skeleton.Skeleton, anim *rawanim.Animation) *Document {
	doc := &Document{
		Version:   DocumentVersion,
		CreatedAt: time.Now().UTC(),
		Skeleton:  skel,
		Animation: encodeAnimation(anim),
	}
	doc.Fingerprint = doc.computeFingerprint()
	return doc
}

// Decode converts the document back to in-memory types. The returned skeleton
// is nil when the document carries none.
func (d *Document) Decode() (*skeleton.Skeleton, *rawanim.Animation, error) {
	if d.Version != DocumentVersion {
		return nil, nil, fmt.Errorf("archive: unsupported document version %d", d.Version)
	}
	anim := decodeAnimation(&d.Animation)
	if d.Skeleton != nil {
		if err := d.Skeleton.Validate(); err != nil {
			return nil, nil, fmt.Errorf("archive: %w", err)
		}
	}
	if err := anim.Validate(); err != nil {
		return nil, nil, fmt.Errorf("archive: %w", err)
	}
	return d.Skeleton, anim, nil
}

// computeFingerprint hashes the skeleton and animation payload. The
// fingerprint field itself and CreatedAt are excluded so re-saving an
// unchanged document keeps its fingerprint stable.
func (d *Document) computeFingerprint() string {
	payload := struct {
		Version   int                `json:"version"`
		Skeleton  *skeleton.Skeleton `json:"skeleton,omitempty"`
		Animation AnimationDoc       `json:"animation"`
	}{d.Version, d.Skeleton, d.Animation}

	data, err := json.Marshal(payload)
	if err != nil {
		// Document fields are all marshalable types; this cannot fail.
		panic(fmt.Sprintf("archive: fingerprint marshal: %v", err))
	}
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

func encodeAnimation(anim *rawanim.Animation) AnimationDoc {
	doc := AnimationDoc{
		Name:     anim.Name,
		Duration: anim.Duration,
		Tracks:   make([]TrackDoc, len(anim.Tracks)),
	}
	for i := range anim.Tracks {
		src := &anim.Tracks[i]
		dst := &doc.Tracks[i]
		for _, key := range src.Translations {
			dst.Translations = append(dst.Translations, KeyDoc{key.Time, vec3Doc(key.Value)})
		}
		for _, key := range src.Rotations {
			dst.Rotations = append(dst.Rotations, RotationKeyDoc{key.Time, quatDoc(key.Value)})
		}
		for _, key := range src.Scales {
			dst.Scales = append(dst.Scales, KeyDoc{key.Time, vec3Doc(key.Value)})
		}
	}
	return doc
}

func decodeAnimation(doc *AnimationDoc) *rawanim.Animation {
	anim := &rawanim.Animation{
		Name:     doc.Name,
		Duration: doc.Duration,
		Tracks:   make([]rawanim.JointTrack, len(doc.Tracks)),
	}
	for i := range doc.Tracks {
		src := &doc.Tracks[i]
		dst := &anim.Tracks[i]
		for _, key := range src.Translations {
			dst.Translations = append(dst.Translations, rawanim.TranslationKey{Time: key.Time, Value: mgl64.Vec3(key.Value)})
		}
		for _, key := range src.Rotations {
			dst.Rotations = append(dst.Rotations, rawanim.RotationKey{Time: key.Time, Value: quatFromDoc(key.Value)})
		}
		for _, key := range src.Scales {
			dst.Scales = append(dst.Scales, rawanim.ScaleKey{Time: key.Time, Value: mgl64.Vec3(key.Value)})
		}
	}
	return anim
}

func vec3Doc(v mgl64.Vec3) [3]float64 {
	return [3]float64{v.X(), v.Y(), v.Z()}
}

func quatDoc(q mgl64.Quat) [4]float64 {
	return [4]float64{q.W, q.V.X(), q.V.Y(), q.V.Z()}
}

func quatFromDoc(v [4]float64) mgl64.Quat {
	return mgl64.Quat{W: v[0], V: mgl64.Vec3{v[1], v[2], v[3]}}
}
