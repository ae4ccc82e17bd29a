package runtime

import (
	"fmt"

	"animopt/internal/rawanim"
	"animopt/internal/skeleton"
)

// LocalToModelJob composes per-joint local transforms into model space by
// walking the skeleton's parent array. Because parents always precede their
// children, a single forward pass resolves every joint.
type LocalToModelJob struct {
	Skeleton *skeleton.Skeleton
	// Input is one local transform per joint, index aligned with the skeleton.
	Input []rawanim.Transform
	// Output receives the model-space transforms. It may alias Input.
	Output []rawanim.Transform
}

// Run validates the job and fills Output.
func (j *LocalToModelJob) Run() error {
	if j.Skeleton == nil {
		return fmt.Errorf("local-to-model: skeleton is required")
	}
	n := j.Skeleton.NumJoints()
	if len(j.Input) < n {
		return fmt.Errorf("local-to-model: input holds %d transforms, need %d", len(j.Input), n)
	}
	if len(j.Output) < n {
		return fmt.Errorf("local-to-model: output holds %d transforms, need %d", len(j.Output), n)
	}

	for i := 0; i < n; i++ {
		local := j.Input[i]
		parent := j.Skeleton.Joints[i].Parent
		if parent == skeleton.NoParent {
			j.Output[i] = local
			continue
		}
		p := j.Output[parent]
		j.Output[i] = rawanim.Transform{
			Translation: p.Translation.Add(p.Rotation.Rotate(vec3Mul(p.Scale, local.Translation))),
			Rotation:    p.Rotation.Mul(local.Rotation),
			Scale:       vec3Mul(p.Scale, local.Scale),
		}
	}
	return nil
}
