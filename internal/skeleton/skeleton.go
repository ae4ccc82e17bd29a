// Package skeleton defines the rigid joint hierarchy that animations bind to.
//
// Joints are stored in a flat, parent-before-child ordered slice: a joint's
// parent always has a smaller index, and root joints form a contiguous prefix.
// Parent/child relations are fully recoverable from the parent-index array, so
// no pointer graph is kept.
package skeleton

import (
	"errors"
	"fmt"
	"strings"
)

// NoParent marks a root joint.
const NoParent = -1

// Joint is a single node of the hierarchy.
type Joint struct {
	Name   string `json:"name"`
	Parent int    `json:"parent"`
	IsLeaf bool   `json:"is_leaf"`
}

// Skeleton is an ordered joint hierarchy. It is immutable during optimization
// and owned by the caller.
type Skeleton struct {
	Joints []Joint `json:"joints"`
}

// ErrInvalid reports a skeleton that violates its structural ordering
// invariants.
var ErrInvalid = errors.New("skeleton: invalid hierarchy")

// NumJoints returns the joint count.
func (s *Skeleton) NumJoints() int {
	return len(s.Joints)
}

// Validate checks the structural invariants: every parent index either is
// NoParent or references an earlier joint, and roots form a contiguous prefix.
func (s *Skeleton) Validate() error {
	seenChild := false
	for i, joint := range s.Joints {
		switch {
		case joint.Parent == NoParent:
			if seenChild {
				return fmt.Errorf("%w: root joint %d (%s) after first child", ErrInvalid, i, joint.Name)
			}
		case joint.Parent < 0 || joint.Parent >= i:
			return fmt.Errorf("%w: joint %d (%s) has parent %d", ErrInvalid, i, joint.Name, joint.Parent)
		default:
			seenChild = true
		}
	}
	return nil
}

// Roots returns the indices of all root joints. Because roots form a
// contiguous prefix, the scan stops at the first non-root.
func (s *Skeleton) Roots() []int {
	var roots []int
	for i := range s.Joints {
		if s.Joints[i].Parent != NoParent {
			break
		}
		roots = append(roots, i)
	}
	return roots
}

// Children returns the indices of joint's direct children. Children of joint j
// are a contiguous run located by scanning forward from j+1.
func (s *Skeleton) Children(joint int) []int {
	var children []int
	child := joint + 1
	for ; child < len(s.Joints) && s.Joints[child].Parent != joint; child++ {
	}
	for ; child < len(s.Joints) && s.Joints[child].Parent == joint; child++ {
		children = append(children, child)
	}
	return children
}

// Depth returns the number of ancestors of joint, 0 for roots.
func (s *Skeleton) Depth(joint int) int {
	depth := 0
	for parent := s.Joints[joint].Parent; parent != NoParent; parent = s.Joints[parent].Parent {
		depth++
	}
	return depth
}

// JointName returns a display name for the joint, falling back to its index.
func (s *Skeleton) JointName(joint int) string {
	if joint < 0 || joint >= len(s.Joints) {
		return fmt.Sprintf("#%d", joint)
	}
	if name := strings.TrimSpace(s.Joints[joint].Name); name != "" {
		return name
	}
	return fmt.Sprintf("#%d", joint)
}
