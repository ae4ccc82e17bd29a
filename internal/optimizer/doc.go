// Package optimizer reduces raw animation keyframes to the minimal set that
// still reconstructs the original curves within caller-set tolerances.
//
// It combines a hierarchy walk that measures each joint's subtree reach with
// three independent greedy decimation passes per track (translation, rotation,
// scale). Rotation and scale error budgets are down-weighted by subtree reach:
// an angular error at a hip joint displaces a whole leg, the same error at a
// fingertip displaces almost nothing.
//
// The decimation guarantees only hold if playback interpolates with the laws
// in package rawanim; the runtime sampler shares them for that reason.
package optimizer
