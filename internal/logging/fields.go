package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldAnimation is the standardized structured logging key for animation file paths or names.
	FieldAnimation = "animation"
	// FieldSkeleton is the standardized structured logging key for skeleton file paths or names.
	FieldSkeleton = "skeleton"
	// FieldJointCount is the standardized structured logging key for skeleton joint counts.
	FieldJointCount = "joint_count"
	// FieldChannel is the standardized structured logging key for track channel names
	// (translation, rotation, scale).
	FieldChannel = "channel"
	// FieldKeyCount is the standardized structured logging key for keyframe counts.
	FieldKeyCount = "key_count"
	// FieldRunID is the standardized structured logging key for optimization run identifiers.
	FieldRunID = "run_id"
	// FieldErrorHint suggests an operator action alongside an error log line.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-visible consequence of a failure.
	FieldImpact = "impact"
	// FieldEventType labels machine-readable event names in structured logs.
	FieldEventType = "event_type"
)
