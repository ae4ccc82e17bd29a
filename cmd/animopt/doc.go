// Command animopt optimizes keyframe animations against a skeleton, inspects
// and samples animation documents, and keeps a history of past runs.
package main
