// Package history persists a record of past optimization runs in SQLite.
//
// Each run stores the tolerances used, the key counts before and after, and
// the measured reconstruction error, so regressions in asset pipelines can be
// traced back to the run that produced them. The store prunes itself to a
// configured maximum number of runs.
package history
