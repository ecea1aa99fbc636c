// Package setconfig implements the closed family of set configurations: the
// declarative description of how reps, load and effort progress across the sets
// of one applied exercise.
//
// Six geometries exist (standard, drop, myoReps, pyramidal, restPause, mav).
// Each one expands its parameters into an ordered list of set-steps, and every
// query (total sets, duration, RPE curve, placeholder generation) is computed
// from that list. The SetConfiguration interface is sealed, so the set of
// variants cannot grow outside this package.
package setconfig
