// Package reconcile verifies oracle output against the structured metadata
// database and recovers canonical identity facts.
//
// It owns context-scored search, the loose no-year fallback, cross-type
// verification (swapping a movie verdict for the far more popular series of
// the same name and vice versa), metadata-backed disambiguation when the
// oracle is blocked, and poster lookups.
package reconcile
