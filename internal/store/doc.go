// Package store persists resolved media records in a local SQLite
// database. It serves as the resolution cache: lookups are keyed by
// case-insensitive title so repeated requests for the same entity skip
// the analysis pipeline entirely.
package store
