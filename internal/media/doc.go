// Package media defines the shared data model for resolved titles.
//
// A Record is the canonical entity the pipeline produces: the database's
// spelling of the title, its media type and year, critic scores, the 0-10
// thematic index (ATP) with its rationale, optional per-season scores, and
// the extended airing metadata used for update checks. The store owns Record
// persistence; the classifier and reconciler treat Records as plain values.
package media
