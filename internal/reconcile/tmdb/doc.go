// Package tmdb provides the minimal TMDB API client used during identity
// reconciliation.
//
// It exposes movie, TV, and multi search with optional release-year filters
// plus detail lookups that append external IDs, so the reconciler can verify
// oracle output and recover airing metadata. Responses are strongly typed so
// the reconcile package can score them. Options allow tests to supply custom
// HTTP clients without modifying production code.
package tmdb
