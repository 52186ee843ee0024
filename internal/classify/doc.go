// Package classify drives the generative oracle that disambiguates and
// scores media titles.
//
// It owns prompt construction, the key-value response parser, and the
// safety-fallback path: a blocked request is reworded once with softened
// vocabulary, and a second block yields a degraded zero-score analysis
// instead of an error.
package classify
