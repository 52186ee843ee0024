// Package titleparse turns free-form media queries into structured lookups.
//
// Inputs arrive in loose shapes: plain titles, "Title (Year) - Type" display
// strings clicked from a disambiguation list, numbered option lines copied
// from an oracle response, or IMDb/Rotten Tomatoes links. Parse applies an
// ordered rule set (separator split, bullet stripping, year extraction) and
// always returns a best-effort result; an empty title signals an unparsable
// input rather than an error.
package titleparse
