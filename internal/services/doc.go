// Package services groups clients for the external collaborators the
// resolution pipeline depends on. Each client lives in its own
// subpackage and owns its transport concerns: request shaping, bounded
// retry, and the translation of provider quirks (safety blocks, rate
// limits) into explicit results the core can act on.
package services
