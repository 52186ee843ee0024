// Package gemini wraps the Gemini generateContent API.
//
// The client handles transport concerns only: request encoding, retry with
// exponential backoff, and surfacing safety blocks as data rather than
// errors. Prompt construction and response parsing live in the classify
// package.
package gemini
