// Package resolver orchestrates the identity resolution pipeline: parse
// the input, consult the cache, ask the oracle for a verdict, reconcile
// the verdict against the metadata database, and write the canonical
// record through to the store. Ambiguity is a first-class outcome; the
// caller picks an option and resolves again.
package resolver
