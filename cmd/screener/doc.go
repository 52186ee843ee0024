// Command screener resolves free-form media titles into canonical
// records with a thematic content score, backed by a local cache.
package main
