package testsupport

import (
	"context"
	"testing"

	"screener/internal/config"
	"screener/internal/media"
	"screener/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewRecord inserts a minimal resolved record for tests using the provided store.
func NewRecord(t testing.TB, st *store.Store, title string, mediaType media.Type) *media.Record {
	t.Helper()

	rec, err := st.Create(context.Background(), &media.Record{
		Title:     title,
		Type:      mediaType,
		ATP:       5,
		Rationale: "test record",
	})
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return rec
}
