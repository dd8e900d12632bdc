package testutil

import (
	"io"
	"log"
	"testing"

	"github.com/nhle/taskmate/internal/store"
)

// NewTestStore creates an in-memory SQLStore with all migrations applied
// and logging discarded. It automatically closes the store when the test
// completes.
func NewTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	s.SetLogger(log.New(io.Discard, "", 0))

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}
