package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aetherops.io/arcanum/internal/config"
)

// newTestStore opens an in-memory store. Tests that need deterministic
// timestamps override s.now directly.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(config.StoreConfig{
		Path:        ":memory:",
		BusyTimeout: 5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// freezeClock pins the store clock to a fixed instant.
func freezeClock(s *Store, at time.Time) {
	s.now = func() time.Time { return at }
}

func TestOpen_InMemory(t *testing.T) {
	s := newTestStore(t)
	require.NotNil(t, s.db)
}

func TestClose_Idempotent(t *testing.T) {
	s, err := Open(config.StoreConfig{Path: ":memory:", BusyTimeout: time.Second}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
