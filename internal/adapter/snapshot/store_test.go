package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := openInMemory(t)
	fetched := time.Date(2025, 10, 4, 9, 30, 0, 0, time.UTC)

	in := Snapshot{
		Key:       "2025-10-04..2025-10-04",
		FetchedAt: fetched,
		Asteroids: []domain.Asteroid{
			{ID: "3542519", Name: "(2010 PK9)", DiameterM: 150, VelocityKmS: 22.4, Hazardous: true},
		},
	}
	require.NoError(t, s.Put(context.Background(), in))

	out, err := s.Get(context.Background(), in.Key)
	require.NoError(t, err)
	assert.Equal(t, in.Key, out.Key)
	assert.True(t, fetched.Equal(out.FetchedAt))
	assert.Equal(t, in.Asteroids, out.Asteroids)
}

func TestStore_PutReplaces(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, Snapshot{Key: "k", Asteroids: []domain.Asteroid{{ID: "1"}}}))
	require.NoError(t, s.Put(ctx, Snapshot{Key: "k", Asteroids: []domain.Asteroid{{ID: "2"}, {ID: "3"}}}))

	out, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Len(t, out.Asteroids, 2)
}

func TestStore_GetMissing(t *testing.T) {
	s := openInMemory(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PutRequiresKey(t *testing.T) {
	s := openInMemory(t)
	assert.Error(t, s.Put(context.Background(), Snapshot{}))
}

func TestStore_CancelledContext(t *testing.T) {
	s := openInMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Put(ctx, Snapshot{Key: "k"}), context.Canceled)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, Snapshot{Key: "persist", Asteroids: []domain.Asteroid{{ID: "42"}}}))
	require.NoError(t, s.Close())

	s2, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer s2.Close()

	out, err := s2.Get(ctx, "persist")
	require.NoError(t, err)
	require.Len(t, out.Asteroids, 1)
	assert.Equal(t, "42", out.Asteroids[0].ID)
}

func TestDefaultConfig_EmptyDirIsInMemory(t *testing.T) {
	assert.True(t, DefaultConfig("").InMemory)
	assert.False(t, DefaultConfig("/tmp/x").InMemory)
}
