package store

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickcarey/canva/internal/typeid"
)

// exercise runs the same contract against any Store.
func exercise(t *testing.T, s Store) {
	ctx := context.Background()

	a := &Design{ID: typeid.NewDesignID(), Name: "Poster", Width: 900, Height: 1200, Snapshot: json.RawMessage(`{"version":"1","objects":[]}`)}
	require.NoError(t, s.Create(ctx, a))
	assert.False(t, a.CreatedAt.IsZero())

	b := &Design{ID: typeid.NewDesignID(), Name: "Flyer", Width: 500, Height: 500, Snapshot: json.RawMessage(`{"version":"1","objects":[]}`)}
	require.NoError(t, s.Create(ctx, b))

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Poster", got.Name)
	assert.JSONEq(t, string(a.Snapshot), string(got.Snapshot))

	a.Name = "Poster v2"
	a.Snapshot = json.RawMessage(`{"version":"1","background":"red","objects":[]}`)
	require.NoError(t, s.Save(ctx, a))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, "Poster v2", list[0].Name)
	assert.Nil(t, list[0].Snapshot)

	got, err = s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.JSONEq(t, string(a.Snapshot), string(got.Snapshot))

	require.NoError(t, s.Delete(ctx, b.ID))
	_, err = s.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, b.ID), ErrNotFound)
	assert.ErrorIs(t, s.Save(ctx, b), ErrNotFound)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	exercise(t, m)
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	d := &Design{ID: "design_1", Snapshot: json.RawMessage(`{"a":1}`)}
	require.NoError(t, m.Create(ctx, d))

	got, err := m.Get(ctx, "design_1")
	require.NoError(t, err)
	got.Snapshot[0] = 'X'

	again, err := m.Get(ctx, "design_1")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(again.Snapshot))
}

func TestPostgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	p, err := NewPostgres(ctx, url)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.pool.Exec(ctx, `TRUNCATE designs`)
	require.NoError(t, err)
	exercise(t, p)
}
