package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testProject(id int64, topic string) SavedProject {
	return SavedProject{
		ID:    id,
		Topic: topic,
		Scenes: []Scene{
			{SceneDescription: "a kitchen", SearchQuery: "kitchen", Duration: 4, ImageURL: "data:image/png;base64,AAA"},
		},
		AudioData: "UklGRg==",
		Title:     "Title for " + topic,
		Hashtags:  "#shorts",
	}
}

func TestStorePutListDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testProject(2, "second")))
	require.NoError(t, store.Put(ctx, testProject(1, "first")))
	require.NoError(t, store.Put(ctx, testProject(3, "third")))
	require.NoError(t, store.Delete(ctx, 2))

	projects, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, int64(1), projects[0].ID, "list is ordered by id")
	assert.Equal(t, int64(3), projects[1].ID)
	assert.Equal(t, "first", projects[0].Topic)
	require.Len(t, projects[0].Scenes, 1)
	assert.Equal(t, "a kitchen", projects[0].Scenes[0].SceneDescription)
}

func TestStorePutReplacesWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testProject(7, "before")))

	updated := testProject(7, "after")
	updated.Scenes = append(updated.Scenes, Scene{SceneDescription: "a garden", SearchQuery: "garden", Duration: 3})
	require.NoError(t, store.Put(ctx, updated))

	projects, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "after", projects[0].Topic)
	assert.Len(t, projects[0].Scenes, 2)
}

func TestStoreDeleteAbsentIsNoOp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testProject(1, "keep me")))
	require.NoError(t, store.Delete(ctx, 999))

	projects, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, testProject(42, "durable")))
	require.NoError(t, store.Close())

	reopened, err := OpenStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	projects, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, int64(42), projects[0].ID)
	assert.Equal(t, "durable", projects[0].Topic)
}

func TestStoreEmptyList(t *testing.T) {
	store := newTestStore(t)

	projects, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}
