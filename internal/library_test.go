package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory ProjectStore with injectable failures.
type fakeStore struct {
	records    map[int64]SavedProject
	putCalls   int
	failPut    error
	failDelete error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[int64]SavedProject)}
}

func (s *fakeStore) List(ctx context.Context) ([]SavedProject, error) {
	var out []SavedProject
	for _, p := range s.records {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeStore) Put(ctx context.Context, p SavedProject) error {
	s.putCalls++
	if s.failPut != nil {
		return s.failPut
	}
	s.records[p.ID] = p
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id int64) error {
	if s.failDelete != nil {
		return s.failDelete
	}
	delete(s.records, id)
	return nil
}

func newTestLibrary(t *testing.T, store ProjectStore) (*Library, *AssetRegistry) {
	t.Helper()
	assets := NewAssetRegistry()
	lib, err := NewLibrary(context.Background(), store, assets)
	require.NoError(t, err)
	return lib, assets
}

func resultWithAudio(assets *AssetRegistry, topic string) *ShortResult {
	clip := &AudioClip{SampleRate: 24000, Channels: 1, Samples: make([]float64, 2400)}
	return &ShortResult{
		Topic: topic,
		Scenes: []Scene{
			{SceneDescription: "a robot in a kitchen", SearchQuery: "robot kitchen", Duration: 5, ImageURL: "data:image/png;base64,AAA"},
			{SceneDescription: "a burnt omelette", SearchQuery: "burnt omelette", Duration: 4, ImageURL: "data:image/png;base64,BBB"},
		},
		AudioHandle: ClipToWAVHandle(assets, clip),
		Title:       "Robot Chef",
		Hashtags:    "#robot #cooking",
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newFakeStore()
	lib, assets := newTestLibrary(t, store)

	result := resultWithAudio(assets, "A robot learns to cook")
	project, err := lib.Save(context.Background(), result)
	require.NoError(t, err)

	assert.Equal(t, "A robot learns to cook", project.Topic)
	assert.Equal(t, "Robot Chef", project.Title)
	assert.NotEmpty(t, project.AudioData)
	assert.Len(t, lib.Projects(), 1)
	assert.Contains(t, store.records, project.ID)

	loaded, err := lib.Load(project)
	require.NoError(t, err)
	assert.Equal(t, result.Scenes, loaded.Scenes)

	originalWAV, _, err := assets.Read(result.AudioHandle)
	require.NoError(t, err)
	loadedWAV, _, err := assets.Read(loaded.AudioHandle)
	require.NoError(t, err)
	assert.Equal(t, originalWAV, loadedWAV)
}

func TestSavePreconditions(t *testing.T) {
	store := newFakeStore()
	lib, assets := newTestLibrary(t, store)
	ctx := context.Background()

	good := resultWithAudio(assets, "topic")

	tests := []struct {
		name   string
		mutate func(*ShortResult)
	}{
		{"empty topic", func(r *ShortResult) { r.Topic = "" }},
		{"no scenes", func(r *ShortResult) { r.Scenes = nil }},
		{"unresolvable audio", func(r *ShortResult) { r.AudioHandle = "mem://gone" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bad := *good
			tc.mutate(&bad)
			_, err := lib.Save(ctx, &bad)
			assert.ErrorIs(t, err, ErrPreconditionNotMet)
			assert.Empty(t, lib.Projects())
			assert.Zero(t, store.putCalls)
		})
	}

	t.Run("store not ready", func(t *testing.T) {
		noStore, noAssets := newTestLibrary(t, nil)
		_, err := noStore.Save(ctx, resultWithAudio(noAssets, "topic"))
		assert.ErrorIs(t, err, ErrPreconditionNotMet)
	})
}

func TestSaveIDsUniqueUnderIdenticalTimestamps(t *testing.T) {
	store := newFakeStore()
	lib, assets := newTestLibrary(t, store)

	// Freeze the clock so only the random offset can disambiguate ids.
	frozen := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	lib.now = func() time.Time { return frozen }

	seen := make(map[int64]bool)
	for i := 0; i < 50; i++ {
		project, err := lib.Save(context.Background(), resultWithAudio(assets, "same millisecond"))
		require.NoError(t, err)
		assert.False(t, seen[project.ID], "duplicate id %d", project.ID)
		seen[project.ID] = true

		base := frozen.UnixMilli()
		assert.GreaterOrEqual(t, project.ID, base)
		assert.Less(t, project.ID, base+1000)
	}
}

func TestSaveStoreFailureLeavesListUntouched(t *testing.T) {
	store := newFakeStore()
	store.failPut = errors.New("disk full")
	lib, assets := newTestLibrary(t, store)

	_, err := lib.Save(context.Background(), resultWithAudio(assets, "topic"))
	require.Error(t, err)
	assert.Empty(t, lib.Projects())
}

func TestLoadCorruptAudio(t *testing.T) {
	lib, _ := newTestLibrary(t, newFakeStore())

	project := &SavedProject{ID: 1, Topic: "t", AudioData: "!!!not-base64!!!"}
	_, err := lib.Load(project)
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestDeleteDurableFirst(t *testing.T) {
	store := newFakeStore()
	lib, assets := newTestLibrary(t, store)
	ctx := context.Background()

	project, err := lib.Save(ctx, resultWithAudio(assets, "topic"))
	require.NoError(t, err)

	// A failing store delete must leave the in-memory entry in place.
	store.failDelete = errors.New("locked")
	require.Error(t, lib.Delete(ctx, project.ID))
	assert.Len(t, lib.Projects(), 1)

	store.failDelete = nil
	require.NoError(t, lib.Delete(ctx, project.ID))
	assert.Empty(t, lib.Projects())
	assert.NotContains(t, store.records, project.ID)
}

func TestDeleteAbsentIsNoOp(t *testing.T) {
	store := newFakeStore()
	lib, assets := newTestLibrary(t, store)
	ctx := context.Background()

	_, err := lib.Save(ctx, resultWithAudio(assets, "topic"))
	require.NoError(t, err)

	require.NoError(t, lib.Delete(ctx, 424242))
	assert.Len(t, lib.Projects(), 1)
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"A robot learns to cook", "shortgen-a_robot_learns_to_co.json"},
		{"Gophers!", "shortgen-gophers_.json"},
		{"ok", "shortgen-ok.json"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ExportFileName(tc.topic))
	}
}

func TestExportThenImport(t *testing.T) {
	store := newFakeStore()
	lib, assets := newTestLibrary(t, store)
	ctx := context.Background()

	project, err := lib.Save(ctx, resultWithAudio(assets, "A robot learns to cook"))
	require.NoError(t, err)

	dir := t.TempDir()
	path, err := lib.Export(project, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shortgen-a_robot_learns_to_co.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	imported, err := lib.Import(ctx, data)
	require.NoError(t, err)

	// Equal in all fields except id, which is always freshly assigned.
	assert.NotEqual(t, project.ID, imported.ID)
	assert.Equal(t, project.Topic, imported.Topic)
	assert.Equal(t, project.Scenes, imported.Scenes)
	assert.Equal(t, project.AudioData, imported.AudioData)
	assert.Equal(t, project.Title, imported.Title)
	assert.Equal(t, project.Hashtags, imported.Hashtags)
	assert.Len(t, lib.Projects(), 2)
}

func TestImportValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing audioData", `{"topic": "t", "scenes": [{"sceneDescription": "s", "searchQuery": "q", "duration": 3, "imageUrl": "u"}]}`},
		{"missing topic", `{"scenes": [{"sceneDescription": "s"}], "audioData": "QQ=="}`},
		{"missing scenes", `{"topic": "t", "audioData": "QQ=="}`},
		{"empty scenes", `{"topic": "t", "scenes": [], "audioData": "QQ=="}`},
		{"not json", `:::`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			lib, _ := newTestLibrary(t, store)

			_, err := lib.Import(context.Background(), []byte(tc.data))
			assert.ErrorIs(t, err, ErrValidation)
			assert.Zero(t, store.putCalls, "failed import must not touch the store")
			assert.Empty(t, lib.Projects())
		})
	}
}

func TestImportDefaultsOptionalFields(t *testing.T) {
	store := newFakeStore()
	lib, _ := newTestLibrary(t, store)

	data := `{"id": 77, "topic": "t", "scenes": [{"sceneDescription": "s", "searchQuery": "q", "duration": 3, "imageUrl": "u"}], "audioData": "QQ=="}`
	imported, err := lib.Import(context.Background(), []byte(data))
	require.NoError(t, err)

	assert.NotEqual(t, int64(77), imported.ID, "imported ids are never trusted")
	assert.Empty(t, imported.Title)
	assert.Empty(t, imported.Hashtags)
}
