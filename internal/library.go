package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// exportTag prefixes every exported project filename.
const exportTag = "shortgen-"

// ProjectStore is the durable side of the project library. *Store implements
// it; tests substitute fakes.
type ProjectStore interface {
	List(ctx context.Context) ([]SavedProject, error)
	Put(ctx context.Context, p SavedProject) error
	Delete(ctx context.Context, id int64) error
}

// Library manages the lifecycle of saved projects. Its in-memory slice is a
// read-through mirror of the durable store: every mutation goes to the store
// first and is reflected in memory only after the store succeeds.
type Library struct {
	store    ProjectStore
	assets   *AssetRegistry
	projects []SavedProject

	now func() time.Time
}

// NewLibrary loads the saved projects from the store and returns a library
// mirroring it. A nil store yields a library with persistence disabled.
func NewLibrary(ctx context.Context, store ProjectStore, assets *AssetRegistry) (*Library, error) {
	lib := &Library{store: store, assets: assets, now: time.Now}
	if store == nil {
		return lib, nil
	}

	projects, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading project library: %w", err)
	}
	lib.projects = projects
	return lib, nil
}

// Ready reports whether the durable store is available.
func (l *Library) Ready() bool {
	return l.store != nil
}

// Projects returns the in-memory view of saved projects.
func (l *Library) Projects() []SavedProject {
	return l.projects
}

// Get returns the project with the given id, or nil if unknown.
func (l *Library) Get(id int64) *SavedProject {
	for i := range l.projects {
		if l.projects[i].ID == id {
			return &l.projects[i]
		}
	}
	return nil
}

// newProjectID derives an identifier from the current time plus a random
// offset, re-rolling on the (unlikely) collision with an existing project so
// rapid successive saves never clash.
func (l *Library) newProjectID() int64 {
	for {
		id := l.now().UnixMilli() + rand.Int63n(1000)
		if l.Get(id) == nil {
			return id
		}
	}
}

// Save persists the current generation result as a project. It requires a
// non-empty topic, at least one scene, a resolvable audio handle and a ready
// store; anything missing fails with ErrPreconditionNotMet.
func (l *Library) Save(ctx context.Context, result *ShortResult) (*SavedProject, error) {
	switch {
	case !l.Ready():
		return nil, fmt.Errorf("%w: project store is not available", ErrPreconditionNotMet)
	case result == nil || result.Topic == "":
		return nil, fmt.Errorf("%w: missing topic", ErrPreconditionNotMet)
	case len(result.Scenes) == 0:
		return nil, fmt.Errorf("%w: no scenes to save", ErrPreconditionNotMet)
	case !l.assets.Has(result.AudioHandle):
		return nil, fmt.Errorf("%w: no audio to save", ErrPreconditionNotMet)
	}

	audioData, err := l.assets.ToBase64(result.AudioHandle)
	if err != nil {
		return nil, fmt.Errorf("encoding audio: %w", err)
	}

	project := SavedProject{
		ID:        l.newProjectID(),
		Topic:     result.Topic,
		Scenes:    result.Scenes,
		AudioData: audioData,
		Title:     result.Title,
		Hashtags:  result.Hashtags,
	}

	if err := l.store.Put(ctx, project); err != nil {
		return nil, fmt.Errorf("saving project: %w", err)
	}
	l.projects = append(l.projects, project)
	return &project, nil
}

// Load turns a saved project back into a viewable result, decoding the stored
// audio text into a fresh transient handle. It never touches the store or the
// in-memory list.
func (l *Library) Load(project *SavedProject) (*ShortResult, error) {
	handle, err := l.assets.FromBase64(project.AudioData, WAVMimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: project %d: %v", ErrCorruptData, project.ID, err)
	}

	return &ShortResult{
		Topic:       project.Topic,
		Scenes:      project.Scenes,
		AudioHandle: handle,
		Title:       project.Title,
		Hashtags:    project.Hashtags,
	}, nil
}

// Delete removes a project durable-first: the store delete must succeed
// before the in-memory entry goes away, so the two views never diverge.
func (l *Library) Delete(ctx context.Context, id int64) error {
	if !l.Ready() {
		return fmt.Errorf("%w: project store is not available", ErrPreconditionNotMet)
	}

	if err := l.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting project %d: %w", id, err)
	}
	for i := range l.projects {
		if l.projects[i].ID == id {
			l.projects = append(l.projects[:i], l.projects[i+1:]...)
			break
		}
	}
	return nil
}

// ExportFileName derives the export filename from a topic: lower-cased,
// every non-alphanumeric rune replaced by an underscore, truncated to 20
// characters and prefixed with the product tag.
func ExportFileName(topic string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(topic) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	name := sb.String()
	if len(name) > 20 {
		name = name[:20]
	}
	return exportTag + name + ".json"
}

// Export serializes the full project record as indented JSON into dir and
// returns the written path.
func (l *Library) Export(project *SavedProject, dir string) (string, error) {
	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling project: %w", err)
	}

	path := filepath.Join(dir, ExportFileName(project.Topic))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}
	return path, nil
}

// importedProject mirrors SavedProject with pointers so missing fields are
// distinguishable from empty ones during validation.
type importedProject struct {
	ID       *int64   `json:"id"`
	Topic    *string  `json:"topic"`
	Scenes   *[]Scene `json:"scenes"`
	Audio    *string  `json:"audioData"`
	Title    *string  `json:"title"`
	Hashtags *string  `json:"hashtags"`
}

// Import parses an exported project file, validates its shape and persists it
// under a fresh id. Imported ids are never trusted: reusing one could collide
// with an existing record.
func (l *Library) Import(ctx context.Context, data []byte) (*SavedProject, error) {
	if !l.Ready() {
		return nil, fmt.Errorf("%w: project store is not available", ErrPreconditionNotMet)
	}

	var in importedProject
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var missing []string
	if in.Topic == nil || *in.Topic == "" {
		missing = append(missing, "topic")
	}
	if in.Scenes == nil || len(*in.Scenes) == 0 {
		missing = append(missing, "scenes")
	}
	if in.Audio == nil || *in.Audio == "" {
		missing = append(missing, "audioData")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}

	project := SavedProject{
		ID:        l.newProjectID(),
		Topic:     *in.Topic,
		Scenes:    *in.Scenes,
		AudioData: *in.Audio,
	}
	if in.Title != nil {
		project.Title = *in.Title
	}
	if in.Hashtags != nil {
		project.Hashtags = *in.Hashtags
	}

	if err := l.store.Put(ctx, project); err != nil {
		return nil, fmt.Errorf("saving imported project: %w", err)
	}
	l.projects = append(l.projects, project)
	return &project, nil
}
