package internal

// Scene is one visual beat of a short: the description used to generate its
// image, a search-style query, a target duration and the resulting image
// reference. Scenes are immutable once produced.
type Scene struct {
	SceneDescription string  `json:"sceneDescription"`
	SearchQuery      string  `json:"searchQuery"`
	Duration         float64 `json:"duration"`
	ImageURL         string  `json:"imageUrl"`
}

// SavedProject is the unit of persistence: a finished short with its audio
// track carried as base64-encoded WAV so the record is self-contained and
// file-portable. Records are always replaced as a whole, never patched.
type SavedProject struct {
	ID        int64   `json:"id"`
	Topic     string  `json:"topic"`
	Scenes    []Scene `json:"scenes"`
	AudioData string  `json:"audioData"`
	Title     string  `json:"title"`
	Hashtags  string  `json:"hashtags"`
}

// ShortResult is the in-memory outcome of a generation run. AudioHandle is a
// transient mem:// reference into the asset registry, valid only for the
// lifetime of the process.
type ShortResult struct {
	Topic       string
	Scenes      []Scene
	AudioHandle string
	Title       string
	Hashtags    string
}

// WorkflowState tracks where the generation workflow is.
type WorkflowState int

const (
	StateIdle WorkflowState = iota
	StateLoading
	StatePreview
	StateError
)

// String returns a human-readable representation of the workflow state
func (s WorkflowState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePreview:
		return "preview"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
