package internal

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOpenAIClient answers the three OpenAI endpoints with canned payloads so
// the AI generator's prompt and parsing paths run without the network.
type fakeOpenAIClient struct{}

func (c *fakeOpenAIClient) CreateChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "naming a short"):
		return "```json\n" + `{"title": "Robot Chef", "hashtags": "#robot #cooking #shorts"}` + "\n```", nil
	case strings.Contains(prompt, "visual scenes"):
		out, _ := json.Marshal(map[string]any{"scenes": []map[string]any{
			{"sceneDescription": "a robot staring at a cookbook", "searchQuery": "robot cookbook", "duration": 4},
			{"sceneDescription": "a kitchen covered in broken eggs", "searchQuery": "messy kitchen", "duration": 4},
		}})
		return string(out), nil
	default:
		return fakeScript, nil
	}
}

func (c *fakeOpenAIClient) GenerateImage(ctx context.Context, model, prompt string) (string, error) {
	return "data:image/png;base64,aW1n", nil
}

func (c *fakeOpenAIClient) CreateSpeech(ctx context.Context, model, voice, text string) ([]byte, error) {
	return make([]byte, TTSSampleRate*2), nil
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		ChatModel:    "gpt-4o-mini",
		ImageModel:   "dall-e-3",
		TTSModel:     "tts-1",
		TTSVoice:     "alloy",
		StageTimeout: time.Minute,
		Quiet:        true,
		Prompt:       "Write a short script about {{.Topic}}",
		ConfigDir:    t.TempDir(),
		DataDir:      t.TempDir(),
		CacheDir:     t.TempDir(),
	}
}

func TestAppGenerateShortSaves(t *testing.T) {
	config := testConfig(t)
	store := newTestStore(t)

	app := NewApp(config,
		WithGenerator(NewAI(&fakeOpenAIClient{}, config)),
		WithStore(store),
	)
	defer app.Close()

	result, err := app.GenerateShort(context.Background(), "A robot learns to cook", true)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Robot Chef", result.Title)
	assert.Equal(t, "#robot #cooking #shorts", result.Hashtags)
	require.Len(t, result.Scenes, 2)
	assert.True(t, app.Assets().Has(result.AudioHandle))

	projects := app.Library().Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, "A robot learns to cook", projects[0].Topic)

	stored, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, projects[0].ID, stored[0].ID)
}

func TestAppGenerateShortNoSave(t *testing.T) {
	config := testConfig(t)
	store := newTestStore(t)

	app := NewApp(config,
		WithGenerator(NewAI(&fakeOpenAIClient{}, config)),
		WithStore(store),
	)
	defer app.Close()

	result, err := app.GenerateShort(context.Background(), "A robot learns to cook", false)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, app.Library().Projects())
}
