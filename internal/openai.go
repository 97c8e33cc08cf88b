package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// TTS output format delivered by the speech endpoint: raw little-endian
// signed 16-bit PCM at 24 kHz, mono.
const (
	TTSSampleRate = 24000
	TTSChannels   = 1
)

// Generator is the generation service boundary. All calls may fail; failures
// propagate as workflow-fatal errors with a human-readable message.
type Generator interface {
	ScriptFromTopic(ctx context.Context, prompt string) (string, error)
	TitleAndHashtags(ctx context.Context, topic, script string) (title, hashtags string, err error)
	AnalyzeScenes(ctx context.Context, script string) ([]Scene, error)
	ImageForScene(ctx context.Context, description string) (string, error)
	Voiceover(ctx context.Context, text string) ([]byte, error)
}

// OpenAIClientInterface defines the interface for OpenAI client operations
type OpenAIClientInterface interface {
	CreateChatCompletion(ctx context.Context, model, prompt string) (string, error)
	GenerateImage(ctx context.Context, model, prompt string) (string, error)
	CreateSpeech(ctx context.Context, model, voice, text string) ([]byte, error)
}

// OpenAIClient wraps the official OpenAI Go SDK
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: &client}
}

// CreateChatCompletion implements the chat completion method
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	// Map model string to openai model constant
	var oaiModel openai.ChatModel
	switch model {
	case "gpt-4o":
		oaiModel = openai.ChatModelGPT4o
	case "gpt-4o-mini":
		oaiModel = openai.ChatModelGPT4oMini
	case "o4-mini":
		oaiModel = openai.ChatModelO4Mini
	case "gpt-4.1-nano":
		oaiModel = openai.ChatModelGPT4_1Nano
	default:
		return "", fmt.Errorf("unsupported model: %s", model)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: oaiModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage renders a single image and returns it as a data URL so scenes
// stay self-contained without an object store.
func (c *OpenAIClient) GenerateImage(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(model),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
		Size:           openai.ImageGenerateParamsSize1024x1792,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("no image data from OpenAI")
	}
	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}

// CreateSpeech synthesizes the voiceover and returns raw PCM bytes.
func (c *OpenAIClient) CreateSpeech(ctx context.Context, model, voice, text string) ([]byte, error) {
	resp, err := c.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(model),
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatPCM,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading speech response: %w", err)
	}
	return raw, nil
}

// AI implements Generator on top of the OpenAI API.
type AI struct {
	client     OpenAIClientInterface
	chatModel  string
	imageModel string
	ttsModel   string
	ttsVoice   string
	timeout    time.Duration
	verbose    bool
	apiKey     string
	clientOnce sync.Once
}

// NewAI creates a new AI generator with an explicit client.
func NewAI(client OpenAIClientInterface, config *Config) *AI {
	ai := NewAIWithKey("", config)
	ai.client = client
	return ai
}

// NewAIWithKey creates a new AI generator with lazy client initialization.
func NewAIWithKey(apiKey string, config *Config) *AI {
	return &AI{
		chatModel:  config.ChatModel,
		imageModel: config.ImageModel,
		ttsModel:   config.TTSModel,
		ttsVoice:   config.TTSVoice,
		timeout:    config.StageTimeout,
		verbose:    config.Verbose,
		apiKey:     apiKey,
	}
}

// ensureClient initializes the OpenAI client if needed
func (ai *AI) ensureClient() error {
	if ai.client != nil {
		return nil
	}

	if ai.apiKey == "" {
		return ValidateOpenAIAPIKey("")
	}

	ai.clientOnce.Do(func() {
		ai.client = NewOpenAIClient(ai.apiKey)
	})

	return nil
}

func (ai *AI) chat(ctx context.Context, prompt string) (string, error) {
	if err := ai.ensureClient(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	return ai.client.CreateChatCompletion(ctx, ai.chatModel, prompt)
}

// ScriptFromTopic generates the narration script for a topic. The prompt is
// already fully built by the PromptManager.
func (ai *AI) ScriptFromTopic(ctx context.Context, prompt string) (string, error) {
	script, err := ai.chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating script: %w", err)
	}
	return strings.TrimSpace(script), nil
}

// titleResponse is the JSON shape requested from the title stage.
type titleResponse struct {
	Title    string `json:"title"`
	Hashtags string `json:"hashtags"`
}

// TitleAndHashtags generates a catchy title and a hashtag string for the
// finished short.
func (ai *AI) TitleAndHashtags(ctx context.Context, topic, script string) (string, string, error) {
	content, err := ai.chat(ctx, TitlePrompt(topic, script))
	if err != nil {
		return "", "", fmt.Errorf("generating title: %w", err)
	}

	var resp titleResponse
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &resp); err != nil {
		return "", "", fmt.Errorf("parsing title response: %w", err)
	}
	return resp.Title, resp.Hashtags, nil
}

// sceneResponse is the JSON shape requested from the scene analysis stage.
type sceneResponse struct {
	Scenes []struct {
		SceneDescription string  `json:"sceneDescription"`
		SearchQuery      string  `json:"searchQuery"`
		Duration         float64 `json:"duration"`
	} `json:"scenes"`
}

// AnalyzeScenes breaks the script into an ordered scene list.
func (ai *AI) AnalyzeScenes(ctx context.Context, script string) ([]Scene, error) {
	content, err := ai.chat(ctx, ScenePrompt(script))
	if err != nil {
		return nil, fmt.Errorf("analyzing scenes: %w", err)
	}

	var resp sceneResponse
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &resp); err != nil {
		return nil, fmt.Errorf("parsing scene breakdown: %w", err)
	}
	if len(resp.Scenes) == 0 {
		return nil, fmt.Errorf("scene analysis returned no scenes")
	}

	scenes := make([]Scene, len(resp.Scenes))
	for i, s := range resp.Scenes {
		scenes[i] = Scene{
			SceneDescription: s.SceneDescription,
			SearchQuery:      s.SearchQuery,
			Duration:         s.Duration,
		}
	}
	return scenes, nil
}

// ImageForScene generates the image for a single scene description.
func (ai *AI) ImageForScene(ctx context.Context, description string) (string, error) {
	if err := ai.ensureClient(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	url, err := ai.client.GenerateImage(ctx, ai.imageModel, ImagePrompt(description))
	if err != nil {
		return "", fmt.Errorf("generating image: %w", err)
	}
	return url, nil
}

// Voiceover synthesizes the narration and returns raw 24 kHz mono PCM bytes.
func (ai *AI) Voiceover(ctx context.Context, text string) ([]byte, error) {
	if err := ai.ensureClient(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	raw, err := ai.client.CreateSpeech(ctx, ai.ttsModel, ai.ttsVoice, text)
	if err != nil {
		return nil, fmt.Errorf("generating voiceover: %w", err)
	}
	return raw, nil
}

// stripCodeFence unwraps ```json fenced blocks that chat models sometimes
// emit around JSON payloads.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
