package internal

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Workflow drives the topic-to-preview generation sequence:
//
//	topic → script → (title, hashtags) → scene breakdown → per-scene images
//	→ voiceover text → raw audio → playable WAV handle
//
// Any stage failure aborts the run, moves the workflow to the error state and
// surfaces that stage's message verbatim. At most one generation is in flight
// at a time; a second request fails with ErrBusy instead of racing the first.
type Workflow struct {
	generator Generator
	prompts   *PromptManager
	assets    *AssetRegistry

	mu      sync.Mutex
	state   WorkflowState
	result  *ShortResult
	lastErr error
}

// NewWorkflow creates an idle workflow.
func NewWorkflow(generator Generator, prompts *PromptManager, assets *AssetRegistry) *Workflow {
	return &Workflow{
		generator: generator,
		prompts:   prompts,
		assets:    assets,
		state:     StateIdle,
	}
}

// State returns the current workflow state.
func (w *Workflow) State() WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Result returns the finished result, or nil unless the workflow is in the
// preview state.
func (w *Workflow) Result() *ShortResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StatePreview {
		return nil
	}
	return w.result
}

// Err returns the failure of the last run, or nil.
func (w *Workflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Restart returns an errored workflow to idle. It is the only way out of the
// error state.
func (w *Workflow) Restart() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateError {
		w.state = StateIdle
		w.lastErr = nil
	}
}

// begin moves the workflow into the loading state. The previous result is
// kept until finish replaces it, so its audio handle can be revoked then.
func (w *Workflow) begin() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case StateLoading:
		return ErrBusy
	case StateError:
		return fmt.Errorf("%w: restart required after a failed run", ErrPreconditionNotMet)
	}
	w.state = StateLoading
	w.lastErr = nil
	return nil
}

func (w *Workflow) fail(stage string, err error) error {
	werr := &WorkflowError{Stage: stage, Err: err}
	w.mu.Lock()
	w.state = StateError
	w.lastErr = werr
	w.mu.Unlock()
	return werr
}

func (w *Workflow) finish(result *ShortResult) {
	w.mu.Lock()
	// Replacing a previous preview releases its audio asset.
	if w.result != nil && w.result.AudioHandle != "" {
		w.assets.Revoke(w.result.AudioHandle)
	}
	w.result = result
	w.state = StatePreview
	w.mu.Unlock()
}

// Generate runs the full workflow for a topic. The optional progress callback
// receives a short label as each stage starts.
func (w *Workflow) Generate(ctx context.Context, topic string, progress func(stage string)) (*ShortResult, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("topic is empty")
	}
	if err := w.begin(); err != nil {
		return nil, err
	}

	report := func(stage string) {
		if progress != nil {
			progress(stage)
		}
	}

	report("Writing script")
	prompt, err := w.prompts.CreateScriptPrompt(topic)
	if err != nil {
		return nil, w.fail("script", err)
	}
	script, err := w.generator.ScriptFromTopic(ctx, prompt)
	if err != nil {
		return nil, w.fail("script", err)
	}

	report("Naming the short")
	title, hashtags, err := w.generator.TitleAndHashtags(ctx, topic, script)
	if err != nil {
		return nil, w.fail("title", err)
	}

	report("Breaking down scenes")
	scenes, err := w.generator.AnalyzeScenes(ctx, script)
	if err != nil {
		return nil, w.fail("scenes", err)
	}

	report(fmt.Sprintf("Generating %d images", len(scenes)))
	if err := w.generateImages(ctx, scenes); err != nil {
		return nil, w.fail("images", err)
	}

	report("Recording voiceover")
	raw, err := w.generator.Voiceover(ctx, VoiceoverText(script))
	if err != nil {
		return nil, w.fail("voiceover", err)
	}

	report("Encoding audio")
	clip, err := DecodePCM(raw, TTSSampleRate, TTSChannels)
	if err != nil {
		return nil, w.fail("audio", err)
	}

	result := &ShortResult{
		Topic:       topic,
		Scenes:      scenes,
		AudioHandle: ClipToWAVHandle(w.assets, clip),
		Title:       title,
		Hashtags:    hashtags,
	}
	w.finish(result)
	return result, nil
}

// generateImages requests every scene's image concurrently and waits for all
// of them. The join is all-or-nothing: the first failure cancels the rest and
// fails the batch, leaving no partial results.
func (w *Workflow) generateImages(ctx context.Context, scenes []Scene) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range scenes {
		g.Go(func() error {
			url, err := w.generator.ImageForScene(ctx, scenes[i].SceneDescription)
			if err != nil {
				return err
			}
			scenes[i].ImageURL = url
			return nil
		})
	}
	return g.Wait()
}

// VoiceoverText derives the spoken narration from a script: lines whose
// trimmed content begins with the scene marker are dropped, the rest are
// joined with single spaces.
func VoiceoverText(script string) string {
	var spoken []string
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, SceneMarkerToken) {
			continue
		}
		spoken = append(spoken, line)
	}
	return strings.Join(spoken, " ")
}
