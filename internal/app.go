package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// App holds the application state and dependencies
type App struct {
	workflow      *Workflow
	library       *Library
	assets        *AssetRegistry
	store         *Store
	promptManager *PromptManager
	config        *Config
	ui            UIManager
}

// NewApp initializes the application. A failing project store disables
// persistence commands but never blocks generation.
func NewApp(config *Config, options ...AppOption) *App {
	assets := NewAssetRegistry()
	promptManager := NewPromptManager(config.ConfigDir, config.Prompt)
	ui := NewUIManager(config.Verbose, config.Quiet)

	app := &App{
		assets:        assets,
		promptManager: promptManager,
		config:        config,
		ui:            ui,
	}

	var generator Generator = NewAIWithKey(config.OpenAIAPIKey, config)

	// Apply any custom options before wiring the dependent pieces
	for _, option := range options {
		option(app, &generator)
	}

	if app.store == nil {
		store, err := OpenStore(config.DataDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (saving disabled)\n", err)
		} else {
			app.store = store
		}
	}

	library, err := NewLibrary(context.Background(), app.projectStore(), assets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (saving disabled)\n", err)
		library, _ = NewLibrary(context.Background(), nil, assets)
	}
	app.library = library
	app.workflow = NewWorkflow(generator, app.promptManager, assets)

	return app
}

func (app *App) projectStore() ProjectStore {
	if app.store == nil {
		return nil
	}
	return app.store
}

// AppOption customizes App creation
type AppOption func(*App, *Generator)

// WithGenerator sets a custom generation service
func WithGenerator(g Generator) AppOption {
	return func(a *App, gen *Generator) {
		*gen = g
	}
}

// WithStore sets a custom project store
func WithStore(store *Store) AppOption {
	return func(a *App, gen *Generator) {
		a.store = store
	}
}

// SetPromptManager sets a new prompt manager
func (app *App) SetPromptManager(pm *PromptManager) {
	app.promptManager = pm
	if app.workflow != nil {
		app.workflow.prompts = pm
	}
}

// Library exposes the project library.
func (app *App) Library() *Library {
	return app.library
}

// Assets exposes the transient asset registry.
func (app *App) Assets() *AssetRegistry {
	return app.assets
}

// Close releases the project store.
func (app *App) Close() error {
	return app.store.Close()
}

// GenerateShort runs the full generation workflow for a topic, driving a
// spinner through the stages, and optionally saves the result.
func (app *App) GenerateShort(ctx context.Context, topic string, save bool) (*ShortResult, error) {
	spinner := app.ui.NewSpinner("Starting generation...")

	result, err := app.workflow.Generate(ctx, topic, func(stage string) {
		spinner.Describe(stage)
		spinner.Advance()
	})
	spinner.Finish()
	if err != nil {
		// The workflow is in the error state; reset it so the next
		// invocation starts clean.
		app.workflow.Restart()
		return nil, err
	}

	preview, renderErr := RenderMarkdown(ProjectMarkdown(result))
	if renderErr != nil {
		// Preview rendering is cosmetic; fall back to plain text.
		preview = ProjectMarkdown(result)
	}
	fmt.Println(preview)

	if save {
		project, err := app.library.Save(ctx, result)
		if err != nil {
			if errors.Is(err, ErrPreconditionNotMet) {
				app.ui.Printf("Not saved: %v\n", err)
				return result, nil
			}
			return result, err
		}
		app.ui.Printf("Saved project %d\n", project.ID)
	}

	return result, nil
}

// WriteProjectAudio decodes a saved project's audio and writes the WAV file
// to the given path.
func (app *App) WriteProjectAudio(project *SavedProject, path string) error {
	result, err := app.library.Load(project)
	if err != nil {
		return err
	}
	defer app.assets.Revoke(result.AudioHandle)

	data, _, err := app.assets.Read(result.AudioHandle)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing audio file: %w", err)
	}
	return nil
}
