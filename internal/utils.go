package internal

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ParseProjectID parses a numeric project id argument.
func ParseProjectID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("'%s' is not a project id (run 'shortgen list' to see saved projects)", arg)
	}
	return id, nil
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour
func RenderMarkdown(content string) (string, error) {
	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}

// ProjectMarkdown formats a result as markdown for terminal preview.
func ProjectMarkdown(result *ShortResult) string {
	var sb strings.Builder
	title := result.Title
	if title == "" {
		title = result.Topic
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	if result.Hashtags != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", result.Hashtags))
	}
	sb.WriteString(fmt.Sprintf("**Topic:** %s\n\n", result.Topic))

	var total float64
	for i, scene := range result.Scenes {
		total += scene.Duration
		sb.WriteString(fmt.Sprintf("%d. *(%.1fs)* %s\n", i+1, scene.Duration, scene.SceneDescription))
	}
	sb.WriteString(fmt.Sprintf("\n%d scenes, ~%.0f seconds\n", len(result.Scenes), total))
	return sb.String()
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// ValidateModel checks if the chat model is supported
func ValidateModel(model string) error {
	supportedModels := []string{"gpt-4o", "gpt-4o-mini", "o4-mini", "gpt-4.1-nano"}
	if slices.Contains(supportedModels, model) {
		return nil
	}
	return fmt.Errorf("unsupported model: %s (supported: %s)", model, strings.Join(supportedModels, ", "))
}

// EnsureDirs creates directories if needed
func EnsureDirs(dir ...string) error {
	for _, dir := range dir {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateOpenAIAPIKey checks if the OpenAI API key is set and returns a standardized error if not
func ValidateOpenAIAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("OpenAI API key is required - set it in config.toml or OPENAI_API_KEY environment variable")
	}
	return nil
}
