package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// SceneMarkerToken marks scene-direction lines in generated scripts. The
// script prompt asks the model to label visual beats with it; those lines are
// stripped before the voiceover is synthesized.
const SceneMarkerToken = "[SCENE"

// PromptData for template injection
type PromptData struct {
	Topic string
}

// PromptManager handles loading and processing the script prompt template
type PromptManager struct {
	promptFile   string
	promptString string
	configDir    string
}

// NewPromptManager creates a new prompt manager
func NewPromptManager(configDir, promptSetting string) *PromptManager {
	pm := &PromptManager{
		configDir: configDir,
	}

	// Configure prompt based on config setting
	if promptSetting != "" {
		if IsLikelyFilePath(promptSetting) && FileExists(promptSetting) {
			pm.promptFile = promptSetting
		} else {
			pm.promptString = promptSetting
		}
	}

	return pm
}

// CreateScriptPrompt builds the script-generation prompt for a topic.
func (pm *PromptManager) CreateScriptPrompt(topic string) (string, error) {
	var tmplContent string

	if pm.promptString != "" {
		// Use custom prompt string
		tmplContent = pm.promptString
	} else {
		// Use prompt file (custom or default from config directory)
		promptFile := pm.promptFile
		if promptFile == "" {
			promptFile = filepath.Join(pm.configDir, "prompt.txt")
		}

		content, err := os.ReadFile(promptFile)
		if err != nil {
			return "", fmt.Errorf("reading prompt template: %w", err)
		}
		tmplContent = string(content)
	}

	tmpl, err := template.New("prompt").Parse(tmplContent)
	if err != nil {
		return "", fmt.Errorf("parsing prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, PromptData{Topic: topic}); err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}

	return buf.String(), nil
}

// TitlePrompt builds the title-and-hashtags prompt.
func TitlePrompt(topic, script string) string {
	return fmt.Sprintf(`You are naming a short vertical video about %q.
Based on the script below, respond with JSON only, exactly this shape:
{"title": "...", "hashtags": "#... #... #..."}
The title must be catchy and under 60 characters. Give 3 to 5 hashtags in one
space-separated string.

Script:
%s`, topic, script)
}

// ScenePrompt builds the scene-analysis prompt.
func ScenePrompt(script string) string {
	return fmt.Sprintf(`Break the following short-video script into 3 to 6 visual scenes.
Respond with JSON only, exactly this shape:
{"scenes": [{"sceneDescription": "...", "searchQuery": "...", "duration": 4}]}
sceneDescription is a detailed visual description of the setting and action.
searchQuery is a 2-4 word stock-footage style query for the scene.
duration is the scene length in seconds; durations should sum to the spoken
length of the script.

Script:
%s`, script)
}

// ImagePrompt builds the image-generation prompt for one scene.
func ImagePrompt(description string) string {
	return fmt.Sprintf("Vertical 9:16 cinematic still, high detail, vivid colors. %s", description)
}

// IsLikelyFilePath uses heuristics to determine if a string is likely a file path
func IsLikelyFilePath(s string) bool {
	// Check for common file path indicators
	if strings.Contains(s, "/") || strings.Contains(s, "\\") {
		return true
	}

	// Check for common file extensions
	if strings.Contains(s, ".txt") || strings.Contains(s, ".md") ||
		strings.Contains(s, ".template") || strings.Contains(s, ".tmpl") {
		return true
	}

	// If it's longer than 200 characters, it's likely a prompt string
	if len(s) > 200 {
		return false
	}

	// Default to treating as file path if it doesn't contain spaces and newlines
	return !strings.Contains(s, " ") && !strings.Contains(s, "\n")
}
