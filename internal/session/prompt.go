package session

import (
	"log/slog"
	"os"
	"strings"
)

// FilePromptSource reads the initial prompt from a text file. A missing or
// unreadable file yields an empty prompt, not an error.
type FilePromptSource struct {
	logger *slog.Logger
	path   string
}

// NewFilePromptSource creates a prompt source for the given file path.
func NewFilePromptSource(path string, log *slog.Logger) *FilePromptSource {
	if log == nil {
		log = slog.Default()
	}
	return &FilePromptSource{
		logger: log.With(slog.String("component", "prompt")),
		path:   path,
	}
}

// Load reads and trims the prompt file.
func (p *FilePromptSource) Load() string {
	data, err := os.ReadFile(p.path)
	if err != nil {
		p.logger.Warn("prompt file unavailable, using empty prompt",
			slog.String("path", p.path), slog.Any("error", err))
		return ""
	}
	return strings.TrimSpace(string(data))
}
