package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/sift/internal/ui"
)

// Provider determines and retrieves the source content.
type Provider struct{}

// New creates a new Provider.
func New() *Provider {
	return &Provider{}
}

// GetContent retrieves content from stdin (if piped) or the clipboard.
func (p *Provider) GetContent() (string, error) {
	stat, _ := os.Stdin.Stat()
	isPiped := (stat.Mode() & os.ModeCharDevice) == 0

	if isPiped {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), nil
	}

	content, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		ui.Warning("Clipboard is empty. Nothing to process.")
		return "", nil
	}
	return content, nil
}
