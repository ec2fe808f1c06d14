package sift

import (
	"fmt"

	"github.com/sokinpui/sift/cli"
	"github.com/sokinpui/sift/diff"
	"github.com/sokinpui/sift/model"
)

// Config for using sift as a library.
type Config struct {
	// Apply into Neovim buffers instead of writing to disk.
	Buffer bool
	// Only review files with these extensions (e.g., ".py", ".js").
	Extensions []string
	// Directories to resolve candidate paths against.
	LookupDirs []string
}

// Preview computes the diff entries between an original and a candidate
// text without opening a session.
func Preview(original, candidate string) []diff.Entry {
	return diff.Generate(original, candidate)
}

// Apply parses the given content and applies every change block of every
// candidate file, skipping the interactive review.
func Apply(content string, config Config) (model.Summary, error) {
	cliCfg := &cli.Config{
		All:        true,
		Buffer:     config.Buffer,
		Extensions: config.Extensions,
		LookupDirs: config.LookupDirs,
	}

	app, err := New(cliCfg)
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to initialize sift app: %w", err)
	}
	defer app.Close()

	reviews, skipped, err := app.PlanContent(content)
	if err != nil {
		return model.Summary{}, err
	}

	var applied, failed []string
	for _, r := range reviews {
		if _, err := app.Commit(r); err != nil {
			failed = append(failed, r.Display)
			r.Session.Cancel()
			continue
		}
		applied = append(applied, r.Display)
	}
	return app.Finish(applied, skipped, failed)
}
