// Package sift orchestrates a review run: it parses proposed file contents
// from the source, opens one diff session per file, and applies or records
// the outcome of each review.
package sift

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/sokinpui/sift/cli"
	"github.com/sokinpui/sift/internal/fs"
	"github.com/sokinpui/sift/internal/history"
	"github.com/sokinpui/sift/internal/nvim"
	"github.com/sokinpui/sift/internal/parser"
	"github.com/sokinpui/sift/internal/source"
	"github.com/sokinpui/sift/internal/ui"
	"github.com/sokinpui/sift/model"
	"github.com/sokinpui/sift/session"
)

// Review is one file's pending diff session.
type Review struct {
	Candidate model.Candidate
	// Path is the resolved absolute target path; Display is relative to
	// the working directory for output.
	Path    string
	Display string
	Action  string // history.ActionCreate or history.ActionModify
	Session *session.Session
}

// App orchestrates the entire application logic.
type App struct {
	cfg      *cli.Config
	history  *history.Manager
	resolver *fs.PathResolver
	source   *source.Provider

	stamp   int64
	pending []history.Operation
	editor  *nvim.Manager
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

// New creates a new App instance.
func New(cfg *cli.Config) (*App, error) {
	historyManager, err := history.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}
	resolver, err := fs.NewPathResolver(cfg.LookupDirs)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		history:  historyManager,
		resolver: resolver,
		source:   source.New(),
		stamp:    history.Stamp(),
	}, nil
}

// Close releases the editor connection if one was opened.
func (a *App) Close() {
	if a.editor != nil {
		a.editor.Close()
	}
}

// Plan reads the source and opens one review per candidate file. Candidates
// whose content matches the file on disk come back in skipped.
func (a *App) Plan() ([]*Review, []string, error) {
	content, err := a.source.GetContent()
	if err != nil {
		return nil, nil, err
	}
	return a.PlanContent(content)
}

// PlanContent opens reviews for already-loaded source content.
func (a *App) PlanContent(content string) ([]*Review, []string, error) {
	if content == "" {
		return nil, nil, nil
	}

	candidates, err := parser.Candidates(content, a.cfg.Extensions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse source: %w", err)
	}

	var reviews []*Review
	var skipped []string
	for _, c := range candidates {
		path := a.resolver.Resolve(c.Path)
		action := history.ActionModify
		original := ""
		if data, err := os.ReadFile(path); err == nil {
			original = string(data)
		} else if os.IsNotExist(err) {
			action = history.ActionCreate
		} else {
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		sess := session.Open(original, c.Content)
		if !sess.HasChanges() {
			skipped = append(skipped, displayPath(path))
			continue
		}
		reviews = append(reviews, &Review{
			Candidate: c,
			Path:      path,
			Display:   displayPath(path),
			Action:    action,
			Session:   sess,
		})
	}
	return reviews, skipped, nil
}

// Commit applies a review's current selection: into Neovim buffers in
// buffer mode, otherwise to disk with a backup recorded for undo. A failed
// write leaves the session open so Commit can be retried.
func (a *App) Commit(r *Review) (string, error) {
	return r.Session.Apply(func(content string) error {
		if a.cfg.Buffer {
			editor, err := a.editorManager()
			if err != nil {
				return err
			}
			return editor.UpdateBuffer(r.Path, content)
		}
		return a.writeToDisk(r, content)
	})
}

func (a *App) writeToDisk(r *Review, content string) error {
	op := history.Operation{
		Action:     r.Action,
		Path:       r.Path,
		BackupPath: a.history.BackupPath(a.stamp, r.Path),
	}

	if r.Action == history.ActionModify {
		prior, err := fs.ContentSHA256(r.Path)
		if err != nil {
			return fmt.Errorf("failed to hash %s: %w", r.Path, err)
		}
		op.PriorHash = prior
		// Stash the pre-apply content so undo can swap it back.
		if err := fs.WriteFile(op.BackupPath, r.Session.Original()); err != nil {
			return fmt.Errorf("failed to back up %s: %w", r.Path, err)
		}
	}

	if err := fs.WriteFile(r.Path, content); err != nil {
		return err
	}
	after, err := fs.ContentSHA256(r.Path)
	if err != nil {
		return fmt.Errorf("failed to hash %s after write: %w", r.Path, err)
	}
	op.ContentHash = after
	a.pending = append(a.pending, op)
	return nil
}

// Finish records the committed operations and assembles the run summary.
// Buffer mode records nothing: unsaved buffers cannot be undone from here.
func (a *App) Finish(applied, skipped, failed []string) (model.Summary, error) {
	if !a.cfg.Buffer && len(a.pending) > 0 {
		if err := a.history.Write(a.stamp, a.pending); err != nil {
			return model.Summary{}, err
		}
		a.pending = nil
	}
	return model.Summary{
		Applied: applied,
		Skipped: skipped,
		Failed:  failed,
	}, nil
}

// Execute runs the non-interactive modes selected by flags.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	switch {
	case a.cfg.Undo:
		return a.undoLastRun()
	case a.cfg.Redo:
		return a.redoLastRun()
	case a.cfg.Print:
		return a.printDiffs()
	default:
		return a.applyAll()
	}
}

// applyAll commits every review with its full default selection.
func (a *App) applyAll() (model.Summary, error) {
	reviews, skipped, err := a.Plan()
	if err != nil {
		return model.Summary{}, err
	}
	if len(reviews) == 0 && len(skipped) == 0 {
		return model.Summary{Message: "No candidate files found. Nothing to do."}, nil
	}

	var applied, failed []string
	for _, r := range reviews {
		if _, err := a.Commit(r); err != nil {
			ui.Warning("Failed to apply %s: %v", r.Display, err)
			failed = append(failed, r.Display)
			r.Session.Cancel()
			continue
		}
		applied = append(applied, r.Display)
	}
	return a.Finish(applied, skipped, failed)
}

// printDiffs writes every computed diff to stdout and applies nothing.
func (a *App) printDiffs() (model.Summary, error) {
	reviews, skipped, err := a.Plan()
	if err != nil {
		return model.Summary{}, err
	}
	for _, r := range reviews {
		ui.PrintDiff(r.Display, r.Session.Entries())
		r.Session.Cancel()
	}
	if len(reviews) == 0 {
		return model.Summary{Message: "No changes to show.", Skipped: skipped}, nil
	}
	return model.Summary{Skipped: skipped}, nil
}

func (a *App) editorManager() (*nvim.Manager, error) {
	if a.editor != nil {
		return a.editor, nil
	}
	editor, err := nvim.New()
	if err != nil {
		return nil, err
	}
	a.editor = editor
	return editor, nil
}

// displayPath converts an absolute path to one relative to the working
// directory for cleaner output.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return rel
}
