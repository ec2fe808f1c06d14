package sift

import (
	"os"
	"path/filepath"

	"github.com/sokinpui/sift/internal/fs"
	"github.com/sokinpui/sift/internal/history"
	"github.com/sokinpui/sift/model"
)

// undoLastRun reverts the files of the most recent applied run. Every
// operation is hash-checked first: a file edited since the apply is left
// alone and reported as failed.
func (a *App) undoLastRun() (model.Summary, error) {
	ops := a.history.OperationsToUndo()
	if len(ops) == 0 {
		return model.Summary{Message: "No run to undo."}, nil
	}

	var undone, failed []string
	for _, op := range ops {
		if a.undoOperation(op) {
			undone = append(undone, displayPath(op.Path))
		} else {
			failed = append(failed, displayPath(op.Path))
		}
	}
	return model.Summary{
		Applied: undone,
		Failed:  failed,
		Message: "Undid last run.",
	}, nil
}

func (a *App) undoOperation(op history.Operation) bool {
	current, err := fs.ContentSHA256(op.Path)
	if err != nil {
		// The undo of a create whose file is already gone is a no-op.
		return op.Action == history.ActionCreate && os.IsNotExist(err)
	}
	if current != op.ContentHash {
		return false
	}

	switch op.Action {
	case history.ActionCreate:
		// Park the created file in the backup so redo can bring it back.
		if err := fs.MoveFile(op.Path, op.BackupPath); err != nil {
			return false
		}
		removeEmptyParent(op.Path)
		return true
	case history.ActionModify:
		return fs.SwapFiles(op.Path, op.BackupPath) == nil
	default:
		return false
	}
}

// redoLastRun re-applies the most recently undone run.
func (a *App) redoLastRun() (model.Summary, error) {
	ops := a.history.OperationsToRedo()
	if len(ops) == 0 {
		return model.Summary{Message: "No run to redo."}, nil
	}

	var redone, failed []string
	for _, op := range ops {
		if a.redoOperation(op) {
			redone = append(redone, displayPath(op.Path))
		} else {
			failed = append(failed, displayPath(op.Path))
		}
	}
	return model.Summary{
		Applied: redone,
		Failed:  failed,
		Message: "Redid last undone run.",
	}, nil
}

func (a *App) redoOperation(op history.Operation) bool {
	switch op.Action {
	case history.ActionCreate:
		backupHash, err := fs.ContentSHA256(op.BackupPath)
		if err != nil || backupHash != op.ContentHash {
			return false
		}
		if _, err := os.Stat(op.Path); !os.IsNotExist(err) {
			// Don't overwrite whatever now lives at the original path.
			return false
		}
		return fs.MoveFile(op.BackupPath, op.Path) == nil
	case history.ActionModify:
		current, err := fs.ContentSHA256(op.Path)
		if err != nil || current != op.PriorHash {
			return false
		}
		return fs.SwapFiles(op.Path, op.BackupPath) == nil
	default:
		return false
	}
}

func removeEmptyParent(path string) {
	parent := filepath.Dir(path)
	if isEmpty, err := fs.IsEmptyDir(parent); err == nil && isEmpty {
		os.Remove(parent)
	}
}
