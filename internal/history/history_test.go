package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// newTestManager builds a manager rooted at a temp directory. The git-root
// lookup is bypassed by chdir into the temp dir, which has no repository.
func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	// GIT_DIR pointing nowhere keeps a surrounding repository from being
	// picked up when tests run inside one.
	t.Setenv("GIT_DIR", filepath.Join(dir, "no-such-repo"))

	m, err := New()
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func op(path, after, prior string) Operation {
	return Operation{
		Action:      ActionModify,
		Path:        path,
		ContentHash: after,
		PriorHash:   prior,
		BackupPath:  path + ".bak",
	}
}

func TestWriteAndUndoRedo(t *testing.T) {
	m := newTestManager(t)

	if got := m.OperationsToUndo(); got != nil {
		t.Fatalf("empty history: undo = %v, want nil", got)
	}

	first := []Operation{op("a.txt", "h1", "h0")}
	second := []Operation{op("b.txt", "h3", "h2")}
	if err := m.Write(100, first); err != nil {
		t.Fatal(err)
	}
	if err := m.Write(200, second); err != nil {
		t.Fatal(err)
	}

	undone := m.OperationsToUndo()
	if len(undone) != 1 || undone[0].Path != "b.txt" {
		t.Fatalf("undo = %v, want second run", undone)
	}
	undone = m.OperationsToUndo()
	if len(undone) != 1 || undone[0].Path != "a.txt" {
		t.Fatalf("undo = %v, want first run", undone)
	}
	if got := m.OperationsToUndo(); got != nil {
		t.Fatalf("exhausted history: undo = %v, want nil", got)
	}

	redone := m.OperationsToRedo()
	if len(redone) != 1 || redone[0].Path != "a.txt" {
		t.Fatalf("redo = %v, want first run", redone)
	}
}

func TestWriteTruncatesUndoneRuns(t *testing.T) {
	m := newTestManager(t)

	if err := m.Write(100, []Operation{op("a.txt", "h1", "h0")}); err != nil {
		t.Fatal(err)
	}
	if err := m.Write(200, []Operation{op("b.txt", "h3", "h2")}); err != nil {
		t.Fatal(err)
	}
	m.OperationsToUndo() // step back over b.txt

	if err := m.Write(300, []Operation{op("c.txt", "h5", "h4")}); err != nil {
		t.Fatal(err)
	}

	// The undone b.txt run is gone; redo has nothing.
	if got := m.OperationsToRedo(); got != nil {
		t.Fatalf("redo after truncating write = %v, want nil", got)
	}
	undone := m.OperationsToUndo()
	if len(undone) != 1 || undone[0].Path != "c.txt" {
		t.Fatalf("undo = %v, want c.txt run", undone)
	}
}

func TestStateFileRoundTrip(t *testing.T) {
	m := newTestManager(t)

	ops := []Operation{
		{Action: ActionCreate, Path: "new.txt", ContentHash: "h1", BackupPath: "b1"},
		op("mod.txt", "h2", "h3"),
	}
	if err := m.Write(123, ops); err != nil {
		t.Fatal(err)
	}

	// A fresh manager reloads the same history from disk.
	reloaded, err := New()
	if err != nil {
		t.Fatal(err)
	}
	got := reloaded.OperationsToUndo()
	if len(got) != 2 {
		t.Fatalf("reloaded undo = %v, want 2 operations", got)
	}
	if got[0].Action != ActionCreate || got[0].Path != "new.txt" || got[0].PriorHash != "" {
		t.Errorf("reloaded create op = %+v", got[0])
	}
	if got[1].Action != ActionModify || got[1].PriorHash != "h3" {
		t.Errorf("reloaded modify op = %+v", got[1])
	}
}

func TestBackupPathStaysUnderStateDir(t *testing.T) {
	m := newTestManager(t)

	inside := filepath.Join(m.rootDir, "src", "a.go")
	p := m.BackupPath(42, inside)
	if !strings.HasPrefix(p, filepath.Join(m.stateDir, backupDirName, "42")) {
		t.Errorf("backup path %q not under state dir", p)
	}
	if !strings.HasSuffix(p, filepath.Join("src", "a.go")) {
		t.Errorf("backup path %q lost the relative layout", p)
	}

	outside := "/elsewhere/b.go"
	p = m.BackupPath(42, outside)
	if !strings.HasSuffix(p, "b.go") || strings.Contains(p, "elsewhere") {
		t.Errorf("backup path for outside file = %q", p)
	}
}
