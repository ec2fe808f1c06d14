// Package history records applied runs in a plain-text state file so they
// can be undone and redone. Each operation keeps content hashes from before
// and after the apply plus a backup path; undo and redo refuse to touch a
// file whose on-disk content no longer matches the expected hash.
package history

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	stateDirName  = ".sift"
	stateFileName = "state.sift"
	backupDirName = "backup"
)

// Actions recorded per operation.
const (
	ActionCreate = "create"
	ActionModify = "modify"
)

// Operation is a single applied file change.
type Operation struct {
	Action      string
	Path        string
	ContentHash string // SHA-256 of the content after apply
	PriorHash   string // SHA-256 before apply; empty for creates
	BackupPath  string // holds whichever version is not on disk
}

// Entry is one applied run.
type Entry struct {
	Timestamp  int64
	Operations []Operation
}

// state is the parsed state file: a pointer into the run history.
type state struct {
	CurrentIndex int
	History      []Entry
}

// Manager handles the lifecycle of the state file.
type Manager struct {
	statePath string
	state     *state
	stateDir  string
	rootDir   string
}

// findGitRoot finds the root of the enclosing git repository.
func findGitRoot() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// New creates and loads a history manager rooted at the git toplevel,
// falling back to the current working directory.
func New() (*Manager, error) {
	rootDir, err := findGitRoot()
	if err != nil {
		rootDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get current working directory: %w", err)
		}
	}

	stateDir := filepath.Join(rootDir, stateDirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create state directory: %w", err)
	}
	m := &Manager{
		statePath: filepath.Join(stateDir, stateFileName),
		stateDir:  stateDir,
		rootDir:   rootDir,
	}
	if err := m.load(); err != nil {
		m.state = &state{CurrentIndex: -1}
	}
	return m, nil
}

// BackupPath returns where a backup of path belongs for a run stamped ts.
func (m *Manager) BackupPath(ts int64, path string) string {
	rel, err := filepath.Rel(m.rootDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	return filepath.Join(m.stateDir, backupDirName, strconv.FormatInt(ts, 10), rel)
}

// Blocks in the state file are separated by blank lines, so an empty field
// would corrupt the framing. Empty fields are stored as "-".
func encodeField(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func decodeField(s string) string {
	if s == "-" {
		return ""
	}
	return s
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = &state{CurrentIndex: -1}
			return nil
		}
		return err
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	blocks := strings.Split(content, "\n\n")
	if len(blocks) == 0 || strings.TrimSpace(blocks[0]) == "" {
		m.state = &state{CurrentIndex: -1}
		return nil
	}

	index, err := strconv.Atoi(strings.TrimSpace(blocks[0]))
	if err != nil {
		return fmt.Errorf("invalid state file: could not parse current index: %w", err)
	}
	m.state = &state{CurrentIndex: index}

	for _, block := range blocks[1:] {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")

		ts, err := strconv.ParseInt(lines[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid state file: could not parse timestamp %q: %w", lines[0], err)
		}

		entry := Entry{Timestamp: ts}
		opLines := lines[1:]
		for i := 0; i+5 <= len(opLines); i += 5 {
			entry.Operations = append(entry.Operations, Operation{
				Action:      opLines[i],
				Path:        opLines[i+1],
				ContentHash: decodeField(opLines[i+2]),
				PriorHash:   decodeField(opLines[i+3]),
				BackupPath:  decodeField(opLines[i+4]),
			})
		}
		if len(opLines)%5 != 0 {
			return fmt.Errorf("invalid state file: incomplete operation record")
		}
		m.state.History = append(m.state.History, entry)
	}
	return nil
}

func (m *Manager) save() error {
	blocks := []string{strconv.Itoa(m.state.CurrentIndex)}

	for _, entry := range m.state.History {
		lines := []string{strconv.FormatInt(entry.Timestamp, 10)}
		for _, op := range entry.Operations {
			lines = append(lines,
				op.Action,
				op.Path,
				encodeField(op.ContentHash),
				encodeField(op.PriorHash),
				encodeField(op.BackupPath),
			)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	content := strings.Join(blocks, "\n\n")
	if err := os.WriteFile(m.statePath, []byte(content), 0644); err != nil {
		return fmt.Errorf("could not save state file: %w", err)
	}
	return nil
}

// Write appends a new run, discarding any undone runs ahead of the pointer.
func (m *Manager) Write(ts int64, operations []Operation) error {
	if len(operations) == 0 {
		return nil
	}
	if m.state.CurrentIndex < len(m.state.History)-1 {
		m.state.History = m.state.History[:m.state.CurrentIndex+1]
	}
	m.state.History = append(m.state.History, Entry{
		Timestamp:  ts,
		Operations: operations,
	})
	m.state.CurrentIndex++
	return m.save()
}

// OperationsToUndo returns the operations of the current run and moves the
// pointer back. Nil when there is nothing to undo.
func (m *Manager) OperationsToUndo() []Operation {
	if m.state.CurrentIndex < 0 {
		return nil
	}
	ops := m.state.History[m.state.CurrentIndex].Operations
	m.state.CurrentIndex--
	m.save()
	return ops
}

// OperationsToRedo returns the operations of the next run and moves the
// pointer forward. Nil when there is nothing to redo.
func (m *Manager) OperationsToRedo() []Operation {
	next := m.state.CurrentIndex + 1
	if next >= len(m.state.History) {
		return nil
	}
	m.state.CurrentIndex = next
	ops := m.state.History[next].Operations
	m.save()
	return ops
}

// Stamp returns the timestamp used to label the current run.
func Stamp() int64 {
	return time.Now().UTC().Unix()
}
