// Package nvim pushes reviewed contents into the buffers of a running
// Neovim instance instead of writing to disk. Buffers are deliberately left
// unsaved so the edit history stays inside the editor.
package nvim

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/neovim/go-client/nvim"
)

// Manager handles the connection to a Neovim instance.
type Manager struct {
	nvim *nvim.Nvim
}

// New connects to the Neovim instance named by $NVIM_LISTEN_ADDRESS or
// $NVIM. Buffer mode targets the user's editor, so there is no headless
// fallback; a throwaway instance would discard the updates.
func New() (*Manager, error) {
	addr := os.Getenv("NVIM_LISTEN_ADDRESS")
	if addr == "" {
		addr = os.Getenv("NVIM")
	}
	if addr == "" {
		return nil, fmt.Errorf("no running Neovim instance found: set NVIM_LISTEN_ADDRESS or run inside :terminal")
	}

	v, err := nvim.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Neovim at %s: %w", addr, err)
	}
	return &Manager{nvim: v}, nil
}

// Close disconnects from Neovim.
func (m *Manager) Close() {
	if m.nvim != nil {
		m.nvim.Close()
	}
}

// UpdateBuffer replaces the buffer for path with content, opening the file
// first if no buffer exists. The buffer is modified but not written.
func (m *Manager) UpdateBuffer(path, content string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	lines := strings.Split(content, "\n")
	byteLines := make([][]byte, len(lines))
	for i, l := range lines {
		byteLines[i] = []byte(l)
	}

	b := m.nvim.NewBatch()
	b.Command(fmt.Sprintf("edit %s", absPath))
	b.SetBufferLines(0, 0, -1, true, byteLines)
	if err := b.Execute(); err != nil {
		return fmt.Errorf("failed to update buffer for %s: %w", absPath, err)
	}
	return nil
}
