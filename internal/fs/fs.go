package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PathResolver finds absolute paths for files named in candidates.
type PathResolver struct {
	lookupDirs []string
}

// NewPathResolver creates a new PathResolver. Without lookup directories it
// resolves against the current working directory.
func NewPathResolver(lookupDirs []string) (*PathResolver, error) {
	if len(lookupDirs) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get current working directory: %w", err)
		}
		return &PathResolver{lookupDirs: []string{wd}}, nil
	}

	absDirs := make([]string, 0, len(lookupDirs))
	for _, dir := range lookupDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("invalid lookup directory %q: %w", dir, err)
		}
		absDirs = append(absDirs, abs)
	}
	return &PathResolver{lookupDirs: absDirs}, nil
}

// Resolve finds an absolute path, assuming a new file in the first lookup
// directory if it doesn't exist anywhere.
func (r *PathResolver) Resolve(relativePath string) string {
	if existing := r.ResolveExisting(relativePath); existing != "" {
		return existing
	}
	return filepath.Join(r.lookupDirs[0], relativePath)
}

// ResolveExisting finds an absolute path only if the file exists.
func (r *PathResolver) ResolveExisting(relativePath string) string {
	for _, dir := range r.lookupDirs {
		absPath := filepath.Join(dir, relativePath)
		if _, err := os.Stat(absPath); err == nil {
			return absPath
		}
	}
	return ""
}

// ContentSHA256 returns the hex SHA-256 of a file's content.
func ContentSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteFile writes content, creating parent directories as needed.
func WriteFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// MoveFile moves src to dst, creating dst's parent directories.
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// Rename can fail across filesystems; fall back to copy + remove.
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return err
	}
	return os.Remove(src)
}

// SwapFiles exchanges the contents of two existing files.
func SwapFiles(a, b string) error {
	aData, err := os.ReadFile(a)
	if err != nil {
		return err
	}
	bData, err := os.ReadFile(b)
	if err != nil {
		return err
	}
	if err := os.WriteFile(a, bData, 0644); err != nil {
		return err
	}
	return os.WriteFile(b, aData, 0644)
}

// IsEmptyDir reports whether a directory contains no entries.
func IsEmptyDir(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	return false, err
}
