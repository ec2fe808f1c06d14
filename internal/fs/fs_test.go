package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathResolver(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(existing, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := NewPathResolver([]string{dir})
	if err != nil {
		t.Fatal(err)
	}

	if got := r.ResolveExisting("a.txt"); got != existing {
		t.Errorf("ResolveExisting = %q, want %q", got, existing)
	}
	if got := r.ResolveExisting("missing.txt"); got != "" {
		t.Errorf("ResolveExisting(missing) = %q, want empty", got)
	}
	if got := r.Resolve("new/file.txt"); got != filepath.Join(dir, "new/file.txt") {
		t.Errorf("Resolve(new) = %q", got)
	}
}

func TestWriteFileCreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deep", "nested", "f.txt")

	if err := WriteFile(path, "hello"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want hello", data)
	}
}

func TestSwapFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	if err := os.WriteFile(a, []byte("one"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("two"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := SwapFiles(a, b); err != nil {
		t.Fatal(err)
	}

	aData, _ := os.ReadFile(a)
	bData, _ := os.ReadFile(b)
	if string(aData) != "two" || string(bData) != "one" {
		t.Errorf("after swap: a=%q b=%q", aData, bData)
	}
}

func TestContentSHA256(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}

	// Well-known digest of "abc".
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	got, err := ContentSHA256(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("hash = %s, want %s", got, want)
	}
}
