package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDirCreatesNested(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "a", "b", "c")

	abs, err := EnsureDir(dir)
	if err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
}

func TestEnsureDirRejectsEmpty(t *testing.T) {
	if _, err := EnsureDir("  "); err == nil {
		t.Fatal("empty path should fail")
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("copy: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "payload" {
		t.Fatalf("unexpected copy result %q, err %v", data, err)
	}
}

func TestRemoveWithinDeletesInside(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "scratch.wav")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := RemoveWithin(base, target); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("file should be deleted")
	}
}

func TestRemoveWithinIgnoresMissing(t *testing.T) {
	base := t.TempDir()
	if err := RemoveWithin(base, filepath.Join(base, "gone.wav")); err != nil {
		t.Fatalf("missing files must be ignored: %v", err)
	}
}

func TestRemoveWithinRefusesOutside(t *testing.T) {
	base := t.TempDir()
	outside := filepath.Join(t.TempDir(), "other.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := RemoveWithin(base, outside); err == nil {
		t.Fatal("paths outside the base dir must be refused")
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatal("outside file must survive")
	}
}
