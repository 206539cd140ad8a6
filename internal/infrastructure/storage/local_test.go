package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalImageStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalImageStore(dir, "/uploads/")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	ref, err := store.Save("u1", "avatar.PNG", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(ref, "/uploads/u1_") || !strings.HasSuffix(ref, ".png") {
		t.Fatalf("unexpected reference: %s", ref)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(ref)))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected content: %s", data)
	}
}

func TestLocalImageStore_RejectsUnknownExtension(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := store.Save("u1", "payload.exe", strings.NewReader("nope")); !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
}

func TestLocalImageStore_UniqueNames(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	first, err := store.Save("u1", "a.jpg", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := store.Save("u1", "a.jpg", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first == second {
		t.Fatalf("re-upload must not overwrite the previous file: %s", first)
	}
}

func TestNewLocalImageStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	if _, err := NewLocalImageStore(dir, "/uploads"); err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("directory not created: %v", err)
	}
}
