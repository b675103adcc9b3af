package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestImageStoreSaveRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }

	ctx := context.Background()
	filename, err := store.Save(ctx, "Hot Sauce.JPEG", strings.NewReader("jpeg bytes"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(filename, "Hot_Sauce_1700000000000_") || !strings.HasSuffix(filename, ".jpg") {
		t.Fatalf("unexpected filename %s", filename)
	}

	content, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil || string(content) != "jpeg bytes" {
		t.Fatalf("stored content mismatch: %q %v", content, err)
	}

	other, err := store.Save(ctx, "Hot Sauce.jpg", strings.NewReader("other bytes"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if other == filename {
		t.Fatalf("different content must not share a filename")
	}

	if err := store.Remove(ctx, filename); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filename)); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone, stat returned %v", err)
	}
	if err := store.Remove(ctx, filename); err == nil {
		t.Fatalf("expected error removing a missing file")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected only the second image to remain, found %d entries", len(entries))
	}
}

func TestImageStoreRejects(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Save(ctx, "payload.exe", strings.NewReader("x")); err == nil {
		t.Fatalf("expected unsupported extension to be rejected")
	}
	for _, name := range []string{"../etc/passwd", "", ".upload-123"} {
		if err := store.Remove(ctx, name); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}
