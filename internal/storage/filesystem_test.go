package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "generated-images"))
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	return store
}

func TestSaveWritesFileAndReportsSize(t *testing.T) {
	store := newTestStore(t)
	data := []byte("\x89PNG\r\n\x1a\nfake-png-payload")

	img, err := store.Save(context.Background(), "", "cube", data, "image/png")
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if img.Filename != "cube.png" {
		t.Fatalf("Filename = %q", img.Filename)
	}
	if img.Bytes != int64(len(data)) {
		t.Fatalf("Bytes = %d, want %d", img.Bytes, len(data))
	}
	onDisk, err := os.ReadFile(img.Path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if int64(len(onDisk)) != img.Bytes {
		t.Fatalf("file length %d != reported %d", len(onDisk), img.Bytes)
	}
	if !filepath.IsAbs(img.Path) {
		t.Fatalf("Path %q is not absolute", img.Path)
	}
}

func TestSaveRejectsTraversalFilenames(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"../escape", "..", "a/b", `a\b`, "..\\evil", ""} {
		if _, err := store.Save(context.Background(), "", name, []byte("x"), "image/png"); err == nil {
			t.Fatalf("Save accepted filename %q", name)
		}
	}
	entries, err := os.ReadDir(store.BasePath())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected saves left %d entries behind", len(entries))
	}
}

func TestSaveExtensionFollowsContentType(t *testing.T) {
	store := newTestStore(t)
	cases := []struct {
		name        string
		contentType string
		data        []byte
		wantExt     string
	}{
		{name: "png", contentType: "image/png", data: []byte("x"), wantExt: ".png"},
		{name: "jpeg with params", contentType: "image/jpeg; charset=binary", data: []byte("x"), wantExt: ".jpg"},
		{name: "webp", contentType: "image/webp", data: []byte("x"), wantExt: ".webp"},
		{name: "unknown falls back to png", contentType: "application/octet-stream", data: []byte("not an image"), wantExt: ".png"},
		{name: "sniffed png", contentType: "", data: []byte("\x89PNG\r\n\x1a\n000000"), wantExt: ".png"},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			img, err := store.Save(context.Background(), "", "file-"+string(rune('a'+i)), tc.data, tc.contentType)
			if err != nil {
				t.Fatalf("Save returned error: %v", err)
			}
			if !strings.HasSuffix(img.Filename, tc.wantExt) {
				t.Fatalf("Filename = %q, want suffix %q", img.Filename, tc.wantExt)
			}
		})
	}
}

func TestSaveDoesNotDoubleAppendExtension(t *testing.T) {
	store := newTestStore(t)
	img, err := store.Save(context.Background(), "", "cube.png", []byte("x"), "image/png")
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if img.Filename != "cube.png" {
		t.Fatalf("Filename = %q, want cube.png", img.Filename)
	}
}

func TestSaveCollisionGetsSuffix(t *testing.T) {
	store := newTestStore(t)
	first, err := store.Save(context.Background(), "", "same", []byte("one"), "image/png")
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	second, err := store.Save(context.Background(), "", "same", []byte("two"), "image/png")
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if first.Filename == second.Filename {
		t.Fatalf("collision not disambiguated: %q", second.Filename)
	}
	data, err := os.ReadFile(first.Path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "one" {
		t.Fatalf("first file clobbered: %q", data)
	}
}

func TestSaveHonorsDirectoryOverride(t *testing.T) {
	store := newTestStore(t)
	override := filepath.Join(t.TempDir(), "elsewhere")

	img, err := store.Save(context.Background(), override, "cube", []byte("x"), "image/png")
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if filepath.Dir(img.Path) != override {
		t.Fatalf("Path = %q, want directory %q", img.Path, override)
	}
}

func TestSaveLeavesNoTempFilesBehind(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save(context.Background(), "", "cube", []byte("x"), "image/png"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	entries, err := os.ReadDir(store.BasePath())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".img-") {
			t.Fatalf("temp file %q left behind", e.Name())
		}
	}
}

func TestNewFileStoreRequiresBasePath(t *testing.T) {
	t.Parallel()
	if _, err := NewFileStore("  "); err == nil {
		t.Fatal("expected error for empty base path")
	}
}
