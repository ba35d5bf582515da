package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// SavedImage describes a file written by the store. It is never mutated
// after creation.
type SavedImage struct {
	Path         string `json:"path"`
	RelativePath string `json:"relative_path"`
	Filename     string `json:"filename"`
	Bytes        int64  `json:"size_bytes"`
}

// FileStore persists generated images onto the local filesystem under a
// managed base directory.
type FileStore struct {
	basePath    string
	projectRoot string
}

// NewFileStore initializes a FileStore rooted at basePath, creating the
// directory if absent. Relative result paths are computed against the
// current working directory.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}
	return &FileStore{basePath: basePath, projectRoot: root}, nil
}

// BasePath returns the managed root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Save writes data to <dir>/<filename>.<ext>, where dir defaults to the
// managed base path and ext is derived from the content type. The bytes go
// to a temporary file first and are renamed into place, so a failed write
// never leaves a truncated artifact at the final path.
func (s *FileStore) Save(ctx context.Context, dir, filename string, data []byte, contentType string) (*SavedImage, error) {
	if s == nil {
		return nil, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := sanitizeFilename(filename)
	if err != nil {
		return nil, err
	}
	target := strings.TrimSpace(dir)
	if target == "" {
		target = s.basePath
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure directory: %w", err)
	}

	ext := extensionFor(contentType, data)
	name = strings.TrimSuffix(name, ext)
	fullName := name + ext
	fullPath := filepath.Join(target, fullName)
	if _, err := os.Stat(fullPath); err == nil {
		// Same-second collision from another call; disambiguate rather
		// than clobber.
		fullName = name + "-" + uuid.NewString()[:8] + ext
		fullPath = filepath.Join(target, fullName)
	}

	if err := writeAtomic(target, fullPath, data); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		absPath = fullPath
	}
	relPath, err := filepath.Rel(s.projectRoot, absPath)
	if err != nil {
		relPath = fullName
	}
	return &SavedImage{
		Path:         absPath,
		RelativePath: filepath.ToSlash(relPath),
		Filename:     fullName,
		Bytes:        int64(len(data)),
	}, nil
}

// writeAtomic stages data in a temp file within dir and renames it over the
// final path, removing the temp file on any failure.
func writeAtomic(dir, fullPath string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".img-*.tmp")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("storage: write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: finalize file: %w", err)
	}
	return nil
}

// sanitizeFilename rejects names that could resolve outside the target
// directory.
func sanitizeFilename(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("storage: filename is required")
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return "", fmt.Errorf("storage: invalid filename %q", name)
	}
	if name == "." {
		return "", fmt.Errorf("storage: invalid filename %q", name)
	}
	return name, nil
}

var contentTypeExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// extensionFor picks a file extension from the declared content type,
// sniffing the bytes when the declaration is missing or unhelpful.
func extensionFor(contentType string, data []byte) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if ext, ok := contentTypeExtensions[ct]; ok {
		return ext
	}
	if len(data) > 0 {
		if detected := mimetype.Detect(data); strings.HasPrefix(detected.String(), "image/") {
			return detected.Extension()
		}
	}
	return ".png"
}
