package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	DefaultMaxBytes = 5 * 1024 * 1024
	DefaultBaseDir  = "./uploads"
	DefaultURLBase  = "/static"
)

// Folders an image can be stored under.
const (
	FolderLicenses = "licenses"
	FolderProfiles = "profiles"
	FolderRooms    = "rooms"
)

var allowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store keeps uploaded images on local disk and hands out their public URL.
// Callers persist only the URL.
type Store struct {
	baseDir  string
	urlBase  string
	maxBytes int64
}

func NewStore(baseDir, urlBase string, maxBytes int64) *Store {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if urlBase == "" {
		urlBase = DefaultURLBase
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{baseDir: baseDir, urlBase: strings.TrimRight(urlBase, "/"), maxBytes: maxBytes}
}

func (s *Store) BaseDir() string { return s.baseDir }

func (s *Store) URLBase() string { return s.urlBase }

// SaveImage validates fh by content and writes it under folder.
func (s *Store) SaveImage(folder string, fh *multipart.FileHeader) (string, error) {
	if fh.Size == 0 {
		return "", ErrEmptyFile
	}
	if fh.Size > s.maxBytes {
		return "", ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	return s.save(folder, src)
}

func (s *Store) save(folder string, src io.ReadSeeker) (string, error) {
	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect type: %w", err)
	}
	ext, ok := allowedMimeTypes[mt.String()]
	if !ok {
		return "", ErrInvalidMimeType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	dir := filepath.Join(s.baseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	name := uuid.NewString() + ext
	absPath := filepath.Join(dir, name)
	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1)); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("write file: %w", err)
	}

	return s.urlBase + "/" + path.Join(folder, name), nil
}

// Remove deletes the file behind a URL returned by SaveImage. Unknown URLs
// are ignored.
func (s *Store) Remove(url string) {
	rel, ok := strings.CutPrefix(url, s.urlBase+"/")
	if !ok || strings.Contains(rel, "..") {
		return
	}
	_ = os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(rel)))
}
