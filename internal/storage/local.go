// Package storage keeps mail attachments on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"TapaalTracker/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxFiles    = 5
	MaxFileSize = 5 << 20
)

var allowedExtensions = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true,
	".pdf": true, ".doc": true, ".docx": true,
}

var (
	ErrTooManyFiles   = fmt.Errorf("at most %d attachments are allowed", MaxFiles)
	ErrFileTooLarge   = errors.New("attachment exceeds the 5MB limit")
	ErrFileTypeDenied = errors.New("Only images and documents are allowed")
)

// Attachment describes one stored upload. Path is the public URL path under /uploads.
type Attachment struct {
	Filename     string `bson:"filename" json:"filename"`
	OriginalName string `bson:"original_name" json:"original_name"`
	Path         string `bson:"path" json:"path"`
	Size         int64  `bson:"size" json:"size"`
}

type LocalStorage struct {
	root   string
	logger *zap.Logger
}

// NewLocalStorage creates the upload root plus one subdirectory per entry in dirs.
func NewLocalStorage(cfg *config.ServerConfig, logger *zap.Logger, dirs ...string) (*LocalStorage, error) {
	for _, d := range append([]string{""}, dirs...) {
		if err := os.MkdirAll(filepath.Join(cfg.UploadDir, d), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &LocalStorage{root: cfg.UploadDir, logger: logger.Named("storage")}, nil
}

func (s *LocalStorage) Root() string { return s.root }

// Validate checks count, size and extension of a batch before anything is written.
func Validate(files []*multipart.FileHeader) error {
	if len(files) > MaxFiles {
		return ErrTooManyFiles
	}
	for _, fh := range files {
		if fh.Size > MaxFileSize {
			return fmt.Errorf("%s: %w", fh.Filename, ErrFileTooLarge)
		}
		if !allowedExtensions[strings.ToLower(filepath.Ext(fh.Filename))] {
			return fmt.Errorf("%s: %w", fh.Filename, ErrFileTypeDenied)
		}
	}
	return nil
}

// SaveAll validates and stores the files under dir. On failure the files already
// written are removed.
func (s *LocalStorage) SaveAll(dir string, files []*multipart.FileHeader) ([]Attachment, error) {
	if err := Validate(files); err != nil {
		return nil, err
	}
	saved := make([]Attachment, 0, len(files))
	for _, fh := range files {
		a, err := s.save(dir, fh)
		if err != nil {
			s.RemoveAll(saved)
			return nil, err
		}
		saved = append(saved, a)
	}
	return saved, nil
}

func (s *LocalStorage) save(dir string, fh *multipart.FileHeader) (Attachment, error) {
	src, err := fh.Open()
	if err != nil {
		return Attachment{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(s.root, dir, name))
	if err != nil {
		return Attachment{}, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	// Read one byte past the limit so an under-reported header size is still caught.
	n, err := io.Copy(dst, io.LimitReader(src, MaxFileSize+1))
	if err != nil {
		os.Remove(dst.Name())
		return Attachment{}, fmt.Errorf("write file: %w", err)
	}
	if n > MaxFileSize {
		os.Remove(dst.Name())
		return Attachment{}, fmt.Errorf("%s: %w", fh.Filename, ErrFileTooLarge)
	}

	return Attachment{
		Filename:     name,
		OriginalName: filepath.Base(fh.Filename),
		Path:         path.Join("/uploads", dir, name),
		Size:         n,
	}, nil
}

// RemoveAll deletes stored attachments, logging files that cannot be removed.
func (s *LocalStorage) RemoveAll(attachments []Attachment) {
	for _, a := range attachments {
		rel := strings.TrimPrefix(a.Path, "/uploads/")
		if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove attachment", zap.String("path", a.Path), zap.Error(err))
		}
	}
}
