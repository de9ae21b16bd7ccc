package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// LocalStorage keeps blobs under a root directory on the local filesystem.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	err := os.MkdirAll(root, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	slog.Info("initializing local storage", "root", root)
	return &LocalStorage{root: root}, nil
}

func (s *LocalStorage) fullPath(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

// Save writes the blob to disk. A failed or cancelled write removes the
// partial file before returning.
func (s *LocalStorage) Save(ctx context.Context, path string, r io.Reader) error {
	full := s.fullPath(path)

	err := os.MkdirAll(filepath.Dir(full), 0755)
	if err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	_, err = io.Copy(f, &contextReader{ctx: ctx, r: r})
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		removeErr := os.Remove(full)
		if removeErr != nil {
			slog.Error("failed to remove partial file", "error", removeErr, "path", full)
		}
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (s *LocalStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(s.fullPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	err := os.Remove(s.fullPath(path))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(s.fullPath(path))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// URL returns "" — local blobs are only served through Open.
func (s *LocalStorage) URL(path string) string {
	return ""
}

// contextReader fails a copy as soon as the request context is done, so a
// client disconnect aborts the transfer mid-stream.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	err := cr.ctx.Err()
	if err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
