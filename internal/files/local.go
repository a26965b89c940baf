package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxNameAttempts = 1000

// LocalStore keeps files in a directory on local disk. URIs are file:// URLs.
type LocalStore struct {
	dir string
	now func() time.Time
}

func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", abs, err)
	}
	return &LocalStore{dir: abs, now: time.Now}, nil
}

func (s *LocalStore) Save(_ context.Context, name string, r io.Reader) (string, int64, error) {
	var (
		path string
		f    *os.File
		err  error
	)
	// same name within the same millisecond: move to the next free millisecond
	now := s.now()
	for i := 0; i < maxNameAttempts; i++ {
		path = filepath.Join(s.dir, permanentName(now.Add(time.Duration(i)*time.Millisecond), name))
		f, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if !errors.Is(err, os.ErrExist) {
			break
		}
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	size, err := io.Copy(f, io.LimitReader(r, MaxFileSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && size > MaxFileSize {
		err = fmt.Errorf("file exceeds %d bytes", MaxFileSize)
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("failed to copy %s: %w", name, err)
	}

	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String(), size, nil
}

func (s *LocalStore) Open(_ context.Context, uri string) (io.ReadCloser, error) {
	path, err := s.pathOf(uri)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *LocalStore) Delete(_ context.Context, uri string) error {
	path, err := s.pathOf(uri)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// pathOf resolves a file:// URI and refuses anything outside the store directory
func (s *LocalStore) pathOf(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return "", fmt.Errorf("not a local file uri: %q", uri)
	}
	path := filepath.Clean(filepath.FromSlash(u.Path))
	if !strings.HasPrefix(path, s.dir+string(filepath.Separator)) {
		return "", fmt.Errorf("uri outside file store: %q", uri)
	}
	return path, nil
}
