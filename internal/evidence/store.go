package evidence

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ProgressFunc reports upload progress as bytes are written. total is
// the expected size, or -1 when unknown.
type ProgressFunc func(written, total int64)

// BlobStore is the binary storage behind evidence attachments.
type BlobStore interface {
	// Upload streams r to path, invoking progress as bytes land. An
	// in-flight upload runs to completion or failure; there is no
	// cancellation.
	Upload(path string, r io.Reader, size int64, progress ProgressFunc) error
	// URL returns the download location for a stored blob.
	URL(path string) string
	// Delete removes the blob at path.
	Delete(path string) error
}

// FSStore keeps blobs on the local filesystem under a base directory
// and serves them via a static file route.
type FSStore struct {
	BaseDir string
	BaseURL string
}

func NewFSStore(baseDir, baseURL string) *FSStore {
	return &FSStore{BaseDir: baseDir, BaseURL: baseURL}
}

// resolve maps a blob path to a location on disk, refusing anything
// that would land outside the base directory.
func (s *FSStore) resolve(path string) (string, error) {
	base := filepath.Clean(s.BaseDir)
	full := filepath.Join(base, filepath.FromSlash(path))
	if !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return "", fmt.Errorf("blob path %q escapes the store", path)
	}
	return full, nil
}

func (s *FSStore) Upload(path string, r io.Reader, size int64, progress ProgressFunc) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create evidence dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create evidence file: %w", err)
	}
	defer f.Close()

	w := io.Writer(f)
	if progress != nil {
		w = &progressWriter{dst: f, total: size, report: progress}
	}
	if _, err := io.Copy(w, r); err != nil {
		os.Remove(full)
		return fmt.Errorf("write evidence blob: %w", err)
	}
	return f.Sync()
}

func (s *FSStore) URL(path string) string {
	return s.BaseURL + "/" + path
}

func (s *FSStore) Delete(path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	return os.Remove(full)
}

// progressWriter reports cumulative bytes after every chunk.
type progressWriter struct {
	dst     io.Writer
	written int64
	total   int64
	report  ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.dst.Write(b)
	p.written += int64(n)
	p.report(p.written, p.total)
	return n, err
}
