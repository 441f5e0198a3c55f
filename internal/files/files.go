// Package files keeps uploaded submission files on local disk under one directory per team.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/apperr"
	"github.com/shrimpsizemoose/semla/internal/metrics"
)

const (
	KindReport = "report"
	KindSlide  = "slide"
)

type Options struct {
	// MaxSize in bytes, 0 disables the check.
	MaxSize int64
	// AllowedExtensions per kind, only consulted when EnforceExtensions is set.
	AllowedExtensions map[string][]string
	EnforceExtensions bool
}

type Store struct {
	root string
	opts Options
}

func New(root string, opts Options) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", abs, err)
	}
	return &Store{root: abs, opts: opts}, nil
}

func (s *Store) Root() string {
	return s.root
}

// Save writes r to team_<id>/<random><ext> and returns that path relative to the root.
func (s *Store) Save(teamID int64, kind, filename string, r io.Reader) (string, error) {
	if strings.TrimSpace(filename) == "" {
		metrics.SubmissionFiles.WithLabelValues(kind, "rejected").Inc()
		return "", apperr.Validationf("File name is not valid")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if err := s.checkExtension(kind, ext); err != nil {
		metrics.SubmissionFiles.WithLabelValues(kind, "rejected").Inc()
		return "", err
	}

	dir := fmt.Sprintf("team_%d", teamID)
	if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
		metrics.SubmissionFiles.WithLabelValues(kind, "error").Inc()
		return "", apperr.Wrap(apperr.Internal, err, "Error saving file")
	}

	rel := dir + "/" + strings.ReplaceAll(uuid.NewString(), "-", "") + filepath.Ext(filename)
	full := filepath.Join(s.root, filepath.FromSlash(rel))

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		metrics.SubmissionFiles.WithLabelValues(kind, "error").Inc()
		return "", apperr.Wrap(apperr.Internal, err, "Error saving file")
	}

	src := r
	if s.opts.MaxSize > 0 {
		src = io.LimitReader(r, s.opts.MaxSize+1)
	}
	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()

	switch {
	case copyErr != nil || closeErr != nil:
		os.Remove(full)
		metrics.SubmissionFiles.WithLabelValues(kind, "error").Inc()
		if copyErr == nil {
			copyErr = closeErr
		}
		return "", apperr.Wrap(apperr.Internal, copyErr, "Error saving file")
	case s.opts.MaxSize > 0 && n > s.opts.MaxSize:
		os.Remove(full)
		metrics.SubmissionFiles.WithLabelValues(kind, "rejected").Inc()
		return "", apperr.Validationf("File size is too large")
	}

	logger.Debug.Printf("Saved %s file for team %d: %s (%d bytes)", kind, teamID, rel, n)
	metrics.SubmissionFiles.WithLabelValues(kind, "stored").Inc()
	return rel, nil
}

func (s *Store) checkExtension(kind, ext string) error {
	if !s.opts.EnforceExtensions {
		return nil
	}
	allowed, ok := s.opts.AllowedExtensions[kind]
	if !ok {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return nil
		}
	}
	return apperr.Validationf("File extension %s is not allowed for %s", ext, kind)
}

// Delete removes the file and reports whether it existed. It never fails on a missing file.
func (s *Store) Delete(rel string) bool {
	if rel == "" {
		return false
	}
	full, err := s.Path(rel)
	if err != nil {
		logger.Debug.Printf("Refusing to delete %q: %v", rel, err)
		return false
	}
	if err := os.Remove(full); err != nil {
		if !os.IsNotExist(err) {
			logger.Error.Printf("Failed to delete file %s: %v", full, err)
		}
		return false
	}
	return true
}

// Path resolves rel inside the root and refuses anything that escapes it.
func (s *Store) Path(rel string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes data dir", rel)
	}
	return full, nil
}

func (s *Store) Exists(rel string) bool {
	full, err := s.Path(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && !info.IsDir()
}
