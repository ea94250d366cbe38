package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type Outcome int

const (
	OutcomeSaved Outcome = iota
	OutcomeCancelled
)

// ErrInteractiveUnavailable signals that a sink has no interactive
// save-as path; the exporter falls back to ForceDownload.
var ErrInteractiveUnavailable = errors.New("interactive save not available")

// FileSink receives the finished document's bytes. The exporter never
// performs file I/O itself.
type FileSink interface {
	// TrySaveInteractive lets the user pick a destination. A cancelled
	// pick is a normal outcome, not an error.
	TrySaveInteractive(ctx context.Context, data []byte, name, mimeType string) (Outcome, error)
	// ForceDownload writes to the sink's default destination.
	ForceDownload(ctx context.Context, data []byte, name string) error
}

// DirSink drops documents into a directory. It has no interactive path,
// so every export goes through the download fallback.
type DirSink struct {
	dir string
}

func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

func (s *DirSink) TrySaveInteractive(ctx context.Context, data []byte, name, mimeType string) (Outcome, error) {
	return OutcomeCancelled, ErrInteractiveUnavailable
}

func (s *DirSink) ForceDownload(ctx context.Context, data []byte, name string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
