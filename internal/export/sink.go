package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var ErrInvalidFileName = errors.New("invalid_file_name")

// FileSink writes PDFs into a directory. Files appear atomically: a failed
// write leaves no partial file behind.
type FileSink struct {
	dir string
	log *zap.Logger
}

func NewFileSink(dir string, log *zap.Logger) *FileSink {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FileSink{dir: dir, log: log.Named("export.sink")}
}

// Dir returns the target directory.
func (s *FileSink) Dir() string {
	return s.dir
}

// Deliver writes pdf as filename inside the sink directory, replacing any
// existing file of the same name.
func (s *FileSink) Deliver(ctx context.Context, filename string, pdf []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	base := filepath.Base(filepath.Clean(filename))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, filename)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".billium-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(pdf); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		cleanup()
		return "", err
	}

	target := filepath.Join(s.dir, base)
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return "", fmt.Errorf("rename export: %w", err)
	}
	s.log.Debug("pdf written", zap.String("path", target), zap.Int("bytes", len(pdf)))
	return target, nil
}
