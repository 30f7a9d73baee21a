package local

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/nova/internal/logging"
	"github.com/aretw0/nova/pkg/ports"
)

// Downloader copies the asset from a source directory into a download directory.
type Downloader struct {
	sourceDir string
	destDir   string
	logger    *slog.Logger
}

var _ ports.AssetDownloader = (*Downloader)(nil)

// NewDownloader creates a downloader. A nil logger discards output.
func NewDownloader(sourceDir, destDir string, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Downloader{sourceDir: sourceDir, destDir: destDir, logger: logger}
}

// Download copies filename. Only plain file names are accepted.
func (d *Downloader) Download(ctx context.Context, filename string) error {
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return fmt.Errorf("invalid asset name %q", filename)
	}

	src, err := os.Open(filepath.Join(d.sourceDir, filename))
	if err != nil {
		return fmt.Errorf("failed to open asset: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(d.destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create download dir: %w", err)
	}
	tmp, err := os.CreateTemp(d.destDir, "."+filename+".*")
	if err != nil {
		return fmt.Errorf("failed to create download: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to copy asset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write download: %w", err)
	}

	dest := filepath.Join(d.destDir, filename)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to finish download: %w", err)
	}
	d.logger.Info("asset downloaded", "path", dest)
	return nil
}
