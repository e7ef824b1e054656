package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/AyishaBeevi/ab-backend/internal/models"
)

// DiskUploader writes images under dir; they are served from baseURL/uploads.
type DiskUploader struct {
	dir     string
	baseURL string
}

func NewDiskUploader(dir, baseURL string) *DiskUploader {
	return &DiskUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (d *DiskUploader) Upload(ctx context.Context, data []byte, mimeType string) (models.Image, error) {
	if err := ctx.Err(); err != nil {
		return models.Image{}, err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return models.Image{}, fmt.Errorf("create upload dir: %w", err)
	}

	id := uuid.NewString()
	filename := id + extensionFor(mimeType)
	if err := os.WriteFile(filepath.Join(d.dir, filename), data, 0o644); err != nil {
		return models.Image{}, err
	}
	return models.Image{
		URL:      d.baseURL + "/uploads/" + filename,
		PublicID: id,
	}, nil
}
