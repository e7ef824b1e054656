// Package storage validates uploaded listing images and writes them to
// object storage or the local upload directory.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/models"
)

const MaxImageSize = 5 << 20

// extensions maps every accepted image type to the extension stored objects get.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type Uploader interface {
	Upload(ctx context.Context, data []byte, mimeType string) (models.Image, error)
}

// File is an accepted upload held in memory.
type File struct {
	Name string
	MIME string
	Data []byte
}

// ReadFiles loads and validates multipart files. The MIME type is sniffed
// from content; the client-declared type is ignored.
func ReadFiles(headers []*multipart.FileHeader, max int) ([]File, error) {
	if len(headers) > max {
		return nil, apperr.Validationf("Too many files (max %d)", max)
	}

	files := make([]File, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > MaxImageSize {
			return nil, apperr.Validation("File too large (max 5MB)")
		}
		data, err := readHeader(fh)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if len(data) > MaxImageSize {
			return nil, apperr.Validation("File too large (max 5MB)")
		}
		mimeType, ok := Detect(data)
		if !ok {
			return nil, apperr.Validation("Only JPG, PNG, WEBP allowed")
		}
		files = append(files, File{Name: fh.Filename, MIME: mimeType, Data: data})
	}
	return files, nil
}

func readHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, MaxImageSize+1))
}

// Detect returns the sniffed MIME type of data and whether it is an accepted
// image type.
func Detect(data []byte) (string, bool) {
	detected := mimetype.Detect(data)
	for mimeType := range extensions {
		if detected.Is(mimeType) {
			return mimeType, true
		}
	}
	return detected.String(), false
}

// UploadAll uploads files concurrently and returns the images in input
// order. The first failure cancels the remaining uploads; objects already
// written are not removed.
func UploadAll(ctx context.Context, up Uploader, files []File) ([]models.Image, error) {
	images := make([]models.Image, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			img, err := up.Upload(gctx, f.Data, f.MIME)
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.Name, err)
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// PublicIDFromURL derives the storage id of an image from its URL: the last
// path segment up to its first dot, so "a.v2.jpg" yields "a".
func PublicIDFromURL(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	id, _, _ := strings.Cut(base, ".")
	return id
}

func extensionFor(mimeType string) string {
	if ext, ok := extensions[mimeType]; ok {
		return ext
	}
	return ".bin"
}
