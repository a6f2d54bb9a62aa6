// Package upload turns multipart image uploads into servable URLs.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/apperror"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 2 << 20

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Resolver stores an uploaded image and returns the URL it is served from.
// Remove deletes an image previously returned by Resolve.
type Resolver interface {
	Resolve(ctx context.Context, fh *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, url string) error
}

var errForeignURL = errors.New("upload: url not owned by this resolver")

type image struct {
	data        []byte
	contentType string
	ext         string
}

// readImage enforces size and content type. The type is sniffed from the
// bytes; the client-supplied header and filename are ignored.
func readImage(fh *multipart.FileHeader) (*image, error) {
	if fh == nil {
		return nil, apperror.Validation("Image is required", map[string]string{"image": "is required"})
	}
	if fh.Size > MaxImageSize {
		return nil, tooLarge()
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Infrastructure("failed to read upload", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return nil, apperror.Infrastructure("failed to read upload", err)
	}
	if len(data) > MaxImageSize {
		return nil, tooLarge()
	}

	mt := mimetype.Detect(data)
	for ct, ext := range allowedTypes {
		if mt.Is(ct) {
			return &image{data: data, contentType: ct, ext: ext}, nil
		}
	}
	return nil, apperror.Validation("Unsupported image type",
		map[string]string{"image": "only jpeg, png and webp images are allowed"})
}

func tooLarge() error {
	return apperror.Validation("Image too large",
		map[string]string{"image": fmt.Sprintf("must be at most %d bytes", MaxImageSize)})
}

// objectName is unique per upload: <unix-nano>-<uuid><ext>.
func objectName(ext string) string {
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
}
