package upload

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"path"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
)

// GCSResolver uploads images to a Cloud Storage bucket.
type GCSResolver struct {
	Client *storage.Client
	Bucket string
	Prefix string
}

func NewGCSResolver(client *storage.Client, bucket, prefix string) *GCSResolver {
	return &GCSResolver{Client: client, Bucket: bucket, Prefix: prefix}
}

func (r *GCSResolver) Resolve(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	img, err := readImage(fh)
	if err != nil {
		return "", err
	}
	objectPath := path.Join(r.Prefix, objectName(img.ext))
	url, err := helpers.UploadObject(ctx, r.Client, r.Bucket, objectPath, img.contentType, bytes.NewReader(img.data))
	if err != nil {
		return "", apperror.Infrastructure("failed to upload image", err)
	}
	return url, nil
}

func (r *GCSResolver) Remove(ctx context.Context, url string) error {
	objectPath, ok := strings.CutPrefix(url, helpers.PublicURL(r.Bucket, ""))
	if !ok || objectPath == "" {
		return errForeignURL
	}
	if err := helpers.DeleteObject(ctx, r.Client, r.Bucket, objectPath); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}

var _ Resolver = (*GCSResolver)(nil)
