package upload

import (
	"context"
	"errors"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/apperror"
)

// LocalResolver writes images under Dir and serves them from URLPrefix.
type LocalResolver struct {
	Dir       string
	URLPrefix string
}

func NewLocalResolver(dir, urlPrefix string) (*LocalResolver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalResolver{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (r *LocalResolver) Resolve(_ context.Context, fh *multipart.FileHeader) (string, error) {
	img, err := readImage(fh)
	if err != nil {
		return "", err
	}
	name := objectName(img.ext)
	if err := os.WriteFile(filepath.Join(r.Dir, name), img.data, 0o644); err != nil {
		return "", apperror.Infrastructure("failed to store image", err)
	}
	return r.URLPrefix + "/" + name, nil
}

func (r *LocalResolver) Remove(_ context.Context, url string) error {
	name, ok := strings.CutPrefix(url, r.URLPrefix+"/")
	if !ok || name == "" || name != filepath.Base(name) {
		return errForeignURL
	}
	if err := os.Remove(filepath.Join(r.Dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

var _ Resolver = (*LocalResolver)(nil)
