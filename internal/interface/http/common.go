package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-catalog/pkg/validation"
)

// ImageResolver is satisfied by upload.LocalResolver and upload.GCSResolver.
type ImageResolver interface {
	Resolve(ctx context.Context, fh *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, url string) error
}

// actorID is the authenticated user id set by middleware.Auth.
func actorID(c *gin.Context) int64 {
	return c.GetInt64("userID")
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("Invalid id", map[string]string{name: "must be a positive integer"})
	}
	return id, nil
}

func invalidPayload(err error) error {
	return apperror.Validation("Invalid payload", validation.ToDetails(err))
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// optionalImage resolves the "image" form file when present.
func optionalImage(c *gin.Context, images ImageResolver) (*string, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, invalidPayload(err)
	}
	if images == nil {
		return nil, apperror.Validation("Image uploads are disabled", map[string]string{"image": "not accepted"})
	}
	url, err := images.Resolve(c.Request.Context(), fh)
	if err != nil {
		return nil, err
	}
	return &url, nil
}

// discardImage deletes an upload whose record was never written.
func discardImage(c *gin.Context, images ImageResolver, url *string) {
	if url == nil || images == nil {
		return
	}
	if err := images.Remove(context.WithoutCancel(c.Request.Context()), *url); err != nil {
		_ = c.Error(err)
	}
}
