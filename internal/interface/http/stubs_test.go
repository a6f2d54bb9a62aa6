package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-catalog/internal/application"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   json.RawMessage `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return env
}

// asUser sets the identity keys the auth middleware would set.
func asUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", id)
		c.Next()
	}
}

func jsonRequest(method, path string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(image); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type stubAuth struct {
	registered application.RegisterInput
	err        error
	expires    time.Time
}

func (s *stubAuth) Register(_ context.Context, in application.RegisterInput) (*entity.PublicUser, error) {
	s.registered = in
	if s.err != nil {
		return nil, s.err
	}
	return &entity.PublicUser{ID: 1, Email: in.Email, Name: in.Name, Role: entity.RoleUser}, nil
}

func (s *stubAuth) AuthenticateUser(_ context.Context, email, _ string) (*application.LoginResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &application.LoginResult{Token: "tok-" + email, ExpiresAt: s.expires}, nil
}

func (s *stubAuth) AuthenticateAdmin(_ context.Context, email, _ string) (*application.AdminLoginResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &application.AdminLoginResult{
		Token:     "admin-" + email,
		ExpiresAt: s.expires,
		Admin:     &entity.PublicUser{ID: 9, Email: email, Role: entity.RoleAdmin},
	}, nil
}

func (s *stubAuth) GetProfile(_ context.Context, userID int64) (*entity.PublicUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.PublicUser{ID: userID, Email: "me@example.com"}, nil
}

type stubCatalog struct {
	listQuery  application.ListQuery
	created    application.CreateProductInput
	updated    application.UpdateProductInput
	actor      int64
	deletedID  int64
	searchQ    string
	searchSize int
	err        error
}

func (s *stubCatalog) List(_ context.Context, q application.ListQuery) (*entity.ProductPage, error) {
	s.listQuery = q
	if s.err != nil {
		return nil, s.err
	}
	return &entity.ProductPage{
		Items:      []entity.Product{{ID: 1, Name: "Mug"}},
		Pagination: entity.Pagination{Total: 1, Page: q.Page, PageSize: q.PageSize, TotalPages: 1},
	}, nil
}

func (s *stubCatalog) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Product{ID: id, Name: "Mug"}, nil
}

func (s *stubCatalog) Create(_ context.Context, in application.CreateProductInput, actorID int64) (*entity.Product, error) {
	s.created, s.actor = in, actorID
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Product{ID: 5, Name: in.Name, CategoryID: in.CategoryID, ImageURL: in.ImageURL, CreatedBy: actorID}, nil
}

func (s *stubCatalog) Update(_ context.Context, id int64, in application.UpdateProductInput, actorID int64) (*entity.Product, error) {
	s.updated, s.actor = in, actorID
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Product{ID: id, UpdatedBy: actorID}, nil
}

func (s *stubCatalog) Delete(_ context.Context, id, actorID int64) error {
	s.deletedID, s.actor = id, actorID
	return s.err
}

func (s *stubCatalog) ListCategories(context.Context) ([]entity.Category, error) {
	return []entity.Category{{ID: 1, Name: "Kitchen"}}, s.err
}

func (s *stubCatalog) Stats(context.Context) (*entity.CatalogStats, error) {
	return &entity.CatalogStats{Products: 3, Variants: 7}, s.err
}

func (s *stubCatalog) Search(_ context.Context, q string, size int) ([]entity.ProductSearchHit, error) {
	s.searchQ, s.searchSize = q, size
	return []entity.ProductSearchHit{}, s.err
}

type stubVariants struct {
	productID int64
	created   application.CreateVariantInput
	updated   application.UpdateVariantInput
	deletedID int64
	actor     int64
	err       error
}

func (s *stubVariants) Create(_ context.Context, productID int64, in application.CreateVariantInput, actorID int64) (*entity.Variant, error) {
	s.productID, s.created, s.actor = productID, in, actorID
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Variant{ID: 11, ProductID: productID, SKU: in.SKU}, nil
}

func (s *stubVariants) ListByProduct(_ context.Context, productID int64) ([]entity.Variant, error) {
	s.productID = productID
	return []entity.Variant{}, s.err
}

func (s *stubVariants) GetByID(_ context.Context, id int64) (*entity.Variant, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Variant{ID: id}, nil
}

func (s *stubVariants) Update(_ context.Context, id int64, in application.UpdateVariantInput, actorID int64) (*entity.Variant, error) {
	s.updated, s.actor = in, actorID
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Variant{ID: id}, nil
}

func (s *stubVariants) Delete(_ context.Context, id, actorID int64) error {
	s.deletedID, s.actor = id, actorID
	return s.err
}

type stubImages struct {
	calls   int
	removed []string
	err     error
}

func (s *stubImages) Remove(_ context.Context, url string) error {
	s.removed = append(s.removed, url)
	return nil
}

func (s *stubImages) Resolve(_ context.Context, fh *multipart.FileHeader) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "/uploads/" + fh.Filename, nil
}

var errNotFound = apperror.New(apperror.KindProductNotFound, "Product not found")
