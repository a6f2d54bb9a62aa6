package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-catalog/internal/application"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
)

func init() { gin.SetMode(gin.TestMode) }

// stubAuth maps known tokens to identities.
type stubAuth map[string]*application.Identity

func (s stubAuth) Authenticate(_ context.Context, token string) (*application.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return nil, apperror.Unauthenticated("Invalid or expired token")
}

func newGatedRouter() *gin.Engine {
	auth := stubAuth{
		"user-token":  {ID: 1, Email: "u@example.com", Role: entity.RoleUser},
		"admin-token": {ID: 2, Email: "a@example.com", Role: entity.RoleAdmin},
	}
	r := gin.New()
	r.GET("/me", Auth(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": IdentityFrom(c).ID})
	})
	r.POST("/admin/products", Auth(auth), RequireRole(entity.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	r.GET("/no-auth-first", RequireRole(entity.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r http.Handler, method, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(tok string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body.Code
}

func TestAuth_BearerAndCookie(t *testing.T) {
	r := newGatedRouter()

	if w := doRequest(r, http.MethodGet, "/me", bearer("user-token")); w.Code != http.StatusOK {
		t.Fatalf("bearer: expected 200, got %d", w.Code)
	}
	w := doRequest(r, http.MethodGet, "/me", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "admin-token"})
	})
	if w.Code != http.StatusOK {
		t.Fatalf("cookie: expected 200, got %d", w.Code)
	}
}

func TestAuth_MissingOrInvalidToken(t *testing.T) {
	r := newGatedRouter()
	for _, mutate := range []func(*http.Request){nil, bearer("forged")} {
		w := doRequest(r, http.MethodGet, "/me", mutate)
		if w.Code != http.StatusUnauthorized || errorCode(t, w) != "UNAUTHENTICATED" {
			t.Fatalf("expected 401 UNAUTHENTICATED, got %d %s", w.Code, w.Body.String())
		}
	}
}

func TestRequireRole_ForbiddenVsPassThrough(t *testing.T) {
	r := newGatedRouter()

	w := doRequest(r, http.MethodPost, "/admin/products", bearer("user-token"))
	if w.Code != http.StatusForbidden || errorCode(t, w) != "FORBIDDEN" {
		t.Fatalf("user: expected 403 FORBIDDEN, got %d %s", w.Code, w.Body.String())
	}
	w = doRequest(r, http.MethodPost, "/admin/products", bearer("admin-token"))
	if w.Code != http.StatusCreated {
		t.Fatalf("admin: expected pass-through 201, got %d", w.Code)
	}
	w = doRequest(r, http.MethodGet, "/no-auth-first", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing identity: expected 401, got %d", w.Code)
	}
}
