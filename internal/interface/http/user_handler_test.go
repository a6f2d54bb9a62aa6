package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/apperror"
)

func newUserRouter(svc *stubAuth) *gin.Engine {
	h := NewUserHandler(svc, "localhost", false)
	r := gin.New()
	r.POST("/api/users/register", h.Register)
	r.POST("/api/users/login", h.Login)
	r.POST("/api/users/logout", h.Logout)
	r.GET("/api/users/profile", asUser(42), h.Profile)
	return r
}

func TestUserHandler_Register(t *testing.T) {
	svc := &stubAuth{}
	w := serve(newUserRouter(svc), jsonRequest(http.MethodPost, "/api/users/register", map[string]any{
		"email": "a@example.com", "password": "secret1", "name": "Alice", "role": "ADMIN",
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if svc.registered.Email != "a@example.com" || svc.registered.Name != "Alice" {
		t.Fatalf("unexpected input: %+v", svc.registered)
	}
	env := decode(t, w)
	if !env.Success || strings.Contains(string(env.Data), "password") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestUserHandler_RegisterDuplicate(t *testing.T) {
	svc := &stubAuth{err: apperror.New(apperror.KindDuplicateEmail, "Email already registered")}
	w := serve(newUserRouter(svc), jsonRequest(http.MethodPost, "/api/users/register", map[string]any{
		"email": "a@example.com", "password": "secret1", "name": "Alice",
	}))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if env := decode(t, w); env.Code != "DUPLICATE_EMAIL" {
		t.Fatalf("unexpected code %q", env.Code)
	}
}

func TestUserHandler_RegisterMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := serve(newUserRouter(&stubAuth{}), req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env := decode(t, w); env.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected code %q", env.Code)
	}
}

func TestUserHandler_LoginSetsCookie(t *testing.T) {
	svc := &stubAuth{expires: time.Now().Add(time.Hour)}
	w := serve(newUserRouter(svc), jsonRequest(http.MethodPost, "/api/users/login", map[string]string{
		"email": "a@example.com", "password": "secret1",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "access_token=tok-a%40example.com") || !strings.Contains(cookie, "HttpOnly") {
		t.Fatalf("unexpected cookie %q", cookie)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &data); err != nil || data.Token != "tok-a@example.com" {
		t.Fatalf("unexpected token payload: %v %+v", err, data)
	}
}

func TestUserHandler_LoginMissingFields(t *testing.T) {
	w := serve(newUserRouter(&stubAuth{}), jsonRequest(http.MethodPost, "/api/users/login", map[string]string{
		"email": "a@example.com",
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUserHandler_LoginInvalidCredentials(t *testing.T) {
	svc := &stubAuth{err: apperror.InvalidCredentials()}
	w := serve(newUserRouter(svc), jsonRequest(http.MethodPost, "/api/users/login", map[string]string{
		"email": "a@example.com", "password": "nope",
	}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w.Header().Get("Set-Cookie") != "" {
		t.Fatalf("no cookie expected on failure")
	}
}

func TestUserHandler_ProfileUsesIdentity(t *testing.T) {
	w := serve(newUserRouter(&stubAuth{}), httptest.NewRequest(http.MethodGet, "/api/users/profile", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var data struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(decode(t, w).Data, &data)
	if data.ID != 42 {
		t.Fatalf("expected profile for user 42, got %d", data.ID)
	}
}

func TestUserHandler_LogoutClearsCookie(t *testing.T) {
	w := serve(newUserRouter(&stubAuth{}), httptest.NewRequest(http.MethodPost, "/api/users/logout", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if c := w.Header().Get("Set-Cookie"); !strings.Contains(c, "access_token=;") || !strings.Contains(c, "Max-Age=0") {
		t.Fatalf("expected cleared cookie, got %q", c)
	}
}

func TestAdminHandler_Login(t *testing.T) {
	svc := &stubAuth{expires: time.Now().Add(time.Hour)}
	h := NewAdminHandler(svc, "localhost", false)
	r := gin.New()
	r.POST("/api/admin/login", h.Login)

	w := serve(r, jsonRequest(http.MethodPost, "/api/admin/login", map[string]string{
		"email": "root@example.com", "password": "secret1",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var data struct {
		Token string `json:"token"`
		Admin struct {
			Role string `json:"role"`
		} `json:"admin"`
	}
	_ = json.Unmarshal(decode(t, w).Data, &data)
	if data.Token != "admin-root@example.com" || data.Admin.Role != "ADMIN" {
		t.Fatalf("unexpected payload %+v", data)
	}
}
