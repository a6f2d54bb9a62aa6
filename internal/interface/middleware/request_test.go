package middleware

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := doRequest(r, http.MethodGet, "/", nil)
	if _, err := uuid.Parse(w.Body.String()); err != nil {
		t.Fatalf("expected generated uuid, got %q", w.Body.String())
	}
	if w.Header().Get(RequestIDHeader) != w.Body.String() {
		t.Fatalf("response header should echo the id")
	}

	incoming := uuid.NewString()
	w = doRequest(r, http.MethodGet, "/", func(req *http.Request) { req.Header.Set(RequestIDHeader, incoming) })
	if w.Body.String() != incoming {
		t.Fatalf("expected incoming id to be reused")
	}

	w = doRequest(r, http.MethodGet, "/", func(req *http.Request) { req.Header.Set(RequestIDHeader, "<script>") })
	if w.Body.String() == "<script>" {
		t.Fatalf("malformed id must be replaced")
	}
}

func TestRealIP_Priority(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	cases := []struct {
		headers map[string]string
		want    string
	}{
		{map[string]string{"CF-Connecting-IP": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"}, "1.1.1.1"},
		{map[string]string{"X-Forwarded-For": " 2.2.2.2 , 3.3.3.3"}, "2.2.2.2"},
		{map[string]string{"X-Forwarded-For": "garbage", "X-Real-IP": "4.4.4.4"}, "4.4.4.4"},
	}
	for _, tc := range cases {
		w := doRequest(r, http.MethodGet, "/", func(req *http.Request) {
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
		})
		if w.Body.String() != tc.want {
			t.Errorf("headers %v: got %q, want %q", tc.headers, w.Body.String(), tc.want)
		}
	}
}

func TestAccessLog_LevelsByStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestIDMiddleware(), AccessLog(logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errTest)
		c.Status(http.StatusInternalServerError)
	})

	doRequest(r, http.MethodGet, "/ok", nil)
	doRequest(r, http.MethodGet, "/boom", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"level":"info"`) || !strings.Contains(lines[0], `"path":"/ok"`) {
		t.Fatalf("unexpected first line: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"error"`) || !strings.Contains(lines[1], "db unreachable") {
		t.Fatalf("unexpected second line: %s", lines[1])
	}
}

type testErr string

func (e testErr) Error() string { return string(e) }

const errTest = testErr("db unreachable")
