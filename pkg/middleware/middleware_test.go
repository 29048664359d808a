package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"survey-assessment-backend/utilities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := w.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("generated id %q is not a uuid", id)
	}
	if w.Body.String() != id {
		t.Fatalf("context id %q != header id %q", w.Body.String(), id)
	}

	given := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(RequestIDHeader) != given {
		t.Fatalf("incoming id not reused")
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got == "not-a-uuid" {
		t.Fatalf("invalid incoming id was reused")
	}
}

func TestRequestDumpKeepsBody(t *testing.T) {
	var logs bytes.Buffer
	utilities.SetOutput(&logs, utilities.LevelDebug)
	defer utilities.SetOutput(io.Discard, utilities.LevelInfo)

	r := gin.New()
	r.Use(RequestDumpMiddleware())
	r.POST("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"answers":[]}`)))
	if w.Body.String() != `{"answers":[]}` {
		t.Fatalf("handler saw body %q", w.Body.String())
	}
	if !strings.Contains(logs.String(), `Body: {"answers":[]}`) {
		t.Fatalf("request not dumped: %s", logs.String())
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(0.001, 2))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	call := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := call("10.0.0.1"); w.Code != http.StatusNoContent {
			t.Fatalf("request %d got %d", i, w.Code)
		}
	}
	w := call("10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request got %d, want 429", w.Code)
	}
	if msg := gjson.Get(w.Body.String(), "error").String(); msg != "Too many requests" {
		t.Fatalf("error = %q", msg)
	}
	if w := call("10.0.0.2"); w.Code != http.StatusNoContent {
		t.Fatalf("other client limited: %d", w.Code)
	}
}
