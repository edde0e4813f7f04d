package logger

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestFromFallsBackToDefault(t *testing.T) {
	if From(context.Background()) != slog.Default() {
		t.Fatalf("expected default logger")
	}
}

func TestMiddlewareSetsRequestIDAndContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "dev")

	r := gin.New()
	r.Use(Middleware(l))
	r.GET("/ping", func(c *gin.Context) {
		From(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(headerRequestID, "rid-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(headerRequestID); got != "rid-1" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
	out := buf.String()
	if strings.Count(out, `"request_id":"rid-1"`) != 2 {
		t.Fatalf("expected handler and summary lines tagged with request id: %s", out)
	}
}
