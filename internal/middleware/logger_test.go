package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/transactions-backend/pkg/logger"
)

func TestLoggerMiddlewareEnrichesContext(t *testing.T) {
	var buf bytes.Buffer
	m := NewLoggerMiddleware(slog.New(logger.NewCloudRunHandlerTo(&buf, slog.LevelInfo)))

	h := chimiddleware.RequestID(m.LoggerMiddleware(m.AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/statistics?month=3", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
	}

	var inside, access struct {
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &inside); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if inside.Data["path"] != "/api/statistics" || inside.Data["method"] != "GET" || inside.Data["request_id"] == "" {
		t.Fatalf("request attrs missing: %v", inside.Data)
	}

	if err := json.Unmarshal([]byte(lines[1]), &access); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if access.Message != "request completed" || access.Data["status"] != float64(http.StatusTeapot) {
		t.Fatalf("access log mismatch: %+v", access)
	}
	if access.Data["query"] != "month=3" {
		t.Fatalf("query mismatch: %v", access.Data["query"])
	}
}
