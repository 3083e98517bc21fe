package router

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/gorecover/internal/pkg/config"
)

func TestMaskerAlwaysHidesCredentials(t *testing.T) {
	// Arrange
	cfg, err := config.NewViperFromBytes("yaml", []byte("instrument:\n  log_mask_fields: [\"email\"]\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	m := newMasker(cfg)
	raw := []byte(`{"email":"a@b.c","new_password":"hunter2","payload":{"code":"123456","items":[{"otp":"1"}]}}`)

	// Act
	got, ok := m.body(raw, false).(map[string]any)

	// Assert
	if !ok {
		t.Fatalf("body() = %#v, want map", m.body(raw, false))
	}
	if got["email"] != maskedValue || got["new_password"] != maskedValue {
		t.Fatalf("top-level fields not masked: %#v", got)
	}
	payload := got["payload"].(map[string]any)
	if payload["code"] != maskedValue {
		t.Fatalf("payload.code = %v, want masked", payload["code"])
	}
	item := payload["items"].([]any)[0].(map[string]any)
	if item["otp"] != maskedValue {
		t.Fatalf("items[0].otp = %v, want masked", item["otp"])
	}
}

func TestMaskerUnparsedBody(t *testing.T) {
	m := newMasker(nil)

	tests := []struct {
		name   string
		raw    string
		capped bool
	}{
		{name: "malformed json", raw: `{"new_password":"hunter2"`},
		{name: "form", raw: `new_password=hunter2&email=a%40b.c`},
		{name: "truncated", raw: `{"new_password":"hunter2"}`, capped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got := m.body([]byte(tt.raw), tt.capped)

			// Assert
			s, ok := got.(string)
			if !ok || strings.Contains(s, "hunter2") || !strings.HasPrefix(s, "<unparsed body") {
				t.Fatalf("body() = %#v", got)
			}
		})
	}

	if got := m.body(nil, false); got != nil {
		t.Fatalf("body(nil) = %#v, want nil", got)
	}
}

func TestMaskerHeaders(t *testing.T) {
	// Arrange
	m := newMasker(nil)
	h := http.Header{}
	h.Set("Authorization", "Bearer abc")
	h.Set("Cookie", "session=1")
	h.Set("Accept", "application/json")

	// Act
	got := m.headers(h)

	// Assert
	if got.Get("Authorization") != maskedValue || got.Get("Cookie") != maskedValue {
		t.Fatalf("headers() = %#v", got)
	}
	if got.Get("Accept") != "application/json" {
		t.Fatalf("Accept = %q", got.Get("Accept"))
	}
	if h.Get("Authorization") != "Bearer abc" {
		t.Fatalf("headers() mutated its input")
	}
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "true client ip", headers: map[string]string{"True-Client-IP": "1.1.1.1", "X-Real-IP": "2.2.2.2"}, remote: "9.9.9.9:1", want: "1.1.1.1"},
		{name: "x-real-ip", headers: map[string]string{"X-Real-IP": " 2.2.2.2 "}, remote: "9.9.9.9:1", want: "2.2.2.2"},
		{name: "forwarded first hop", headers: map[string]string{"X-Forwarded-For": "3.3.3.3, 10.0.0.1"}, remote: "9.9.9.9:1", want: "3.3.3.3"},
		{name: "forwarded skips junk", headers: map[string]string{"X-Forwarded-For": "unknown, 4.4.4.4"}, remote: "9.9.9.9:1", want: "4.4.4.4"},
		{name: "invalid header falls through", headers: map[string]string{"X-Real-IP": "nope"}, remote: "9.9.9.9:1", want: "9.9.9.9"},
		{name: "ipv4 mapped", remote: "[::ffff:5.5.5.5]:80", want: "5.5.5.5"},
		{name: "ipv6 peer", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "nothing usable", remote: "pipe", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			var seen string

			// Act
			middlewareIP(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = ClientIP(r.Context())
			})).ServeHTTP(httptest.NewRecorder(), req)

			// Assert
			if seen != tt.want {
				t.Fatalf("ClientIP() = %q, want %q", seen, tt.want)
			}
		})
	}
}

func TestObservabilityLogsAreMasked(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	r := newTestRouter(t, "instrument:\n  log_mask_fields: []\n")
	r.POST("/reset", func(req *Request) (any, error) { return greeting{Name: "alice"}, nil })

	req := httptest.NewRequest(http.MethodPost, "/reset",
		strings.NewReader(`{"email":"alice@example.com","code":"123456","new_password":"S3cure!pass"}`))
	req.Header.Set("X-Real-IP", "203.0.113.7")
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	logs := buf.String()
	for _, secret := range []string{"123456", "S3cure!pass"} {
		if strings.Contains(logs, secret) {
			t.Fatalf("secret %q leaked into logs: %s", secret, logs)
		}
	}
	if !strings.Contains(logs, `"client_ip":"203.0.113.7"`) {
		t.Fatalf("client_ip missing from logs: %s", logs)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		status int
		want   slog.Level
	}{
		{status: http.StatusOK, want: slog.LevelInfo},
		{status: http.StatusBadRequest, want: slog.LevelWarn},
		{status: http.StatusServiceUnavailable, want: slog.LevelError},
	}

	for _, tt := range tests {
		if got := logLevel(tt.status); got != tt.want {
			t.Fatalf("logLevel(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
