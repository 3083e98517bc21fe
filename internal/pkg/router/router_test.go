package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/gorecover/internal/pkg/config"
	"github.com/shandysiswandi/gorecover/internal/pkg/goerror"
	"github.com/shandysiswandi/gorecover/internal/pkg/validator"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type greeting struct {
	Name string `json:"name"`
}

func (greeting) Message() string { return "hello" }

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	return NewRouter(Config{Config: cfg, UUID: fixedID("cid-fixed")})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestRouterEnvelope(t *testing.T) {
	r := newTestRouter(t, "app: {}")
	r.POST("/ok", func(*Request) (any, error) { return greeting{Name: "alice"}, nil })
	r.POST("/business", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("Invalid or expired OTP", goerror.CodeInvalidOtp)
	})
	r.POST("/validation", func(*Request) (any, error) {
		return nil, goerror.NewInvalidInput(validator.V10ValidationError{"email": "email is required"})
	})
	r.POST("/plain", func(*Request) (any, error) { return nil, errors.New("db password=secret") })

	tests := []struct {
		path        string
		wantStatus  int
		wantSuccess bool
		wantMessage string
	}{
		{path: "/ok", wantStatus: http.StatusOK, wantSuccess: true, wantMessage: "hello"},
		{path: "/business", wantStatus: http.StatusBadRequest, wantMessage: "Invalid or expired OTP"},
		{path: "/validation", wantStatus: http.StatusUnprocessableEntity, wantMessage: "Validation error"},
		{path: "/plain", wantStatus: http.StatusInternalServerError, wantMessage: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(`{}`))
			rec := httptest.NewRecorder()

			// Act
			r.ServeHTTP(rec, req)

			// Assert
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decodeEnvelope(t, rec)
			if body["success"] != tt.wantSuccess || body["message"] != tt.wantMessage {
				t.Fatalf("envelope = %v", body)
			}
			if _, ok := body["payload"]; !ok {
				t.Fatalf("payload key missing: %v", body)
			}
			if !tt.wantSuccess && body["payload"] != nil {
				t.Fatalf("payload = %v, want null on failure", body["payload"])
			}
			if rec.Header().Get(HeaderCorrelationID) != "cid-fixed" {
				t.Fatalf("correlation header = %q", rec.Header().Get(HeaderCorrelationID))
			}
		})
	}
}

func TestRouterValidationFields(t *testing.T) {
	// Arrange
	r := newTestRouter(t, "app: {}")
	r.POST("/validation", func(*Request) (any, error) {
		return nil, goerror.NewInvalidInput(validator.V10ValidationError{"email": "email is required"})
	})
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/validation", nil))

	// Assert
	body := decodeEnvelope(t, rec)
	fields, ok := body["error"].(map[string]any)
	if !ok || fields["email"] != "email is required" {
		t.Fatalf("error fields = %v", body["error"])
	}
}

func TestRouterMaintenance(t *testing.T) {
	// Arrange
	r := newTestRouter(t, `
app:
  maintenance:
    endpoints: "/blocked"
`)
	called := false
	r.POST("/blocked", func(*Request) (any, error) { called = true; return nil, nil })
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blocked", nil))

	// Assert
	if called {
		t.Fatal("handler ran during maintenance")
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestRouterRecoversPanic(t *testing.T) {
	// Arrange
	r := newTestRouter(t, "app: {}")
	r.GET("/panic", func(*Request) (any, error) { panic("boom") })
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	// Assert
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decodeEnvelope(t, rec); body["success"] != false {
		t.Fatalf("envelope = %v", body)
	}
}

func TestRouterNotFoundAndCorrelationPassthrough(t *testing.T) {
	// Arrange
	r := newTestRouter(t, "app: {}")
	r.GET("/health", func(*Request) (any, error) { return map[string]string{"status": "ok"}, nil })

	// Act
	missing := httptest.NewRecorder()
	r.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/nope", nil))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "  from-proxy  ")
	ok := httptest.NewRecorder()
	r.ServeHTTP(ok, req)

	// Assert
	if missing.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", missing.Code)
	}
	if got := ok.Header().Get(HeaderCorrelationID); got != "from-proxy" {
		t.Fatalf("correlation header = %q, want from-proxy", got)
	}
}

func TestDecodeBody(t *testing.T) {
	type in struct {
		Email string `json:"email"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"email":"alice@example.com"}`},
		{name: "unknown field", body: `{"email":"a","role":"admin"}`, wantErr: true},
		{name: "trailing data", body: `{"email":"a"}{}`, wantErr: true},
		{name: "not json", body: `email=a`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))}
			var dst in

			// Act
			err := req.DecodeBody(&dst)

			// Assert
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeBody() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && goerror.CodeOf(err) != goerror.CodeInvalidFormat {
				t.Fatalf("code = %s, want invalid format", goerror.CodeOf(err))
			}
		})
	}
}

func TestChainOrder(t *testing.T) {
	// Arrange
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }), mw("a"), nil, mw("b"))

	// Act
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	if strings.Join(order, ",") != "a,b,handler" {
		t.Fatalf("order = %v", order)
	}
}
