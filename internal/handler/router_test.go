package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kshimada/shopauth/internal/metrics"
	"github.com/kshimada/shopauth/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

type staticVerifier struct{}

func (staticVerifier) Verify(token string) (string, error) {
	return "user-id-1", nil
}

func newRouterForTest() http.Handler {
	svc := &mockAuthService{
		getUserFn: func(ctx context.Context, userID string) (*model.User, error) {
			return testUser(), nil
		},
	}
	return NewRouter(&RouterDeps{
		AuthService:       svc,
		TokenVerifier:     staticVerifier{},
		CORSAllowedOrigin: "http://localhost:3000",
	})
}

// ルートパスが稼働確認メッセージを返すことを検証
func TestRouter_Root_ReturnsRunningMessage(t *testing.T) {
	router := newRouterForTest()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body, _ := io.ReadAll(w.Result().Body)
	if string(body) != "API is running..." {
		t.Errorf("body = %q, want %q", body, "API is running...")
	}
}

// /healthがDBなし構成で200を返すことを検証
func TestRouter_Health_NoDB_ReturnsOK(t *testing.T) {
	router := newRouterForTest()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// 未定義ルートが404を返すことを検証
func TestRouter_UnknownRoute_Returns404(t *testing.T) {
	router := newRouterForTest()

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// GETでの/api/auth/registerが405を返すことを検証
func TestRouter_RegisterWrongMethod_Returns405(t *testing.T) {
	router := newRouterForTest()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/register", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

// /api/auth/meがベアラー認証を要求することを検証
func TestRouter_MeRequiresBearer(t *testing.T) {
	router := newRouterForTest()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

// メトリクス構成時に/metricsが公開されることを検証
func TestRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	router := NewRouter(&RouterDeps{
		AuthService:       &mockAuthService{},
		TokenVerifier:     staticVerifier{},
		CORSAllowedOrigin: "http://localhost:3000",
		Metrics:           collector,
		Gatherer:          reg,
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// CORSヘッダーが全ルートに適用されることを検証
func TestRouter_AppliesCORSHeaders(t *testing.T) {
	router := newRouterForTest()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q, want configured origin", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}
