package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kshimada/shopauth/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"

	metricspkg "github.com/kshimada/shopauth/internal/metrics"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// 認証
	AuthService   AuthServiceInterface
	TokenVerifier middleware.TokenVerifier

	// ミドルウェア依存
	CORSAllowedOrigin string

	// メトリクス
	Metrics  *metricspkg.Collector
	Gatherer prometheus.Gatherer

	// ヘルスチェック
	DB *sql.DB
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → Metrics
//
// 認可を要するルート（/api/auth/me）のみベアラー認証を追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	// typed nilをインターフェースに入れないためのガード
	var authMetrics AuthMetrics
	if deps.Metrics != nil {
		authMetrics = deps.Metrics
	}
	authHandler := NewAuthHandler(deps.AuthService, authMetrics)

	// 稼働確認用
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("API is running..."))
	})
	r.Get("/health", NewHealthHandler(deps.DB))

	if deps.Gatherer != nil {
		r.Get("/metrics", metricspkg.Handler(deps.Gatherer).ServeHTTP)
	}

	r.Route("/api/auth", func(r chi.Router) {
		// --- 認証不要のルート ---
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// --- 認証が必要なルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewBearerAuthMiddleware(deps.TokenVerifier))
			r.Get("/me", authHandler.Me)
		})
	})

	return r
}

// NewHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
// dbがnilの場合はプロセス生存のみを応答する。
func NewHealthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				middleware.WriteMessageError(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
