// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kshimada/shopauth/internal/auth"
	"github.com/kshimada/shopauth/internal/middleware"
	"github.com/kshimada/shopauth/internal/model"
)

// maxBodySize はリクエストボディの上限（1MB）。
const maxBodySize = 1 << 20

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

// AuthMetrics は認証ハンドラーが記録するメトリクスのインターフェース。
type AuthMetrics interface {
	RecordRegisterSuccess()
	RecordRegisterFailure(reason string)
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
	RecordTokenIssued()
}

// AuthHandler は登録・ログイン関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics AuthMetrics
}

// NewAuthHandler はAuthHandlerを生成する。
// metricsがnilの場合は記録をスキップする。
func NewAuthHandler(service AuthServiceInterface, metrics AuthMetrics) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: metrics,
	}
}

// registerRequest は登録リクエストのボディ。
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse は登録・ログイン成功時のレスポンス。
// パスワードは決して含めない。
type authResponse struct {
	Success bool             `json:"success"`
	User    model.PublicUser `json:"user"`
	Token   string           `json:"token"`
}

// Register は新規ユーザーを登録し、セッショントークンを発行する。
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		h.recordRegisterFailure("validation")
		return
	}

	// バリデーション失敗時はストアに一切アクセスしない
	if errs := auth.ValidateRegister(req.Name, req.Email, req.Password); len(errs) > 0 {
		h.recordRegisterFailure("validation")
		middleware.WriteValidationErrors(w, errs)
		return
	}

	user, tok, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		// サニタイズ後の表示名がサービス側で拒否された場合
		var verrs model.ValidationErrors
		if errors.As(err, &verrs) {
			h.recordRegisterFailure("validation")
			middleware.WriteValidationErrors(w, verrs)
			return
		}
		if errors.Is(err, model.ErrDuplicateEmail) {
			h.recordRegisterFailure("duplicate")
			// どのフィールドが重複したかは明かさない
			middleware.WriteMessageError(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.recordRegisterFailure("internal")
		slog.Error("registration failed", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w, "Server error during registration")
		return
	}

	if h.metrics != nil {
		h.metrics.RecordRegisterSuccess()
		h.metrics.RecordTokenIssued()
	}

	middleware.WriteJSON(w, http.StatusCreated, authResponse{
		Success: true,
		User:    user.Public(),
		Token:   tok,
	})
}

// Login は認証情報を検証し、セッショントークンを発行する。
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		h.recordLoginFailure("validation")
		return
	}

	if errs := auth.ValidateLogin(req.Email, req.Password); len(errs) > 0 {
		h.recordLoginFailure("validation")
		middleware.WriteValidationErrors(w, errs)
		return
	}

	user, tok, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			h.recordLoginFailure("invalid_credentials")
			// ユーザー不在とパスワード不一致で同一のメッセージを返す
			middleware.WriteMessageError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		h.recordLoginFailure("internal")
		slog.Error("login failed", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w, "Server error during login")
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLoginSuccess()
		h.metrics.RecordTokenIssued()
	}

	middleware.WriteJSON(w, http.StatusOK, authResponse{
		Success: true,
		User:    user.Public(),
		Token:   tok,
	})
}

// Me は認証済みユーザーのプロフィールを返す。
// ベアラー認証ミドルウェアの通過を前提とする。
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteMessageError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// トークンは有効だがユーザーが削除されている場合
			middleware.WriteMessageError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		slog.Error("failed to get current user", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w, "")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, user.Public())
}

// decodeBody はJSONボディをデコードする。失敗時は400を書き込みfalseを返す。
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteMessageError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *AuthHandler) recordRegisterFailure(reason string) {
	if h.metrics != nil {
		h.metrics.RecordRegisterFailure(reason)
	}
}

func (h *AuthHandler) recordLoginFailure(reason string) {
	if h.metrics != nil {
		h.metrics.RecordLoginFailure(reason)
	}
}
