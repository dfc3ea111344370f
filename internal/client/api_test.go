package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kshimada/shopauth/internal/config"
	"github.com/kshimada/shopauth/internal/model"
)

func newTestClient(t *testing.T, baseURL string) (*Client, *Manager) {
	t.Helper()
	m := NewManager(NewStore(t.TempDir()))
	c := NewClient(&config.ClientConfig{
		APIBaseURL:     baseURL,
		RequestTimeout: 5 * time.Second,
	}, m, nil)
	return c, m
}

func writeAuthSuccess(w http.ResponseWriter, status int, token string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"user": map[string]any{
			"id":    "user-id-1",
			"name":  "Ann Lee",
			"email": "ann@x.com",
			"role":  "user",
		},
		"token": token,
	})
}

// 登録成功でセッションが保存されることを検証
func TestClient_Register_StoresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/register" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "ann@x.com" {
			t.Errorf("email = %q, want ann@x.com", body["email"])
		}
		writeAuthSuccess(w, http.StatusCreated, "issued-token")
	}))
	defer srv.Close()

	c, m := newTestClient(t, srv.URL)

	user, err := c.Register(context.Background(), "Ann Lee", "ann@x.com", "secret1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID != "user-id-1" {
		t.Errorf("user.id = %q, want user-id-1", user.ID)
	}

	sess := m.Current()
	if sess == nil || sess.Token != "issued-token" {
		t.Errorf("session should hold the issued token, got %+v", sess)
	}
}

// 登録失敗（重複）でAPIErrorが返り、セッションが作られないことを検証
func TestClient_Register_DuplicateReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "User already exists"})
	}))
	defer srv.Close()

	c, m := newTestClient(t, srv.URL)

	_, err := c.Register(context.Background(), "Ann Lee", "ann@x.com", "secret1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "User already exists" {
		t.Errorf("message = %q, want %q", apiErr.Message, "User already exists")
	}
	if m.Current() != nil {
		t.Error("failed registration must not create a session")
	}
}

// バリデーションエラーのフィールド一覧が取得できることを検証
func TestClient_Register_ValidationFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []model.FieldError{
				{Field: "email", Message: "Please enter a valid email"},
				{Field: "password", Message: "Password must be at least 6 characters long"},
			},
		})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)

	_, err := c.Register(context.Background(), "Ann Lee", "bad", "123")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if len(apiErr.Fields) != 2 {
		t.Fatalf("got %d field errors, want 2", len(apiErr.Fields))
	}
	if apiErr.Fields[0].Field != "email" {
		t.Errorf("fields[0].field = %q, want email", apiErr.Fields[0].Field)
	}
}

// ログイン成功でセッションが保存されることを検証
func TestClient_Login_StoresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		writeAuthSuccess(w, http.StatusOK, "login-token")
	}))
	defer srv.Close()

	c, m := newTestClient(t, srv.URL)

	if _, err := c.Login(context.Background(), "ann@x.com", "secret1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	sess := m.Current()
	if sess == nil || sess.Token != "login-token" {
		t.Errorf("session should hold the login token, got %+v", sess)
	}
}

// 認証失敗メッセージがそのまま伝搬されることを検証
func TestClient_Login_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)

	_, err := c.Login(context.Background(), "ann@x.com", "wrong12")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "Invalid credentials" {
		t.Errorf("message = %q, want %q", apiErr.Message, "Invalid credentials")
	}
}

// 接続不能時にErrUnreachableが返ることを検証
func TestClient_NetworkFailure_ReturnsUnreachable(t *testing.T) {
	// クローズ済みサーバーのURLで接続拒否を再現する
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := newTestClient(t, url)

	_, err := c.Login(context.Background(), "ann@x.com", "secret1")
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

// Meがベアラートークン付きでプロフィールを取得することを検証
func TestClient_Me_UsesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer me-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(testProfile())
	}))
	defer srv.Close()

	c, m := newTestClient(t, srv.URL)
	if err := m.SetSession("me-token", testProfile()); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	user, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if user.Email != "ann@x.com" {
		t.Errorf("email = %q, want ann@x.com", user.Email)
	}
}

// 期限切れセッションでのMeがセッション破棄に至ることを検証
func TestClient_Me_Expired_ClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "unauthorized"})
	}))
	defer srv.Close()

	c, m := newTestClient(t, srv.URL)
	if err := m.SetSession("expired-token", testProfile()); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	_, err := c.Me(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.StatusCode)
	}
	if m.Current() != nil {
		t.Error("session should be cleared after 401")
	}
}

// Logoutがローカルセッションのみ破棄することを検証
func TestClient_Logout_ClearsLocalSession(t *testing.T) {
	serverCalled := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverCalled = true
	}))
	defer srv.Close()

	c, m := newTestClient(t, srv.URL)
	if err := m.SetSession("token-abc", testProfile()); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	if err := c.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if m.Current() != nil {
		t.Error("session should be cleared after logout")
	}
	if serverCalled {
		t.Error("logout must not call the server")
	}
}
