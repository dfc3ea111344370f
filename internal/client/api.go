package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kshimada/shopauth/internal/config"
	"github.com/kshimada/shopauth/internal/model"
)

// ErrUnreachable はバックエンドへの接続自体に失敗したことを示す。
// タイムアウト・接続拒否などの下位エラーをラップする。
var ErrUnreachable = errors.New("api unreachable")

// APIError はバックエンドが返したエラー応答を表す。
type APIError struct {
	StatusCode int
	Message    string
	Fields     []model.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		msgs := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			msgs[i] = f.Message
		}
		return strings.Join(msgs, "; ")
	}
	return e.Message
}

// Client は認証APIを呼び出すHTTPクライアント。
// 成功した登録・ログインはmanagerのセッションとして保存される。
type Client struct {
	baseURL    string
	httpClient *http.Client
	manager    *Manager
}

// NewClient はcfgとmanagerからClientを生成する。
// 全リクエストにRequestTimeoutが適用され、ベアラートークンの付与と
// 401応答時のセッション破棄はTransportが行う。
func NewClient(cfg *config.ClientConfig, manager *Manager, onUnauthorized func(redirectPath string)) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: NewTransport(nil, manager, onUnauthorized),
		},
		manager: manager,
	}
}

// authResult は登録・ログイン成功時の応答ボディ。
type authResult struct {
	Success bool             `json:"success"`
	User    model.PublicUser `json:"user"`
	Token   string           `json:"token"`
}

// errorResult はエラー応答ボディ。message形式とerrors形式の両方を受ける。
type errorResult struct {
	Message string             `json:"message"`
	Errors  []model.FieldError `json:"errors"`
}

// Register は新規ユーザーを登録し、成功時はセッションを保存する。
func (c *Client) Register(ctx context.Context, name, email, password string) (*model.PublicUser, error) {
	return c.authenticate(ctx, "/api/auth/register", http.StatusCreated, map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

// Login は認証を行い、成功時はセッションを保存する。
func (c *Client) Login(ctx context.Context, email, password string) (*model.PublicUser, error) {
	return c.authenticate(ctx, "/api/auth/login", http.StatusOK, map[string]string{
		"email":    email,
		"password": password,
	})
}

// Logout はローカルのセッションを破棄する。
// トークンはステートレスなため、サーバー側への通知は行わない。
func (c *Client) Logout() error {
	return c.manager.Clear()
}

// Me は現在のセッションでユーザープロフィールを取得する。
func (c *Client) Me(ctx context.Context) (*model.PublicUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var user model.PublicUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}
	return &user, nil
}

// authenticate は登録・ログイン共通の呼び出し処理。
// wantStatusの応答を受けた場合のみセッションを保存する。
func (c *Client) authenticate(ctx context.Context, path string, wantStatus int, body map[string]string) (*model.PublicUser, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return nil, decodeError(resp)
	}

	var result authResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("auth response missing token")
	}

	if err := c.manager.SetSession(result.Token, result.User); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return &result.User, nil
}

// decodeError はエラー応答ボディをAPIErrorに変換する。
// ボディが読めない場合もステータスコードは保持する。
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body errorResult
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Message
		apiErr.Fields = body.Errors
	}
	if apiErr.Message == "" && len(apiErr.Fields) == 0 {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
