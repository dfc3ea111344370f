package client

import (
	"log/slog"
	"net/http"
)

// loginPath は401応答時の誘導先。
const loginPath = "/login"

// Transport は全リクエストにベアラートークンを付与するRoundTripper。
// 401応答を受けた場合はリクエスト時点のセッションを破棄し、
// ログイン画面への誘導フックを呼び出す。
type Transport struct {
	base    http.RoundTripper
	manager *Manager

	// onUnauthorized は401応答でセッションが破棄された際に
	// 誘導先パスを受け取るフック。nilの場合は何もしない。
	onUnauthorized func(redirectPath string)
}

// NewTransport はmanagerのセッションを用いるTransportを生成する。
// baseがnilの場合はhttp.DefaultTransportを使用する。
func NewTransport(base http.RoundTripper, manager *Manager, onUnauthorized func(redirectPath string)) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		base:           base,
		manager:        manager,
		onUnauthorized: onUnauthorized,
	}
}

// RoundTrip はセッションが存在する場合にAuthorizationヘッダーを付与して送信する。
// 401応答ではリクエストを行ったセッションの世代を指定して破棄するため、
// 応答待ちの間に完了した新しいログインを巻き込まない。
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	sess := t.manager.Current()
	if sess != nil {
		// RoundTripperは引数のリクエストを変更してはならない
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && sess != nil {
		cleared, clearErr := t.manager.ClearIf(sess.generation)
		if clearErr != nil {
			slog.Warn("failed to clear session after 401",
				slog.String("error", clearErr.Error()),
			)
		}
		if cleared && t.onUnauthorized != nil {
			t.onUnauthorized(loginPath)
		}
	}

	return resp, nil
}

var _ http.RoundTripper = (*Transport)(nil)
