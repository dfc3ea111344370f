package client

import (
	"fmt"
	"net/url"
)

// LoginRequiredError は未ログイン状態で保護ルートに入ろうとしたことを示す。
// RedirectToには元のパスをredirectパラメータとして付与したログイン画面のパスが入る。
type LoginRequiredError struct {
	RedirectTo string
}

func (e *LoginRequiredError) Error() string {
	return fmt.Sprintf("login required (redirect to %s)", e.RedirectTo)
}

// RequireAuth は保護ルートへの入場判定を行う。
// セッションのトークンが存在すればそれを返す。存在しない場合は
// ログイン後に元のパスへ戻れるようLoginRequiredErrorを返す。
//
// トークンの署名・有効期限はここでは検証しない。検証はサーバー側の
// 責務であり、期限切れトークンはAPI呼び出し時の401で破棄される。
func RequireAuth(m *Manager, returnPath string) (string, error) {
	sess := m.Current()
	if sess != nil && sess.Token != "" {
		return sess.Token, nil
	}

	redirect := loginPath
	if returnPath != "" {
		redirect = loginPath + "?redirect=" + url.QueryEscape(returnPath)
	}
	return "", &LoginRequiredError{RedirectTo: redirect}
}
