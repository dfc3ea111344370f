// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"strings"
)

// 認証フローで使用するセンチネルエラー。
// ハンドラー境界でHTTPステータスとユーザー向けメッセージに変換される。
var (
	// ErrDuplicateEmail は登録済みメールアドレスでの再登録を表す。
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials はログイン失敗を表す。
	// ユーザー不在とパスワード不一致を意図的に区別しない
	// （アカウント列挙攻撃への対策）。
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound はIDによるユーザー検索の失敗を表す。
	ErrUserNotFound = errors.New("user not found")
)

// FieldError は入力フィールド単位のバリデーションエラーを表す。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors はバリデーションエラーの集合。
// 常にリストとしてクライアントへ返却する。
type ValidationErrors []FieldError

// Error はerrorインターフェースを実装する。
func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
