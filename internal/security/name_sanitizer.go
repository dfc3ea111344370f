// Package security はアプリケーションのセキュリティ機能を提供する。
//
// NameSanitizerService はユーザーが入力した表示名をサニタイズし、
// 格納型XSSなどのリスクからフロントエンドを保護する。
// bluemondayの厳格ポリシーを使用し、HTMLタグ・属性を一切通過させない。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// NameSanitizerService は表示名サニタイズ機能のインターフェースを定義する。
// ユーザー登録時の保存前に使用される。
type NameSanitizerService interface {
	// Sanitize は表示名からHTMLタグをすべて除去し、前後の空白を整えて返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// nameSanitizer はNameSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type nameSanitizer struct {
	policy *bluemonday.Policy
}

// NewNameSanitizer はNameSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはタグも属性も一切許可しない。表示名は平文のみを想定するため、
// 許可リストは空でよい。
func NewNameSanitizer() *nameSanitizer {
	return &nameSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は表示名からHTMLタグをすべて除去して返す。
func (s *nameSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
