// Package middleware はHTTPミドルウェアと統一レスポンス書き込みを提供する。
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/kshimada/shopauth/internal/model"
)

// MessageResponseBody は単一メッセージ型エラーレスポンスのフォーマット。
// 重複登録・認証失敗・サーバーエラーで使用する。
type MessageResponseBody struct {
	Message string `json:"message"`
}

// ValidationResponseBody はバリデーションエラーレスポンスのフォーマット。
// 常にフィールドエラーのリストを返す。
type ValidationResponseBody struct {
	Errors []model.FieldError `json:"errors"`
}

// WriteJSON はJSONレスポンスを書き込む。
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// WriteValidationErrors はフィールド単位のバリデーションエラーを400で書き込む。
func WriteValidationErrors(w http.ResponseWriter, errs model.ValidationErrors) {
	WriteJSON(w, http.StatusBadRequest, ValidationResponseBody{Errors: errs})
}

// WriteMessageError は単一メッセージ型のエラーレスポンスを書き込む。
func WriteMessageError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, MessageResponseBody{Message: message})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Something went wrong!"
	}
	WriteMessageError(w, http.StatusInternalServerError, message)
}
