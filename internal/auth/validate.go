package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kshimada/shopauth/internal/model"
)

// 入力バリデーションの制約値。
const (
	nameMinLen     = 2
	nameMaxLen     = 50
	passwordMinLen = 6
)

// emailPattern はメールアドレスの書式チェック用パターン。
// 厳密なRFC準拠ではなく、明らかな入力ミスを弾くことが目的。
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail はメールアドレスを正規化する（前後空白除去 + 小文字化）。
// 一意性判定と保存は常に正規化後の値に対して行う。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidDisplayName は表示名が長さ制約（2〜50文字）を満たすかを返す。
// 長さはバイト数ではなく文字数（rune）で数える。
// マルチバイトの名前をバイト数で測ると制約がずれるため。
func ValidDisplayName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= nameMinLen && n <= nameMaxLen
}

// ValidateRegister は登録入力を検証し、フィールド単位のエラーを返す。
// エラーがない場合は空スライスではなくnilを返す。
func ValidateRegister(name, email, password string) model.ValidationErrors {
	var errs model.ValidationErrors

	if !ValidDisplayName(name) {
		errs = append(errs, model.FieldError{
			Field:   "name",
			Message: "Name must be between 2 and 50 characters",
		})
	}

	if !emailPattern.MatchString(NormalizeEmail(email)) {
		errs = append(errs, model.FieldError{
			Field:   "email",
			Message: "Please enter a valid email",
		})
	}

	if len(password) < passwordMinLen {
		errs = append(errs, model.FieldError{
			Field:   "password",
			Message: "Password must be at least 6 characters long",
		})
	}

	return errs
}

// ValidateLogin はログイン入力を検証し、フィールド単位のエラーを返す。
// パスワードは存在チェックのみ（長さ制約は登録時のみ適用する）。
func ValidateLogin(email, password string) model.ValidationErrors {
	var errs model.ValidationErrors

	if !emailPattern.MatchString(NormalizeEmail(email)) {
		errs = append(errs, model.FieldError{
			Field:   "email",
			Message: "Please enter a valid email",
		})
	}

	if password == "" {
		errs = append(errs, model.FieldError{
			Field:   "password",
			Message: "Password is required",
		})
	}

	return errs
}
