// Package auth はユーザー登録・ログインのドメインロジックと
// パスワードの取り扱いを提供する。
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost はbcryptの既定コストファクタ。
const DefaultBcryptCost = 10

// PasswordHasher はパスワードのハッシュ化と照合のインターフェース。
type PasswordHasher interface {
	// Hash は平文パスワードをソルト付きの一方向ハッシュに変換する。
	Hash(password string) (string, error)
	// Compare は候補パスワードと保存済みハッシュを照合する。
	// ソルトは保存済みハッシュに埋め込まれている。
	Compare(candidate, storedHash string) bool
}

// BcryptHasher はbcryptによるPasswordHasherの実装。
// ソルト生成とタイミング特性はbcrypt自体が担保する。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher はBcryptHasherを生成する。
// costが範囲外の場合はDefaultBcryptCostを使用する。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash は平文パスワードをbcryptハッシュに変換する。
// 呼び出し後、平文は保持しない。
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare は候補パスワードと保存済みハッシュを照合する。
func (h *BcryptHasher) Compare(candidate, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate)) == nil
}

// compile-time interface check
var _ PasswordHasher = (*BcryptHasher)(nil)
