// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/kshimada/shopauth/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// メールアドレスの一意性はDBの制約で保証され、違反時は
	// model.ErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByEmail は正規化済みメールアドレスでユーザーを検索する。
	// 見つからない場合はnilを返す。
	// includePasswordHashがfalseの場合、返却値のPasswordHashは常に空。
	// 認証経路の呼び出し側のみ明示的にtrueを指定する。
	FindByEmail(ctx context.Context, email string, includePasswordHash bool) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	// 返却値にパスワードハッシュは含まれない。
	FindByID(ctx context.Context, id string) (*model.User, error)
}
