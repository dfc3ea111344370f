// Package model はドメインモデルを定義する。
package model

import "time"

// DefaultRole は新規ユーザーに付与されるロール。
// ロールによる権限強制は行わず、プロフィールの一部として保持・返却するのみ。
const DefaultRole = "user"

// User はストアフロントの利用ユーザーを表す。
// PasswordHashはbcryptハッシュ（ソルト埋め込み済み）であり、
// 認証時の比較経路以外で外部に出してはならない。
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser はAPIレスポンスに含めるユーザーの公開プロジェクション。
// パスワードハッシュは含めない。
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public はユーザーの公開プロジェクションを返す。
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
