package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kshimada/shopauth/internal/model"
	"github.com/kshimada/shopauth/internal/repository"
)

// TokenIssuer はセッショントークンの発行に必要なインターフェース。
// token.Serviceの部分集合として定義する。
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
}

// NameSanitizer は表示名のサニタイズに必要なインターフェース。
type NameSanitizer interface {
	Sanitize(raw string) string
}

// Service は登録・ログインのビジネスロジックを提供する。
// 状態を持たず、リクエスト間で安全に並行利用できる。
type Service struct {
	users     repository.UserRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	sanitizer NameSanitizer
}

// NewService はServiceを生成する。
func NewService(
	users repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	sanitizer NameSanitizer,
) *Service {
	return &Service{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		sanitizer: sanitizer,
	}
}

// Register は新規ユーザーを作成し、セッショントークンを発行する。
// 入力はハンドラー側でバリデーション済みであることを前提とするが、
// 表示名はサニタイズで短くなりうるため、除去後の値で長さを再検証する。
// 制約を満たさない場合はmodel.ValidationErrorsを返す。
// メールアドレスが登録済みの場合はmodel.ErrDuplicateEmailを返す。
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	email = NormalizeEmail(email)
	name = s.sanitizer.Sanitize(name)

	// タグのみの入力はサニタイズ後に空になる。空や1文字の表示名を保存しない
	if !ValidDisplayName(name) {
		return nil, "", model.ValidationErrors{{
			Field:   "name",
			Message: "Name must be between 2 and 50 characters",
		}}
	}

	// 事前チェック。同時登録のレースはDBの一意性制約が最終的に防ぐ。
	existing, err := s.users.FindByEmail(ctx, email, false)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", model.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	// これ以降、平文パスワードは参照しない

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.DefaultRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			return nil, "", model.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
	)

	return user, tok, nil
}

// Login は認証情報を検証し、セッショントークンを発行する。
// ユーザー不在とパスワード不一致はどちらもmodel.ErrInvalidCredentialsを返し、
// 原因を呼び出し側から区別できないようにする。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = NormalizeEmail(email)

	// 認証経路のみパスワードハッシュ込みで取得する
	user, err := s.users.FindByEmail(ctx, email, true)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, "", model.ErrInvalidCredentials
	}

	if !s.hasher.Compare(password, user.PasswordHash) {
		return nil, "", model.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
	)

	return user, tok, nil
}

// GetUser はIDでユーザーを取得する。
// 認証済みリクエストのプロフィール取得（/api/auth/me）で使用する。
func (s *Service) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}
