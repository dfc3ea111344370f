// Package token は署名付きセッショントークンの発行と検証を提供する。
//
// トークンはHS256で署名された自己完結型のJWTであり、サーバー側に
// 発行済みトークンのストアを持たない。そのためログアウトや失効は
// クライアント側でのトークン破棄のみで実現される（既知の制約）。
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL はトークンの既定の有効期間（30日）。
const DefaultTTL = 30 * 24 * time.Hour

// minSecretLen は署名鍵の最小バイト長。
// 短い鍵はブルートフォースに弱いため起動時に拒否する。
const minSecretLen = 32

// トークン検証の失敗分類。
var (
	// ErrMalformed はJWTとして解釈できないトークンを表す。
	ErrMalformed = errors.New("token is malformed")
	// ErrExpired は有効期限切れのトークンを表す。
	ErrExpired = errors.New("token has expired")
	// ErrInvalidSignature は署名検証に失敗したトークンを表す。
	ErrInvalidSignature = errors.New("token signature is invalid")
	// ErrSecretTooShort は署名鍵が短すぎる場合の設定エラーを表す。
	ErrSecretTooShort = errors.New("signing secret must be at least 32 bytes")
)

// claims はサブジェクトIDと標準クレームを保持する。
type claims struct {
	jwt.RegisteredClaims
}

// Service はセッショントークンの発行・検証サービス。
// 署名鍵はプロセス全体の設定から注入され、レコードには埋め込まない。
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService はServiceを生成する。
// 署名鍵が未設定または短すぎる場合はエラーを返す。
// 推測可能なデフォルト鍵への暗黙のフォールバックは行わない。
func NewService(secret []byte, ttl time.Duration) (*Service, error) {
	if len(secret) < minSecretLen {
		return nil, ErrSecretTooShort
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue はsubjectIDを載せた署名付きトークンを発行する。
// 有効期限は現在時刻 + TTL。
func (s *Service) Issue(subjectID string) (string, error) {
	now := s.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return t.SignedString(s.secret)
}

// Verify はトークンを検証し、サブジェクトIDを返す。
// 副作用はなく、同一入力に対して決定的に動作する。
// 失敗はErrMalformed、ErrExpired、ErrInvalidSignatureのいずれかに分類される。
func (s *Service) Verify(tokenString string) (string, error) {
	c := &claims{}
	t, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrInvalidSignature
		default:
			return "", ErrMalformed
		}
	}
	if !t.Valid {
		return "", ErrInvalidSignature
	}
	return c.Subject, nil
}
