// Package config は環境変数からのアプリケーション設定読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はAPIサーバーの設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Token
	// JWTSecretはプロセス全体で共有される署名鍵。
	// 未設定の場合は起動を拒否する（推測可能なデフォルトへのフォールバック禁止）。
	JWTSecret string
	JWTExpire time.Duration

	// Password
	BcryptCost int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// ClientConfig はクライアントSDK（フロントエンド相当）の設定を保持する。
type ClientConfig struct {
	// APIBaseURL はバックエンドのベースURL。
	APIBaseURL string
	// RequestTimeout はネットワークリクエストの固定タイムアウト。
	RequestTimeout time.Duration
	// SessionDir はトークンとプロフィールを永続化するディレクトリ。
	SessionDir string
}

// Load は環境変数からサーバー設定を読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.JWTExpire = getEnvDuration("JWT_EXPIRE", 720*time.Hour)
	cfg.BcryptCost = getEnvInt("BCRYPT_COST", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

// LoadClient は環境変数からクライアント設定を読み込む。
// すべてデフォルト値を持つため、エラーは返さない。
func LoadClient() *ClientConfig {
	return &ClientConfig{
		APIBaseURL:     getEnvString("API_BASE_URL", "http://localhost:8080"),
		RequestTimeout: getEnvDuration("CLIENT_TIMEOUT", 10*time.Second),
		SessionDir:     getEnvString("SESSION_DIR", defaultSessionDir()),
	}
}

// defaultSessionDir はクライアントセッションの既定の保存先を返す。
func defaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shopauth"
	}
	return home + "/.shopauth"
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
