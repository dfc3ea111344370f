// Package client はバックエンドAPIを利用するクライアントSDKを提供する。
// セッションの永続化、ベアラートークンの自動付与、401応答時の
// セッション破棄とログイン画面への誘導を担う。
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/kshimada/shopauth/internal/model"
)

// セッション状態ディレクトリ配下のエントリ名。
const (
	tokenEntry = "auth_token"
	userEntry  = "auth_user.json"
)

// Session は認証済みセッションのスナップショット。
type Session struct {
	Token string
	User  model.PublicUser

	// generation はManagerが払い出す単調増加の世代番号。
	// 401応答による破棄が新しいセッションを巻き込まないために使う。
	generation uint64
}

// Store はセッションを状態ディレクトリ配下の2エントリとして永続化する。
// トークンとプロフィールは常に一体として保存・破棄する。
type Store struct {
	dir string
}

// NewStore はdir配下にセッションを保存するStoreを生成する。
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Persist はトークンとプロフィールを一体として保存する。
// いずれかの書き込みに失敗した場合は両エントリを破棄し、
// 片方だけが残る状態を作らない。
func (s *Store) Persist(token string, user model.PublicUser) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, tokenEntry), []byte(token), 0o600); err != nil {
		s.Clear()
		return fmt.Errorf("failed to persist token: %w", err)
	}

	data, err := json.Marshal(user)
	if err != nil {
		s.Clear()
		return fmt.Errorf("failed to encode user profile: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, userEntry), data, 0o600); err != nil {
		s.Clear()
		return fmt.Errorf("failed to persist user profile: %w", err)
	}

	return nil
}

// Clear は両エントリを破棄する。エントリが存在しない場合もエラーにしない。
func (s *Store) Clear() error {
	var errs []error
	for _, name := range []string{tokenEntry, userEntry} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Hydrate は永続化されたセッションを読み込む。
// エントリの欠落・破損はエラーではなくログアウト状態（nil）として扱い、
// 破損していた場合は残存エントリも破棄する。
func (s *Store) Hydrate() (*Session, error) {
	tokenData, err := os.ReadFile(filepath.Join(s.dir, tokenEntry))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token entry: %w", err)
	}

	userData, err := os.ReadFile(filepath.Join(s.dir, userEntry))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// トークンだけ残っている不整合状態は破棄してログアウト扱い
			s.Clear()
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read user entry: %w", err)
	}

	var user model.PublicUser
	if err := json.Unmarshal(userData, &user); err != nil {
		slog.Warn("stored user profile is corrupt, clearing session",
			slog.String("error", err.Error()),
		)
		s.Clear()
		return nil, nil
	}

	token := string(tokenData)
	if token == "" {
		s.Clear()
		return nil, nil
	}

	return &Session{Token: token, User: user}, nil
}

// Manager はプロセス内の現在セッションを管理する。
// 各セッションに世代番号を付与し、401応答による破棄要求が
// その応答を引き起こしたセッションより新しいセッションを
// 破棄しないことを保証する。
type Manager struct {
	mu      sync.Mutex
	store   *Store
	current *Session
	lastGen uint64
}

// NewManager はstoreを背後に持つManagerを生成する。
func NewManager(store *Store) *Manager {
	return &Manager{store: store}
}

// Hydrate は永続化済みセッションを現在セッションとして読み込む。
// 読み込めなかった場合はログアウト状態で開始する。
func (m *Manager) Hydrate() error {
	sess, err := m.store.Hydrate()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess != nil {
		m.lastGen++
		sess.generation = m.lastGen
	}
	m.current = sess
	return nil
}

// SetSession は新しいセッションを永続化し、現在セッションとして設定する。
func (m *Manager) SetSession(token string, user model.PublicUser) error {
	if err := m.store.Persist(token, user); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastGen++
	m.current = &Session{
		Token:      token,
		User:       user,
		generation: m.lastGen,
	}
	return nil
}

// Current は現在セッションのスナップショットを返す。未ログインの場合はnil。
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	cp := *m.current
	return &cp
}

// Clear は現在セッションを無条件に破棄する。
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	return m.store.Clear()
}

// ClearIf はgenerationが現在セッションの世代と一致する場合のみ破棄する。
// 401応答の処理中に別のログインが完了していた場合、
// 新しいセッションはそのまま維持される。
func (m *Manager) ClearIf(generation uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.generation != generation {
		return false, nil
	}
	m.current = nil
	return true, m.store.Clear()
}
