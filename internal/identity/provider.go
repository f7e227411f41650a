// Package identity は外部IdP（GoTrue互換の認証サービス）との連携を提供する。
// パスワード認証、サインアップ、サインアウト、ユーザー情報取得、パスワード変更を扱う。
package identity

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable はIdPに到達できない、またはIdPが5xxを返した場合のエラー。
var ErrUnavailable = errors.New("identity provider unavailable")

// Metadata はIdPのユーザーに付与する組織メタデータ。
type Metadata struct {
	OrganizationName string `json:"organization_name,omitempty"`
	ContactName      string `json:"contact_name,omitempty"`
	Role             string `json:"user_role,omitempty"`
}

// User はIdPが管理するユーザーを表す。
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Metadata Metadata `json:"user_metadata"`
}

// Session はサインイン成功時にIdPが返すセッションを表す。
// メール確認が必要なサインアップではAccessTokenが空になる。
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

// SignUpRequest はサインアップのリクエスト内容。
type SignUpRequest struct {
	Email    string
	Password string
	Metadata Metadata
}

// Provider は外部IdPのインターフェース。
type Provider interface {
	// SignUp はユーザーを登録する。
	SignUp(ctx context.Context, req SignUpRequest) (*Session, error)
	// SignIn はメールアドレスとパスワードで認証する。
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// SignOut はアクセストークンを失効させる。
	SignOut(ctx context.Context, accessToken string) error
	// GetUser はアクセストークンに対応するユーザーを返す。
	GetUser(ctx context.Context, accessToken string) (*User, error)
	// UpdatePassword はアクセストークンのユーザーのパスワードを変更する。
	UpdatePassword(ctx context.Context, accessToken, password string) error
}

// ProviderError はIdPがリクエストを拒否した場合のエラー。
// MessageはIdPのメッセージをそのまま保持し、画面にそのまま表示する。
type ProviderError struct {
	StatusCode int
	Message    string
}

// Error はerrorインターフェースを実装する。
func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider rejected request (status %d): %s", e.StatusCode, e.Message)
}
