// Package auth はIdPを利用したサインアップ・サインイン、セッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/foodwaste/internal/identity"
	"github.com/hitoshi/foodwaste/internal/model"
	"github.com/hitoshi/foodwaste/internal/repository"
)

// ErrNotSignedIn はサインインが必要な操作を未認証で呼び出した場合のエラー。
var ErrNotSignedIn = errors.New("not signed in")

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// SignUpInput はサインアップフォームの入力値。
type SignUpInput struct {
	Email            string
	Password         string
	OrganizationName string
	ContactName      string
	Role             model.Role
}

// Result はサインアップ・サインインの結果。
// メール確認待ちのサインアップではSessionがnilになる。
type Result struct {
	Session *model.Session
	Profile *model.UserProfile
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	provider    identity.Provider
	verifier    *identity.TokenVerifier
	profileRepo repository.ProfileRepository
	sessionRepo repository.SessionRepository
	notifier    *Notifier
	config      ServiceConfig
}

// NewService はServiceを生成する。
// verifierがnilの場合、アクセストークンのローカル検証は行わない。
func NewService(
	provider identity.Provider,
	verifier *identity.TokenVerifier,
	profileRepo repository.ProfileRepository,
	sessionRepo repository.SessionRepository,
	notifier *Notifier,
	config ServiceConfig,
) *Service {
	if notifier == nil {
		notifier = NewNotifier()
	}
	return &Service{
		provider:    provider,
		verifier:    verifier,
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		notifier:    notifier,
		config:      config,
	}
}

// Notifier は認証状態の変化を通知するNotifierを返す。
func (s *Service) Notifier() *Notifier {
	return s.notifier
}

// SignUp はIdPにユーザーを登録し、組織プロフィールを作成する。
// IdPがセッションを返した場合はそのままサインイン状態にする。
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*Result, error) {
	idSession, err := s.provider.SignUp(ctx, identity.SignUpRequest{
		Email:    in.Email,
		Password: in.Password,
		Metadata: identity.Metadata{
			OrganizationName: in.OrganizationName,
			ContactName:      in.ContactName,
			Role:             in.Role.String(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}

	profile := profileFromUser(idSession.User)
	if profile.Email == "" {
		profile.Email = in.Email
	}
	if profile.Role == "" {
		profile.Role = in.Role
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	result := &Result{Profile: profile}
	if idSession.AccessToken != "" {
		session, err := s.createSession(ctx, profile.ID, idSession.AccessToken)
		if err != nil {
			return nil, err
		}
		result.Session = session
	}

	slog.Info("user signed up",
		slog.String("user_id", profile.ID),
		slog.String("role", profile.Role.String()),
		slog.Bool("session_issued", result.Session != nil),
	)
	s.notifier.Publish(Event{Type: EventSignedUp, UserID: profile.ID, Role: profile.Role})
	return result, nil
}

// SignIn はメールアドレスとパスワードで認証し、セッションを発行する。
// 保存済みプロフィールがあればそれを使い、IdPのメタデータでは上書きしない。
func (s *Service) SignIn(ctx context.Context, email, password string) (*Result, error) {
	idSession, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	profile, err := s.loadOrCreateProfile(ctx, idSession.User)
	if err != nil {
		return nil, err
	}

	session, err := s.createSession(ctx, profile.ID, idSession.AccessToken)
	if err != nil {
		return nil, err
	}

	slog.Info("user signed in",
		slog.String("user_id", profile.ID),
		slog.String("role", profile.Role.String()),
	)
	s.notifier.Publish(Event{Type: EventSignedIn, UserID: profile.ID, Role: profile.Role})
	return &Result{Session: session, Profile: profile}, nil
}

// SignOut はIdPのトークンを失効させ、ローカルセッションを破棄する。
// IdPへの失効要求が失敗してもローカルセッションは削除する。
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil
	}

	if err := s.provider.SignOut(ctx, session.AccessToken); err != nil {
		slog.Warn("failed to revoke access token",
			slog.String("user_id", session.UserID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user signed out", slog.String("user_id", session.UserID))
	s.notifier.Publish(Event{Type: EventSignedOut, UserID: session.UserID})
	return nil
}

// CurrentUser はセッションから現在のユーザーのプロフィールを返す。
// 未サインイン、期限切れ、トークン不正の場合は(nil, nil)を返す。
// JWTシークレット未設定の場合はIdPにユーザー情報を問い合わせてトークンを確認する。
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*model.UserProfile, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	if !s.tokenValid(ctx, session) {
		s.expire(ctx, session)
		return nil, nil
	}

	profile, err := s.profileRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return profile, nil
}

// UpdatePassword はサインイン中のユーザーのパスワードを変更する。
func (s *Service) UpdatePassword(ctx context.Context, sessionID, newPassword string) error {
	if sessionID == "" {
		return ErrNotSignedIn
	}
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return ErrNotSignedIn
	}

	if err := s.provider.UpdatePassword(ctx, session.AccessToken, newPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password updated", slog.String("user_id", session.UserID))
	s.notifier.Publish(Event{Type: EventPasswordUpdated, UserID: session.UserID})
	return nil
}

// FindByID はセッションミドルウェア向けにセッションを検索する。
func (s *Service) FindByID(ctx context.Context, sessionID string) (*model.Session, error) {
	return s.sessionRepo.FindByID(ctx, sessionID)
}

// loadOrCreateProfile は保存済みプロフィールを返す。
// 未作成の場合のみIdPのメタデータから作成する。
func (s *Service) loadOrCreateProfile(ctx context.Context, user identity.User) (*model.UserProfile, error) {
	profile, err := s.profileRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile != nil {
		return profile, nil
	}

	if err := s.profileRepo.Upsert(ctx, profileFromUser(user)); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	profile, err = s.profileRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, model.NewProfileNotFoundError(user.ID)
	}
	return profile, nil
}

// tokenValid はセッションのアクセストークンが有効かを判定する。
// IdPに到達できない場合はローカルセッションを信頼する。
func (s *Service) tokenValid(ctx context.Context, session *model.Session) bool {
	if s.verifier != nil {
		subject, err := s.verifier.Verify(session.AccessToken)
		return err == nil && subject == session.UserID
	}

	user, err := s.provider.GetUser(ctx, session.AccessToken)
	if err != nil {
		var pe *identity.ProviderError
		if errors.As(err, &pe) {
			return false
		}
		slog.Warn("failed to verify session with identity provider",
			slog.String("user_id", session.UserID),
			slog.String("error", err.Error()),
		)
		return true
	}
	return user != nil && user.ID == session.UserID
}

// expire はトークン検証に失敗したセッションを削除する。
func (s *Service) expire(ctx context.Context, session *model.Session) {
	if err := s.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
		slog.Warn("failed to delete invalid session",
			slog.String("user_id", session.UserID),
			slog.String("error", err.Error()),
		)
	}
	slog.Info("session token rejected", slog.String("user_id", session.UserID))
	s.notifier.Publish(Event{Type: EventSessionExpired, UserID: session.UserID})
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID, accessToken string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := time.Now()
	session := &model.Session{
		ID:          sessionID,
		UserID:      userID,
		AccessToken: accessToken,
		ExpiresAt:   now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt:   now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// profileFromUser はIdPのユーザーメタデータをプロフィールに変換する。
func profileFromUser(u identity.User) *model.UserProfile {
	return &model.UserProfile{
		ID:               u.ID,
		Email:            u.Email,
		OrganizationName: u.Metadata.OrganizationName,
		ContactName:      u.Metadata.ContactName,
		Role:             model.Role(u.Metadata.Role),
	}
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
