// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/foodwaste/internal/auth"
	"github.com/hitoshi/foodwaste/internal/dashboard"
	"github.com/hitoshi/foodwaste/internal/middleware"
	"github.com/hitoshi/foodwaste/internal/model"
	"github.com/hitoshi/foodwaste/internal/validation"
	"github.com/hitoshi/foodwaste/internal/web"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (*auth.Result, error)
	SignIn(ctx context.Context, email, password string) (*auth.Result, error)
	SignOut(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (*model.UserProfile, error)
	UpdatePassword(ctx context.Context, sessionID, newPassword string) error
}

// ContactServiceInterface はお問い合わせハンドラーが必要とするサービスインターフェース。
type ContactServiceInterface interface {
	Submit(ctx context.Context, form validation.ContactForm) (model.FieldErrors, error)
}

// DashboardServiceInterface はダッシュボードハンドラーが必要とするサービスインターフェース。
type DashboardServiceInterface interface {
	Schedule(ctx context.Context, dateParam string) (*dashboard.ScheduleView, error)
	Donations(ctx context.Context) ([]model.DonationRecord, error)
	Restaurants(ctx context.Context, query string) ([]model.PartnerRestaurant, error)
	Analytics(ctx context.Context, role model.Role) (*dashboard.Analytics, error)
}

// ProfileUpdater は設定画面からのプロフィール更新に必要なインターフェース。
// repository.ProfileRepositoryの部分集合として定義する。
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, profile *model.UserProfile) error
	UpdateNotifications(ctx context.Context, userID string, settings model.NotificationSettings) error
	UpdatePickupHours(ctx context.Context, userID string, hours model.PickupHours) error
}

// NotFoundRecorder は存在しないルートへのアクセスを記録する。
type NotFoundRecorder interface {
	RecordNotFound()
}

// CookieConfig はセッションCookieの設定。
type CookieConfig struct {
	Domain string
	Secure bool
	MaxAge int // セッションCookieの有効期間（秒）
}

// pages はHTMLページを描画するハンドラーの共通部分。
type pages struct {
	renderer *web.Renderer
	flash    *web.FlashStore
	auth     AuthServiceInterface
}

// currentUser はセッションからログイン中のユーザーを返す。
// 取得に失敗した場合は未ログインとして扱う。
func (p *pages) currentUser(r *http.Request) *model.UserProfile {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil
	}
	user, err := p.auth.CurrentUser(r.Context(), sessionID)
	if err != nil {
		slog.Error("failed to load current user", slog.String("error", err.Error()))
		return nil
	}
	return user
}

// pageData はページ共通のデータを組み立てる。保留中のトーストはここで取り出す。
func (p *pages) pageData(w http.ResponseWriter, r *http.Request, title string, user *model.UserProfile, data any) web.PageData {
	return web.PageData{
		Title:     title,
		Path:      r.URL.Path,
		CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
		Toasts:    p.flash.Pop(w, r),
		User:      user,
		Data:      data,
	}
}

// render はページを描画する。
func (p *pages) render(w http.ResponseWriter, status int, page string, data web.PageData) {
	p.renderer.Render(w, status, page, data)
}

// redirectWithToast はトーストを保存してリダイレクトする。
func (p *pages) redirectWithToast(w http.ResponseWriter, r *http.Request, url string, toast web.Toast) {
	if err := p.flash.Add(w, r, toast); err != nil {
		slog.Error("failed to save flash", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// setSessionCookie はセッションCookieを設定する。
func setSessionCookie(w http.ResponseWriter, session *model.Session, config CookieConfig) {
	maxAge := config.MaxAge
	if !session.ExpiresAt.IsZero() {
		maxAge = int(time.Until(session.ExpiresAt).Seconds())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   config.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie はセッションCookieを削除する。
func clearSessionCookie(w http.ResponseWriter, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   config.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// formValues はフォームの入力値を再表示用に取り出す。パスワード項目は含めない。
func formValues(r *http.Request, fields ...string) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f] = r.PostFormValue(f)
	}
	return values
}
