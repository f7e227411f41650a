package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/foodwaste/internal/auth"
	"github.com/hitoshi/foodwaste/internal/dashboard"
	"github.com/hitoshi/foodwaste/internal/identity"
	"github.com/hitoshi/foodwaste/internal/middleware"
	"github.com/hitoshi/foodwaste/internal/model"
	"github.com/hitoshi/foodwaste/internal/validation"
	"github.com/hitoshi/foodwaste/internal/web"
)

// AuthHandler はログイン・サインアップ・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	*pages
	cookies CookieConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(renderer *web.Renderer, flash *web.FlashStore, authService AuthServiceInterface, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		pages:   &pages{renderer: renderer, flash: flash, auth: authService},
		cookies: cookies,
	}
}

// LoginForm はログイン画面を表示する。
// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login", h.pageData(w, r, "Log in", nil, web.NewForm()))
}

// Login はメールアドレスとパスワードでログインし、ロールに応じたダッシュボードへ遷移する。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	form := web.Form{Values: formValues(r, "email"), Errors: validation.ValidateLogin(email, password)}
	if !form.Errors.Valid() {
		h.render(w, http.StatusUnprocessableEntity, "login", h.pageData(w, r, "Log in", nil, form))
		return
	}

	result, err := h.auth.SignIn(r.Context(), email, password)
	if err != nil {
		slog.Warn("sign in failed", slog.String("error", err.Error()))
		data := h.pageData(w, r, "Log in", nil, form)
		data.Toasts = append(data.Toasts, errorToast("Login Failed", err, "Failed to sign in. Please check your credentials."))
		h.render(w, statusForAuthError(err), "login", data)
		return
	}

	setSessionCookie(w, result.Session, h.cookies)
	role := dashboard.ResolveRole(result.Profile, "")
	h.redirectWithToast(w, r, dashboard.WithRole("/dashboard", role), web.Toast{
		Title:       "Logged in successfully!",
		Description: "Welcome back to FoodWaste Fighter.",
	})
}

// SocialLogin はソーシャルログインが未対応であることを通知する。
// POST /login/social
func (h *AuthHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	h.redirectWithToast(w, r, "/login", web.Toast{
		Title:       "Not implemented yet",
		Description: "Social login will be available in a future update.",
	})
}

// SignupForm はサインアップ画面を表示する。roleクエリで初期選択を切り替える。
// GET /signup
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	form := web.NewForm()
	form.Values["role"] = r.URL.Query().Get("role")
	h.render(w, http.StatusOK, "signup", h.pageData(w, r, "Sign up", nil, form))
}

// Signup はアカウントを作成し、ロールに応じたダッシュボードへ遷移する。
// POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	input := validation.SignupForm{
		OrganizationName: strings.TrimSpace(r.PostFormValue("organization_name")),
		ContactName:      strings.TrimSpace(r.PostFormValue("contact_name")),
		Email:            strings.TrimSpace(r.PostFormValue("email")),
		Password:         r.PostFormValue("password"),
		ConfirmPassword:  r.PostFormValue("confirm_password"),
		Role:             r.PostFormValue("role"),
	}
	form := web.Form{
		Values: formValues(r, "organization_name", "contact_name", "email", "role"),
		Errors: validation.ValidateSignup(input),
	}

	if !form.Errors.Valid() {
		data := h.pageData(w, r, "Sign up", nil, form)
		if form.Errors.Has("confirm_password") {
			data.Toasts = append(data.Toasts, web.Toast{
				Title:       "Passwords don't match",
				Description: "Please make sure your passwords match.",
				Variant:     web.ToastDestructive,
			})
		}
		h.render(w, http.StatusUnprocessableEntity, "signup", data)
		return
	}

	role := model.Role(input.Role)
	result, err := h.auth.SignUp(r.Context(), auth.SignUpInput{
		Email:            input.Email,
		Password:         input.Password,
		OrganizationName: input.OrganizationName,
		ContactName:      input.ContactName,
		Role:             role,
	})
	if err != nil {
		slog.Warn("sign up failed", slog.String("error", err.Error()))
		data := h.pageData(w, r, "Sign up", nil, form)
		data.Toasts = append(data.Toasts, errorToast("Sign up failed", err, "Failed to create your account. Please try again."))
		h.render(w, statusForAuthError(err), "signup", data)
		return
	}

	// メール確認が必要な場合はセッションが発行されない
	if result.Session == nil {
		h.redirectWithToast(w, r, "/login", web.Toast{
			Title:       "Account created successfully!",
			Description: "Please check your email to confirm your account, then log in.",
		})
		return
	}

	setSessionCookie(w, result.Session, h.cookies)
	h.redirectWithToast(w, r, dashboard.WithRole("/dashboard", role), web.Toast{
		Title:       "Account created successfully!",
		Description: "Welcome to FoodWaste Fighter.",
	})
}

// Logout はセッションを破棄してトップページへ遷移する。
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := middleware.SessionIDFromContext(r.Context()); sessionID != "" {
		if err := h.auth.SignOut(r.Context(), sessionID); err != nil {
			// ログアウト失敗してもCookieはクリアする
			slog.Error("failed to sign out", slog.String("error", err.Error()))
		}
	}
	clearSessionCookie(w, h.cookies)
	h.redirectWithToast(w, r, "/", web.Toast{
		Title:       "Signed out",
		Description: "You have been signed out.",
	})
}

// statusForAuthError は認証エラーを再表示時のステータスコードに変換する。
func statusForAuthError(err error) int {
	var providerErr *identity.ProviderError
	if errors.As(err, &providerErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
