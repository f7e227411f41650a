package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/foodwaste/internal/middleware"
	"github.com/hitoshi/foodwaste/internal/security"
	"github.com/hitoshi/foodwaste/internal/web"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	SessionFinder     middleware.SessionFinder
	CSRFConfig        middleware.CSRFConfig
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	StatusObserver    middleware.StatusObserver

	// 描画
	Renderer *web.Renderer
	Flash    *web.FlashStore

	// 認証
	AuthService AuthServiceInterface
	Cookies     CookieConfig

	// ページ
	ContactService   ContactServiceInterface
	DashboardService DashboardServiceInterface
	Profiles         ProfileUpdater
	Sanitizer        security.TextSanitizer
	NotFound         NotFoundRecorder

	// 運用
	DB             Pinger
	MetricsHandler http.Handler
}

// NewRouter は全ページとAPIのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Session → Logging → Recovery → SecurityHeaders → CSRF → RateLimit
//
// /health、/metrics、/static はCSRFの外に配置する。
// ダッシュボードの閲覧にはログインを要求せず、設定の保存のみログイン必須とする。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
	r.Use(middleware.NewLoggingMiddleware(logger, deps.StatusObserver))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())

	pageHandler := NewPageHandler(deps.Renderer, deps.Flash, deps.AuthService, deps.NotFound)
	authHandler := NewAuthHandler(deps.Renderer, deps.Flash, deps.AuthService, deps.Cookies)
	contactHandler := NewContactHandler(deps.Renderer, deps.Flash, deps.AuthService, deps.ContactService)
	dashboardHandler := NewDashboardHandler(deps.Renderer, deps.Flash, deps.AuthService, deps.DashboardService)
	settingsHandler := NewSettingsHandler(deps.Renderer, deps.Flash, deps.AuthService, deps.Profiles, deps.Sanitizer)

	// --- 運用エンドポイント ---
	if deps.DB != nil {
		r.Get("/health", NewHealthHandler(deps.DB))
	}
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}
	r.Handle("/static/*", web.StaticHandler())

	// --- ページとフォーム ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		// マーケティングページ
		r.Get("/", pageHandler.Home)
		r.Get("/about", pageHandler.About)
		r.Get("/how-it-works", pageHandler.HowItWorks)

		r.Get("/contact", contactHandler.Show)
		r.With(deps.RateLimiter.FormsMiddleware()).Post("/contact", contactHandler.Submit)

		// 認証
		r.Get("/login", authHandler.LoginForm)
		r.Get("/signup", authHandler.SignupForm)
		r.Group(func(r chi.Router) {
			r.Use(deps.RateLimiter.AuthMiddleware())
			r.Post("/login", authHandler.Login)
			r.Post("/login/social", authHandler.SocialLogin)
			r.Post("/signup", authHandler.Signup)
		})
		r.Post("/logout", authHandler.Logout)

		// ダッシュボード
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", dashboardHandler.Home)
			r.Get("/donations", dashboardHandler.Donations)
			r.Get("/restaurants", dashboardHandler.Restaurants)
			r.Get("/schedule", dashboardHandler.Schedule)
			r.Get("/analytics", dashboardHandler.Analytics)

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", settingsHandler.Show)
				r.Group(func(r chi.Router) {
					r.Use(middleware.NewRequireSessionMiddleware("/login"))
					r.Use(deps.RateLimiter.FormsMiddleware())
					r.Post("/profile", settingsHandler.UpdateProfile)
					r.Post("/notifications", settingsHandler.UpdateNotifications)
					r.Post("/password", settingsHandler.UpdatePassword)
					r.Post("/pickup", settingsHandler.UpdatePickupHours)
				})
			})
		})

		// JSON API
		r.Route("/api", func(r chi.Router) {
			r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
			r.With(deps.RateLimiter.FormsMiddleware()).Post("/password-strength", PasswordStrength)
		})
	})

	r.NotFound(pageHandler.NotFound)

	return r
}
