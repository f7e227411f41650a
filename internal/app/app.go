package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/foodwaste/internal/auth"
	"github.com/hitoshi/foodwaste/internal/config"
	"github.com/hitoshi/foodwaste/internal/contact"
	"github.com/hitoshi/foodwaste/internal/dashboard"
	"github.com/hitoshi/foodwaste/internal/database"
	"github.com/hitoshi/foodwaste/internal/handler"
	"github.com/hitoshi/foodwaste/internal/identity"
	"github.com/hitoshi/foodwaste/internal/logger"
	"github.com/hitoshi/foodwaste/internal/metrics"
	"github.com/hitoshi/foodwaste/internal/middleware"
	"github.com/hitoshi/foodwaste/internal/repository"
	"github.com/hitoshi/foodwaste/internal/security"
	"github.com/hitoshi/foodwaste/internal/web"
	"github.com/hitoshi/foodwaste/internal/worker/cleanup"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// openDatabase はDB接続を開き、疎通を確認する。
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// server はHTTPサーバーの構成要素。closeで購読とバックグラウンド処理を停止する。
type server struct {
	handler http.Handler
	close   func()
}

// newServer は全依存関係をワイヤリングし、HTTPハンドラーを構築する。
// DBへの接続はリクエスト処理時まで行わない。
func newServer(cfg *config.Config, db *sql.DB, reg *prometheus.Registry) (*server, error) {
	// 1. メトリクス
	collector := metrics.NewCollector(reg)

	// 2. リポジトリの初期化
	profileRepo := repository.NewPostgresProfileRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	contactRepo := repository.NewPostgresContactRepo(db)
	donationRepo := repository.NewPostgresDonationRepo(db)
	pickupRepo := repository.NewPostgresPickupRepo(db)
	restaurantRepo := repository.NewPostgresRestaurantRepo(db)

	// 3. IdPクライアントと認証サービス
	identityClient := identity.NewGoTrueClient(
		&http.Client{Timeout: cfg.IdentityTimeout},
		slog.Default(),
		cfg.IdentityURL,
		cfg.IdentityAPIKey,
	).WithLatencyObserver(collector.RecordIdentityLatency)

	authService := auth.NewService(
		identityClient,
		identity.NewTokenVerifier(cfg.IdentityJWTSecret),
		profileRepo,
		sessionRepo,
		auth.NewNotifier(),
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge},
	)
	unsubscribe := authService.Notifier().Subscribe(func(ev auth.Event) {
		collector.RecordAuthEvent(string(ev.Type))
		slog.Info("auth state changed",
			slog.String("event", string(ev.Type)),
			slog.String("user_id", ev.UserID),
		)
	})

	// 4. ドメインサービスの初期化
	sanitizer := security.NewTextSanitizer()
	contactService := contact.NewService(contactRepo, sanitizer, collector)
	dashboardService := dashboard.NewService(
		donationRepo, pickupRepo, restaurantRepo,
		dashboard.StaticAnalytics{}, cfg.Location(),
	)

	// 5. 描画
	renderer, err := web.NewRenderer()
	if err != nil {
		unsubscribe()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	flash := web.NewFlashStore(cfg.SessionSecret, cfg.CookieSecure, cfg.CookieDomain)

	// 6. レート制限（設定値はreq/min）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.FormsRate = middleware.PerMinute(cfg.RateLimitForms)
	rateLimiterCfg.FormsBurst = cfg.RateLimitForms
	rateLimiterCfg.AuthRate = middleware.PerMinute(cfg.RateLimitAuth)
	rateLimiterCfg.AuthBurst = cfg.RateLimitAuth
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg, collector)

	// 7. ルーターの構築
	router := handler.NewRouter(&handler.RouterDeps{
		Logger:        slog.Default(),
		SessionFinder: authService,
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		StatusObserver:    collector,

		Renderer: renderer,
		Flash:    flash,

		AuthService: authService,
		Cookies: handler.CookieConfig{
			Domain: cfg.CookieDomain,
			Secure: cfg.CookieSecure,
			MaxAge: cfg.SessionMaxAge,
		},

		ContactService:   contactService,
		DashboardService: dashboardService,
		Profiles:         profileRepo,
		Sanitizer:        sanitizer,
		NotFound:         collector,

		DB:             db,
		MetricsHandler: metrics.Handler(reg),
	})

	return &server{
		handler: router,
		close: func() {
			unsubscribe()
			rateLimiter.Stop()
		},
	}, nil
}

// newRegistry はプロセスとランタイムのメトリクスを含むレジストリを生成する。
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// runServe はWebサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("database connection established")

	srv, err := newServer(cfg, db, newRegistry())
	if err != nil {
		return err
	}
	defer srv.close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("web server starting",
			slog.String("addr", httpServer.Addr),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down web server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("web server stopped gracefully")
	return nil
}

// runWorker はワーカーモードで起動する。
// DB接続を開き、期限切れセッションと古いお問い合わせの削除を定期実行する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("database connection established (worker)")

	reg := newRegistry()
	collector := metrics.NewCollector(reg)
	cleanupJob := cleanup.NewCleanupJob(db, repository.NewPostgresContactRepo(db), collector, slog.Default())
	cleanupJob.RetentionDays = cfg.ContactRetentionDays

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ワーカーはページを提供しないため、/metricsのみ公開する
	metricsServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           metrics.SetupMetricsRoute(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server listen error", slog.String("error", err.Error()))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker starting",
		slog.Duration("cleanup_interval", cfg.SessionCleanupInterval),
		slog.Int("contact_retention_days", cfg.ContactRetentionDays),
		slog.String("metrics_addr", metricsServer.Addr),
	)

	// メインgoroutineで実行（ブロッキング）
	cleanupJob.Start(ctx, cfg.SessionCleanupInterval)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := database.CurrentVersion(cfg.DatabaseURL)
	if err != nil {
		slog.Warn("failed to read migration version", slog.String("error", err.Error()))
	} else {
		slog.Info("database migrations completed successfully",
			slog.Uint64("version", uint64(version)),
			slog.Bool("dirty", dirty),
		)
	}
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
