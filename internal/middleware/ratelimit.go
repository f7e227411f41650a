package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/foodwaste/internal/model"
)

// レート制限のスコープ
const (
	ScopeForms = "forms"
	ScopeAuth  = "auth"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	FormsRate       rate.Limit    // フォーム送信（お問い合わせ・設定）のレート（req/sec）
	FormsBurst      int           // フォーム送信のバーストサイズ
	AuthRate        rate.Limit    // ログイン・サインアップのレート（req/sec）
	AuthBurst       int           // ログイン・サインアップのバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// フォーム送信 20 req/min、認証 10 req/min。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		FormsRate:       rate.Limit(20.0 / 60.0),
		FormsBurst:      20,
		AuthRate:        rate.Limit(10.0 / 60.0),
		AuthBurst:       10,
		CleanupInterval: 5 * time.Minute,
	}
}

// PerMinute は1分あたりのリクエスト数をrate.Limitに変換する。
func PerMinute(n int) rate.Limit {
	return rate.Limit(float64(n) / 60.0)
}

// RateLimitRecorder はレート制限による拒否を記録する。
type RateLimitRecorder interface {
	RecordRateLimited(scope string)
}

// clientLimiter はクライアントごとのレートリミッターとアクセス時刻を保持する。
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiterSet はスコープ単位のクライアント別リミッター。
type limiterSet struct {
	scope string
	rate  rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*clientLimiter
}

func newLimiterSet(scope string, r rate.Limit, burst int) *limiterSet {
	return &limiterSet{
		scope:    scope,
		rate:     r,
		burst:    burst,
		limiters: make(map[string]*clientLimiter),
	}
}

// get はクライアントのリミッターを取得または作成する。
func (s *limiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cl, ok := s.limiters[key]; ok {
		cl.lastAccess = time.Now()
		return cl.limiter
	}
	cl := &clientLimiter{
		limiter:    rate.NewLimiter(s.rate, s.burst),
		lastAccess: time.Now(),
	}
	s.limiters[key] = cl
	return cl.limiter
}

func (s *limiterSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// evict は最終アクセスがttlより古いエントリを削除する。
func (s *limiterSet) evict(now time.Time, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, cl := range s.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(s.limiters, key)
		}
	}
}

// RateLimiter はクライアントごとのレート制限を管理する。
// ログイン済みの場合はユーザーID、未ログインの場合はクライアントIPをキーにする。
type RateLimiter struct {
	config   RateLimiterConfig
	forms    *limiterSet
	auth     *limiterSet
	recorder RateLimitRecorder

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
// recorderはnilでもよい。
func NewRateLimiter(config RateLimiterConfig, recorder RateLimitRecorder) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		forms:    newLimiterSet(ScopeForms, config.FormsRate, config.FormsBurst),
		auth:     newLimiterSet(ScopeAuth, config.AuthRate, config.AuthBurst),
		recorder: recorder,
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// FormsMiddleware はフォーム送信用のレート制限ミドルウェアを返す。
func (rl *RateLimiter) FormsMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(rl.forms)
}

// AuthMiddleware はログイン・サインアップ用のレート制限ミドルウェアを返す。
// フォーム送信の制限とは独立に動作する。
func (rl *RateLimiter) AuthMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(rl.auth)
}

// LimiterCount はスコープごとに管理されているリミッターのエントリ数を返す。
func (rl *RateLimiter) LimiterCount(scope string) int {
	switch scope {
	case ScopeForms:
		return rl.forms.len()
	case ScopeAuth:
		return rl.auth.len()
	default:
		return 0
	}
}

func (rl *RateLimiter) middleware(set *limiterSet) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 安全なメソッドは制限しない
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			key := clientKey(r)
			if !set.get(key).Allow() {
				slog.Warn("rate limit exceeded",
					slog.String("client", key),
					slog.String("limit_type", set.scope),
				)
				if rl.recorder != nil {
					rl.recorder.RecordRateLimited(set.scope)
				}
				writeRateLimitResponse(w, r, set.rate)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey はレート制限のキーを返す。
func clientKey(r *http.Request) string {
	if userID, err := UserIDFromContext(r.Context()); err == nil {
		return "user:" + userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (rl *RateLimiter) cleanup() {
	now := time.Now()
	ttl := rl.config.CleanupInterval * 2
	rl.forms.evict(now, ttl)
	rl.auth.evict(now, ttl)
}

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r *http.Request, limit rate.Limit) {
	retryAfterSec := 1
	if limit > 0 {
		retryAfterSec = max(1, int(math.Ceil(1.0/float64(limit))))
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))

	if isAPIRequest(r) {
		WriteErrorResponse(w, http.StatusTooManyRequests, model.NewRateLimitedError())
		return
	}
	http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
}
