// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラー、サービス層、ワーカーから利用する。
type MetricsCollector interface {
	RecordContactSubmission(result string)
	RecordAuthEvent(event string)
	RecordNotFound()
	RecordRateLimited(scope string)
	RecordHTTPStatus(statusCode int)
	RecordIdentityLatency(operation string, duration time.Duration)
	RecordCleanup(target string, deleted int64)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	contactSubmissions *prometheus.CounterVec
	authEvents         *prometheus.CounterVec
	notFound           prometheus.Counter
	rateLimited        *prometheus.CounterVec
	httpStatus         *prometheus.CounterVec
	identityLatency    *prometheus.HistogramVec
	cleanupDeleted     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		contactSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodwaste_contact_submissions_total",
			Help: "お問い合わせフォーム送信の結果別件数",
		}, []string{"result"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodwaste_auth_events_total",
			Help: "認証状態の変化の種類別件数",
		}, []string{"event"}),
		notFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodwaste_not_found_total",
			Help: "存在しないパスへのアクセス数",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodwaste_rate_limited_total",
			Help: "レート制限で拒否したリクエスト数",
		}, []string{"scope"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodwaste_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		identityLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foodwaste_identity_latency_seconds",
			Help:    "IdP呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		cleanupDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodwaste_cleanup_deleted_total",
			Help: "クリーンアップで削除したレコード数",
		}, []string{"target"}),
	}

	reg.MustRegister(
		c.contactSubmissions,
		c.authEvents,
		c.notFound,
		c.rateLimited,
		c.httpStatus,
		c.identityLatency,
		c.cleanupDeleted,
	)

	return c
}

// RecordContactSubmission はお問い合わせ送信の結果（accepted, invalid, failed）を記録する。
func (c *Collector) RecordContactSubmission(result string) {
	c.contactSubmissions.WithLabelValues(result).Inc()
}

// RecordAuthEvent は認証イベントを記録する。
func (c *Collector) RecordAuthEvent(event string) {
	c.authEvents.WithLabelValues(event).Inc()
}

// RecordNotFound は404を記録する。
func (c *Collector) RecordNotFound() {
	c.notFound.Inc()
}

// RecordRateLimited はレート制限による拒否を記録する。
func (c *Collector) RecordRateLimited(scope string) {
	c.rateLimited.WithLabelValues(scope).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordIdentityLatency はIdP呼び出しのレイテンシを記録する。
func (c *Collector) RecordIdentityLatency(operation string, duration time.Duration) {
	c.identityLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCleanup はクリーンアップで削除した件数を記録する。
func (c *Collector) RecordCleanup(target string, deleted int64) {
	c.cleanupDeleted.WithLabelValues(target).Add(float64(deleted))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
