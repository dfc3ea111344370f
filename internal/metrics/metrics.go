// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AuthMetricsCollector は認証フローのメトリクス収集のインターフェース。
// ハンドラー層から利用する。
type AuthMetricsCollector interface {
	RecordRegisterSuccess()
	RecordRegisterFailure(reason string)
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
	RecordTokenIssued()
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	registerSuccess prometheus.Counter
	registerFail    *prometheus.CounterVec
	loginSuccess    prometheus.Counter
	loginFail       *prometheus.CounterVec
	tokensIssued    prometheus.Counter
	httpStatus      *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registerSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopauth_register_success_total",
			Help: "ユーザー登録成功の合計数",
		}),
		registerFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopauth_register_fail_total",
			Help: "ユーザー登録失敗の合計数（理由別）",
		}, []string{"reason"}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopauth_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopauth_login_fail_total",
			Help: "ログイン失敗の合計数（理由別）",
		}, []string{"reason"}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopauth_tokens_issued_total",
			Help: "発行されたセッショントークンの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopauth_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shopauth_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.registerSuccess,
		c.registerFail,
		c.loginSuccess,
		c.loginFail,
		c.tokensIssued,
		c.httpStatus,
		c.requestDuration,
	)

	return c
}

// RecordRegisterSuccess は登録成功を記録する。
func (c *Collector) RecordRegisterSuccess() {
	c.registerSuccess.Inc()
}

// RecordRegisterFailure は登録失敗を理由別に記録する。
// reasonは"validation"、"duplicate"、"internal"のいずれか。
func (c *Collector) RecordRegisterFailure(reason string) {
	c.registerFail.WithLabelValues(reason).Inc()
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を理由別に記録する。
// reasonは"validation"、"invalid_credentials"、"internal"のいずれか。
func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFail.WithLabelValues(reason).Inc()
}

// RecordTokenIssued はトークン発行を記録する。
func (c *Collector) RecordTokenIssued() {
	c.tokensIssued.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエストの処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ AuthMetricsCollector = (*Collector)(nil)
