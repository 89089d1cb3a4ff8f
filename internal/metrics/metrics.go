// Package metrics はPrometheusメトリクスを提供する。
//
// 各メソッドはnilレシーバで呼び出しても何もしない。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "isp"

// Metrics は全メトリクスを保持する。
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// AAA
	AuthDecisionsTotal *prometheus.CounterVec
	AuthDuration       prometheus.Histogram
	AcctEventsTotal    *prometheus.CounterVec

	// 課金
	BillingActivationsTotal *prometheus.CounterVec
	BillingSuspensionsTotal prometheus.Counter

	// フェアユース
	FairUseEventsTotal *prometheus.CounterVec

	// 外部連携
	ProvisioningRequestsTotal *prometheus.CounterVec
	NotificationsTotal        *prometheus.CounterVec
}

// New はメトリクスを生成し、registryへ登録する。
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AuthDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_decisions_total",
				Help:      "Total number of access decisions",
			},
			[]string{"result", "reason"},
		),
		AuthDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "auth_duration_seconds",
				Help:      "Access request processing time in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		AcctEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "acct_events_total",
				Help:      "Total number of accounting events",
			},
			[]string{"status_type", "outcome"},
		),
		BillingActivationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "billing_activations_total",
				Help:      "Total number of service activations and extensions",
			},
			[]string{"kind"},
		),
		BillingSuspensionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "billing_suspensions_total",
				Help:      "Total number of services suspended on expiry",
			},
		),
		FairUseEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fairuse_events_total",
				Help:      "Total number of fair-use events",
			},
			[]string{"type"},
		),
		ProvisioningRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provisioning_requests_total",
				Help:      "Total number of provisioning gateway requests",
			},
			[]string{"operation", "outcome"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of customer notifications",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthDecisionsTotal,
		m.AuthDuration,
		m.AcctEventsTotal,
		m.BillingActivationsTotal,
		m.BillingSuspensionsTotal,
		m.FairUseEventsTotal,
		m.ProvisioningRequestsTotal,
		m.NotificationsTotal,
	)

	return m
}

// ObserveAuth は認可判定を記録する。
func (m *Metrics) ObserveAuth(result, reason string, d time.Duration) {
	if m == nil {
		return
	}
	m.AuthDecisionsTotal.WithLabelValues(result, reason).Inc()
	m.AuthDuration.Observe(d.Seconds())
}

// ObserveAcct は課金イベントの処理結果を記録する。
func (m *Metrics) ObserveAcct(statusType, outcome string) {
	if m == nil {
		return
	}
	m.AcctEventsTotal.WithLabelValues(statusType, outcome).Inc()
}

// ObserveActivation はサービス有効化を記録する。kindはactivatedまたはextended。
func (m *Metrics) ObserveActivation(kind string) {
	if m == nil {
		return
	}
	m.BillingActivationsTotal.WithLabelValues(kind).Inc()
}

// ObserveSuspensions は期限切れ停止件数を記録する。
func (m *Metrics) ObserveSuspensions(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.BillingSuspensionsTotal.Add(float64(n))
}

// ObserveFairUse はフェアユースイベントを記録する。
func (m *Metrics) ObserveFairUse(eventType string) {
	if m == nil {
		return
	}
	m.FairUseEventsTotal.WithLabelValues(eventType).Inc()
}

// ObserveProvisioning はプロビジョニング要求の結果を記録する。
func (m *Metrics) ObserveProvisioning(operation string, err error) {
	if m == nil {
		return
	}
	m.ProvisioningRequestsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

// ObserveNotification は通知送信の結果を記録する。
func (m *Metrics) ObserveNotification(err error) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(outcome(err)).Inc()
}

// GinMiddleware はHTTPリクエストを記録するginミドルウェアを返す。
// パスはルート定義（例: /api/v1/services/:id）で集計する。
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler は/metricsエンドポイントのハンドラを返す。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
