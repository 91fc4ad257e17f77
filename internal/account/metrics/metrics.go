// Package metrics holds the Prometheus instruments for the deletion flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the deletion-flow instruments.
type Metrics struct {
	OTPIssued        *prometheus.CounterVec
	OTPVerifyFailed  prometheus.Counter
	AccountsDeleted  prometheus.Counter
	DispatchFailures *prometheus.CounterVec
	Throttled        *prometheus.CounterVec
	ConfirmDuration  prometheus.Histogram
}

// New creates and registers all deletion-flow metrics on the default
// registry.
func New() *Metrics {
	return &Metrics{
		OTPIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_deletion_otp_issued_total",
			Help: "Deletion verification codes issued, by delivery channel",
		}, []string{"channel"}),
		OTPVerifyFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "storefront_deletion_otp_verify_failed_total",
			Help: "Deletion confirms rejected for a wrong code",
		}),
		AccountsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "storefront_deletion_accounts_deleted_total",
			Help: "Accounts removed through the verified deletion flow",
		}),
		DispatchFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_deletion_dispatch_failures_total",
			Help: "Code dispatch failures, by delivery channel",
		}, []string{"channel"}),
		Throttled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_deletion_throttled_total",
			Help: "Requests rejected by the rate limiter, by phase",
		}, []string{"phase"}),
		ConfirmDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_deletion_confirm_duration_seconds",
			Help:    "Latency of confirm calls including the cascade",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
