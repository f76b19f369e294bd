package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Total number of bookings created",
	})

	BookingsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_failed_total",
		Help: "Total number of failed booking creations",
	}, []string{"reason"})

	BookingsConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_confirmed_total",
		Help: "Total number of bookings confirmed by payment verification",
	})

	NotificationsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_published_total",
		Help: "Total number of booking notification events published",
	})

	NotificationsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_skipped_total",
		Help: "Total number of notifications skipped because the user has no email",
	})

	NotificationSendFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notification_send_failed_total",
		Help: "Total number of confirmation emails that failed to send",
	})

	NotificationSendLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "notification_send_latency_seconds",
		Help:    "Latency of confirmation email delivery",
		Buckets: prometheus.DefBuckets,
	})

	PaymentsInitiatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_initiated_total",
		Help: "Total number of payments initiated with the gateway",
	})

	PaymentsInitFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_init_failed_total",
		Help: "Total number of failed payment initiations",
	}, []string{"reason"})

	PaymentsVerifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_verified_total",
		Help: "Total number of payment verifications by outcome",
	}, []string{"result"})

	GatewayRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_request_latency_seconds",
		Help:    "Latency of payment gateway calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
