// Package telegram provides Prometheus metrics for Bot API operations.
package telegram

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesSentTotal tracks delivered messages per channel
	MessagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_messages_sent_total",
			Help: "Total number of Telegram messages delivered",
		},
		[]string{"channel"},
	)

	// MessagesSendErrorsTotal tracks failed deliveries per channel
	MessagesSendErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_messages_send_errors_total",
			Help: "Total number of failed Telegram message deliveries",
		},
		[]string{"channel"},
	)

	// MessageSendLatency tracks message delivery latency
	MessageSendLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "telegram_message_send_latency_seconds",
			Help:    "Telegram message delivery latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
