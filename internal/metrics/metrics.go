// Package metrics exposes the engine's Prometheus instrumentation.
//
// Collectors are registered with the default registerer; the preview server
// serves them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RendersTotal counts completed render passes.
	RendersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livemark",
		Name:      "renders_total",
		Help:      "Completed render passes.",
	})

	// RenderDuration observes render pass duration in seconds.
	RenderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "livemark",
		Name:      "render_duration_seconds",
		Help:      "Render pass duration.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	// ValidationsTotal counts completed validation passes by result.
	ValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "livemark",
		Name:      "validations_total",
		Help:      "Completed validation passes.",
	}, []string{"result"})

	// FindingsEmitted counts findings published, by severity.
	FindingsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "livemark",
		Name:      "findings_emitted_total",
		Help:      "Findings published to the host.",
	}, []string{"severity"})

	// DebounceCoalesced counts triggers absorbed by an already-open debounce
	// window, by timer kind.
	DebounceCoalesced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "livemark",
		Name:      "debounce_coalesced_total",
		Help:      "Events coalesced into a pending debounce window.",
	}, []string{"timer"})

	// RevealsTotal counts position bridge messages, by direction.
	RevealsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "livemark",
		Name:      "reveals_total",
		Help:      "Position bridge reveal messages sent.",
	}, []string{"direction"})

	// RevealsSuppressed counts source cursor movements dropped by echo
	// suppression.
	RevealsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livemark",
		Name:      "reveals_suppressed_total",
		Help:      "Cursor movements dropped while echo suppression was active.",
	})

	// ThumbnailHits counts thumbnail cache lookups by outcome.
	ThumbnailHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "livemark",
		Name:      "thumbnail_lookups_total",
		Help:      "Thumbnail cache lookups.",
	}, []string{"outcome"})

	// PreviewClients tracks connected preview clients.
	PreviewClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "livemark",
		Name:      "preview_clients",
		Help:      "Currently connected preview clients.",
	})
)
