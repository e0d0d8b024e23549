// Package metrics defines and registers all custom Prometheus metrics for the
// video vault API. It is the single source of truth for metric names, labels,
// and help strings. Everything registers against the default registry via
// promauto at import time; the router exposes it on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "videovault"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failure", or "rate_limited"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PasswordChangesTotal counts self-service password changes.
// Label:
//   - result: "success" or "failure"
var PasswordChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_changes_total",
		Help:      "Total number of self-service password changes, by result.",
	},
	[]string{"result"},
)

// PasswordsSetTotal counts admin credential installations.
// Label:
//   - mode: "explicit" (admin-supplied) or "temporary" (generated)
var PasswordsSetTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "passwords_set_total",
		Help:      "Total number of passwords installed by an administrator, by mode.",
	},
	[]string{"mode"},
)

// ── Video metrics ─────────────────────────────────────────────────────────────

// VideosUploadedTotal counts successful video uploads.
// Label:
//   - mime_type: the stored content type (e.g. "video/mp4")
var VideosUploadedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "videos_uploaded_total",
		Help:      "Total number of videos uploaded, by MIME type.",
	},
	[]string{"mime_type"},
)

// VideoUploadBytes observes the size of each uploaded video.
var VideoUploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "video_upload_bytes",
		Help:      "Size distribution of uploaded videos in bytes.",
		Buckets:   prometheus.ExponentialBuckets(1<<20, 4, 8), // 1MiB .. 16GiB
	},
)

// PlaybackURLsIssuedTotal counts presigned playback URLs handed to viewers.
var PlaybackURLsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "playback_urls_issued_total",
		Help:      "Total number of presigned playback URLs issued.",
	},
)
