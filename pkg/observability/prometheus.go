package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metricsNamespace prefixes every metric exported by [PrometheusHooks].
const metricsNamespace = "gridnet"

// PrometheusHooks implements [PartitionHooks], [RunHooks] and [CacheHooks]
// by recording Prometheus metrics on the registerer given to
// [NewPrometheusHooks].
type PrometheusHooks struct {
	activations    *prometheus.CounterVec
	deactivations  *prometheus.CounterVec
	membership     *prometheus.CounterVec
	networksLive   *prometheus.GaugeVec
	networksMinted *prometheus.CounterVec
	merges         *prometheus.CounterVec
	nodesMoved     *prometheus.CounterVec
	rebuilds       *prometheus.CounterVec
	rebuildPieces  *prometheus.HistogramVec
	rebuildSeconds *prometheus.HistogramVec

	runs         *prometheus.CounterVec
	steps        *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  prometheus.Counter
}

// NewPrometheusHooks creates hooks whose metrics are registered with reg.
// Passing a fresh prometheus.NewRegistry keeps metrics isolated per run;
// passing prometheus.DefaultRegisterer exposes them process-wide.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		activations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "node_activations_total",
			Help:      "Nodes activated, by kind.",
		}, []string{"kind"}),
		deactivations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "node_deactivations_total",
			Help:      "Nodes deactivated, by kind.",
		}, []string{"kind"}),
		membership: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "membership_changes_total",
			Help:      "Nodes joining or leaving a network, by kind and change.",
		}, []string{"kind", "change"}),
		networksLive: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "networks_live",
			Help:      "Networks currently registered, by kind.",
		}, []string{"kind"}),
		networksMinted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "networks_created_total",
			Help:      "Networks minted, by kind.",
		}, []string{"kind"}),
		merges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "merges_total",
			Help:      "Networks absorbed into another network, by kind.",
		}, []string{"kind"}),
		nodesMoved: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "merge_nodes_moved_total",
			Help:      "Nodes reassigned by merges, by kind.",
		}, []string{"kind"}),
		rebuilds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rebuilds_total",
			Help:      "Full network rebuilds after removals, by kind.",
		}, []string{"kind"}),
		rebuildPieces: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "rebuild_pieces",
			Help:      "Networks produced by a single rebuild.",
			Buckets:   []float64{1, 2, 3, 4, 8, 16},
		}, []string{"kind"}),
		rebuildSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "rebuild_duration_seconds",
			Help:      "Time spent rebuilding a network.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"kind"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scenario_runs_total",
			Help:      "Scenario runs, by result.",
		}, []string{"result"}),
		steps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scenario_steps_total",
			Help:      "Scenario steps executed, by operation and result.",
		}, []string{"op", "result"}),
		stepDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "scenario_step_duration_seconds",
			Help:      "Time spent executing one scenario step.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"op"}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_events_total",
			Help:      "Artifact cache lookups and writes, by key type and event.",
		}, []string{"key_type", "event"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the artifact cache.",
		}),
	}
}

func (h *PrometheusHooks) OnNodeActivated(kind, _ string) {
	h.activations.WithLabelValues(kind).Inc()
}

func (h *PrometheusHooks) OnNodeDeactivated(kind, _ string) {
	h.deactivations.WithLabelValues(kind).Inc()
}

func (h *PrometheusHooks) OnNodeJoined(kind, _ string, _ uint64) {
	h.membership.WithLabelValues(kind, "joined").Inc()
}

func (h *PrometheusHooks) OnNodeLeft(kind, _ string, _ uint64) {
	h.membership.WithLabelValues(kind, "left").Inc()
}

func (h *PrometheusHooks) OnNetworkCreated(kind string, _ uint64) {
	h.networksMinted.WithLabelValues(kind).Inc()
	h.networksLive.WithLabelValues(kind).Inc()
}

func (h *PrometheusHooks) OnNetworkDiscarded(kind string, _ uint64) {
	h.networksLive.WithLabelValues(kind).Dec()
}

func (h *PrometheusHooks) OnMerge(kind string, _, _ uint64, moved int) {
	h.merges.WithLabelValues(kind).Inc()
	h.nodesMoved.WithLabelValues(kind).Add(float64(moved))
}

func (h *PrometheusHooks) OnRebuild(kind string, _ uint64, _, pieces int, d time.Duration) {
	h.rebuilds.WithLabelValues(kind).Inc()
	h.rebuildPieces.WithLabelValues(kind).Observe(float64(pieces))
	h.rebuildSeconds.WithLabelValues(kind).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnRunStart(context.Context, string, int) {}

func (h *PrometheusHooks) OnStepComplete(_ context.Context, _, op string, d time.Duration, err error) {
	h.steps.WithLabelValues(op, result(err)).Inc()
	h.stepDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnRunComplete(_ context.Context, _ string, _ time.Duration, err error) {
	h.runs.WithLabelValues(result(err)).Inc()
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.Add(float64(size))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ PartitionHooks = (*PrometheusHooks)(nil)
	_ RunHooks       = (*PrometheusHooks)(nil)
	_ CacheHooks     = (*PrometheusHooks)(nil)
)
