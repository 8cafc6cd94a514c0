package rpc

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/near/near-jsonrpc-go/pkg/codec"
)

// Call outcomes used as the "outcome" label.
const (
	outcomeOK        = "ok"
	outcomeRPCError  = "rpc_error"
	outcomeDecode    = "decode_error"
	outcomeEncode    = "encode_error"
	outcomeTransport = "transport_error"
	outcomeCacheHit  = "cache_hit"
)

// Metrics contains the Prometheus metrics recorded by a Client.
// A nil *Metrics records nothing.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	DecodeErrors    *prometheus.CounterVec
	CacheHits       *prometheus.CounterVec
}

// NewMetrics registers the client metrics with the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(nil)
}

// NewMetricsWithRegistry registers the client metrics with registry.
func NewMetricsWithRegistry(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "near_rpc_requests_total",
			Help: "The total number of JSON-RPC calls by method and outcome",
		}, []string{"method", "outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "near_rpc_request_duration_seconds",
			Help:    "Duration of JSON-RPC calls, including decoding",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		DecodeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "near_rpc_decode_errors_total",
			Help: "The total number of responses that could not be decoded, by error kind",
		}, []string{"method", "kind"}),
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "near_rpc_cache_hits_total",
			Help: "The total number of calls answered from the response cache",
		}, []string{"method"}),
	}
}

func (m *Metrics) observe(method Method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method.String(), outcome).Inc()
	m.RequestDuration.WithLabelValues(method.String()).Observe(elapsed.Seconds())
	if outcome == outcomeCacheHit {
		m.CacheHits.WithLabelValues(method.String()).Inc()
	}
}

func (m *Metrics) decodeFailed(method Method, err error) {
	if m == nil {
		return
	}
	m.DecodeErrors.WithLabelValues(method.String(), decodeErrorKind(err)).Inc()
}

// decodeErrorKind classifies a decode failure for the "kind" label.
func decodeErrorKind(err error) string {
	switch {
	case errors.Is(err, codec.ErrUnknownVariant):
		return "unknown_variant"
	case errors.Is(err, codec.ErrMissingDiscriminator):
		return "missing_discriminator"
	case errors.Is(err, codec.ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, codec.ErrMalformedEnvelope):
		return "malformed_envelope"
	default:
		return "other"
	}
}
