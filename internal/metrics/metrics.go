package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels upstream calls that returned a decodable 2xx response.
	OutcomeSuccess = "success"
	// OutcomeNetworkError labels calls that never received a response.
	OutcomeNetworkError = "network_error"
	// OutcomeServerError labels calls answered with a non-2xx status.
	OutcomeServerError = "server_error"
	// OutcomeDecodeError labels 2xx responses whose body could not be decoded.
	OutcomeDecodeError = "decode_error"
)

var (
	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleetview",
			Name:      "upstream_requests_total",
			Help:      "Total number of fleet API round trips, partitioned by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	upstreamRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fleetview",
			Name:      "upstream_request_seconds",
			Help:      "Fleet API round trip latency in seconds.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"op"},
	)

	upstreamRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleetview",
			Name:      "upstream_retries_total",
			Help:      "Retry attempts issued after a retryable upstream failure.",
		},
		[]string{"op"},
	)

	artifactFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleetview",
			Name:      "artifact_fetches_total",
			Help:      "Brief and insight fetches, partitioned by whether the server answered from its cache.",
		},
		[]string{"artifact", "cached"},
	)
)

// Register attaches fleetview collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		upstreamRequestsTotal,
		upstreamRequestSeconds,
		upstreamRetriesTotal,
		artifactFetchesTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveUpstream records one round trip for op.
func ObserveUpstream(op string, duration time.Duration, outcome string) {
	switch outcome {
	case OutcomeNetworkError, OutcomeServerError, OutcomeDecodeError:
	default:
		outcome = OutcomeSuccess
	}
	upstreamRequestsTotal.WithLabelValues(op, outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	upstreamRequestSeconds.WithLabelValues(op).Observe(duration.Seconds())
}

// ObserveRetry counts a retry attempt for op.
func ObserveRetry(op string) {
	upstreamRetriesTotal.WithLabelValues(op).Inc()
}

// ObserveArtifact records whether an AI artifact was served from the server-side cache.
func ObserveArtifact(artifact string, cached bool) {
	artifactFetchesTotal.WithLabelValues(artifact, strconv.FormatBool(cached)).Inc()
}
