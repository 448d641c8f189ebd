package metrics

import (
	"net/http"

	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gpsfeeder"

var (
	FramesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_rejected_total",
		Help:      "Serial lines dropped by the frame checksum validation.",
	})
	DeviceReadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "device_read_errors_total",
		Help:      "Failed reads on the receiver serial port.",
	})
	SentencesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sentences_failed_total",
		Help:      "Recognized sentences dropped because a field could not be decoded.",
	})
	SentencesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sentences_applied_total",
		Help:      "Sentences that updated the location, by type.",
	}, []string{"type"})
	ReportsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_built_total",
		Help:      "Reports queued for delivery by the control loop.",
	})
	ReportsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_delivered_total",
		Help:      "Reports acknowledged by the collector.",
	})
	ReportsBuffered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_buffered_total",
		Help:      "Reports moved to the retry store after a failed delivery.",
	})
	ReportsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_dropped_total",
		Help:      "Reports discarded, by reason.",
	}, []string{"reason"})
	RetryDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "retry_store_depth",
		Help:      "Reports waiting in the retry store.",
	})
	Online = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "collector_online",
		Help:      "1 when the last delivery attempt reached the collector.",
	})
	FixPresent = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "fix_present",
		Help:      "1 while the receiver keeps producing active fixes.",
	})
	DistanceMeters = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "distance_meters_total",
		Help:      "Great circle distance between consecutive reports.",
	})
)

func boolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// SetOnline records the collector connectivity flag.
func SetOnline(v bool) {
	Online.Set(boolGauge(v))
}

// SetFix records whether the control loop currently has a fix.
func SetFix(v bool) {
	FixPresent.Set(boolGauge(v))
}

// Serve exposes /metrics on addr in background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.LogError.Printf("metrics server error: %s", err)
		}
	}()
	logs.LogInfo.Printf("metrics listening on %s", addr)
	return srv
}
