package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recognition loop Prometheus metrics.
var (
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "recognition_ticks_total",
			Help:      "Recognition loop ticks by outcome",
		},
		[]string{"outcome"}, // not_ready, no_face, no_features, tentative, unknown, error
	)

	TickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "attendance",
			Name:      "recognition_tick_duration_seconds",
			Help:      "Duration of one detect-extract-match tick",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	MarksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "marks_total",
			Help:      "Attendance events recorded",
		},
	)

	FramesPerSecond = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "attendance",
			Name:      "recognition_fps",
			Help:      "Completed recognition ticks during the last second",
		},
	)

	EnrollmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "enrollments_total",
			Help:      "Enrollment attempts by result",
		},
		[]string{"result"}, // created, updated, rejected
	)
)

var recognitionMetricsRegistered bool

// RegisterRecognitionMetrics registers the recognition metrics. Must be called once from main.
func RegisterRecognitionMetrics() {
	if recognitionMetricsRegistered {
		return
	}
	prometheus.MustRegister(TicksTotal)
	prometheus.MustRegister(TickDuration)
	prometheus.MustRegister(MarksTotal)
	prometheus.MustRegister(FramesPerSecond)
	prometheus.MustRegister(EnrollmentsTotal)
	recognitionMetricsRegistered = true
}
