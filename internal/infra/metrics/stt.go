package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(sttCallLatencyMs, sttAudioSeconds) }

var sttCallLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "stt_calls_latency_ms",
		Help:    "Speech-to-text call latency distribution in milliseconds.",
		Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000, 120000},
	},
	[]string{"model", "success"},
)

var sttAudioSeconds = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "stt_audio_duration_seconds",
		Help:    "Duration of audio submitted to the engine.",
		Buckets: []float64{10, 30, 60, 300, 600, 1800, 3600},
	},
)

func ObserveSTTCall(model string, latencyMs int, success bool) {
	s := "false"
	if success {
		s = "true"
	}
	sttCallLatencyMs.WithLabelValues(model, s).Observe(float64(latencyMs))
}

func ObserveSTTAudioSeconds(sec float64) {
	sttAudioSeconds.Observe(sec)
}
