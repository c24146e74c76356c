package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(transcriptionJobsTotal, transcriptionJobSeconds) }

var transcriptionJobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "transcription_jobs_processed_total",
		Help: "Total number of transcription jobs processed, labeled by terminal status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

var transcriptionJobSeconds = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "transcription_job_duration_seconds",
		Help:    "Wall-clock duration of one pipeline run.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	},
)

func IncTranscriptionJob(status string) {
	transcriptionJobsTotal.WithLabelValues(status).Inc()
}

func ObserveTranscriptionJobSeconds(sec float64) {
	transcriptionJobSeconds.Observe(sec)
}
