package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hireview_jobs_processed_total",
		Help: "Total number of analysis jobs processed, by status",
	}, []string{"status"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hireview_stage_duration_seconds",
		Help:    "Duration of pipeline stages",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	StageFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hireview_stage_failures_total",
		Help: "Stage errors tolerated without failing the job",
	}, []string{"stage"})

	FramesExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hireview_frames_extracted_total",
		Help: "Total number of frames extracted across all jobs",
	})

	FacesDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hireview_faces_detected_total",
		Help: "Total number of faces detected across all frames",
	})

	TranscriptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hireview_transcripts_total",
		Help: "Transcription attempts, by outcome",
	}, []string{"outcome"})

	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hireview_uploads_total",
		Help: "Videos accepted through the upload endpoint",
	})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hireview_active_workers",
		Help: "Number of currently active workers processing jobs",
	})

	RetryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hireview_retry_total",
		Help: "Total number of retries",
	}, []string{"attempt"})
)
