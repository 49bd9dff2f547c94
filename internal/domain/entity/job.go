package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// Job tracks one interview video through the analysis pipeline.
type Job struct {
	ID              uuid.UUID
	UserID          string
	VideoKey        string
	ResultsKey      string
	BundleKey       string
	Status          JobStatus
	FrameStep       int
	FrameCount      int
	FacesDetected   int
	FileSize        int64
	VideoDuration   float64
	InterviewScore  float64
	ExpressionScore float64
	Attempt         int
	MaxAttempts     int
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

func NewJob(userID, videoKey string, fileSize int64, frameStep, maxAttempts int) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:          uuid.New(),
		UserID:      userID,
		VideoKey:    videoKey,
		FileSize:    fileSize,
		FrameStep:   frameStep,
		Status:      JobStatusPending,
		Attempt:     0,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (j *Job) MarkProcessing() {
	j.Status = JobStatusProcessing
	j.Attempt++
	j.UpdatedAt = time.Now().UTC()
}

// MarkCompleted records the artifact keys and aggregate figures of a finished
// analysis. A completed job may still carry stage errors inside the results
// artifact; completion only requires that frames were produced.
func (j *Job) MarkCompleted(resultsKey, bundleKey string, summary JobSummary) {
	now := time.Now().UTC()
	j.Status = JobStatusCompleted
	j.ResultsKey = resultsKey
	j.BundleKey = bundleKey
	j.FrameCount = summary.FrameCount
	j.FacesDetected = summary.FacesDetected
	j.VideoDuration = summary.VideoDuration
	j.InterviewScore = summary.InterviewScore
	j.ExpressionScore = summary.ExpressionScore
	j.ErrorMessage = ""
	j.UpdatedAt = now
	j.CompletedAt = &now
}

func (j *Job) MarkFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMessage = errMsg
	j.UpdatedAt = time.Now().UTC()
}

func (j *Job) CanRetry() bool {
	return j.Attempt < j.MaxAttempts
}

// JobSummary is the slice of an AnalysisResult that is denormalized onto the
// job row for cheap status queries.
type JobSummary struct {
	FrameCount      int
	FacesDetected   int
	VideoDuration   float64
	InterviewScore  float64
	ExpressionScore float64
}
