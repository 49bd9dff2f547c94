package entity

import "github.com/google/uuid"

// AnalysisRequestMessage is the inbound message from the analysis.jobs queue.
type AnalysisRequestMessage struct {
	JobID     uuid.UUID `json:"job_id"`
	UserID    string    `json:"user_id"`
	VideoKey  string    `json:"video_key"`
	FileSize  int64     `json:"file_size"`
	FrameStep int       `json:"frame_step,omitempty"`
	Language  string    `json:"language,omitempty"`
	UserEmail string    `json:"user_email,omitempty"`
}

// AnalysisStatusMessage is the outbound message published to the
// analysis.status queue on every job transition.
type AnalysisStatusMessage struct {
	JobID           uuid.UUID `json:"job_id"`
	UserID          string    `json:"user_id"`
	Status          JobStatus `json:"status"`
	VideoKey        string    `json:"video_key"`
	ResultsKey      string    `json:"results_key,omitempty"`
	BundleKey       string    `json:"bundle_key,omitempty"`
	FrameCount      int       `json:"frame_count,omitempty"`
	FacesDetected   int       `json:"faces_detected,omitempty"`
	Duration        float64   `json:"duration_seconds,omitempty"`
	InterviewScore  float64   `json:"interview_score,omitempty"`
	ExpressionScore float64   `json:"expression_score,omitempty"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	Attempt         int       `json:"attempt"`
	MaxAttempts     int       `json:"max_attempts"`
}
