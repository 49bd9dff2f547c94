package entity

import (
	"time"

	"github.com/google/uuid"
)

// Pipeline stage names, used as StageErrors keys in the results artifact.
const (
	StageFrames        = "frame_extraction"
	StageFaces         = "face_detection"
	StageTranscription = "transcription"
	StageEvaluation    = "candidate_evaluation"
	StageExpression    = "facial_expression"
)

// BoundingBox is a detected face rectangle in frame pixel coordinates.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

// FrameDetection holds the faces found in one extracted frame, plus the name
// of the annotated copy written next to it.
type FrameDetection struct {
	Frame     string        `json:"frame"`
	Annotated string        `json:"annotated,omitempty"`
	Faces     []BoundingBox `json:"faces"`
}

// TranscriptSegment is one timed span of the speech transcript.
type TranscriptSegment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type Transcript struct {
	Text     string              `json:"text"`
	Language string              `json:"language"`
	Segments []TranscriptSegment `json:"segments,omitempty"`
}

// VaderScores are the raw VADER sentiment intensities for the transcript.
type VaderScores struct {
	Compound   float64 `json:"compound"`
	Positive   float64 `json:"positive"`
	Neutral    float64 `json:"neutral"`
	Negative   float64 `json:"negative"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type SentimentSummary struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// InterviewScores are the transcript-derived evaluation parameters, each in
// the range [0,1].
type InterviewScores struct {
	CommunicationClarity float64 `json:"communication_clarity"`
	Confidence           float64 `json:"confidence"`
	Enthusiasm           float64 `json:"enthusiasm"`
	Professionalism      float64 `json:"professionalism"`
	Engagement           float64 `json:"engagement"`
}

type InterviewEvaluation struct {
	TextLength   int              `json:"text_length"`
	WordCount    int              `json:"word_count"`
	Scores       InterviewScores  `json:"scores"`
	OverallScore float64          `json:"overall_score"`
	Sentiment    SentimentSummary `json:"overall_sentiment"`
	Vader        VaderScores      `json:"vader"`
}

// ExpressionScores are the face-derived evaluation parameters, each in [0,1].
type ExpressionScores struct {
	Confidence       float64 `json:"confidence"`
	Authenticity     float64 `json:"authenticity"`
	Leadership       float64 `json:"leadership"`
	PressureHandling float64 `json:"pressure_handling"`
}

// FrameExpression is the per-frame expression analysis of the largest face.
type FrameExpression struct {
	Frame  string           `json:"frame"`
	Face   BoundingBox      `json:"face_bbox"`
	Scores ExpressionScores `json:"scores"`
}

type ExpressionAnalysis struct {
	Scores         ExpressionScores  `json:"scores"`
	OverallScore   float64           `json:"overall_score"`
	FramesWithFace int               `json:"frame_count"`
	FramesAnalyzed int               `json:"frames_analyzed"`
	Frames         []FrameExpression `json:"frame_analyses,omitempty"`
}

// FrameStats describes the frame extraction stage output.
type FrameStats struct {
	Count    int     `json:"count"`
	Step     int     `json:"step"`
	Duration float64 `json:"duration_seconds"`
}

// AnalysisResult is the composite evaluation serialized to results.json. Any
// stage other than frame extraction may fail without failing the job; its
// error string lands in StageErrors under the stage name.
type AnalysisResult struct {
	JobID       uuid.UUID            `json:"job_id"`
	VideoKey    string               `json:"video_key"`
	Frames      FrameStats           `json:"frames"`
	Detections  []FrameDetection     `json:"detections"`
	Transcript  *Transcript          `json:"transcript,omitempty"`
	Evaluation  *InterviewEvaluation `json:"evaluation,omitempty"`
	Expression  *ExpressionAnalysis  `json:"expression,omitempty"`
	StageErrors map[string]string    `json:"stage_errors,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// FacesDetected sums faces across all frames.
func (r *AnalysisResult) FacesDetected() int {
	total := 0
	for _, d := range r.Detections {
		total += len(d.Faces)
	}
	return total
}

// Summary extracts the figures denormalized onto the job row.
func (r *AnalysisResult) Summary() JobSummary {
	s := JobSummary{
		FrameCount:    r.Frames.Count,
		FacesDetected: r.FacesDetected(),
		VideoDuration: r.Frames.Duration,
	}
	if r.Evaluation != nil {
		s.InterviewScore = r.Evaluation.OverallScore
	}
	if r.Expression != nil {
		s.ExpressionScore = r.Expression.OverallScore
	}
	return s
}
