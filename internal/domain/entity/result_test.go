package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFacesDetected(t *testing.T) {
	r := &AnalysisResult{
		Detections: []FrameDetection{
			{Frame: "frame_0001.jpg", Faces: []BoundingBox{{X: 1, Y: 2, Width: 30, Height: 30}}},
			{Frame: "frame_0002.jpg"},
			{Frame: "frame_0003.jpg", Faces: []BoundingBox{{}, {}}},
		},
	}
	assert.Equal(t, 3, r.FacesDetected())
}

func TestSummaryWithPartialStages(t *testing.T) {
	r := &AnalysisResult{
		Frames: FrameStats{Count: 10, Step: 30, Duration: 12.0},
		Expression: &ExpressionAnalysis{
			OverallScore: 0.58,
		},
		StageErrors: map[string]string{
			StageTranscription: "transcription not configured",
		},
	}

	s := r.Summary()
	assert.Equal(t, 10, s.FrameCount)
	assert.Equal(t, 0.0, s.InterviewScore, "no evaluation means zero score")
	assert.Equal(t, 0.58, s.ExpressionScore)
}
