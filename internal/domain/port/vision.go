package port

import (
	"context"

	"github.com/hireview/hireview-analysis-service/internal/domain/entity"
)

type FaceDetectionResult struct {
	Detections     []entity.FrameDetection
	AnnotatedPaths []string
}

// FaceAnnotator runs face detection over every frame in framesDir and writes
// annotated copies (bounding boxes drawn) into annotatedDir. Frames that fail
// to decode are skipped.
type FaceAnnotator interface {
	AnnotateFrames(ctx context.Context, framesDir string, annotatedDir string) (*FaceDetectionResult, error)
}

// ExpressionAnalyzer scores facial expressions across all frames in a
// directory and aggregates per-parameter averages.
type ExpressionAnalyzer interface {
	AnalyzeFrames(ctx context.Context, framesDir string) (*entity.ExpressionAnalysis, error)
}
