// Package mocks provides hand-written port fakes for unit tests.
package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/hireview/hireview-analysis-service/internal/domain/entity"
	"github.com/hireview/hireview-analysis-service/internal/domain/port"
)

type MockJobRepository struct {
	CreateFunc   func(ctx context.Context, job *entity.Job) error
	UpdateFunc   func(ctx context.Context, job *entity.Job) error
	FindByIDFunc func(ctx context.Context, id uuid.UUID) (*entity.Job, error)
}

func (m *MockJobRepository) Create(ctx context.Context, job *entity.Job) error {
	return m.CreateFunc(ctx, job)
}

func (m *MockJobRepository) Update(ctx context.Context, job *entity.Job) error {
	return m.UpdateFunc(ctx, job)
}

func (m *MockJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	return m.FindByIDFunc(ctx, id)
}

type MockVideoStorage struct {
	DownloadVideoFunc  func(ctx context.Context, objectKey string, destPath string) error
	UploadVideoFunc    func(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	UploadArtifactFunc func(ctx context.Context, objectKey string, filePath string, contentType string) error
	GetArtifactFunc    func(ctx context.Context, objectKey string) (io.ReadCloser, error)
}

func (m *MockVideoStorage) DownloadVideo(ctx context.Context, objectKey string, destPath string) error {
	return m.DownloadVideoFunc(ctx, objectKey, destPath)
}

func (m *MockVideoStorage) UploadVideo(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	return m.UploadVideoFunc(ctx, objectKey, reader, size, contentType)
}

func (m *MockVideoStorage) UploadArtifact(ctx context.Context, objectKey string, filePath string, contentType string) error {
	return m.UploadArtifactFunc(ctx, objectKey, filePath, contentType)
}

func (m *MockVideoStorage) GetArtifact(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	return m.GetArtifactFunc(ctx, objectKey)
}

type MockFrameExtractor struct {
	ExtractFramesFunc func(ctx context.Context, videoPath string, outputDir string, step int) (*port.FrameExtractionResult, error)
}

func (m *MockFrameExtractor) ExtractFrames(ctx context.Context, videoPath string, outputDir string, step int) (*port.FrameExtractionResult, error) {
	return m.ExtractFramesFunc(ctx, videoPath, outputDir, step)
}

type MockAudioExtractor struct {
	ExtractAudioFunc func(ctx context.Context, videoPath string, audioPath string) error
}

func (m *MockAudioExtractor) ExtractAudio(ctx context.Context, videoPath string, audioPath string) error {
	return m.ExtractAudioFunc(ctx, videoPath, audioPath)
}

type MockFaceAnnotator struct {
	AnnotateFramesFunc func(ctx context.Context, framesDir string, annotatedDir string) (*port.FaceDetectionResult, error)
}

func (m *MockFaceAnnotator) AnnotateFrames(ctx context.Context, framesDir string, annotatedDir string) (*port.FaceDetectionResult, error) {
	return m.AnnotateFramesFunc(ctx, framesDir, annotatedDir)
}

type MockExpressionAnalyzer struct {
	AnalyzeFramesFunc func(ctx context.Context, framesDir string) (*entity.ExpressionAnalysis, error)
}

func (m *MockExpressionAnalyzer) AnalyzeFrames(ctx context.Context, framesDir string) (*entity.ExpressionAnalysis, error) {
	return m.AnalyzeFramesFunc(ctx, framesDir)
}

type MockTranscriber struct {
	TranscribeFunc func(ctx context.Context, audioPath string, language string) (*entity.Transcript, error)
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string, language string) (*entity.Transcript, error) {
	return m.TranscribeFunc(ctx, audioPath, language)
}

type MockCandidateEvaluator struct {
	EvaluateFunc func(text string) (*entity.InterviewEvaluation, error)
}

func (m *MockCandidateEvaluator) Evaluate(text string) (*entity.InterviewEvaluation, error) {
	return m.EvaluateFunc(text)
}

type MockArtifactBundler struct {
	BundleFunc func(ctx context.Context, filePaths []string, outputPath string) error
}

func (m *MockArtifactBundler) Bundle(ctx context.Context, filePaths []string, outputPath string) error {
	return m.BundleFunc(ctx, filePaths, outputPath)
}

type MockJobPublisher struct {
	PublishJobFunc func(ctx context.Context, msg []byte) error
}

func (m *MockJobPublisher) PublishJob(ctx context.Context, msg []byte) error {
	return m.PublishJobFunc(ctx, msg)
}

type MockStatusPublisher struct {
	PublishStatusFunc func(ctx context.Context, msg []byte) error
}

func (m *MockStatusPublisher) PublishStatus(ctx context.Context, msg []byte) error {
	return m.PublishStatusFunc(ctx, msg)
}

type MockDLQPublisher struct {
	PublishToDLQFunc func(ctx context.Context, msg []byte, reason string) error
}

func (m *MockDLQPublisher) PublishToDLQ(ctx context.Context, msg []byte, reason string) error {
	return m.PublishToDLQFunc(ctx, msg, reason)
}

type MockFailureNotifier struct {
	NotifyFailureFunc func(ctx context.Context, userEmail string, jobID string, videoKey string, errorMsg string) error
}

func (m *MockFailureNotifier) NotifyFailure(ctx context.Context, userEmail string, jobID string, videoKey string, errorMsg string) error {
	return m.NotifyFailureFunc(ctx, userEmail, jobID, videoKey, errorMsg)
}
