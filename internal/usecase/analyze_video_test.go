package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/hireview/hireview-analysis-service/internal/domain/entity"
	"github.com/hireview/hireview-analysis-service/internal/domain/port"
	"github.com/hireview/hireview-analysis-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// harness wires the usecase against fakes with an in-memory job store and
// captured side effects.
type harness struct {
	uc        *AnalyzeVideoUseCase
	jobs      map[uuid.UUID]*entity.Job
	statuses  []entity.AnalysisStatusMessage
	dlq       []string
	notified  []string
	artifacts map[string][]byte

	repo        *mocks.MockJobRepository
	storage     *mocks.MockVideoStorage
	frames      *mocks.MockFrameExtractor
	audio       *mocks.MockAudioExtractor
	annotator   *mocks.MockFaceAnnotator
	expression  *mocks.MockExpressionAnalyzer
	transcriber *mocks.MockTranscriber
	evaluator   *mocks.MockCandidateEvaluator
	bundler     *mocks.MockArtifactBundler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		jobs:      map[uuid.UUID]*entity.Job{},
		artifacts: map[string][]byte{},
	}

	h.repo = &mocks.MockJobRepository{
		CreateFunc: func(_ context.Context, job *entity.Job) error {
			h.jobs[job.ID] = job
			return nil
		},
		UpdateFunc: func(_ context.Context, job *entity.Job) error {
			h.jobs[job.ID] = job
			return nil
		},
		FindByIDFunc: func(_ context.Context, id uuid.UUID) (*entity.Job, error) {
			job, ok := h.jobs[id]
			if !ok {
				return nil, fmt.Errorf("not found")
			}
			return job, nil
		},
	}

	h.storage = &mocks.MockVideoStorage{
		DownloadVideoFunc: func(_ context.Context, _ string, destPath string) error {
			return os.WriteFile(destPath, []byte("fake video"), 0644)
		},
		UploadArtifactFunc: func(_ context.Context, objectKey string, filePath string, _ string) error {
			data, err := os.ReadFile(filePath)
			if err != nil {
				return err
			}
			h.artifacts[objectKey] = data
			return nil
		},
	}

	h.frames = &mocks.MockFrameExtractor{
		ExtractFramesFunc: func(_ context.Context, _ string, outputDir string, _ int) (*port.FrameExtractionResult, error) {
			paths := make([]string, 3)
			for i := range paths {
				paths[i] = fmt.Sprintf("%s/frame_%04d.jpg", outputDir, i+1)
			}
			return &port.FrameExtractionResult{FramePaths: paths, FrameCount: 3, VideoDuration: 9.0}, nil
		},
	}

	h.audio = &mocks.MockAudioExtractor{
		ExtractAudioFunc: func(_ context.Context, _ string, audioPath string) error {
			return os.WriteFile(audioPath, []byte("fake audio"), 0644)
		},
	}

	h.annotator = &mocks.MockFaceAnnotator{
		AnnotateFramesFunc: func(_ context.Context, _ string, _ string) (*port.FaceDetectionResult, error) {
			return &port.FaceDetectionResult{
				Detections: []entity.FrameDetection{
					{Frame: "frame_0001.jpg", Annotated: "annot_frame_0001.jpg", Faces: []entity.BoundingBox{{X: 10, Y: 10, Width: 50, Height: 50}}},
					{Frame: "frame_0002.jpg", Annotated: "annot_frame_0002.jpg"},
				},
			}, nil
		},
	}

	h.expression = &mocks.MockExpressionAnalyzer{
		AnalyzeFramesFunc: func(_ context.Context, _ string) (*entity.ExpressionAnalysis, error) {
			return &entity.ExpressionAnalysis{
				Scores:         entity.ExpressionScores{Confidence: 0.6, Authenticity: 0.7, Leadership: 0.5, PressureHandling: 0.6},
				OverallScore:   0.6,
				FramesWithFace: 1,
				FramesAnalyzed: 3,
			}, nil
		},
	}

	h.transcriber = &mocks.MockTranscriber{
		TranscribeFunc: func(_ context.Context, _ string, _ string) (*entity.Transcript, error) {
			return &entity.Transcript{Text: "I am confident and excited.", Language: "en"}, nil
		},
	}

	h.evaluator = &mocks.MockCandidateEvaluator{
		EvaluateFunc: func(text string) (*entity.InterviewEvaluation, error) {
			return &entity.InterviewEvaluation{
				WordCount:    5,
				OverallScore: 0.62,
				Sentiment:    entity.SentimentSummary{Label: "positive", Confidence: 0.5},
			}, nil
		},
	}

	h.bundler = &mocks.MockArtifactBundler{
		BundleFunc: func(_ context.Context, _ []string, outputPath string) error {
			return os.WriteFile(outputPath, []byte("zip"), 0644)
		},
	}

	statusPub := &mocks.MockStatusPublisher{
		PublishStatusFunc: func(_ context.Context, msg []byte) error {
			var sm entity.AnalysisStatusMessage
			if err := json.Unmarshal(msg, &sm); err != nil {
				return err
			}
			h.statuses = append(h.statuses, sm)
			return nil
		},
	}
	dlqPub := &mocks.MockDLQPublisher{
		PublishToDLQFunc: func(_ context.Context, _ []byte, reason string) error {
			h.dlq = append(h.dlq, reason)
			return nil
		},
	}
	notifier := &mocks.MockFailureNotifier{
		NotifyFailureFunc: func(_ context.Context, userEmail, _, _, _ string) error {
			h.notified = append(h.notified, userEmail)
			return nil
		},
	}

	h.uc = NewAnalyzeVideoUseCase(
		AnalyzeVideoDeps{
			Repo:        h.repo,
			Storage:     h.storage,
			Frames:      h.frames,
			Audio:       h.audio,
			Annotator:   h.annotator,
			Expression:  h.expression,
			Transcriber: h.transcriber,
			Evaluator:   h.evaluator,
			Bundler:     h.bundler,
			Publisher:   statusPub,
			DLQ:         dlqPub,
			Notifier:    notifier,
		},
		zap.NewNop(),
		AnalyzeVideoConfig{
			TempDir:    t.TempDir(),
			FrameStep:  30,
			MaxRetries: 2,
		},
	)

	return h
}

func requestMessage(t *testing.T) (entity.AnalysisRequestMessage, []byte) {
	t.Helper()
	msg := entity.AnalysisRequestMessage{
		JobID:     uuid.New(),
		UserID:    "user-1",
		VideoKey:  "user-1/interview.mp4",
		FileSize:  2048,
		UserEmail: "candidate@example.com",
	}
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	return msg, raw
}

func TestExecuteHappyPath(t *testing.T) {
	h := newHarness(t)
	msg, raw := requestMessage(t)

	err := h.uc.Execute(context.Background(), raw)
	require.NoError(t, err)

	job := h.jobs[msg.JobID]
	require.NotNil(t, job)
	assert.Equal(t, entity.JobStatusCompleted, job.Status)
	assert.Equal(t, 3, job.FrameCount)
	assert.Equal(t, 1, job.FacesDetected)
	assert.Equal(t, 0.62, job.InterviewScore)
	assert.Equal(t, 0.6, job.ExpressionScore)
	assert.NotEmpty(t, job.ResultsKey)
	assert.NotEmpty(t, job.BundleKey)

	// The uploaded results artifact carries the full composite evaluation.
	data, ok := h.artifacts[job.ResultsKey]
	require.True(t, ok)
	var result entity.AnalysisResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, msg.JobID, result.JobID)
	assert.Equal(t, 3, result.Frames.Count)
	assert.NotNil(t, result.Transcript)
	assert.NotNil(t, result.Evaluation)
	assert.NotNil(t, result.Expression)
	assert.Empty(t, result.StageErrors)

	require.NotEmpty(t, h.statuses)
	assert.Equal(t, entity.JobStatusCompleted, h.statuses[len(h.statuses)-1].Status)
	assert.Empty(t, h.dlq)
}

func TestExecuteTranscriptionFailureTolerated(t *testing.T) {
	h := newHarness(t)
	h.transcriber.TranscribeFunc = func(_ context.Context, _ string, _ string) (*entity.Transcript, error) {
		return nil, fmt.Errorf("whisper unavailable")
	}
	msg, raw := requestMessage(t)

	err := h.uc.Execute(context.Background(), raw)
	require.NoError(t, err)

	job := h.jobs[msg.JobID]
	require.NotNil(t, job)
	assert.Equal(t, entity.JobStatusCompleted, job.Status)

	var result entity.AnalysisResult
	require.NoError(t, json.Unmarshal(h.artifacts[job.ResultsKey], &result))
	assert.Contains(t, result.StageErrors, entity.StageTranscription)
	// No transcript means candidate evaluation cannot run either.
	assert.Contains(t, result.StageErrors, entity.StageEvaluation)
	assert.Nil(t, result.Evaluation)
	assert.NotNil(t, result.Expression, "expression stage is independent of audio")
}

func TestExecuteWithoutTranscriberConfigured(t *testing.T) {
	h := newHarness(t)
	msg, raw := requestMessage(t)

	h.uc.transcriber = nil

	err := h.uc.Execute(context.Background(), raw)
	require.NoError(t, err)

	job := h.jobs[msg.JobID]
	assert.Equal(t, entity.JobStatusCompleted, job.Status)

	var result entity.AnalysisResult
	require.NoError(t, json.Unmarshal(h.artifacts[job.ResultsKey], &result))
	assert.Equal(t, "transcription not configured", result.StageErrors[entity.StageTranscription])
}

func TestExecuteFrameExtractionFailureIsRetryable(t *testing.T) {
	h := newHarness(t)
	h.frames.ExtractFramesFunc = func(_ context.Context, _ string, _ string, _ int) (*port.FrameExtractionResult, error) {
		return nil, fmt.Errorf("corrupt container")
	}
	msg, raw := requestMessage(t)

	err := h.uc.Execute(context.Background(), raw)
	require.Error(t, err, "retryable failures bubble up so the message is requeued")

	job := h.jobs[msg.JobID]
	require.NotNil(t, job)
	assert.Equal(t, entity.JobStatusFailed, job.Status)
	assert.Equal(t, 1, job.Attempt)
	assert.Contains(t, job.ErrorMessage, entity.StageFrames)
	assert.Empty(t, h.dlq)
}

func TestExecuteExhaustedRetriesGoToDLQ(t *testing.T) {
	h := newHarness(t)
	msg, raw := requestMessage(t)

	job := entity.NewJob(msg.UserID, msg.VideoKey, msg.FileSize, 30, 2)
	job.ID = msg.JobID
	job.Attempt = 2
	h.jobs[msg.JobID] = job

	err := h.uc.Execute(context.Background(), raw)
	require.NoError(t, err, "permanent failures are acked, not requeued")

	assert.Equal(t, entity.JobStatusFailed, h.jobs[msg.JobID].Status)
	require.Len(t, h.dlq, 1)
	assert.Contains(t, h.dlq[0], "max retries exceeded")
	assert.Equal(t, []string{"candidate@example.com"}, h.notified)
}

func TestExecuteUnmarshalableMessageGoesToDLQ(t *testing.T) {
	h := newHarness(t)

	err := h.uc.Execute(context.Background(), []byte("{not json"))
	require.NoError(t, err)

	require.Len(t, h.dlq, 1)
	assert.Contains(t, h.dlq[0], "unmarshal_error")
	assert.Empty(t, h.jobs)
}

func TestFrameStepOverride(t *testing.T) {
	h := newHarness(t)

	var gotStep int
	h.frames.ExtractFramesFunc = func(_ context.Context, _ string, outputDir string, step int) (*port.FrameExtractionResult, error) {
		gotStep = step
		return &port.FrameExtractionResult{FramePaths: []string{outputDir + "/frame_0001.jpg"}, FrameCount: 1}, nil
	}

	msg := entity.AnalysisRequestMessage{JobID: uuid.New(), UserID: "u", VideoKey: "u/v.mp4", FrameStep: 5}
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	require.NoError(t, h.uc.Execute(context.Background(), raw))
	assert.Equal(t, 5, gotStep)
}
