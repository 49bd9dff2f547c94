package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hireview/hireview-analysis-service/internal/domain/entity"
	"github.com/hireview/hireview-analysis-service/internal/domain/port"
	"github.com/hireview/hireview-analysis-service/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// AnalyzeVideoUseCase sequences the four pipeline stages over an uploaded
// interview video: frame extraction, face detection/annotation, audio
// transcription and score aggregation. Only frame extraction and artifact
// delivery can fail the job; every other stage records its error in the
// results artifact and lets the job complete.
type AnalyzeVideoUseCase struct {
	repo        port.JobRepository
	storage     port.VideoStorage
	frames      port.FrameExtractor
	audio       port.AudioExtractor
	annotator   port.FaceAnnotator
	expression  port.ExpressionAnalyzer
	transcriber port.Transcriber
	evaluator   port.CandidateEvaluator
	bundler     port.ArtifactBundler
	publisher   port.StatusPublisher
	dlq         port.DLQPublisher
	notifier    port.FailureNotifier
	logger      *zap.Logger
	tempDir     string
	frameStep   int
	language    string
	maxRetry    int
}

type AnalyzeVideoConfig struct {
	TempDir    string
	FrameStep  int
	Language   string
	MaxRetries int
}

type AnalyzeVideoDeps struct {
	Repo        port.JobRepository
	Storage     port.VideoStorage
	Frames      port.FrameExtractor
	Audio       port.AudioExtractor
	Annotator   port.FaceAnnotator
	Expression  port.ExpressionAnalyzer
	Transcriber port.Transcriber // nil when transcription is not configured
	Evaluator   port.CandidateEvaluator
	Bundler     port.ArtifactBundler
	Publisher   port.StatusPublisher
	DLQ         port.DLQPublisher
	Notifier    port.FailureNotifier
}

func NewAnalyzeVideoUseCase(deps AnalyzeVideoDeps, logger *zap.Logger, cfg AnalyzeVideoConfig) *AnalyzeVideoUseCase {
	return &AnalyzeVideoUseCase{
		repo:        deps.Repo,
		storage:     deps.Storage,
		frames:      deps.Frames,
		audio:       deps.Audio,
		annotator:   deps.Annotator,
		expression:  deps.Expression,
		transcriber: deps.Transcriber,
		evaluator:   deps.Evaluator,
		bundler:     deps.Bundler,
		publisher:   deps.Publisher,
		dlq:         deps.DLQ,
		notifier:    deps.Notifier,
		logger:      logger,
		tempDir:     cfg.TempDir,
		frameStep:   cfg.FrameStep,
		language:    cfg.Language,
		maxRetry:    cfg.MaxRetries,
	}
}

func (uc *AnalyzeVideoUseCase) Execute(ctx context.Context, rawMsg []byte) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "AnalyzeVideoUseCase.Execute")
	defer span.End()

	totalTimer := time.Now()

	var msg entity.AnalysisRequestMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		uc.logger.Error("failed to unmarshal message", zap.Error(err), zap.ByteString("body", rawMsg))
		_ = uc.dlq.PublishToDLQ(ctx, rawMsg, "unmarshal_error: "+err.Error())
		return nil
	}

	span.SetAttributes(
		attribute.String("job.id", msg.JobID.String()),
		attribute.String("job.video_key", msg.VideoKey),
	)

	log := uc.logger.With(zap.String("job_id", msg.JobID.String()), zap.String("video_key", msg.VideoKey))

	job, err := uc.repo.FindByID(ctx, msg.JobID)
	if err != nil {
		job = entity.NewJob(msg.UserID, msg.VideoKey, msg.FileSize, uc.stepFor(msg), uc.maxRetry)
		job.ID = msg.JobID
		if err := uc.repo.Create(ctx, job); err != nil {
			log.Error("failed to create job record", zap.Error(err))
			return fmt.Errorf("create job: %w", err)
		}
	}

	if !job.CanRetry() {
		log.Warn("job exhausted retries, sending to DLQ")
		_ = uc.handlePermanentFailure(ctx, job, msg, rawMsg, "max retries exceeded")
		return nil
	}

	job.MarkProcessing()
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to PROCESSING", zap.Error(err))
		return fmt.Errorf("update job: %w", err)
	}

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	if err := uc.runPipeline(ctx, job, msg, rawMsg, log); err != nil {
		return err
	}

	metrics.JobsProcessedTotal.WithLabelValues("completed").Inc()
	metrics.StageDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	return nil
}

func (uc *AnalyzeVideoUseCase) runPipeline(
	ctx context.Context,
	job *entity.Job,
	msg entity.AnalysisRequestMessage,
	rawMsg []byte,
	log *zap.Logger,
) error {
	tracer := otel.Tracer("usecase")

	workDir := filepath.Join(uc.tempDir, job.ID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	result := &entity.AnalysisResult{
		JobID:       job.ID,
		VideoKey:    job.VideoKey,
		StageErrors: map[string]string{},
		CreatedAt:   time.Now().UTC(),
	}

	// Download video
	dlStart := time.Now()
	dlCtx, dlSpan := tracer.Start(ctx, "download_video")
	videoPath := filepath.Join(workDir, "input.mp4")
	if err := uc.storage.DownloadVideo(dlCtx, msg.VideoKey, videoPath); err != nil {
		dlSpan.End()
		log.Error("failed to download video", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "download_video: "+err.Error(), log)
	}
	dlSpan.End()
	metrics.StageDuration.WithLabelValues("download").Observe(time.Since(dlStart).Seconds())

	// Stage 1: frame extraction. The only stage whose failure fails the job.
	framesDir := filepath.Join(workDir, "frames")
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		return fmt.Errorf("create frames dir: %w", err)
	}

	exStart := time.Now()
	exCtx, exSpan := tracer.Start(ctx, "extract_frames")
	step := uc.stepFor(msg)
	extraction, err := uc.frames.ExtractFrames(exCtx, videoPath, framesDir, step)
	if err != nil {
		exSpan.End()
		log.Error("frame extraction failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, entity.StageFrames+": "+err.Error(), log)
	}
	exSpan.End()
	metrics.StageDuration.WithLabelValues(entity.StageFrames).Observe(time.Since(exStart).Seconds())
	metrics.FramesExtractedTotal.Add(float64(extraction.FrameCount))

	result.Frames = entity.FrameStats{
		Count:    extraction.FrameCount,
		Step:     step,
		Duration: extraction.VideoDuration,
	}

	// Stage 2: face detection + annotation.
	annotatedDir := filepath.Join(workDir, "annotated")
	var annotatedPaths []string
	uc.runStage(ctx, entity.StageFaces, result, log, func(stageCtx context.Context) error {
		detection, err := uc.annotator.AnnotateFrames(stageCtx, framesDir, annotatedDir)
		if err != nil {
			return err
		}
		result.Detections = detection.Detections
		annotatedPaths = detection.AnnotatedPaths
		metrics.FacesDetectedTotal.Add(float64(result.FacesDetected()))
		return nil
	})

	// Stage 3: audio transcription. Optional; runs only when configured.
	uc.runStage(ctx, entity.StageTranscription, result, log, func(stageCtx context.Context) error {
		if uc.transcriber == nil {
			metrics.TranscriptsTotal.WithLabelValues("skipped").Inc()
			return fmt.Errorf("transcription not configured")
		}

		audioPath := filepath.Join(workDir, "audio.wav")
		if err := uc.audio.ExtractAudio(stageCtx, videoPath, audioPath); err != nil {
			metrics.TranscriptsTotal.WithLabelValues("failed").Inc()
			return fmt.Errorf("extract audio: %w", err)
		}

		transcript, err := uc.transcriber.Transcribe(stageCtx, audioPath, msg.Language)
		if err != nil {
			metrics.TranscriptsTotal.WithLabelValues("failed").Inc()
			return err
		}
		result.Transcript = transcript
		metrics.TranscriptsTotal.WithLabelValues("ok").Inc()
		return nil
	})

	// Stage 4a: candidate evaluation from the transcript.
	uc.runStage(ctx, entity.StageEvaluation, result, log, func(context.Context) error {
		if result.Transcript == nil || result.Transcript.Text == "" {
			return fmt.Errorf("no transcript available")
		}
		evaluation, err := uc.evaluator.Evaluate(result.Transcript.Text)
		if err != nil {
			return err
		}
		result.Evaluation = evaluation
		return nil
	})

	// Stage 4b: facial expression aggregation over the raw frames.
	uc.runStage(ctx, entity.StageExpression, result, log, func(stageCtx context.Context) error {
		expression, err := uc.expression.AnalyzeFrames(stageCtx, framesDir)
		if err != nil {
			return err
		}
		result.Expression = expression
		return nil
	})

	// Serialize, bundle and upload the artifacts.
	resultsPath := filepath.Join(workDir, "results.json")
	if err := writeResults(resultsPath, result); err != nil {
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "write_results: "+err.Error(), log)
	}

	upStart := time.Now()
	upCtx, upSpan := tracer.Start(ctx, "upload_artifacts")
	resultsKey := fmt.Sprintf("%s/%s/results.json", msg.UserID, job.ID.String())
	if err := uc.storage.UploadArtifact(upCtx, resultsKey, resultsPath, "application/json"); err != nil {
		upSpan.End()
		log.Error("results upload failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "upload_results: "+err.Error(), log)
	}

	bundlePath := filepath.Join(workDir, "analysis.zip")
	bundleKey := fmt.Sprintf("%s/%s/analysis.zip", msg.UserID, job.ID.String())
	if err := uc.bundler.Bundle(upCtx, append(annotatedPaths, resultsPath), bundlePath); err != nil {
		upSpan.End()
		log.Error("bundle creation failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "create_bundle: "+err.Error(), log)
	}
	if err := uc.storage.UploadArtifact(upCtx, bundleKey, bundlePath, "application/zip"); err != nil {
		upSpan.End()
		log.Error("bundle upload failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "upload_bundle: "+err.Error(), log)
	}
	upSpan.End()
	metrics.StageDuration.WithLabelValues("upload").Observe(time.Since(upStart).Seconds())

	job.MarkCompleted(resultsKey, bundleKey, result.Summary())
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to COMPLETED", zap.Error(err))
		return fmt.Errorf("update job completed: %w", err)
	}

	uc.publishStatus(ctx, job, log)

	log.Info("analysis completed",
		zap.Int("frame_count", result.Frames.Count),
		zap.Int("faces_detected", result.FacesDetected()),
		zap.Float64("duration_secs", result.Frames.Duration),
		zap.Int("stage_errors", len(result.StageErrors)),
		zap.String("results_key", resultsKey),
	)

	return nil
}

// runStage executes one tolerated pipeline stage: failures are recorded under
// the stage name in the results artifact instead of failing the job.
func (uc *AnalyzeVideoUseCase) runStage(
	ctx context.Context,
	stage string,
	result *entity.AnalysisResult,
	log *zap.Logger,
	fn func(ctx context.Context) error,
) {
	tracer := otel.Tracer("usecase")
	stageCtx, span := tracer.Start(ctx, stage)
	defer span.End()

	start := time.Now()
	if err := fn(stageCtx); err != nil {
		result.StageErrors[stage] = err.Error()
		metrics.StageFailuresTotal.WithLabelValues(stage).Inc()
		log.Warn("stage failed, continuing", zap.String("stage", stage), zap.Error(err))
	}
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (uc *AnalyzeVideoUseCase) stepFor(msg entity.AnalysisRequestMessage) int {
	if msg.FrameStep > 0 {
		return msg.FrameStep
	}
	return uc.frameStep
}

func writeResults(path string, result *entity.AnalysisResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

func (uc *AnalyzeVideoUseCase) handleRetryableFailure(
	ctx context.Context,
	job *entity.Job,
	msg entity.AnalysisRequestMessage,
	rawMsg []byte,
	errMsg string,
	log *zap.Logger,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	if !job.CanRetry() {
		return uc.handlePermanentFailure(ctx, job, msg, rawMsg, errMsg)
	}

	metrics.RetryTotal.WithLabelValues(strconv.Itoa(job.Attempt)).Inc()
	uc.publishStatus(ctx, job, log)

	return fmt.Errorf("retryable failure (attempt %d/%d): %s", job.Attempt, job.MaxAttempts, errMsg)
}

func (uc *AnalyzeVideoUseCase) handlePermanentFailure(
	ctx context.Context,
	job *entity.Job,
	msg entity.AnalysisRequestMessage,
	rawMsg []byte,
	errMsg string,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	_ = uc.dlq.PublishToDLQ(ctx, rawMsg, errMsg)

	uc.publishStatus(ctx, job, uc.logger)

	metrics.JobsProcessedTotal.WithLabelValues("dlq").Inc()

	if msg.UserEmail != "" {
		_ = uc.notifier.NotifyFailure(ctx, msg.UserEmail, job.ID.String(), msg.VideoKey, errMsg)
	}

	return nil
}

func (uc *AnalyzeVideoUseCase) publishStatus(ctx context.Context, job *entity.Job, log *zap.Logger) {
	statusMsg := entity.AnalysisStatusMessage{
		JobID:           job.ID,
		UserID:          job.UserID,
		Status:          job.Status,
		VideoKey:        job.VideoKey,
		ResultsKey:      job.ResultsKey,
		BundleKey:       job.BundleKey,
		FrameCount:      job.FrameCount,
		FacesDetected:   job.FacesDetected,
		Duration:        job.VideoDuration,
		InterviewScore:  job.InterviewScore,
		ExpressionScore: job.ExpressionScore,
		ErrorMessage:    job.ErrorMessage,
		Attempt:         job.Attempt,
		MaxAttempts:     job.MaxAttempts,
	}
	data, _ := json.Marshal(statusMsg)
	if err := uc.publisher.PublishStatus(ctx, data); err != nil {
		log.Error("failed to publish status", zap.Error(err))
	}
}
