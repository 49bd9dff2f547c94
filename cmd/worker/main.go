package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hireview/hireview-analysis-service/internal/analysis"
	"github.com/hireview/hireview-analysis-service/internal/domain/port"
	"github.com/hireview/hireview-analysis-service/internal/infra/config"
	"github.com/hireview/hireview-analysis-service/internal/infra/email"
	"github.com/hireview/hireview-analysis-service/internal/infra/ffmpeg"
	"github.com/hireview/hireview-analysis-service/internal/infra/metrics"
	miniostorage "github.com/hireview/hireview-analysis-service/internal/infra/minio"
	"github.com/hireview/hireview-analysis-service/internal/infra/postgres"
	"github.com/hireview/hireview-analysis-service/internal/infra/rabbitmq"
	"github.com/hireview/hireview-analysis-service/internal/infra/tracing"
	"github.com/hireview/hireview-analysis-service/internal/infra/vision"
	"github.com/hireview/hireview-analysis-service/internal/infra/whisper"
	"github.com/hireview/hireview-analysis-service/internal/usecase"
	"github.com/hireview/hireview-analysis-service/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting hireview-analysis-worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (non-fatal if the collector is unavailable)
	tp, err := tracing.InitTracer(ctx, cfg.JaegerEndpoint)
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer tp.Shutdown(ctx)
	}

	// Database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	fatalOnErr(err, "connect to postgres")
	defer pool.Close()

	err = postgres.RunMigrations(cfg.DatabaseURL, "migrations")
	if err != nil {
		log.Warn("migration warning", zap.Error(err))
	}

	// Object storage
	storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
		Endpoint:       cfg.MinIOEndpoint,
		AccessKey:      cfg.MinIOAccessKey,
		SecretKey:      cfg.MinIOSecretKey,
		UseSSL:         cfg.MinIOUseSSL,
		UploadBucket:   cfg.MinIOUploadBucket,
		ArtifactBucket: cfg.MinIOArtifactBucket,
	})
	fatalOnErr(err, "create minio storage")
	fatalOnErr(storage.EnsureBuckets(ctx), "ensure minio buckets")

	// RabbitMQ publisher connection
	rmqConn, err := amqp.Dial(cfg.RabbitMQURL)
	fatalOnErr(err, "connect to rabbitmq for publisher")
	defer rmqConn.Close()

	pub, err := rabbitmq.NewPublisher(rmqConn, cfg.RabbitMQExchange)
	fatalOnErr(err, "create rabbitmq publisher")

	statusPub := rabbitmq.NewStatusPublisher(pub)
	dlqPub := rabbitmq.NewDLQPublisher(pub, cfg.RabbitMQDLQ)

	// Pipeline stages
	repo := postgres.NewJobRepository(pool)
	extractor := ffmpeg.NewExtractor(cfg.FrameFormat, log)
	bundler := ffmpeg.NewBundler()
	notifier := email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, log)

	detector, err := vision.NewDetector(cfg.CascadePath, log)
	fatalOnErr(err, "create face detector")
	defer detector.Close()

	expression, err := vision.NewExpressionScorer(cfg.CascadePath, cfg.ExpressionModelPath, log)
	fatalOnErr(err, "create expression scorer")
	defer expression.Close()

	uc := usecase.NewAnalyzeVideoUseCase(
		usecase.AnalyzeVideoDeps{
			Repo:        repo,
			Storage:     storage,
			Frames:      extractor,
			Audio:       extractor,
			Annotator:   detector,
			Expression:  expression,
			Transcriber: newTranscriber(cfg, log),
			Evaluator:   analysis.NewEvaluator(),
			Bundler:     bundler,
			Publisher:   statusPub,
			DLQ:         dlqPub,
			Notifier:    notifier,
		},
		log,
		usecase.AnalyzeVideoConfig{
			TempDir:    cfg.TempDir,
			FrameStep:  cfg.FrameStep,
			Language:   cfg.Language,
			MaxRetries: cfg.MaxRetries,
		},
	)

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, log)

	consumer, err := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
		URL:         cfg.RabbitMQURL,
		Queue:       cfg.RabbitMQJobQueue,
		Exchange:    cfg.RabbitMQExchange,
		DLQ:         cfg.RabbitMQDLQ,
		StatusQueue: cfg.RabbitMQStatus,
		Prefetch:    cfg.RabbitMQPrefetch,
		WorkerCount: cfg.WorkerCount,
		BaseDelayMs: cfg.RetryBaseDelayMs,
	}, uc.Execute, log)
	fatalOnErr(err, "create consumer")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	log.Info("hireview-analysis-worker started, consuming messages")

	if err := consumer.Start(ctx); err != nil {
		log.Error("consumer error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsSrv.Shutdown(shutdownCtx)

	consumer.Close()
	log.Info("hireview-analysis-worker stopped")
}

// newTranscriber returns nil when no API key is configured; the pipeline then
// records the transcription stage as skipped instead of failing jobs.
func newTranscriber(cfg *config.Config, log *zap.Logger) port.Transcriber {
	t, err := whisper.NewTranscriber(cfg.OpenAIAPIKey, log)
	if err != nil {
		log.Warn("transcription disabled", zap.Error(err))
		return nil
	}
	return t
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
