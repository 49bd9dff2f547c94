package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hireview/hireview-analysis-service/internal/domain/port"
	"go.uber.org/zap"
)

// PipelineRunner runs an analysis request inline. The worker usecase
// satisfies it; sync uploads go through here instead of the queue.
type PipelineRunner interface {
	Execute(ctx context.Context, rawMsg []byte) error
}

type ServerConfig struct {
	Port          int
	MaxUploadSize int64 // bytes
	DefaultStep   int
	MaxRetries    int
	Language      string
}

type Server struct {
	repo      port.JobRepository
	storage   port.VideoStorage
	publisher port.JobPublisher
	runner    PipelineRunner
	logger    *zap.Logger
	cfg       ServerConfig
}

func NewServer(
	repo port.JobRepository,
	storage port.VideoStorage,
	publisher port.JobPublisher,
	runner PipelineRunner,
	logger *zap.Logger,
	cfg ServerConfig,
) *Server {
	return &Server{
		repo:      repo,
		storage:   storage,
		publisher: publisher,
		runner:    runner,
		logger:    logger,
		cfg:       cfg,
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	router.MaxMultipartMemory = 32 << 20

	router.GET("/", s.handleRoot)
	router.GET("/healthz", s.handleHealthz)
	router.POST("/upload", s.handleUpload)
	router.GET("/jobs/:id", s.handleGetJob)
	router.GET("/jobs/:id/results", s.handleGetResults)

	return router
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server starting", zap.Int("port", s.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
