package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hireview/hireview-analysis-service/internal/domain/entity"
	"github.com/hireview/hireview-analysis-service/internal/infra/metrics"
	"go.uber.org/zap"
)

type jobResponse struct {
	JobID           uuid.UUID        `json:"job_id"`
	Status          entity.JobStatus `json:"status"`
	VideoKey        string           `json:"video_key"`
	ResultsKey      string           `json:"results_key,omitempty"`
	BundleKey       string           `json:"bundle_key,omitempty"`
	FrameCount      int              `json:"frame_count,omitempty"`
	FacesDetected   int              `json:"faces_detected,omitempty"`
	Duration        float64          `json:"duration_seconds,omitempty"`
	InterviewScore  float64          `json:"interview_score,omitempty"`
	ExpressionScore float64          `json:"expression_score,omitempty"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	Attempt         int              `json:"attempt"`
	CreatedAt       time.Time        `json:"created_at"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
}

func toJobResponse(job *entity.Job) jobResponse {
	return jobResponse{
		JobID:           job.ID,
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
		CreatedAt:       job.CreatedAt,
		CompletedAt:     job.CompletedAt,
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "HireView Analysis Service is running",
	})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// handleUpload receives a multipart video, stores it, creates a job and
// enqueues it. With ?sync=true the pipeline runs inline and the final job
// state is returned, matching the original demo behavior.
func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing video file: " + err.Error()})
		return
	}
	defer file.Close()

	step := s.cfg.DefaultStep
	if v := c.Query("step"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid step parameter"})
			return
		}
		step = parsed
	}

	userID := c.PostForm("user_id")
	if userID == "" {
		userID = "anonymous"
	}

	uid := uuid.New()
	videoKey := fmt.Sprintf("%s/%s_%s", userID, uid.String(), filepath.Base(header.Filename))

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	if err := s.storage.UploadVideo(c.Request.Context(), videoKey, file, header.Size, contentType); err != nil {
		s.logger.Error("video upload to storage failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "store video: " + err.Error()})
		return
	}

	job := entity.NewJob(userID, videoKey, header.Size, step, s.cfg.MaxRetries)
	job.ID = uid
	if err := s.repo.Create(c.Request.Context(), job); err != nil {
		s.logger.Error("job create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create job: " + err.Error()})
		return
	}

	metrics.UploadsTotal.Inc()

	msg := entity.AnalysisRequestMessage{
		JobID:     job.ID,
		UserID:    userID,
		VideoKey:  videoKey,
		FileSize:  header.Size,
		FrameStep: step,
		Language:  s.cfg.Language,
		UserEmail: c.PostForm("email"),
	}
	rawMsg, _ := json.Marshal(msg)

	if c.Query("sync") == "true" && s.runner != nil {
		if err := s.runner.Execute(c.Request.Context(), rawMsg); err != nil {
			s.logger.Error("inline analysis failed", zap.Error(err))
		}
		finished, err := s.repo.FindByID(c.Request.Context(), job.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load job: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, toJobResponse(finished))
		return
	}

	if err := s.publisher.PublishJob(c.Request.Context(), rawMsg); err != nil {
		s.logger.Error("job publish failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "enqueue job: " + err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, toJobResponse(job))
}

func (s *Server) handleGetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	job, err := s.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, toJobResponse(job))
}

// handleGetResults streams the results.json artifact of a completed job.
func (s *Server) handleGetResults(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	job, err := s.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if job.ResultsKey == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "results not available", "status": job.Status})
		return
	}

	reader, err := s.storage.GetArtifact(c.Request.Context(), job.ResultsKey)
	if err != nil {
		s.logger.Error("results fetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "fetch results: " + err.Error()})
		return
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "read results: " + err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}
