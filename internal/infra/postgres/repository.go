package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hireview/hireview-analysis-service/internal/domain/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	query := `
		INSERT INTO analysis_jobs (
			id, user_id, video_key, results_key, bundle_key, status,
			frame_step, frame_count, faces_detected, file_size, video_duration,
			interview_score, expression_score, attempt, max_attempts,
			error_message, created_at, updated_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`

	_, err := r.pool.Exec(ctx, query,
		job.ID, job.UserID, job.VideoKey, job.ResultsKey, job.BundleKey, string(job.Status),
		job.FrameStep, job.FrameCount, job.FacesDetected, job.FileSize, job.VideoDuration,
		job.InterviewScore, job.ExpressionScore, job.Attempt, job.MaxAttempts,
		job.ErrorMessage, job.CreatedAt, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) Update(ctx context.Context, job *entity.Job) error {
	query := `
		UPDATE analysis_jobs SET
			status=$2, results_key=$3, bundle_key=$4, frame_count=$5,
			faces_detected=$6, video_duration=$7, interview_score=$8,
			expression_score=$9, attempt=$10, error_message=$11,
			updated_at=$12, completed_at=$13
		WHERE id=$1`

	_, err := r.pool.Exec(ctx, query,
		job.ID, string(job.Status), job.ResultsKey, job.BundleKey, job.FrameCount,
		job.FacesDetected, job.VideoDuration, job.InterviewScore,
		job.ExpressionScore, job.Attempt, job.ErrorMessage,
		job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	query := `
		SELECT id, user_id, video_key, results_key, bundle_key, status,
			frame_step, frame_count, faces_detected, file_size, video_duration,
			interview_score, expression_score, attempt, max_attempts,
			error_message, created_at, updated_at, completed_at
		FROM analysis_jobs WHERE id=$1`

	job := &entity.Job{}
	var status string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.UserID, &job.VideoKey, &job.ResultsKey, &job.BundleKey, &status,
		&job.FrameStep, &job.FrameCount, &job.FacesDetected, &job.FileSize, &job.VideoDuration,
		&job.InterviewScore, &job.ExpressionScore, &job.Attempt, &job.MaxAttempts,
		&job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("find job by id: %w", err)
	}
	job.Status = entity.JobStatus(status)
	return job, nil
}
