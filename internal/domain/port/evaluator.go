package port

import "github.com/hireview/hireview-analysis-service/internal/domain/entity"

// CandidateEvaluator scores a transcribed interview on the five text-derived
// parameters. An empty transcript is an error.
type CandidateEvaluator interface {
	Evaluate(text string) (*entity.InterviewEvaluation, error)
}
