package port

import (
	"context"

	"github.com/hireview/hireview-analysis-service/internal/domain/entity"
)

// Transcriber converts an audio file to text. language is an optional BCP-47
// hint; empty means auto-detect.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, language string) (*entity.Transcript, error)
}
