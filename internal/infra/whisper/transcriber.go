package whisper

import (
	"context"
	"fmt"
	"strings"

	"github.com/hireview/hireview-analysis-service/internal/domain/entity"
	"github.com/pemistahl/lingua-go"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Transcriber turns extracted interview audio into text through the Whisper
// API. The verbose JSON format carries timed segments and the detected
// language; when the API omits the language, a lingua detector fills it in.
type Transcriber struct {
	client   *openai.Client
	detector lingua.LanguageDetector
	logger   *zap.Logger
}

func NewTranscriber(apiKey string, logger *zap.Logger) (*Transcriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("transcription API key not configured")
	}
	return &Transcriber{
		client:   openai.NewClient(apiKey),
		detector: lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build(),
		logger:   logger,
	}, nil
}

func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, language string) (*entity.Transcript, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: language,
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}

	transcript := &entity.Transcript{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
	}
	for _, seg := range resp.Segments {
		transcript.Segments = append(transcript.Segments, entity.TranscriptSegment{
			ID:    seg.ID,
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}

	if transcript.Language == "" && transcript.Text != "" {
		if lang, ok := t.detector.DetectLanguageOf(transcript.Text); ok {
			transcript.Language = strings.ToLower(lang.IsoCode639_1().String())
		} else {
			transcript.Language = "unknown"
		}
	}

	t.logger.Info("audio transcribed",
		zap.Int("segments", len(transcript.Segments)),
		zap.Int("chars", len(transcript.Text)),
		zap.String("language", transcript.Language),
	)
	return transcript, nil
}
