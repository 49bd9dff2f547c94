package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hireview/hireview-analysis-service/internal/domain/port"
	"go.uber.org/zap"
)

// Extractor grabs every Nth frame of a video via the ffmpeg select filter and
// probes the container duration with ffprobe.
type Extractor struct {
	format string
	logger *zap.Logger
}

func NewExtractor(format string, logger *zap.Logger) *Extractor {
	return &Extractor{format: format, logger: logger}
}

func (e *Extractor) ExtractFrames(ctx context.Context, videoPath string, outputDir string, step int) (*port.FrameExtractionResult, error) {
	if step < 1 {
		step = 1
	}

	duration, err := e.probeDuration(ctx, videoPath)
	if err != nil {
		e.logger.Warn("could not get video duration", zap.Error(err))
	}

	framePattern := filepath.Join(outputDir, fmt.Sprintf("frame_%%04d.%s", e.format))
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-vf", fmt.Sprintf("select=not(mod(n\\,%d))", step),
		"-vsync", "vfr",
		"-y",
		framePattern,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg error: %w, output: %s", err, string(output))
	}

	globPattern := filepath.Join(outputDir, fmt.Sprintf("*.%s", e.format))
	frames, err := filepath.Glob(globPattern)
	if err != nil {
		return nil, fmt.Errorf("glob frames: %w", err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames extracted from video")
	}

	e.logger.Info("frames extracted",
		zap.Int("count", len(frames)),
		zap.Int("step", step),
		zap.Float64("video_duration", duration),
	)

	return &port.FrameExtractionResult{
		FramePaths:    frames,
		FrameCount:    len(frames),
		VideoDuration: duration,
	}, nil
}

// ExtractAudio demuxes the audio track as 16 kHz mono PCM, the input format
// expected by the speech-to-text backend.
func (e *Extractor) ExtractAudio(ctx context.Context, videoPath string, audioPath string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		audioPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg audio extraction: %w, output: %s", err, string(output))
	}
	return nil
}

func (e *Extractor) probeDuration(ctx context.Context, videoPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}
	return duration, nil
}
