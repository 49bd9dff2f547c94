package port

import "context"

type FrameExtractionResult struct {
	FramePaths    []string
	FrameCount    int
	VideoDuration float64
}

// FrameExtractor pulls every Nth frame out of a video into outputDir.
type FrameExtractor interface {
	ExtractFrames(ctx context.Context, videoPath string, outputDir string, step int) (*FrameExtractionResult, error)
}

// AudioExtractor demuxes the audio track into a 16 kHz mono PCM wav suitable
// for speech-to-text.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath string, audioPath string) error
}
