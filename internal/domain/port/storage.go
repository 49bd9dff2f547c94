package port

import (
	"context"
	"io"
)

type VideoStorage interface {
	DownloadVideo(ctx context.Context, objectKey string, destPath string) error
	UploadVideo(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	UploadArtifact(ctx context.Context, objectKey string, filePath string, contentType string) error
	GetArtifact(ctx context.Context, objectKey string) (io.ReadCloser, error)
}
