package port

import "context"

// ArtifactBundler packs the analysis artifacts (annotated frames plus
// results.json) into a single zip.
type ArtifactBundler interface {
	Bundle(ctx context.Context, filePaths []string, outputPath string) error
}
