package vision

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hireview/hireview-analysis-service/internal/domain/entity"
	"github.com/hireview/hireview-analysis-service/internal/domain/port"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// Haar cascade parameters, tuned for frontal interview footage.
const (
	scaleFactor  = 1.1
	minNeighbors = 5
	minFaceSize  = 30
)

var boxColor = color.RGBA{G: 255, A: 255}

// Detector runs Haar-cascade face detection over extracted frames and writes
// annotated copies with bounding boxes drawn.
type Detector struct {
	classifier gocv.CascadeClassifier
	logger     *zap.Logger
}

func NewDetector(cascadePath string, logger *zap.Logger) (*Detector, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("load face cascade %s", cascadePath)
	}
	return &Detector{classifier: classifier, logger: logger}, nil
}

func (d *Detector) Close() error {
	return d.classifier.Close()
}

func (d *Detector) AnnotateFrames(ctx context.Context, framesDir string, annotatedDir string) (*port.FaceDetectionResult, error) {
	if err := os.MkdirAll(annotatedDir, 0755); err != nil {
		return nil, fmt.Errorf("create annotated dir: %w", err)
	}

	frames, err := listFrames(framesDir)
	if err != nil {
		return nil, err
	}

	result := &port.FaceDetectionResult{}
	for _, fname := range frames {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		detection, annotatedPath, err := d.annotateFrame(framesDir, annotatedDir, fname)
		if err != nil {
			d.logger.Warn("skipping unreadable frame", zap.String("frame", fname), zap.Error(err))
			continue
		}
		result.Detections = append(result.Detections, detection)
		result.AnnotatedPaths = append(result.AnnotatedPaths, annotatedPath)
	}

	d.logger.Info("face detection finished",
		zap.Int("frames", len(result.Detections)),
		zap.Int("faces", countFaces(result.Detections)),
	)
	return result, nil
}

func (d *Detector) annotateFrame(framesDir, annotatedDir, fname string) (entity.FrameDetection, string, error) {
	img := gocv.IMRead(filepath.Join(framesDir, fname), gocv.IMReadColor)
	if img.Empty() {
		return entity.FrameDetection{}, "", fmt.Errorf("decode %s", fname)
	}
	defer img.Close()

	rects := d.detect(img)

	boxes := make([]entity.BoundingBox, 0, len(rects))
	for _, r := range rects {
		boxes = append(boxes, entity.BoundingBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()})
		gocv.Rectangle(&img, r, boxColor, 2)
	}

	annotatedName := "annot_" + fname
	annotatedPath := filepath.Join(annotatedDir, annotatedName)
	if ok := gocv.IMWrite(annotatedPath, img); !ok {
		return entity.FrameDetection{}, "", fmt.Errorf("write annotated %s", annotatedName)
	}

	return entity.FrameDetection{Frame: fname, Annotated: annotatedName, Faces: boxes}, annotatedPath, nil
}

func (d *Detector) detect(img gocv.Mat) []image.Rectangle {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	return d.classifier.DetectMultiScaleWithParams(
		gray, scaleFactor, minNeighbors, 0,
		image.Pt(minFaceSize, minFaceSize), image.Pt(0, 0),
	)
}

// listFrames returns the image files of a directory sorted by name, which
// matches extraction order for the zero-padded frame pattern.
func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frames dir: %w", err)
	}

	var frames []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			frames = append(frames, e.Name())
		}
	}
	sort.Strings(frames)
	return frames, nil
}

func countFaces(detections []entity.FrameDetection) int {
	total := 0
	for _, d := range detections {
		total += len(d.Faces)
	}
	return total
}
