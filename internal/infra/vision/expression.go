package vision

import (
	"context"
	"fmt"
	"image"
	"math"
	"path/filepath"

	"github.com/hireview/hireview-analysis-service/internal/domain/entity"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

const modelInputSize = 224

// ExpressionScorer scores facial expressions per frame. When an ONNX model is
// configured and loads, crops are run through it; otherwise a region
// statistics heuristic applies. Per-frame failures fall back to the
// heuristic, never abort the pass.
type ExpressionScorer struct {
	classifier gocv.CascadeClassifier
	net        gocv.Net
	hasNet     bool
	logger     *zap.Logger
}

func NewExpressionScorer(cascadePath, modelPath string, logger *zap.Logger) (*ExpressionScorer, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("load face cascade %s", cascadePath)
	}

	s := &ExpressionScorer{classifier: classifier, logger: logger}

	if modelPath != "" {
		net := gocv.ReadNetFromONNX(modelPath)
		if net.Empty() {
			logger.Warn("expression model failed to load, using heuristic scoring",
				zap.String("model_path", modelPath))
		} else {
			s.net = net
			s.hasNet = true
			logger.Info("expression model loaded", zap.String("model_path", modelPath))
		}
	} else {
		logger.Info("no expression model configured, using heuristic scoring")
	}

	return s, nil
}

func (s *ExpressionScorer) Close() error {
	if s.hasNet {
		s.net.Close()
	}
	return s.classifier.Close()
}

func (s *ExpressionScorer) AnalyzeFrames(ctx context.Context, framesDir string) (*entity.ExpressionAnalysis, error) {
	frames, err := listFrames(framesDir)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames found in %s", framesDir)
	}

	var scored []entity.FrameExpression
	for _, fname := range frames {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fe, ok := s.scoreFrame(filepath.Join(framesDir, fname), fname)
		if ok {
			scored = append(scored, fe)
		}
	}

	if len(scored) == 0 {
		return nil, fmt.Errorf("no faces detected in frames")
	}
	return aggregate(scored, len(frames)), nil
}

func (s *ExpressionScorer) scoreFrame(path, fname string) (entity.FrameExpression, bool) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return entity.FrameExpression{}, false
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	rects := s.classifier.DetectMultiScaleWithParams(
		gray, scaleFactor, minNeighbors, 0,
		image.Pt(minFaceSize, minFaceSize), image.Pt(0, 0),
	)
	if len(rects) == 0 {
		return entity.FrameExpression{}, false
	}

	// Score the largest face, assumed to be the candidate.
	face := largestRect(rects)
	face = face.Intersect(image.Rect(0, 0, img.Cols(), img.Rows()))
	if face.Empty() {
		return entity.FrameExpression{}, false
	}

	crop := img.Region(face)
	defer crop.Close()

	var scores entity.ExpressionScores
	if s.hasNet {
		var err error
		scores, err = s.scoreWithModel(crop)
		if err != nil {
			s.logger.Warn("model inference failed, falling back to heuristic",
				zap.String("frame", fname), zap.Error(err))
			scores = s.scoreHeuristic(crop, face, img.Cols())
		}
	} else {
		scores = s.scoreHeuristic(crop, face, img.Cols())
	}

	return entity.FrameExpression{
		Frame:  fname,
		Face:   entity.BoundingBox{X: face.Min.X, Y: face.Min.Y, Width: face.Dx(), Height: face.Dy()},
		Scores: scores,
	}, true
}

func (s *ExpressionScorer) scoreWithModel(crop gocv.Mat) (entity.ExpressionScores, error) {
	blob := gocv.BlobFromImage(crop, 1.0/255.0,
		image.Pt(modelInputSize, modelInputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	s.net.SetInput(blob, "")
	out := s.net.Forward("")
	defer out.Close()

	if out.Total() < 4 {
		return entity.ExpressionScores{}, fmt.Errorf("model returned %d outputs, want 4", out.Total())
	}

	return entity.ExpressionScores{
		Confidence:       clamp01(float64(out.GetFloatAt(0, 0))),
		Authenticity:     clamp01(float64(out.GetFloatAt(0, 1))),
		Leadership:       clamp01(float64(out.GetFloatAt(0, 2))),
		PressureHandling: clamp01(float64(out.GetFloatAt(0, 3))),
	}, nil
}

// scoreHeuristic derives the four parameters from basic region statistics of
// the grayscale face crop and the face position within the frame.
func (s *ExpressionScorer) scoreHeuristic(crop gocv.Mat, face image.Rectangle, frameWidth int) entity.ExpressionScores {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(crop, &gray, gocv.ColorBGRToGray)

	h := gray.Rows()
	w := gray.Cols()
	if h < 4 || w < 4 {
		return neutralScores()
	}

	sig := faceSignals{
		eyeBrightness: regionMean(gray, image.Rect(0, 0, w, int(float64(h)*0.4))),
		symmetry:      1.0 - math.Abs(regionMean(gray, image.Rect(0, 0, w/2, h))-regionMean(gray, image.Rect(w/2, 0, w, h))),
		headStraight:  headStraightness(face, frameWidth),
	}
	return heuristicScores(sig)
}

// headStraightness measures how centered the face sits in the frame.
func headStraightness(face image.Rectangle, frameWidth int) float64 {
	if frameWidth <= 0 {
		return 1.0
	}
	faceCenter := float64(face.Min.X) + float64(face.Dx())/2
	frameCenter := float64(frameWidth) / 2
	offset := math.Abs(faceCenter-frameCenter) / frameCenter
	return 1.0 - math.Min(offset, 1.0)
}

// regionMean is the mean intensity of a grayscale sub-region, scaled to [0,1].
func regionMean(gray gocv.Mat, r image.Rectangle) float64 {
	r = r.Intersect(image.Rect(0, 0, gray.Cols(), gray.Rows()))
	if r.Empty() {
		return 0
	}
	region := gray.Region(r)
	defer region.Close()
	return region.Mean().Val1 / 255.0
}

func largestRect(rects []image.Rectangle) image.Rectangle {
	largest := rects[0]
	for _, r := range rects[1:] {
		if r.Dx()*r.Dy() > largest.Dx()*largest.Dy() {
			largest = r
		}
	}
	return largest
}
