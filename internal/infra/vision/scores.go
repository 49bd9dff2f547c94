package vision

import (
	"math"

	"github.com/hireview/hireview-analysis-service/internal/domain/entity"
)

// faceSignals are the raw region statistics the heuristic scorer works from,
// all normalized to [0,1].
type faceSignals struct {
	eyeBrightness float64 // mean intensity of the top 40% of the face crop
	symmetry      float64 // 1 - |mean(left half) - mean(right half)| / 255
	headStraight  float64 // 1 - offset of the face center from the frame center
}

// heuristicScores maps region statistics to the four expression parameters.
// The caps keep an untrained heuristic from overselling any candidate.
func heuristicScores(s faceSignals) entity.ExpressionScores {
	return entity.ExpressionScores{
		Confidence:       math.Min(0.7, s.eyeBrightness*0.5+s.headStraight*0.5),
		Authenticity:     math.Min(0.75, s.symmetry*0.6+s.headStraight*0.4),
		Leadership:       math.Min(0.65, s.eyeBrightness*0.4+s.headStraight*0.6),
		PressureHandling: math.Min(0.7, s.symmetry*0.5+s.eyeBrightness*0.3+s.headStraight*0.2),
	}
}

// neutralScores is the fallback when a face crop cannot be analyzed at all.
func neutralScores() entity.ExpressionScores {
	return entity.ExpressionScores{
		Confidence:       0.5,
		Authenticity:     0.5,
		Leadership:       0.5,
		PressureHandling: 0.5,
	}
}

// aggregate averages per-frame scores into the final expression analysis.
func aggregate(frames []entity.FrameExpression, framesAnalyzed int) *entity.ExpressionAnalysis {
	if len(frames) == 0 {
		return &entity.ExpressionAnalysis{FramesAnalyzed: framesAnalyzed}
	}

	var sum entity.ExpressionScores
	for _, f := range frames {
		sum.Confidence += f.Scores.Confidence
		sum.Authenticity += f.Scores.Authenticity
		sum.Leadership += f.Scores.Leadership
		sum.PressureHandling += f.Scores.PressureHandling
	}

	n := float64(len(frames))
	avg := entity.ExpressionScores{
		Confidence:       round3(sum.Confidence / n),
		Authenticity:     round3(sum.Authenticity / n),
		Leadership:       round3(sum.Leadership / n),
		PressureHandling: round3(sum.PressureHandling / n),
	}
	overall := round3((avg.Confidence + avg.Authenticity + avg.Leadership + avg.PressureHandling) / 4)

	return &entity.ExpressionAnalysis{
		Scores:         avg,
		OverallScore:   overall,
		FramesWithFace: len(frames),
		FramesAnalyzed: framesAnalyzed,
		Frames:         frames,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
