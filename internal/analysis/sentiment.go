package analysis

import (
	"math"
	"regexp"
	"strings"

	"github.com/hireview/hireview-analysis-service/internal/domain/entity"
	"github.com/jonreiter/govader"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// SentimentAnalyzer wraps a VADER intensity analyzer and maps its output onto
// the label/confidence shape the evaluator consumes.
type SentimentAnalyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// CleanText collapses runs of whitespace.
func CleanText(text string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
}

func (a *SentimentAnalyzer) Analyze(text string) entity.VaderScores {
	scores := a.vader.PolarityScores(text)

	label := "neutral"
	switch {
	case scores.Compound >= 0.05:
		label = "positive"
	case scores.Compound <= -0.05:
		label = "negative"
	}

	return entity.VaderScores{
		Compound:   round3(scores.Compound),
		Positive:   round3(scores.Positive),
		Neutral:    round3(scores.Neutral),
		Negative:   round3(scores.Negative),
		Label:      label,
		Confidence: round3(math.Abs(scores.Compound)),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
