package analysis

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/hireview/hireview-analysis-service/internal/domain/entity"
)

var sentenceRe = regexp.MustCompile(`[.!?]+`)

// Keyword groups for the transcript-derived parameters. Matching is substring
// containment against the lowercased transcript, counting groups hit rather
// than occurrences.
var (
	confidenceKeywords = []string{
		"confident", "certain", "believe", "know", "sure", "definitely",
		"absolutely", "expertise", "experience", "accomplished", "achieved",
	}
	enthusiasmKeywords = []string{
		"excited", "passionate", "love", "enjoy", "thrilled", "amazing",
		"fantastic", "wonderful", "great", "excellent", "awesome",
	}
	professionalKeywords = []string{
		"professional", "respect", "collaborate", "team", "leadership",
		"responsibility", "accountable", "integrity", "ethics", "values",
	}
)

// Evaluator scores a transcribed interview on communication clarity,
// confidence, enthusiasm, professionalism and engagement, each in [0,1].
type Evaluator struct {
	sentiment *SentimentAnalyzer
}

func NewEvaluator() *Evaluator {
	return &Evaluator{sentiment: NewSentimentAnalyzer()}
}

func (e *Evaluator) Evaluate(text string) (*entity.InterviewEvaluation, error) {
	text = CleanText(text)
	if text == "" {
		return nil, fmt.Errorf("no text provided for evaluation")
	}

	vader := e.sentiment.Analyze(text)

	scores := entity.InterviewScores{
		CommunicationClarity: communicationClarity(text, vader),
		Confidence:           confidence(text, vader),
		Enthusiasm:           enthusiasm(text, vader),
		Professionalism:      professionalism(text, vader),
		Engagement:           engagement(text, vader),
	}

	overall := (scores.CommunicationClarity + scores.Confidence + scores.Enthusiasm +
		scores.Professionalism + scores.Engagement) / 5

	return &entity.InterviewEvaluation{
		TextLength:   len(text),
		WordCount:    len(strings.Fields(text)),
		Scores:       scores,
		OverallScore: round2(overall),
		Sentiment: entity.SentimentSummary{
			Label:      vader.Label,
			Confidence: vader.Confidence,
		},
		Vader: vader,
	}, nil
}

// communicationClarity combines sentence length (optimum around 17.5 words),
// vocabulary diversity and language objectivity.
func communicationClarity(text string, vader entity.VaderScores) float64 {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return 0.5
	}

	totalWords := 0
	for _, s := range sentences {
		totalWords += len(strings.Fields(s))
	}
	avgLen := float64(totalWords) / float64(len(sentences))
	lengthScore := clamp01(1.0 - math.Abs(avgLen-17.5)/17.5)

	// The neutral proportion stands in for objectivity: flat, factual
	// language reads as clearer than emotionally loaded language.
	objectivity := vader.Neutral

	score := lengthScore*0.3 + vocabDiversity(text)*0.4 + objectivity*0.3
	return round2(score)
}

// confidence combines confidence keywords with sentiment positivity.
func confidence(text string, vader entity.VaderScores) float64 {
	keywordScore := keywordScore(text, confidenceKeywords)
	polarityScore := (vader.Compound + 1) / 2

	score := keywordScore*0.3 + polarityScore*0.7
	return round2(score)
}

// enthusiasm rewards enthusiasm keywords, positive polarity and the positive
// intensity proportion.
func enthusiasm(text string, vader entity.VaderScores) float64 {
	keywordScore := keywordScore(text, enthusiasmKeywords)
	positivity := math.Max(0, vader.Compound)

	score := keywordScore*0.3 + positivity*0.4 + vader.Positive*0.3
	return round2(score)
}

// professionalism rewards professional vocabulary, objective language and
// moderate (non-extreme) sentiment.
func professionalism(text string, vader entity.VaderScores) float64 {
	keywordScore := keywordScore(text, professionalKeywords)
	objectivity := vader.Neutral
	balance := 1.0 - math.Min(math.Abs(vader.Compound), 0.5)*2

	score := keywordScore*0.4 + objectivity*0.4 + balance*0.2
	return round2(score)
}

// engagement combines answer length (optimum 200+ words), sentiment strength
// and vocabulary diversity.
func engagement(text string, vader entity.VaderScores) float64 {
	wordCount := len(strings.Fields(text))
	lengthScore := math.Min(float64(wordCount)/200.0, 1.0)

	score := lengthScore*0.3 + vader.Confidence*0.4 + vocabDiversity(text)*0.3
	return round2(score)
}

func keywordScore(text string, keywords []string) float64 {
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return math.Min(float64(count)/5.0, 1.0)
}

func vocabDiversity(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(unique)) / float64(len(words))
}

func splitSentences(text string) []string {
	parts := sentenceRe.Split(text, -1)
	sentences := parts[:0]
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
