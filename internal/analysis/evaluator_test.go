package analysis

import (
	"testing"

	"github.com/hireview/hireview-analysis-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateEmptyText(t *testing.T) {
	e := NewEvaluator()

	_, err := e.Evaluate("")
	assert.Error(t, err)

	_, err = e.Evaluate("   \n\t  ")
	assert.Error(t, err)
}

func TestEvaluateScoresInRange(t *testing.T) {
	e := NewEvaluator()

	eval, err := e.Evaluate("I am confident in my experience. I love working with a team and I take responsibility seriously. We achieved great results together.")
	require.NoError(t, err)

	for name, score := range map[string]float64{
		"communication_clarity": eval.Scores.CommunicationClarity,
		"confidence":            eval.Scores.Confidence,
		"enthusiasm":            eval.Scores.Enthusiasm,
		"professionalism":       eval.Scores.Professionalism,
		"engagement":            eval.Scores.Engagement,
		"overall":               eval.OverallScore,
	} {
		assert.GreaterOrEqual(t, score, 0.0, name)
		assert.LessOrEqual(t, score, 1.0, name)
	}

	assert.Equal(t, 22, eval.WordCount)
}

func TestKeywordScore(t *testing.T) {
	// Counts keyword groups hit, capped at 5 for a full score.
	assert.Equal(t, 0.0, keywordScore("nothing relevant here", confidenceKeywords))
	assert.Equal(t, 0.2, keywordScore("I am confident", confidenceKeywords))
	assert.Equal(t, 1.0, keywordScore(
		"confident certain believe know sure definitely", confidenceKeywords))
}

func TestEnthusiasticTextOutscoresFlatText(t *testing.T) {
	e := NewEvaluator()

	enthusiastic, err := e.Evaluate("I am so excited and passionate about this role. I love building amazing products and it is fantastic to collaborate with wonderful people.")
	require.NoError(t, err)

	flat, err := e.Evaluate("I worked at the company for three years. I wrote reports. The reports were filed monthly.")
	require.NoError(t, err)

	assert.Greater(t, enthusiastic.Scores.Enthusiasm, flat.Scores.Enthusiasm)
	assert.Equal(t, "positive", enthusiastic.Sentiment.Label)
}

func TestProfessionalKeywordsLiftProfessionalism(t *testing.T) {
	e := NewEvaluator()

	pro, err := e.Evaluate("I value professional integrity, leadership and team collaboration. Responsibility and ethics guide my decisions.")
	require.NoError(t, err)

	casual, err := e.Evaluate("Yeah it was fine I guess, we did some stuff and then went home.")
	require.NoError(t, err)

	assert.Greater(t, pro.Scores.Professionalism, casual.Scores.Professionalism)
}

func TestVocabDiversity(t *testing.T) {
	assert.Equal(t, 1.0, vocabDiversity("each word appears once"))
	assert.Equal(t, 0.5, vocabDiversity("same same word word"))
	assert.Equal(t, 0.0, vocabDiversity(""))
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("First one. Second one! Third?  ")
	require.Len(t, sentences, 3)
	assert.Equal(t, "First one", sentences[0])
}

func TestEvaluationShape(t *testing.T) {
	e := NewEvaluator()

	eval, err := e.Evaluate("I definitely believe my expertise makes a difference. The team achieved excellent outcomes.")
	require.NoError(t, err)

	var zero entity.InterviewScores
	assert.NotEqual(t, zero, eval.Scores)
	assert.NotZero(t, eval.TextLength)
	assert.NotEmpty(t, eval.Vader.Label)
}
