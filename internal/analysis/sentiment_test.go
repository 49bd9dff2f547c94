package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "hello world", CleanText("  hello \n\t world  "))
	assert.Equal(t, "", CleanText("   "))
}

func TestAnalyzePositiveText(t *testing.T) {
	a := NewSentimentAnalyzer()
	scores := a.Analyze("I love this amazing wonderful opportunity, it is fantastic and great.")

	assert.Equal(t, "positive", scores.Label)
	assert.Greater(t, scores.Compound, 0.05)
	assert.InDelta(t, scores.Compound, scores.Confidence, 1e-9)
}

func TestAnalyzeNegativeText(t *testing.T) {
	a := NewSentimentAnalyzer()
	scores := a.Analyze("This was a terrible, horrible, awful experience and I hated it.")

	assert.Equal(t, "negative", scores.Label)
	assert.Less(t, scores.Compound, -0.05)
}

func TestAnalyzeNeutralText(t *testing.T) {
	a := NewSentimentAnalyzer()
	scores := a.Analyze("The meeting is scheduled for Tuesday at nine.")

	assert.Equal(t, "neutral", scores.Label)
	assert.GreaterOrEqual(t, scores.Neutral, scores.Positive)
}
