package services

import (
	"strings"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/models"
)

// Lexicon sentiment scoring: sum the valence of known words, positive total
// means positive, negative total negative, zero neutral. The vocabulary is a
// trimmed AFINN-style list covering the language respondents actually use in
// product feedback.

var sentimentLexicon = map[string]int{
	"amazing": 4, "awesome": 4, "excellent": 3, "fantastic": 4, "outstanding": 5,
	"perfect": 3, "love": 3, "loved": 3, "loves": 3, "great": 3, "wonderful": 4,
	"good": 3, "nice": 3, "helpful": 2, "useful": 2, "easy": 1, "fast": 1,
	"intuitive": 2, "reliable": 2, "smooth": 2, "happy": 3, "satisfied": 2,
	"recommend": 2, "impressed": 3, "enjoy": 2, "enjoyed": 2, "clear": 1,
	"responsive": 2, "friendly": 2, "best": 3, "better": 2, "improved": 2,
	"thanks": 2, "thank": 2, "works": 1, "simple": 1, "clean": 2,

	"awful": -3, "terrible": -3, "horrible": -3, "bad": -3, "worst": -3,
	"hate": -3, "hated": -3, "poor": -2, "broken": -2, "bug": -2, "bugs": -2,
	"buggy": -3, "slow": -2, "confusing": -2, "difficult": -1, "hard": -1,
	"crash": -2, "crashes": -2, "crashed": -2, "error": -2, "errors": -2,
	"fail": -2, "fails": -2, "failed": -2, "failure": -2, "frustrating": -2,
	"frustrated": -2, "annoying": -2, "annoyed": -2, "useless": -2,
	"disappointed": -2, "disappointing": -2, "expensive": -1, "laggy": -2,
	"unreliable": -2, "unusable": -3, "problem": -2, "problems": -2,
	"issue": -1, "issues": -1, "missing": -1, "wrong": -2, "stuck": -2,
}

// AnalyzeSentiment classifies free text into one of the three labels.
// Deterministic: identical text always yields the same label.
func AnalyzeSentiment(text string) (score int, label models.Sentiment) {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:'\"()[]")
		score += sentimentLexicon[word]
	}
	switch {
	case score > 0:
		return score, models.SentimentPositive
	case score < 0:
		return score, models.SentimentNegative
	default:
		return 0, models.SentimentNeutral
	}
}
