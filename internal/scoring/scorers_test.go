package scoring

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreSingleChoice(t *testing.T) {
	tests := []struct {
		name         string
		given        string
		expected     string
		maxScore     float64
		wantScore    float64
		wantPercent  int
		wantFeedback string
	}{
		{
			name:         "exact match",
			given:        "Paris",
			expected:     "Paris",
			maxScore:     2,
			wantScore:    2,
			wantPercent:  100,
			wantFeedback: "Correct answer",
		},
		{
			name:         "case and whitespace lenient",
			given:        "  PARIS ",
			expected:     "paris",
			maxScore:     1,
			wantScore:    1,
			wantPercent:  100,
			wantFeedback: "Correct answer",
		},
		{
			name:         "wrong answer",
			given:        "London",
			expected:     "Paris",
			maxScore:     1,
			wantScore:    0,
			wantPercent:  0,
			wantFeedback: "Incorrect answer",
		},
		{
			name:         "no answer",
			given:        "   ",
			expected:     "Paris",
			maxScore:     1,
			wantScore:    0,
			wantPercent:  0,
			wantFeedback: "No answer provided",
		},
		{
			name:         "no reference answer",
			given:        "Paris",
			expected:     "",
			maxScore:     1,
			wantScore:    0,
			wantPercent:  0,
			wantFeedback: "No correct answer defined",
		},
		{
			name:         "invalid max score",
			given:        "Paris",
			expected:     "Paris",
			maxScore:     0,
			wantScore:    0,
			wantPercent:  0,
			wantFeedback: "Invalid max score",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreSingleChoice(tt.given, tt.expected, tt.maxScore)
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, tt.wantPercent, result.Percentage)
			assert.Equal(t, tt.wantFeedback, result.Feedback)
		})
	}
}

func TestScoreGapFill(t *testing.T) {
	t.Run("partial credit with breakdown", func(t *testing.T) {
		given := []string{"cat", "DOG ", "fish", "bird"}
		expected := []string{"cat", "dog", "horse", "bird"}

		result := ScoreGapFill(given, expected, 5)

		assert.Equal(t, 3.75, result.Score)
		assert.Equal(t, 75, result.Percentage)
		assert.Equal(t, "3/4 gaps filled correctly", result.Feedback)

		assert.Len(t, result.Gaps, 4)
		assert.True(t, result.Gaps[0].Correct)
		assert.True(t, result.Gaps[1].Correct)
		assert.False(t, result.Gaps[2].Correct)
		assert.True(t, result.Gaps[3].Correct)
		assert.Equal(t, 1.25, result.Gaps[0].Score)
		assert.Equal(t, "fish", result.Gaps[2].Given)
		assert.Equal(t, "horse", result.Gaps[2].Expected)
	})

	t.Run("three of five gaps", func(t *testing.T) {
		given := []string{"well", "only", "wrong", "under", "wrong"}
		expected := []string{"well", "only", "really", "under", "much"}

		result := ScoreGapFill(given, expected, 1)

		assert.InDelta(t, 0.6, result.Score, 1e-9)
		assert.Equal(t, 60, result.Percentage)
		assert.Equal(t, "3/5 gaps filled correctly", result.Feedback)
	})

	t.Run("fewer answers than gaps", func(t *testing.T) {
		result := ScoreGapFill([]string{"cat"}, []string{"cat", "dog"}, 2)

		assert.Equal(t, 1.0, result.Score)
		assert.Equal(t, 50, result.Percentage)
		assert.Equal(t, "1/2 gaps filled correctly", result.Feedback)
		assert.False(t, result.Gaps[1].Correct)
		assert.Equal(t, "", result.Gaps[1].Given)
	})

	t.Run("all wrong still reports breakdown", func(t *testing.T) {
		result := ScoreGapFill([]string{"x", "y"}, []string{"cat", "dog"}, 2)

		assert.Equal(t, 0.0, result.Score)
		assert.Equal(t, 0, result.Percentage)
		assert.Equal(t, "0/2 gaps filled correctly", result.Feedback)
	})

	t.Run("nil user answers", func(t *testing.T) {
		result := ScoreGapFill(nil, []string{"cat"}, 1)
		assert.Equal(t, "No user answers provided", result.Feedback)
		assert.Equal(t, 0.0, result.Score)
	})

	t.Run("nil reference answers", func(t *testing.T) {
		result := ScoreGapFill([]string{"cat"}, nil, 1)
		assert.Equal(t, "No correct answers provided", result.Feedback)
	})

	t.Run("empty reference answers", func(t *testing.T) {
		result := ScoreGapFill([]string{"cat"}, []string{}, 1)
		assert.Equal(t, "No gaps to fill", result.Feedback)
	})

	t.Run("invalid max score", func(t *testing.T) {
		result := ScoreGapFill([]string{"cat"}, []string{"cat"}, -1)
		assert.Equal(t, "Invalid max score", result.Feedback)
	})
}

func TestScoreMatching(t *testing.T) {
	t.Run("partial credit keyed by item", func(t *testing.T) {
		given := map[string]string{"1": "apple", "2": "carrot", "3": "banana"}
		expected := map[string]string{"1": "apple", "2": "banana", "3": "banana"}

		result := ScoreMatching(given, expected, 3)

		assert.Equal(t, 2.0, result.Score)
		assert.Equal(t, 67, result.Percentage)
		assert.Equal(t, "2/3 items matched correctly", result.Feedback)
		assert.True(t, result.Matches["1"].Correct)
		assert.False(t, result.Matches["2"].Correct)
		assert.True(t, result.Matches["3"].Correct)
	})

	t.Run("empty submission map scores zero", func(t *testing.T) {
		expected := map[string]string{
			"1": "a", "2": "b", "3": "c", "4": "d", "5": "e", "6": "f",
		}
		result := ScoreMatching(map[string]string{}, expected, 6)

		assert.Equal(t, 0.0, result.Score)
		assert.Equal(t, 0, result.Percentage)
		assert.Equal(t, "0/6 items matched correctly", result.Feedback)
	})

	t.Run("nil submission", func(t *testing.T) {
		result := ScoreMatching(nil, map[string]string{"1": "a"}, 1)
		assert.Equal(t, "No matches provided", result.Feedback)
	})

	t.Run("no reference items", func(t *testing.T) {
		result := ScoreMatching(map[string]string{"1": "a"}, nil, 1)
		assert.Equal(t, "No items to match", result.Feedback)
	})
}

func TestScoreStatementMatching(t *testing.T) {
	t.Run("per statement verdicts", func(t *testing.T) {
		given := map[string]string{"1": "true", "2": "False", "3": "not given"}
		expected := map[string]string{"1": "True", "2": "True", "3": "Not Given"}

		result := ScoreStatementMatching(given, expected, 3)

		assert.Equal(t, 2.0, result.Score)
		assert.Equal(t, 67, result.Percentage)
		assert.Equal(t, "2/3 statements answered correctly", result.Feedback)
		assert.True(t, result.Statements["1"].Correct)
		assert.False(t, result.Statements["2"].Correct)
		assert.True(t, result.Statements["3"].Correct)
	})

	t.Run("percentage rounds to nearest", func(t *testing.T) {
		given := map[string]string{
			"1": "True", "2": "True", "3": "False", "4": "Not Given",
			"5": "True", "6": "False", "7": "False",
		}
		expected := map[string]string{
			"1": "True", "2": "True", "3": "False", "4": "Not Given",
			"5": "True", "6": "True", "7": "Not Given",
		}

		result := ScoreStatementMatching(given, expected, 1)

		// 5 of 7 correct
		assert.Equal(t, 71, result.Percentage)
		assert.Equal(t, "5/7 statements answered correctly", result.Feedback)
	})

	t.Run("nil submission", func(t *testing.T) {
		result := ScoreStatementMatching(nil, map[string]string{"1": "True"}, 1)
		assert.Equal(t, "No answers provided", result.Feedback)
	})

	t.Run("no reference statements", func(t *testing.T) {
		result := ScoreStatementMatching(map[string]string{"1": "True"}, map[string]string{}, 1)
		assert.Equal(t, "No statements to evaluate", result.Feedback)
	})
}

func TestScoreOrdering(t *testing.T) {
	t.Run("position based partial credit", func(t *testing.T) {
		given := []string{"1", "3", "2", "4"}
		expected := []string{"1", "2", "3", "4"}

		result := ScoreOrdering(given, expected, 4)

		assert.Equal(t, 2.0, result.Score)
		assert.Equal(t, 50, result.Percentage)
		assert.Equal(t, "2/4 items in correct position", result.Feedback)
		assert.True(t, result.Order[0].Correct)
		assert.False(t, result.Order[1].Correct)
		assert.False(t, result.Order[2].Correct)
		assert.True(t, result.Order[3].Correct)
	})

	t.Run("positions compare as integers", func(t *testing.T) {
		result := ScoreOrdering([]string{" 1", "02"}, []string{"01", "2"}, 2)

		assert.Equal(t, 2.0, result.Score)
		assert.Equal(t, 100, result.Percentage)
	})

	t.Run("non numeric values fall back to text equality", func(t *testing.T) {
		result := ScoreOrdering([]string{"intro", "Body"}, []string{"Intro", "conclusion"}, 2)

		assert.Equal(t, 1.0, result.Score)
		assert.Equal(t, "1/2 items in correct position", result.Feedback)
	})

	t.Run("shorter submission leaves tail unscored", func(t *testing.T) {
		result := ScoreOrdering([]string{"1"}, []string{"1", "2", "3"}, 3)

		assert.Equal(t, 1.0, result.Score)
		assert.Equal(t, 33, result.Percentage)
		assert.Equal(t, "1/3 items in correct position", result.Feedback)
		assert.Len(t, result.Order, 1)
	})

	t.Run("nil submission", func(t *testing.T) {
		result := ScoreOrdering(nil, []string{"1"}, 1)
		assert.Equal(t, "No order provided", result.Feedback)
	})

	t.Run("no reference order", func(t *testing.T) {
		result := ScoreOrdering([]string{"1"}, nil, 1)
		assert.Equal(t, "No correct order provided", result.Feedback)
	})
}

// words returns n distinct lowercase words without sentence terminators.
func words(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("word%d", i)
	}
	return strings.Join(out, " ")
}

// repeatedWords returns n words drawn from a pool of 10, keeping the unique
// ratio low.
func repeatedWords(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("word%d", i%10)
	}
	return strings.Join(out, " ")
}

func TestScoreWriting(t *testing.T) {
	t.Run("too short blends length and content", func(t *testing.T) {
		// 30 words against a 45 word minimum: length 30/45*0.5, content base
		// 0.7, final (0.333*0.3 + 0.7*0.7) = 0.59.
		text := repeatedWords(30)
		result := ScoreWriting(text, WritingCriteria{MinWords: 45}, 1)

		assert.Equal(t, 0.59, result.Score)
		assert.Equal(t, 59, result.Percentage)
		assert.Equal(t, "Too short (30/45 minimum words). Content quality: 70%", result.Feedback)
		assert.Equal(t, 30, result.WordCount)
		assert.InDelta(t, 0.333, result.WordCountScore, 0.001)
		assert.InDelta(t, 0.7, result.ContentScore, 0.0001)
	})

	t.Run("good length with structure and vocabulary bonuses", func(t *testing.T) {
		// 90 distinct words split into 9 sentences: length score 1.0, content
		// 0.7 + 0.1 + 0.1.
		var sb strings.Builder
		for i := 0; i < 90; i++ {
			if i%10 == 9 {
				sb.WriteString(fmt.Sprintf("word%d. ", i))
			} else {
				sb.WriteString(fmt.Sprintf("word%d ", i))
			}
		}
		result := ScoreWriting(sb.String(), WritingCriteria{MinWords: 45, TargetWords: 100}, 1)

		assert.Equal(t, 0.93, result.Score)
		assert.Equal(t, 93, result.Percentage)
		assert.Equal(t, 90, result.WordCount)
		assert.Equal(t, 1.0, result.WordCountScore)
		assert.Contains(t, result.Feedback, "Good length (90 words)")
		assert.Contains(t, result.Feedback, "Content quality: 90%")
	})

	t.Run("over maximum caps the length score", func(t *testing.T) {
		text := repeatedWords(25)
		result := ScoreWriting(text, WritingCriteria{MaxWords: 20}, 1)

		assert.Equal(t, 0.8, result.WordCountScore)
		assert.Equal(t, 0.73, result.Score)
		assert.Contains(t, result.Feedback, "Too long (25/20 maximum words)")
	})

	t.Run("beyond the near target band", func(t *testing.T) {
		// Default target 100, band 120: 150 words is acceptable, not good.
		text := repeatedWords(150)
		result := ScoreWriting(text, WritingCriteria{}, 1)

		assert.Equal(t, 0.9, result.WordCountScore)
		assert.Contains(t, result.Feedback, "Acceptable length (150 words)")
	})

	t.Run("scales with max score", func(t *testing.T) {
		text := repeatedWords(30)
		result := ScoreWriting(text, WritingCriteria{MinWords: 45}, 10)

		assert.Equal(t, 5.9, result.Score)
		assert.Equal(t, 59, result.Percentage)
	})

	t.Run("empty response", func(t *testing.T) {
		result := ScoreWriting("   ", WritingCriteria{}, 1)
		assert.Equal(t, "No writing response provided", result.Feedback)
		assert.Equal(t, 0.0, result.Score)
	})

	t.Run("invalid max score", func(t *testing.T) {
		result := ScoreWriting("hello", WritingCriteria{}, 0)
		assert.Equal(t, "Invalid max score", result.Feedback)
	})
}

func TestScoreSpeaking(t *testing.T) {
	t.Run("audio with adequate transcript", func(t *testing.T) {
		transcript := words(12)
		result := ScoreSpeaking("https://cdn.example.com/rec.mp3", transcript, 1)

		// 0.3 audio + 0.4 length + 0.1 basic structure
		assert.Equal(t, 0.8, result.Score)
		assert.Equal(t, 80, result.Percentage)
		assert.True(t, result.HasAudio)
		assert.True(t, result.HasTranscription)
		assert.Contains(t, result.Feedback, "Audio response provided")
		assert.Contains(t, result.Feedback, "Good content length (12 words)")
		assert.Contains(t, result.Feedback, "Basic sentence structure")
	})

	t.Run("full credits reach max score", func(t *testing.T) {
		transcript := "I enjoy reading in the evening. My favourite books are historical novels. They teach me a lot."
		result := ScoreSpeaking("https://cdn.example.com/rec.mp3", transcript, 2)

		// 0.3 + 0.4 + 0.3 of max
		assert.Equal(t, 2.0, result.Score)
		assert.Equal(t, 100, result.Percentage)
		assert.Contains(t, result.Feedback, "Good sentence structure")
	})

	t.Run("audio without transcription", func(t *testing.T) {
		result := ScoreSpeaking("https://cdn.example.com/rec.mp3", "", 1)

		// 0.3 audio + 0.2 no transcript credit
		assert.Equal(t, 0.5, result.Score)
		assert.Equal(t, 50, result.Percentage)
		assert.True(t, result.HasAudio)
		assert.False(t, result.HasTranscription)
		assert.Contains(t, result.Feedback, "Audio provided but no transcription available")
	})

	t.Run("short transcript without audio", func(t *testing.T) {
		result := ScoreSpeaking("", "Hi there. I am good.", 1)

		// 0.2 short length + 0.3 structure
		assert.Equal(t, 0.5, result.Score)
		assert.False(t, result.HasAudio)
		assert.Contains(t, result.Feedback, "Short response (5 words)")
	})

	t.Run("no response at all", func(t *testing.T) {
		result := ScoreSpeaking("", "  ", 1)
		assert.Equal(t, "No speaking response provided", result.Feedback)
		assert.Equal(t, 0.0, result.Score)
	})

	t.Run("invalid max score", func(t *testing.T) {
		result := ScoreSpeaking("url", "text", -2)
		assert.Equal(t, "Invalid max score", result.Feedback)
	})
}
