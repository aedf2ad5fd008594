package scoring

import (
	"math"
	"strings"
)

type QuestionType string

const (
	ListeningMCQ               QuestionType = "LISTENING_MCQ"
	ReadingMCQ                 QuestionType = "READING_MCQ"
	ListeningGapFill           QuestionType = "LISTENING_GAP_FILL"
	ReadingGapFill             QuestionType = "READING_GAP_FILL"
	ListeningMatching          QuestionType = "LISTENING_MATCHING"
	ReadingMatching            QuestionType = "READING_MATCHING"
	ListeningStatementMatching QuestionType = "LISTENING_STATEMENT_MATCHING"
	ReadingOrdering            QuestionType = "READING_ORDERING"
	WritingForm                QuestionType = "WRITING_FORM"
	WritingLong                QuestionType = "WRITING_LONG"
	WritingEmail               QuestionType = "WRITING_EMAIL"
	SpeakingIntro              QuestionType = "SPEAKING_INTRO"
	SpeakingDescription        QuestionType = "SPEAKING_DESCRIPTION"
	SpeakingComparison         QuestionType = "SPEAKING_COMPARISON"
	SpeakingDiscussion         QuestionType = "SPEAKING_DISCUSSION"
)

// AllQuestionTypes returns every question type code the engine can grade.
func AllQuestionTypes() []QuestionType {
	return []QuestionType{
		ListeningMCQ,
		ReadingMCQ,
		ListeningGapFill,
		ReadingGapFill,
		ListeningMatching,
		ReadingMatching,
		ListeningStatementMatching,
		ReadingOrdering,
		WritingForm,
		WritingLong,
		WritingEmail,
		SpeakingIntro,
		SpeakingDescription,
		SpeakingComparison,
		SpeakingDiscussion,
	}
}

// CorrectThresholdPercent is the per-question percentage at or above which a
// question counts as "correct" in section summaries.
const CorrectThresholdPercent = 80

// DefaultSectionMax is the section maximum used when the caller does not
// supply a positive one.
const DefaultSectionMax = 100

// Writing score blend weights and bonuses.
const (
	writingLengthWeight   = 0.3
	writingContentWeight  = 0.7
	writingContentBase    = 0.7
	writingStructureBonus = 0.1
	writingVocabBonus     = 0.1
	writingVocabThreshold = 0.6
	writingOverrunFactor  = 0.8
	writingNearTargetBand = 1.2
)

// Speaking presence-credit fractions.
const (
	speakingAudioCredit        = 0.3
	speakingLengthCredit       = 0.4
	speakingShortLengthCredit  = 0.2
	speakingStructureCredit    = 0.3
	speakingBasicStructure     = 0.1
	speakingNoTranscriptCredit = 0.2
	speakingMinWords           = 10
	speakingMinSentences       = 2
)

// Question is the engine's view of a question: its type code, the metadata
// the reference answer is extracted from, and writing length criteria.
type Question struct {
	Type    QuestionType
	Options []Option
	Items   []Item
	Writing WritingCriteria
}

type Option struct {
	ID        string
	Text      string
	IsCorrect bool
}

// Item carries one sub-part of a multi-part question. AnswerText holds the
// expected gap text or the encoded expected ordering position; SampleAnswers
// hold reference values keyed to the item for matching-style types.
type Item struct {
	ID            string
	Text          string
	Order         int
	AnswerText    string
	SampleAnswers []string
}

type WritingCriteria struct {
	MinWords    int
	MaxWords    int
	TargetWords int
}

// Answer is a learner's stored submission for one question. AnswerJSON, when
// present, is the raw structured payload; TextAnswer is the plain-text form.
type Answer struct {
	AnswerJSON      []byte
	TextAnswer      string
	AudioURL        string
	TranscribedText string
}

// ItemResult is the per-sub-part breakdown entry shared by the partial-credit
// scorers.
type ItemResult struct {
	Given    string  `json:"given"`
	Expected string  `json:"expected"`
	Correct  bool    `json:"correct"`
	Score    float64 `json:"score"`
}

// Result is the engine's sole output type.
type Result struct {
	Score      float64 `json:"score"`
	Percentage int     `json:"percentage"`
	Feedback   string  `json:"feedback"`

	// Type-specific breakdowns, populated only by the scorer that owns them.
	Gaps       map[int]ItemResult    `json:"gap_results,omitempty"`
	Matches    map[string]ItemResult `json:"match_results,omitempty"`
	Statements map[string]ItemResult `json:"statement_results,omitempty"`
	Order      map[int]ItemResult    `json:"order_results,omitempty"`

	WordCount        int     `json:"word_count,omitempty"`
	WordCountScore   float64 `json:"word_count_score,omitempty"`
	ContentScore     float64 `json:"content_score,omitempty"`
	HasAudio         bool    `json:"has_audio,omitempty"`
	HasTranscription bool    `json:"has_transcription,omitempty"`
}

// QuestionScore is one already-scored question as seen by the section
// aggregator.
type QuestionScore struct {
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Percentage int     `json:"percentage"`
}

// SectionResult summarizes a group of scored questions.
type SectionResult struct {
	Score          float64 `json:"score"`
	Percentage     int     `json:"percentage"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
}

// NormalizeAnswerText applies the platform's deliberate leniency policy:
// answers compare case-insensitively with surrounding whitespace ignored.
func NormalizeAnswerText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// answersMatch reports whether two answer texts are equal under the leniency
// policy. Empty values never match: an unanswered part is always wrong.
func answersMatch(given, expected string) bool {
	g, e := NormalizeAnswerText(given), NormalizeAnswerText(expected)
	return g != "" && e != "" && g == e
}

func percentOf(score, maxScore float64) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(score / maxScore * 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func zeroResult(feedback string) Result {
	return Result{Score: 0, Percentage: 0, Feedback: feedback}
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

// countSentences counts sentence-like segments terminated by '.', '!' or '?'.
func countSentences(s string) int {
	n := 0
	for _, seg := range strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}
