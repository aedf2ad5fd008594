package scoring

import (
	"sort"
	"strconv"
	"strings"
)

// ScoreQuestion routes a question and a learner's answer to the scorer for
// the question's type, extracting the reference answer from the question's
// options and items first. It never panics past this boundary: any failure
// while walking malformed question metadata degrades to a zero result so the
// caller always has something renderable.
func ScoreQuestion(q Question, a Answer, maxScore float64) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = zeroResult("Error occurred during scoring")
		}
	}()

	switch q.Type {
	case ListeningMCQ, ReadingMCQ:
		return ScoreSingleChoice(NormalizeScalar(a), correctOptionValue(q.Options), maxScore)

	case ListeningGapFill, ReadingGapFill:
		return ScoreGapFill(NormalizeList(a, nestGaps, nestGapAnswers), gapReferenceAnswers(q.Items), maxScore)

	case ListeningMatching, ReadingMatching:
		return ScoreMatching(NormalizeMap(a, nestMatches), sampleAnswersByItem(q.Items), maxScore)

	case ListeningStatementMatching:
		return ScoreStatementMatching(NormalizeMap(a, nestStatements), sampleAnswersByItem(q.Items), maxScore)

	case ReadingOrdering:
		return ScoreOrdering(NormalizeList(a, nestOrder, nestOrderedItems), orderingReference(q.Items), maxScore)

	case WritingForm, WritingLong, WritingEmail:
		return ScoreWriting(NormalizeWritingText(a), q.Writing, maxScore)

	case SpeakingIntro, SpeakingDescription, SpeakingComparison, SpeakingDiscussion:
		return ScoreSpeaking(a.AudioURL, a.TranscribedText, maxScore)

	default:
		return scoreUnknownType(a, maxScore)
	}
}

// scoreUnknownType is the fallback for type codes the engine does not map:
// half credit when any answer value is present, pending manual review.
func scoreUnknownType(a Answer, maxScore float64) Result {
	if maxScore <= 0 {
		return zeroResult("Invalid max score")
	}
	if !hasAnyAnswer(a) {
		return zeroResult("Manual scoring required for this question type")
	}
	return Result{
		Score:      maxScore * 0.5,
		Percentage: 50,
		Feedback:   "Manual scoring required for this question type",
	}
}

func hasAnyAnswer(a Answer) bool {
	return decodeAnswerValue(a) != nil || a.AudioURL != "" || strings.TrimSpace(a.TranscribedText) != ""
}

// correctOptionValue returns the comparable value of the option flagged
// correct: its text when set, its id otherwise.
func correctOptionValue(options []Option) string {
	for _, opt := range options {
		if opt.IsCorrect {
			if strings.TrimSpace(opt.Text) != "" {
				return opt.Text
			}
			return opt.ID
		}
	}
	return ""
}

// gapReferenceAnswers collects item answer texts in declaration order.
func gapReferenceAnswers(items []Item) []string {
	if items == nil {
		return nil
	}
	answers := make([]string, 0, len(items))
	for _, item := range sortedByOrder(items) {
		if item.AnswerText != "" {
			answers = append(answers, item.AnswerText)
		}
	}
	return answers
}

// sampleAnswersByItem keys each item's first sample answer by the item id.
func sampleAnswersByItem(items []Item) map[string]string {
	if items == nil {
		return nil
	}
	answers := make(map[string]string, len(items))
	for _, item := range items {
		if len(item.SampleAnswers) > 0 {
			answers[item.ID] = item.SampleAnswers[0]
		}
	}
	return answers
}

// orderingReference extracts each item's expected position, sorted by the
// item's declared order. An answer text that is not an integer falls back to
// the item id, which covers id-sequence orderings.
func orderingReference(items []Item) []string {
	if items == nil {
		return nil
	}
	order := make([]string, 0, len(items))
	for _, item := range sortedByOrder(items) {
		if _, err := strconv.Atoi(strings.TrimSpace(item.AnswerText)); err == nil {
			order = append(order, strings.TrimSpace(item.AnswerText))
		} else {
			order = append(order, item.ID)
		}
	}
	return order
}

func sortedByOrder(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
