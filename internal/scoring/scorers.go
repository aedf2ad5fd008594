package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// ScoreSingleChoice grades MCQ and true/false style questions:
// all-or-nothing equality between the selected value and the single correct
// value.
func ScoreSingleChoice(given, expected string, maxScore float64) Result {
	if maxScore <= 0 {
		return zeroResult("Invalid max score")
	}
	if strings.TrimSpace(expected) == "" {
		return zeroResult("No correct answer defined")
	}
	if strings.TrimSpace(given) == "" {
		return zeroResult("No answer provided")
	}

	if answersMatch(given, expected) {
		return Result{Score: maxScore, Percentage: 100, Feedback: "Correct answer"}
	}
	return Result{Score: 0, Percentage: 0, Feedback: "Incorrect answer"}
}

// ScoreGapFill grades gap-filling with partial credit: gap i of the
// submission is compared against reference gap i, each gap worth an equal
// share of maxScore. Extra reference gaps count as unanswered.
func ScoreGapFill(given, expected []string, maxScore float64) Result {
	if maxScore <= 0 {
		return zeroResult("Invalid max score")
	}
	if expected == nil {
		return zeroResult("No correct answers provided")
	}
	totalGaps := len(expected)
	if totalGaps == 0 {
		return zeroResult("No gaps to fill")
	}
	if given == nil {
		return zeroResult("No user answers provided")
	}

	scorePerGap := maxScore / float64(totalGaps)
	correctCount := 0
	gaps := make(map[int]ItemResult, totalGaps)

	for i := 0; i < totalGaps; i++ {
		var userAnswer string
		if i < len(given) {
			userAnswer = given[i]
		}
		correct := answersMatch(userAnswer, expected[i])
		entry := ItemResult{Given: userAnswer, Expected: expected[i], Correct: correct}
		if correct {
			entry.Score = scorePerGap
			correctCount++
		}
		gaps[i] = entry
	}

	totalScore := float64(correctCount) * scorePerGap
	return Result{
		Score:      totalScore,
		Percentage: percentOf(totalScore, maxScore),
		Feedback:   fmt.Sprintf("%d/%d gaps filled correctly", correctCount, totalGaps),
		Gaps:       gaps,
	}
}

// ScoreMatching grades item-to-option matching with partial credit, keyed by
// item id.
func ScoreMatching(given, expected map[string]string, maxScore float64) Result {
	if maxScore <= 0 {
		return zeroResult("Invalid max score")
	}
	if len(expected) == 0 {
		return zeroResult("No items to match")
	}
	if given == nil {
		return zeroResult("No matches provided")
	}

	totalItems := len(expected)
	scorePerMatch := maxScore / float64(totalItems)
	correctCount := 0
	matches := make(map[string]ItemResult, totalItems)

	for itemID, correctMatch := range expected {
		userMatch := given[itemID]
		correct := answersMatch(userMatch, correctMatch)
		entry := ItemResult{Given: userMatch, Expected: correctMatch, Correct: correct}
		if correct {
			entry.Score = scorePerMatch
			correctCount++
		}
		matches[itemID] = entry
	}

	totalScore := float64(correctCount) * scorePerMatch
	return Result{
		Score:      totalScore,
		Percentage: percentOf(totalScore, maxScore),
		Feedback:   fmt.Sprintf("%d/%d items matched correctly", correctCount, totalItems),
		Matches:    matches,
	}
}

// ScoreStatementMatching grades per-statement verdict questions
// (True/False/Not Given), keyed by statement id.
func ScoreStatementMatching(given, expected map[string]string, maxScore float64) Result {
	if maxScore <= 0 {
		return zeroResult("Invalid max score")
	}
	if len(expected) == 0 {
		return zeroResult("No statements to evaluate")
	}
	if given == nil {
		return zeroResult("No answers provided")
	}

	totalStatements := len(expected)
	scorePerStatement := maxScore / float64(totalStatements)
	correctCount := 0
	statements := make(map[string]ItemResult, totalStatements)

	for statementID, correctAnswer := range expected {
		userAnswer := given[statementID]
		correct := answersMatch(userAnswer, correctAnswer)
		entry := ItemResult{Given: userAnswer, Expected: correctAnswer, Correct: correct}
		if correct {
			entry.Score = scorePerStatement
			correctCount++
		}
		statements[statementID] = entry
	}

	totalScore := float64(correctCount) * scorePerStatement
	return Result{
		Score:      totalScore,
		Percentage: percentOf(totalScore, maxScore),
		Feedback:   fmt.Sprintf("%d/%d statements answered correctly", correctCount, totalStatements),
		Statements: statements,
	}
}

// ScoreOrdering grades ordering questions: position i of the submission must
// carry the same declared position as reference slot i. Positions compare as
// integers; values that do not parse fall back to lenient text equality so
// id-based orderings still grade.
func ScoreOrdering(given, expected []string, maxScore float64) Result {
	if maxScore <= 0 {
		return zeroResult("Invalid max score")
	}
	if expected == nil {
		return zeroResult("No correct order provided")
	}
	totalItems := len(expected)
	if totalItems == 0 {
		return zeroResult("No items to order")
	}
	if given == nil {
		return zeroResult("No order provided")
	}

	scorePerPosition := maxScore / float64(totalItems)
	correctPositions := 0
	order := make(map[int]ItemResult, totalItems)

	for i := 0; i < totalItems && i < len(given); i++ {
		correct := positionsMatch(given[i], expected[i])
		entry := ItemResult{Given: given[i], Expected: expected[i], Correct: correct}
		if correct {
			entry.Score = scorePerPosition
			correctPositions++
		}
		order[i] = entry
	}

	totalScore := float64(correctPositions) * scorePerPosition
	return Result{
		Score:      totalScore,
		Percentage: percentOf(totalScore, maxScore),
		Feedback:   fmt.Sprintf("%d/%d items in correct position", correctPositions, totalItems),
		Order:      order,
	}
}

func positionsMatch(given, expected string) bool {
	g, gErr := strconv.Atoi(strings.TrimSpace(given))
	e, eErr := strconv.Atoi(strings.TrimSpace(expected))
	if gErr == nil && eErr == nil {
		return g == e
	}
	return answersMatch(given, expected)
}

// ScoreWriting grades writing responses without semantic analysis: a
// word-count adequacy score blended with a crude structure/vocabulary
// heuristic. Real quality assessment is delegated to the external AI grader;
// this keeps preview scores deterministic.
func ScoreWriting(text string, criteria WritingCriteria, maxScore float64) Result {
	if maxScore <= 0 {
		return zeroResult("Invalid max score")
	}
	if strings.TrimSpace(text) == "" {
		return zeroResult("No writing response provided")
	}

	minWords := criteria.MinWords
	maxWords := criteria.MaxWords
	if maxWords == 0 {
		maxWords = 1000
	}
	targetWords := criteria.TargetWords
	if targetWords == 0 {
		targetWords = 100
	}

	wordCount := countWords(text)

	var wordCountScore float64
	var lengthFeedback string
	switch {
	case wordCount < minWords:
		wordCountScore = float64(wordCount) / float64(minWords) * 0.5
		lengthFeedback = fmt.Sprintf("Too short (%d/%d minimum words)", wordCount, minWords)
	case wordCount > maxWords:
		wordCountScore = writingOverrunFactor
		lengthFeedback = fmt.Sprintf("Too long (%d/%d maximum words)", wordCount, maxWords)
	case float64(wordCount) <= float64(targetWords)*writingNearTargetBand:
		wordCountScore = 1.0
		lengthFeedback = fmt.Sprintf("Good length (%d words)", wordCount)
	default:
		wordCountScore = 0.9
		lengthFeedback = fmt.Sprintf("Acceptable length (%d words)", wordCount)
	}

	contentScore := writingContentBase
	if countSentences(text) >= 3 {
		contentScore += writingStructureBonus
	}
	if vocabularyRatio(text) > writingVocabThreshold {
		contentScore += writingVocabBonus
	}

	finalScore := (wordCountScore*writingLengthWeight + contentScore*writingContentWeight) * maxScore
	return Result{
		Score:          round2(finalScore),
		Percentage:     percentOf(finalScore, maxScore),
		Feedback:       fmt.Sprintf("%s. Content quality: %d%%", lengthFeedback, int(round2(contentScore)*100)),
		WordCount:      wordCount,
		WordCountScore: wordCountScore,
		ContentScore:   contentScore,
	}
}

func vocabularyRatio(text string) float64 {
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

// ScoreSpeaking grades speaking responses without audio analysis: fixed
// presence credits for the recording, transcript length and transcript
// structure, summed and capped at maxScore.
func ScoreSpeaking(audioURL, transcription string, maxScore float64) Result {
	if maxScore <= 0 {
		return zeroResult("Invalid max score")
	}
	if audioURL == "" && strings.TrimSpace(transcription) == "" {
		return zeroResult("No speaking response provided")
	}

	var score float64
	var feedback []string

	if audioURL != "" {
		score += maxScore * speakingAudioCredit
		feedback = append(feedback, "Audio response provided")
	}

	if strings.TrimSpace(transcription) != "" {
		wordCount := countWords(transcription)
		if wordCount >= speakingMinWords {
			score += maxScore * speakingLengthCredit
			feedback = append(feedback, fmt.Sprintf("Good content length (%d words)", wordCount))
		} else {
			score += maxScore * speakingShortLengthCredit
			feedback = append(feedback, fmt.Sprintf("Short response (%d words)", wordCount))
		}

		if countSentences(transcription) >= speakingMinSentences {
			score += maxScore * speakingStructureCredit
			feedback = append(feedback, "Good sentence structure")
		} else {
			score += maxScore * speakingBasicStructure
			feedback = append(feedback, "Basic sentence structure")
		}
	} else {
		score += maxScore * speakingNoTranscriptCredit
		feedback = append(feedback, "Audio provided but no transcription available")
	}

	if score > maxScore {
		score = maxScore
	}

	return Result{
		Score:            round2(score),
		Percentage:       percentOf(score, maxScore),
		Feedback:         strings.Join(feedback, ". "),
		HasAudio:         audioURL != "",
		HasTranscription: strings.TrimSpace(transcription) != "",
	}
}
