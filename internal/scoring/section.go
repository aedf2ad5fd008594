package scoring

// SectionScore reduces already-scored questions into one section-level
// result, rescaled to sectionMax. A question's max score defaults to 1 when
// unset; a non-positive sectionMax falls back to DefaultSectionMax.
func SectionScore(questionScores []QuestionScore, sectionMax float64) SectionResult {
	if len(questionScores) == 0 {
		return SectionResult{}
	}
	if sectionMax <= 0 {
		sectionMax = DefaultSectionMax
	}

	var totalScore, totalMaxScore float64
	correctAnswers := 0
	for _, qs := range questionScores {
		totalScore += qs.Score
		if qs.MaxScore > 0 {
			totalMaxScore += qs.MaxScore
		} else {
			totalMaxScore += 1
		}
		if qs.Percentage >= CorrectThresholdPercent {
			correctAnswers++
		}
	}

	var normalizedScore float64
	if totalMaxScore > 0 {
		normalizedScore = totalScore / totalMaxScore * sectionMax
	}

	return SectionResult{
		Score:          round2(normalizedScore),
		Percentage:     percentOf(normalizedScore, sectionMax),
		TotalQuestions: len(questionScores),
		CorrectAnswers: correctAnswers,
	}
}
