package quiz

import (
	"math_quiz_backend/internal/model"
)

// Ratio2 returns num/den rounded half up at the hundredths digit. It works
// in integers so exact ties such as 14.375 round up. Zero when den <= 0.
func Ratio2(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	if num < 0 {
		return -Ratio2(-num, den)
	}
	hundredths := (num*200 + den) / (2 * den)
	return float64(hundredths) / 100
}

// Percent returns part/whole*100 rounded to two decimals, or 0 when whole
// is not positive.
func Percent(part, whole int) float64 {
	return Ratio2(part*100, whole)
}

// Score grades answers against the presented questions.
//
// An answer is correct only on an exact, case-sensitive match with the
// stored key; "0.5" and "1/2" are different answers. Missing answers count
// as wrong. Answers for ids outside questions are dropped and counted in
// Result.Ignored. Score does not touch its inputs and has no side effects.
func Score(questions []model.Question, answers map[string]string, timeTaken int) model.QuizResult {
	res := model.QuizResult{
		TotalQuestions: len(questions),
		TimeTaken:      max(timeTaken, 0),
		Details:        make([]model.AnswerDetail, 0, len(questions)),
	}

	presented := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		presented[q.ID] = struct{}{}

		userAnswer, answered := answers[q.ID]
		correct := answered && userAnswer == q.CorrectAnswer
		earned := 0
		if correct {
			earned = q.Marks
			res.CorrectAnswers++
		}
		res.TotalMarks += q.Marks
		res.EarnedMarks += earned

		res.Details = append(res.Details, model.AnswerDetail{
			QuestionID:    q.ID,
			Question:      q.Text,
			Chapter:       q.Chapter,
			Difficulty:    q.Difficulty,
			UserAnswer:    userAnswer,
			Answered:      answered,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     correct,
			Explanation:   q.Explanation,
			Marks:         q.Marks,
			EarnedMarks:   earned,
		})
	}

	for id := range answers {
		if _, ok := presented[id]; !ok {
			res.Ignored++
		}
	}

	res.Score = res.CorrectAnswers
	res.Accuracy = Percent(res.EarnedMarks, res.TotalMarks)
	return res
}
