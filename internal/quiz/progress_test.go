package quiz

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"math_quiz_backend/internal/model"
)

var fixedNow = time.Date(2025, time.March, 14, 18, 30, 0, 0, time.UTC)

func TestApplyResultFromEmpty(t *testing.T) {
	p := ApplyResult(model.UserProgress{}, model.QuizResult{TotalQuestions: 5, CorrectAnswers: 4, TimeTaken: 250}, fixedNow)

	assert.Equal(t, 1, p.TotalQuizzesTaken)
	assert.Equal(t, 5, p.TotalQuestionsAttempted)
	assert.Equal(t, 4, p.TotalCorrectAnswers)
	assert.Equal(t, 80.00, p.Accuracy)
	assert.Equal(t, 250, p.TotalTimeTaken)
	assert.Equal(t, 50.0, p.AverageTimePerQuestion)
	assert.Equal(t, fixedNow, p.LastActivity)
}

func TestApplyResultAveragesOverAllHistory(t *testing.T) {
	p := model.UserProgress{}
	p = ApplyResult(p, model.QuizResult{TotalQuestions: 10, CorrectAnswers: 5, TimeTaken: 100}, fixedNow)
	p = ApplyResult(p, model.QuizResult{TotalQuestions: 2, CorrectAnswers: 2, TimeTaken: 200}, fixedNow)

	// Averaging the two per-quiz means (10s and 100s) would give 55s.
	assert.Equal(t, 25.0, p.AverageTimePerQuestion)
	assert.Equal(t, 58.33, p.Accuracy)
	assert.Equal(t, 2, p.TotalQuizzesTaken)
}

func TestApplyResultKeepsIdentity(t *testing.T) {
	start := model.UserProgress{BaseModel: model.BaseModel{ID: 9}, UserID: 3, StrongTopics: []string{"Limits"}}
	p := ApplyResult(start, model.QuizResult{TotalQuestions: 1, CorrectAnswers: 1}, fixedNow)
	assert.Equal(t, uint(9), p.ID)
	assert.Equal(t, uint(3), p.UserID)
	assert.Equal(t, []string{"Limits"}, p.StrongTopics)
	assert.Equal(t, 0, start.TotalQuizzesTaken)
}

func TestApplyResultZeroQuestions(t *testing.T) {
	p := ApplyResult(model.UserProgress{}, model.QuizResult{}, fixedNow)
	assert.Equal(t, 1, p.TotalQuizzesTaken)
	assert.Equal(t, 0.0, p.Accuracy)
	assert.Equal(t, 0.0, p.AverageTimePerQuestion)
}

func TestApplyResultMalformedFallsBackToZero(t *testing.T) {
	bad := model.UserProgress{TotalCorrectAnswers: 7}
	assert.True(t, bad.Malformed())

	p := ApplyResult(bad, model.QuizResult{TotalQuestions: 2, CorrectAnswers: 0}, fixedNow)
	assert.True(t, p.Malformed())
	assert.Equal(t, 0.0, p.Accuracy)
}

func TestAccuracyInvariantAfterRandomSequence(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	p := model.UserProgress{}
	for i := 0; i < 200; i++ {
		total := rnd.Intn(15)
		correct := 0
		if total > 0 {
			correct = rnd.Intn(total + 1)
		}
		p = ApplyResult(p, model.QuizResult{TotalQuestions: total, CorrectAnswers: correct, TimeTaken: rnd.Intn(600)}, fixedNow)

		want := 0.0
		if p.TotalQuestionsAttempted > 0 {
			c, a := p.TotalCorrectAnswers, p.TotalQuestionsAttempted
			want = float64((c*20000+a)/(2*a)) / 100
		}
		assert.Equal(t, want, p.Accuracy, "step %d", i)
	}
	assert.Equal(t, 200, p.TotalQuizzesTaken)
}

func TestRebuildMatchesFold(t *testing.T) {
	history := []model.QuizResult{
		{TotalQuestions: 10, CorrectAnswers: 7, TimeTaken: 300},
		{TotalQuestions: 5, CorrectAnswers: 1, TimeTaken: 90},
		{TotalQuestions: 8, CorrectAnswers: 8, TimeTaken: 400},
	}
	folded := model.UserProgress{}
	for _, r := range history {
		folded = ApplyResult(folded, r, fixedNow)
	}

	corrupt := model.UserProgress{UserID: 4, TotalCorrectAnswers: 99}
	rebuilt := Rebuild(corrupt, history, fixedNow)

	assert.False(t, rebuilt.Malformed())
	assert.Equal(t, uint(4), rebuilt.UserID)
	assert.Equal(t, folded.TotalQuizzesTaken, rebuilt.TotalQuizzesTaken)
	assert.Equal(t, folded.TotalQuestionsAttempted, rebuilt.TotalQuestionsAttempted)
	assert.Equal(t, folded.TotalCorrectAnswers, rebuilt.TotalCorrectAnswers)
	assert.Equal(t, folded.Accuracy, rebuilt.Accuracy)
	assert.Equal(t, folded.AverageTimePerQuestion, rebuilt.AverageTimePerQuestion)
}

func TestTopics(t *testing.T) {
	detail := func(chapter string, correct bool) model.AnswerDetail {
		return model.AnswerDetail{Chapter: chapter, IsCorrect: correct}
	}
	history := []model.QuizResult{
		{Details: []model.AnswerDetail{
			detail("Limits", true), detail("Limits", true), detail("Limits", true), detail("Limits", false),
			detail("Matrices", false), detail("Matrices", false), detail("Matrices", true),
			detail("Probability", true), detail("Probability", true),
		}},
		{Details: []model.AnswerDetail{
			detail("Integrals", true), detail("Integrals", false), detail("Integrals", true), detail("Integrals", false),
			detail("", true),
		}},
	}

	strong, weak := Topics(history, DefaultTopicThresholds())
	assert.Equal(t, []string{"Limits"}, strong)
	assert.Equal(t, []string{"Matrices"}, weak)

	strong, weak = Topics(nil, DefaultTopicThresholds())
	assert.Empty(t, strong)
	assert.Empty(t, weak)
	assert.NotNil(t, strong)
}
