package quiz

import (
	"fmt"

	"math_quiz_backend/internal/model"
)

func makeQuestions(prefix string, d model.Difficulty, n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			UUIDBase:      model.UUIDBase{ID: fmt.Sprintf("%s-%d", prefix, i)},
			Module:        model.ModuleTrigonometry,
			Chapter:       "Identities",
			Difficulty:    d,
			Type:          model.TypeMCQ,
			Text:          fmt.Sprintf("%s question %d", prefix, i),
			CorrectAnswer: "A",
			Marks:         1,
			TimeLimit:     120,
		}
	}
	return qs
}

func pool(easy, medium, hard int) []model.Question {
	var qs []model.Question
	qs = append(qs, makeQuestions("e", model.Easy, easy)...)
	qs = append(qs, makeQuestions("m", model.Medium, medium)...)
	qs = append(qs, makeQuestions("h", model.Hard, hard)...)
	return qs
}

func countByDifficulty(qs []model.Question) BandCounts {
	var b BandCounts
	for _, q := range qs {
		switch q.Difficulty {
		case model.Easy:
			b.Easy++
		case model.Medium:
			b.Medium++
		case model.Hard:
			b.Hard++
		}
	}
	return b
}

func ids(qs []model.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
