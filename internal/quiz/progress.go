package quiz

import (
	"sort"
	"time"

	"math_quiz_backend/internal/model"
)

// ApplyResult folds one result into p and returns the new aggregate.
// Accuracy and the per-question average are recomputed from the totals,
// never adjusted incrementally.
func ApplyResult(p model.UserProgress, r model.QuizResult, now time.Time) model.UserProgress {
	p.TotalQuizzesTaken++
	p.TotalQuestionsAttempted += r.TotalQuestions
	p.TotalCorrectAnswers += r.CorrectAnswers
	p.TotalTimeTaken += r.TimeTaken
	p.LastActivity = now
	recompute(&p)
	return p
}

// Rebuild derives the aggregate from a user's complete result history.
// Identity fields (ID, UserID, timestamps) and topic lists of p are kept.
func Rebuild(p model.UserProgress, history []model.QuizResult, now time.Time) model.UserProgress {
	p.TotalQuizzesTaken = len(history)
	p.TotalQuestionsAttempted = 0
	p.TotalCorrectAnswers = 0
	p.TotalTimeTaken = 0
	for _, r := range history {
		p.TotalQuestionsAttempted += r.TotalQuestions
		p.TotalCorrectAnswers += r.CorrectAnswers
		p.TotalTimeTaken += r.TimeTaken
	}
	p.LastActivity = now
	recompute(&p)
	return p
}

func recompute(p *model.UserProgress) {
	if p.Malformed() || p.TotalQuestionsAttempted <= 0 {
		p.Accuracy = 0
		p.AverageTimePerQuestion = 0
		return
	}
	p.Accuracy = Percent(p.TotalCorrectAnswers, p.TotalQuestionsAttempted)
	p.AverageTimePerQuestion = Ratio2(p.TotalTimeTaken, p.TotalQuestionsAttempted)
}

// TopicThresholds classify chapters into strong and weak topics.
type TopicThresholds struct {
	MinAttempts int     `mapstructure:"min_attempts"`
	Strong      float64 `mapstructure:"strong_accuracy"`
	Weak        float64 `mapstructure:"weak_accuracy"`
}

func DefaultTopicThresholds() TopicThresholds {
	return TopicThresholds{MinAttempts: 3, Strong: 75, Weak: 50}
}

// Topics groups answer details from history by chapter. Chapters with at
// least MinAttempts graded questions are strong at or above Strong accuracy
// and weak below Weak. Both lists are sorted.
func Topics(history []model.QuizResult, t TopicThresholds) (strong, weak []string) {
	type tally struct{ attempted, correct int }
	byChapter := make(map[string]*tally)
	for _, r := range history {
		for _, d := range r.Details {
			if d.Chapter == "" {
				continue
			}
			tl, ok := byChapter[d.Chapter]
			if !ok {
				tl = &tally{}
				byChapter[d.Chapter] = tl
			}
			tl.attempted++
			if d.IsCorrect {
				tl.correct++
			}
		}
	}

	strong, weak = []string{}, []string{}
	for chapter, tl := range byChapter {
		if tl.attempted < t.MinAttempts {
			continue
		}
		acc := Percent(tl.correct, tl.attempted)
		switch {
		case acc >= t.Strong:
			strong = append(strong, chapter)
		case acc < t.Weak:
			weak = append(weak, chapter)
		}
	}
	sort.Strings(strong)
	sort.Strings(weak)
	return strong, weak
}
