package quiz

import (
	"strings"

	"math_quiz_backend/internal/model"
)

// Filter selects questions from a bank. Empty fields match everything.
type Filter struct {
	// Module is matched case-insensitively as a substring of the module name.
	Module     string
	Difficulty model.Difficulty
	Type       model.QuestionType
	Chapter    string
}

// NewFilter builds a Filter from raw request values; "all" means no constraint.
func NewFilter(module, difficulty string) Filter {
	f := Filter{Module: strings.TrimSpace(module)}
	if strings.EqualFold(f.Module, "all") {
		f.Module = ""
	}
	d := strings.TrimSpace(difficulty)
	if d != "" && !strings.EqualFold(d, "all") {
		f.Difficulty = model.Difficulty(d)
	}
	return f
}

func (f Filter) WithDifficulty(d model.Difficulty) Filter {
	f.Difficulty = d
	return f
}

// Matches is the in-memory form of the filter.
func (f Filter) Matches(q *model.Question) bool {
	if f.Module != "" && !strings.Contains(strings.ToLower(string(q.Module)), strings.ToLower(f.Module)) {
		return false
	}
	if f.Difficulty != "" && q.Difficulty != f.Difficulty {
		return false
	}
	if f.Type != "" && q.Type != f.Type {
		return false
	}
	if f.Chapter != "" && q.Chapter != f.Chapter {
		return false
	}
	return true
}
