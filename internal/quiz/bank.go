package quiz

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"math_quiz_backend/internal/model"
)

// Fields accepted by QuestionBank.Distinct.
const (
	FieldModule     = "module"
	FieldChapter    = "chapter"
	FieldDifficulty = "difficulty"
	FieldType       = "type"
)

// QuestionBank is the query surface the selector and scorer need.
type QuestionBank interface {
	Find(ctx context.Context, filter Filter) ([]model.Question, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Question, error)
	Distinct(ctx context.Context, field string, filter Filter) ([]string, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

// MemoryBank is a QuestionBank over a fixed slice, used by tests and seeding.
type MemoryBank struct {
	mu        sync.RWMutex
	questions []model.Question
}

func NewMemoryBank(questions ...model.Question) *MemoryBank {
	b := &MemoryBank{}
	b.Add(questions...)
	return b
}

func (b *MemoryBank) Add(questions ...model.Question) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.questions = append(b.questions, questions...)
}

func (b *MemoryBank) Find(_ context.Context, filter Filter) ([]model.Question, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Question, 0, len(b.questions))
	for i := range b.questions {
		if filter.Matches(&b.questions[i]) {
			out = append(out, b.questions[i])
		}
	}
	return out, nil
}

func (b *MemoryBank) FindByIDs(_ context.Context, ids []string) ([]model.Question, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]model.Question, 0, len(ids))
	for _, q := range b.questions {
		if _, ok := want[q.ID]; ok {
			out = append(out, q)
			delete(want, q.ID)
		}
	}
	return out, nil
}

func (b *MemoryBank) Distinct(ctx context.Context, field string, filter Filter) ([]string, error) {
	qs, err := b.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, q := range qs {
		var v string
		switch field {
		case FieldModule:
			v = string(q.Module)
		case FieldChapter:
			v = q.Chapter
		case FieldDifficulty:
			v = string(q.Difficulty)
		case FieldType:
			v = string(q.Type)
		default:
			return nil, fmt.Errorf("distinct: unsupported field %q", field)
		}
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func (b *MemoryBank) Count(ctx context.Context, filter Filter) (int64, error) {
	qs, err := b.Find(ctx, filter)
	return int64(len(qs)), err
}
