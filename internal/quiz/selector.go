package quiz

import (
	"fmt"
	"math/rand"
	"sync"

	"math_quiz_backend/internal/model"
)

// Mock-test band proportions. Hard takes whatever Easy and Medium leave.
const (
	EasyShare   = 0.4
	MediumShare = 0.4
)

// BandCounts is a per-difficulty question count.
type BandCounts struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

func (b BandCounts) Total() int {
	return b.Easy + b.Medium + b.Hard
}

func (b BandCounts) For(d model.Difficulty) int {
	switch d {
	case model.Easy:
		return b.Easy
	case model.Medium:
		return b.Medium
	case model.Hard:
		return b.Hard
	}
	return 0
}

// MockCounts splits n into floor(0.4n) Easy, floor(0.4n) Medium and the
// remainder Hard. Non-positive n gives zero in every band.
func MockCounts(n int) BandCounts {
	if n <= 0 {
		return BandCounts{}
	}
	easy := n * 4 / 10
	medium := n * 4 / 10
	return BandCounts{Easy: easy, Medium: medium, Hard: n - easy - medium}
}

// Selection is the outcome of one draw.
type Selection struct {
	Mode      model.QuizMode   `json:"mode"`
	Questions []model.Question `json:"questions"`
	Requested int              `json:"requested"`
	Delivered int              `json:"delivered"`
	Bands     *BandCounts      `json:"bands,omitempty"`
	Available *BandCounts      `json:"available,omitempty"`
}

// Short reports whether fewer questions were delivered than requested.
func (s *Selection) Short() bool {
	return s.Delivered < s.Requested
}

// Err returns ErrInsufficientQuestions for a short selection, nil otherwise.
func (s *Selection) Err() error {
	if !s.Short() {
		return nil
	}
	return fmt.Errorf("%w: requested %d, delivered %d", ErrInsufficientQuestions, s.Requested, s.Delivered)
}

// Selector draws question sets. It is safe for concurrent use.
type Selector struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSelector(src rand.Source) *Selector {
	return &Selector{rnd: rand.New(src)}
}

// Select draws n questions from pool in the given mode. Unknown modes are
// treated as revision.
func (s *Selector) Select(pool []model.Question, mode model.QuizMode, n int) *Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool = uniqueByID(pool)
	if mode == model.ModeMock {
		return s.stratified(pool, n)
	}

	sel := &Selection{Mode: model.ModeRevision, Requested: max(n, 0)}
	sel.Questions = s.sample(pool, n)
	sel.Delivered = len(sel.Questions)
	return sel
}

func (s *Selector) stratified(pool []model.Question, n int) *Selection {
	want := MockCounts(n)
	bands := make(map[model.Difficulty][]model.Question, len(model.Difficulties))
	for _, q := range pool {
		bands[q.Difficulty] = append(bands[q.Difficulty], q)
	}

	out := make([]model.Question, 0, want.Total())
	for _, d := range model.Difficulties {
		out = append(out, s.sample(bands[d], want.For(d))...)
	}
	s.rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	return &Selection{
		Mode:      model.ModeMock,
		Questions: out,
		Requested: want.Total(),
		Delivered: len(out),
		Bands:     &want,
		Available: &BandCounts{
			Easy:   len(bands[model.Easy]),
			Medium: len(bands[model.Medium]),
			Hard:   len(bands[model.Hard]),
		},
	}
}

// sample draws min(k, len(pool)) distinct elements uniformly at random
// with a partial Fisher-Yates shuffle over a copy of pool.
func (s *Selector) sample(pool []model.Question, k int) []model.Question {
	if k <= 0 || len(pool) == 0 {
		return []model.Question{}
	}
	if k > len(pool) {
		k = len(pool)
	}
	work := make([]model.Question, len(pool))
	copy(work, pool)
	for i := 0; i < k; i++ {
		j := i + s.rnd.Intn(len(work)-i)
		work[i], work[j] = work[j], work[i]
	}
	return work[:k]
}

func uniqueByID(pool []model.Question) []model.Question {
	seen := make(map[string]struct{}, len(pool))
	out := make([]model.Question, 0, len(pool))
	for _, q := range pool {
		if _, dup := seen[q.ID]; dup {
			continue
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out
}
