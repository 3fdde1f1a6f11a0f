// Package seed loads question banks from YAML files.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"math_quiz_backend/internal/model"
	"math_quiz_backend/internal/quiz"

	"gopkg.in/yaml.v3"
)

var ErrNoQuestions = errors.New("seed file contains no questions")

type optionsDoc struct {
	A string `yaml:"A"`
	B string `yaml:"B"`
	C string `yaml:"C"`
	D string `yaml:"D"`
}

type questionDoc struct {
	Module        string     `yaml:"module"`
	Chapter       string     `yaml:"chapter"`
	Difficulty    string     `yaml:"difficulty"`
	Type          string     `yaml:"type"`
	Question      string     `yaml:"question"`
	Options       optionsDoc `yaml:"options"`
	CorrectAnswer string     `yaml:"correctAnswer"`
	Explanation   string     `yaml:"explanation"`
	Marks         int        `yaml:"marks"`
	TimeLimit     int        `yaml:"timeLimit"`
	Tags          []string   `yaml:"tags"`
}

type document struct {
	Questions []questionDoc `yaml:"questions"`
}

func (d questionDoc) toModel() model.Question {
	q := model.Question{
		Module:     model.Module(strings.TrimSpace(d.Module)),
		Chapter:    strings.TrimSpace(d.Chapter),
		Difficulty: model.Difficulty(strings.TrimSpace(d.Difficulty)),
		Type:       model.QuestionType(strings.TrimSpace(d.Type)),
		Text:       strings.TrimSpace(d.Question),
		Options: model.QuestionOptions{
			A: d.Options.A,
			B: d.Options.B,
			C: d.Options.C,
			D: d.Options.D,
		},
		CorrectAnswer: strings.TrimSpace(d.CorrectAnswer),
		Explanation:   d.Explanation,
		Marks:         d.Marks,
		TimeLimit:     d.TimeLimit,
		Tags:          d.Tags,
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	q.ApplyDefaults()
	return q
}

// Load decodes a question file of the form
//
//	questions:
//	  - module: Algebra
//	    chapter: Quadratics
//	    ...
//
// Unknown keys are rejected. The first invalid question aborts the load.
func Load(r io.Reader) ([]model.Question, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoQuestions
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if len(doc.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	out := make([]model.Question, 0, len(doc.Questions))
	for i, d := range doc.Questions {
		q := d.toModel()
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		out = append(out, q)
	}
	return out, nil
}

// Summary describes the questions a load would add to one module.
type Summary struct {
	Module     string
	Questions  int64
	Chapters   int
	Difficulty map[model.Difficulty]int64
}

// Summarize groups questions by module without touching the database.
func Summarize(ctx context.Context, questions []model.Question) ([]Summary, error) {
	bank := quiz.NewMemoryBank(questions...)

	modules, err := bank.Distinct(ctx, quiz.FieldModule, quiz.Filter{})
	if err != nil {
		return nil, err
	}
	sort.Strings(modules)

	out := make([]Summary, 0, len(modules))
	for _, m := range modules {
		f := quiz.Filter{Module: m}
		total, err := bank.Count(ctx, f)
		if err != nil {
			return nil, err
		}
		chapters, err := bank.Distinct(ctx, quiz.FieldChapter, f)
		if err != nil {
			return nil, err
		}
		s := Summary{
			Module:     m,
			Questions:  total,
			Chapters:   len(chapters),
			Difficulty: make(map[model.Difficulty]int64, len(model.Difficulties)),
		}
		for _, d := range model.Difficulties {
			n, err := bank.Count(ctx, f.WithDifficulty(d))
			if err != nil {
				return nil, err
			}
			s.Difficulty[d] = n
		}
		out = append(out, s)
	}
	return out, nil
}

// Store persists loaded questions.
type Store interface {
	CreateBatch(ctx context.Context, questions []model.Question) error
}

func Import(ctx context.Context, store Store, questions []model.Question) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	return store.CreateBatch(ctx, questions)
}
