package model

import (
	"errors"
	"fmt"
	"strings"
)

type Module string

const (
	ModuleTrigonometry Module = "Trigonometry"
	ModuleAlgebra      Module = "Algebra"
	ModuleCalculus     Module = "Calculus"
	ModuleGeometry     Module = "Geometry"
	ModuleStatistics   Module = "Statistics"
)

var Modules = []Module{ModuleTrigonometry, ModuleAlgebra, ModuleCalculus, ModuleGeometry, ModuleStatistics}

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

var Difficulties = []Difficulty{Easy, Medium, Hard}

type QuestionType string

const (
	TypeMCQ       QuestionType = "MCQ"
	TypeNumerical QuestionType = "Numerical"
	TypeTrueFalse QuestionType = "True/False"
)

const (
	DefaultMarks     = 1
	DefaultTimeLimit = 120 // seconds
)

var (
	ErrInvalidModule     = errors.New("invalid module")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidType       = errors.New("invalid question type")
	ErrMCQAnswerNotLabel = errors.New("MCQ correct answer must be one of A, B, C, D")
	ErrMCQMissingOption  = errors.New("MCQ question requires all four options")
	ErrMissingField      = errors.New("missing required field")
)

// QuestionOptions holds the four labelled MCQ choices.
type QuestionOptions struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

func (o QuestionOptions) Labels() []string {
	return []string{"A", "B", "C", "D"}
}

func (o QuestionOptions) Get(label string) (string, bool) {
	switch label {
	case "A":
		return o.A, true
	case "B":
		return o.B, true
	case "C":
		return o.C, true
	case "D":
		return o.D, true
	}
	return "", false
}

// swagger:model Question
type Question struct {
	UUIDBase
	Module        Module          `gorm:"size:32;index;not null" json:"module"`
	Chapter       string          `gorm:"size:128;index;not null" json:"chapter"`
	Difficulty    Difficulty      `gorm:"size:16;index;not null" json:"difficulty"`
	Type          QuestionType    `gorm:"size:16;not null" json:"type"`
	Text          string          `gorm:"type:text;not null" json:"question"`
	Options       QuestionOptions `gorm:"serializer:json" json:"options"`
	CorrectAnswer string          `gorm:"size:255;not null" json:"correctAnswer"`
	Explanation   string          `gorm:"type:text" json:"explanation"`
	Marks         int             `gorm:"default:1" json:"marks"`
	TimeLimit     int             `gorm:"default:120" json:"timeLimit"`
	Tags          []string        `gorm:"serializer:json" json:"tags"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) ApplyDefaults() {
	if q.Marks <= 0 {
		q.Marks = DefaultMarks
	}
	if q.TimeLimit <= 0 {
		q.TimeLimit = DefaultTimeLimit
	}
}

// Validate checks enum membership and the MCQ answer-key invariant.
func (q *Question) Validate() error {
	if !ValidModule(q.Module) {
		return fmt.Errorf("%w: %q", ErrInvalidModule, q.Module)
	}
	if !ValidDifficulty(q.Difficulty) {
		return fmt.Errorf("%w: %q", ErrInvalidDifficulty, q.Difficulty)
	}
	required := [...]struct{ name, value string }{
		{"chapter", q.Chapter},
		{"question", q.Text},
		{"correctAnswer", q.CorrectAnswer},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	switch q.Type {
	case TypeMCQ:
		for _, label := range q.Options.Labels() {
			if v, _ := q.Options.Get(label); strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w: option %s is empty", ErrMCQMissingOption, label)
			}
		}
		if _, ok := q.Options.Get(q.CorrectAnswer); !ok {
			return ErrMCQAnswerNotLabel
		}
	case TypeNumerical, TypeTrueFalse:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, q.Type)
	}
	return nil
}

func ValidModule(m Module) bool {
	for _, v := range Modules {
		if v == m {
			return true
		}
	}
	return false
}

func ValidDifficulty(d Difficulty) bool {
	for _, v := range Difficulties {
		if v == d {
			return true
		}
	}
	return false
}
