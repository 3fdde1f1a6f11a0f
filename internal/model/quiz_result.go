package model

type QuizMode string

const (
	ModeRevision QuizMode = "revision"
	ModeMock     QuizMode = "mock"
)

func (m QuizMode) Valid() bool {
	return m == ModeRevision || m == ModeMock
}

// AnswerDetail is one graded question, complete enough for a review screen.
type AnswerDetail struct {
	QuestionID    string     `json:"questionId"`
	Question      string     `json:"question"`
	Chapter       string     `json:"chapter"`
	Difficulty    Difficulty `json:"difficulty"`
	UserAnswer    string     `json:"userAnswer"`
	Answered      bool       `json:"answered"`
	CorrectAnswer string     `json:"correctAnswer"`
	IsCorrect     bool       `json:"isCorrect"`
	Explanation   string     `json:"explanation"`
	Marks         int        `json:"marks"`
	EarnedMarks   int        `json:"earnedMarks"`
}

// QuizResult is written once per submission and never updated.
// swagger:model QuizResult
type QuizResult struct {
	UUIDBase
	UserID         uint           `gorm:"index;not null" json:"userId"`
	Module         string         `gorm:"size:64;index" json:"module"`
	QuizType       QuizMode       `gorm:"size:16" json:"type"`
	Score          int            `gorm:"not null" json:"score"`
	TotalQuestions int            `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers int            `gorm:"not null" json:"correctAnswers"`
	TotalMarks     int            `json:"totalMarks"`
	EarnedMarks    int            `json:"earnedMarks"`
	TimeTaken      int            `json:"timeTaken"`
	Accuracy       float64        `json:"accuracy"`
	Details        []AnswerDetail `gorm:"serializer:json" json:"results"`
	Ignored        int            `gorm:"-" json:"-"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
