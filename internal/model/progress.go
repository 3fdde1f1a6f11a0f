package model

import "time"

// UserProgress is the per-user running aggregate. Accuracy and
// AverageTimePerQuestion are always derived from the totals.
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID                  uint      `gorm:"uniqueIndex;not null" json:"userId"`
	TotalQuizzesTaken       int       `gorm:"default:0" json:"totalQuizzesTaken"`
	TotalQuestionsAttempted int       `gorm:"default:0" json:"totalQuestionsAttempted"`
	TotalCorrectAnswers     int       `gorm:"default:0" json:"totalCorrectAnswers"`
	TotalTimeTaken          int       `gorm:"default:0" json:"totalTimeTaken"`
	Accuracy                float64   `gorm:"default:0" json:"accuracy"`
	AverageTimePerQuestion  float64   `gorm:"default:0" json:"averageTimePerQuestion"`
	StrongTopics            []string  `gorm:"serializer:json" json:"strongTopics"`
	WeakTopics              []string  `gorm:"serializer:json" json:"weakTopics"`
	LastActivity            time.Time `json:"lastActivity"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// Malformed reports totals that cannot come from folding real results.
func (p *UserProgress) Malformed() bool {
	if p.TotalQuestionsAttempted < 0 || p.TotalCorrectAnswers < 0 || p.TotalQuizzesTaken < 0 || p.TotalTimeTaken < 0 {
		return true
	}
	if p.TotalQuestionsAttempted == 0 && p.TotalCorrectAnswers != 0 {
		return true
	}
	return p.TotalCorrectAnswers > p.TotalQuestionsAttempted
}
