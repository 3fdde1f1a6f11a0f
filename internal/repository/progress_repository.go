package repository

import (
	"context"
	"errors"
	"math_quiz_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

func (r *ProgressRepository) Get(ctx context.Context, userID uint) (*model.UserProgress, error) {
	var p model.UserProgress
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrCreate returns the user's progress row, inserting an empty one first
// when none exists.
func (r *ProgressRepository) GetOrCreate(ctx context.Context, userID uint) (*model.UserProgress, error) {
	p := model.UserProgress{UserID: userID, StrongTopics: []string{}, WeakTopics: []string{}}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&p).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}

// GetForUpdate locks the user's progress row until the surrounding
// transaction ends. A missing row yields a fresh, unsaved record.
func (r *ProgressRepository) GetForUpdate(ctx context.Context, userID uint) (*model.UserProgress, error) {
	var p model.UserProgress
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.UserProgress{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) Save(ctx context.Context, p *model.UserProgress) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	UserID                  uint    `json:"userId"`
	Username                string  `json:"username"`
	FullName                string  `json:"fullName"`
	TotalCorrectAnswers     int     `json:"totalCorrectAnswers"`
	TotalQuestionsAttempted int     `json:"totalQuestionsAttempted"`
	TotalQuizzesTaken       int     `json:"totalQuizzesTaken"`
	Accuracy                float64 `json:"accuracy"`
}

// Leaderboard ranks every user by total correct answers; ties go to the
// user who reached the total with fewer attempts. Users without progress
// rank with zero totals.
func (r *ProgressRepository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	entries := []LeaderboardEntry{}
	err := r.DB.WithContext(ctx).
		Table("users AS u").
		Select("u.id AS user_id, u.username, u.full_name, " +
			"COALESCE(p.total_correct_answers, 0) AS total_correct_answers, " +
			"COALESCE(p.total_questions_attempted, 0) AS total_questions_attempted, " +
			"COALESCE(p.total_quizzes_taken, 0) AS total_quizzes_taken, " +
			"COALESCE(p.accuracy, 0) AS accuracy").
		Joins("LEFT JOIN user_progress AS p ON p.user_id = u.id AND p.deleted_at IS NULL").
		Where("u.deleted_at IS NULL").
		Order("total_correct_answers DESC, total_questions_attempted ASC, u.id ASC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

func (r *ProgressRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.UserProgress{}).
		Where("total_quizzes_taken > 0").
		Count(&n).Error
	return n, err
}
