package repository

import (
	"context"
	"math_quiz_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type QuizResultRepository struct {
	DB *gorm.DB
}

func NewQuizResultRepository(db *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *QuizResultRepository) WithTx(tx *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: tx}
}

func (r *QuizResultRepository) Create(ctx context.Context, result *model.QuizResult) error {
	return r.DB.WithContext(ctx).Create(result).Error
}

// ListByUser returns every result of a user, oldest first.
func (r *QuizResultRepository) ListByUser(ctx context.Context, userID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&results).Error
	return results, err
}

// Recent returns the latest results of a user, newest first.
func (r *QuizResultRepository) Recent(ctx context.Context, userID uint, limit int) ([]model.QuizResult, error) {
	results := []model.QuizResult{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

// ActivitySince returns creation times of a user's results at or after since.
func (r *QuizResultRepository) ActivitySince(ctx context.Context, userID uint, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.DB.WithContext(ctx).
		Model(&model.QuizResult{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Pluck("created_at", &times).Error
	return times, err
}

func (r *QuizResultRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.QuizResult{}).Count(&n).Error
	return n, err
}
