package repository

import (
	"context"
	"math_quiz_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateLogin(ctx context.Context, userID uint, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"last_login": at, "last_seen": at}).Error
}

// UpdateLastSeen satisfies middleware.UserActivityRepo.
func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).Error
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Count(&n).Error
	return n, err
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Save(user).Error
}

// UserActivity is a user joined with the headline numbers of its progress.
type UserActivity struct {
	ID                uint       `json:"id"`
	Username          string     `json:"username"`
	FullName          string     `json:"fullName"`
	TotalQuizzesTaken int        `json:"totalQuizzesTaken"`
	Accuracy          float64    `json:"accuracy"`
	LastActivity      *time.Time `json:"lastActivity"`
}

// ListByActivity pages through users, most recently active first.
func (r *UserRepository) ListByActivity(ctx context.Context, page, limit int) ([]UserActivity, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []UserActivity{}
	err := r.DB.WithContext(ctx).
		Table("users AS u").
		Select("u.id, u.username, u.full_name, COALESCE(p.total_quizzes_taken, 0) AS total_quizzes_taken, COALESCE(p.accuracy, 0) AS accuracy, p.last_activity").
		Joins("LEFT JOIN user_progress AS p ON p.user_id = u.id AND p.deleted_at IS NULL").
		Where("u.deleted_at IS NULL").
		Order("p.last_activity DESC, u.id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&rows).Error
	return rows, total, err
}
