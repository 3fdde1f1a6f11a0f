package repository

import (
	"context"
	"fmt"
	"math_quiz_backend/internal/model"
	"math_quiz_backend/internal/quiz"
	"strings"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

var _ quiz.QuestionBank = (*QuestionRepository)(nil)

// distinctColumns whitelists the fields Distinct may project.
var distinctColumns = map[string]string{
	quiz.FieldModule:     "module",
	quiz.FieldChapter:    "chapter",
	quiz.FieldDifficulty: "difficulty",
	quiz.FieldType:       "type",
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a LIKE pattern matching s anywhere, with '!' as
// the escape character.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func (r *QuestionRepository) filtered(ctx context.Context, f quiz.Filter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&model.Question{})
	if f.Module != "" {
		q = q.Where("LOWER(module) LIKE ? ESCAPE '!'", containsPattern(f.Module))
	}
	if f.Difficulty != "" {
		q = q.Where("difficulty = ?", f.Difficulty)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Chapter != "" {
		q = q.Where("chapter = ?", f.Chapter)
	}
	return q
}

func (r *QuestionRepository) Find(ctx context.Context, f quiz.Filter) ([]model.Question, error) {
	var questions []model.Question
	err := r.filtered(ctx, f).Order("created_at ASC, id ASC").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Question, error) {
	questions := []model.Question{}
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) Distinct(ctx context.Context, field string, f quiz.Filter) ([]string, error) {
	column, ok := distinctColumns[field]
	if !ok {
		return nil, fmt.Errorf("distinct on unsupported field %q", field)
	}
	values := []string{}
	err := r.filtered(ctx, f).Distinct(column).Order(column).Pluck(column, &values).Error
	return values, err
}

func (r *QuestionRepository) Count(ctx context.Context, f quiz.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, f).Count(&n).Error
	return n, err
}

// QuestionGroupCount is one row of the module/chapter/difficulty breakdown.
type QuestionGroupCount struct {
	Module     model.Module
	Chapter    string
	Difficulty model.Difficulty
	Count      int64
}

func (r *QuestionRepository) CountByGroup(ctx context.Context, f quiz.Filter) ([]QuestionGroupCount, error) {
	var rows []QuestionGroupCount
	err := r.filtered(ctx, f).
		Select("module, chapter, difficulty, COUNT(*) AS count").
		Group("module, chapter, difficulty").
		Order("module, chapter, difficulty").
		Scan(&rows).Error
	return rows, err
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// List returns one page of questions, newest first, with the total count.
func (r *QuestionRepository) List(ctx context.Context, f quiz.Filter, page, limit int) ([]model.Question, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	questions := []model.Question{}
	err := r.filtered(ctx, f).
		Order("created_at DESC, id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&questions).Error
	return questions, total, err
}

func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) CreateBatch(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).CreateInBatches(questions, 100).Error
}

func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Save(q).Error
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Question{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
