package service

import (
	"context"
	"errors"
	"fmt"
	"math_quiz_backend/internal/model"
	"math_quiz_backend/internal/quiz"
	"math_quiz_backend/internal/repository"
	"math_quiz_backend/internal/util"
	"math_quiz_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminService backs the admin screens: question bank upkeep and usage stats.
type AdminService struct {
	QuestionRepo *repository.QuestionRepository
	UserRepo     *repository.UserRepository
	ResultRepo   *repository.QuizResultRepository
	ProgressRepo *repository.ProgressRepository
}

func NewAdminService(
	questionRepo *repository.QuestionRepository,
	userRepo *repository.UserRepository,
	resultRepo *repository.QuizResultRepository,
	progressRepo *repository.ProgressRepository,
) *AdminService {
	return &AdminService{
		QuestionRepo: questionRepo,
		UserRepo:     userRepo,
		ResultRepo:   resultRepo,
		ProgressRepo: progressRepo,
	}
}

type QuestionRequest struct {
	Module        model.Module          `json:"module" binding:"required"`
	Chapter       string                `json:"chapter" binding:"required"`
	Difficulty    model.Difficulty      `json:"difficulty" binding:"required"`
	Type          model.QuestionType    `json:"type" binding:"required"`
	Question      string                `json:"question" binding:"required"`
	Options       model.QuestionOptions `json:"options"`
	CorrectAnswer string                `json:"correctAnswer" binding:"required"`
	Explanation   string                `json:"explanation"`
	Marks         int                   `json:"marks"`
	TimeLimit     int                   `json:"timeLimit"`
	Tags          []string              `json:"tags"`
}

func (r *QuestionRequest) apply(q *model.Question) {
	q.Module = r.Module
	q.Chapter = strings.TrimSpace(r.Chapter)
	q.Difficulty = r.Difficulty
	q.Type = r.Type
	q.Text = strings.TrimSpace(r.Question)
	q.Options = r.Options
	q.CorrectAnswer = strings.TrimSpace(r.CorrectAnswer)
	q.Explanation = r.Explanation
	q.Marks = r.Marks
	q.TimeLimit = r.TimeLimit
	q.Tags = r.Tags
	if q.Tags == nil {
		q.Tags = []string{}
	}
	q.ApplyDefaults()
}

type QuestionPage struct {
	Questions   []model.Question `json:"questions"`
	Total       int64            `json:"total"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
}

func (s *AdminService) List(ctx context.Context, module, difficulty string, page, limit int) (*QuestionPage, error) {
	questions, total, err := s.QuestionRepo.List(ctx, quiz.NewFilter(module, difficulty), page, limit)
	if err != nil {
		return nil, err
	}
	return &QuestionPage{
		Questions:   questions,
		Total:       total,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		CurrentPage: page,
	}, nil
}

func (s *AdminService) Get(ctx context.Context, id string) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return q, err
}

func (s *AdminService) Create(ctx context.Context, req *QuestionRequest) (*model.Question, error) {
	q := &model.Question{}
	req.apply(q)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	logger.Log.Info("Question created",
		zap.String("id", q.ID),
		zap.String("module", string(q.Module)),
		zap.String("chapter", q.Chapter),
	)
	return q, nil
}

func (s *AdminService) Update(ctx context.Context, id string, req *QuestionRequest) (*model.Question, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(q)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *AdminService) Delete(ctx context.Context, id string) error {
	err := s.QuestionRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrQuestionNotFound
	}
	if err != nil {
		return err
	}
	logger.Log.Info("Question deleted", zap.String("id", id))
	return nil
}

// IsValidationError reports errors caused by a bad question payload.
func IsValidationError(err error) bool {
	for _, target := range []error{
		model.ErrInvalidModule,
		model.ErrInvalidDifficulty,
		model.ErrInvalidType,
		model.ErrMCQAnswerNotLabel,
		model.ErrMCQMissingOption,
		model.ErrMissingField,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type ModuleStat struct {
	Module         model.Module `json:"module"`
	TotalQuestions int64        `json:"totalQuestions"`
	Easy           int64        `json:"easy"`
	Medium         int64        `json:"medium"`
	Hard           int64        `json:"hard"`
}

type StatsOverview struct {
	TotalQuestions   int64 `json:"totalQuestions"`
	TotalUsers       int64 `json:"totalUsers"`
	ActiveUsers      int64 `json:"activeUsers"`
	TotalQuizResults int64 `json:"totalQuizResults"`
}

type AdminStats struct {
	Overview        StatsOverview             `json:"overview"`
	ModuleStats     []ModuleStat              `json:"moduleStats"`
	RecentUsers     []repository.UserActivity `json:"recentUsers"`
	RecentQuestions []model.Question          `json:"recentQuestions"`
}

const recentStatsSize = 5

func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	var err error

	if stats.Overview.TotalQuestions, err = s.QuestionRepo.Count(ctx, quiz.Filter{}); err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if stats.Overview.TotalUsers, err = s.UserRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.Overview.ActiveUsers, err = s.ProgressRepo.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}
	if stats.Overview.TotalQuizResults, err = s.ResultRepo.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("count quiz results: %w", err)
	}

	rows, err := s.QuestionRepo.CountByGroup(ctx, quiz.Filter{})
	if err != nil {
		return nil, err
	}
	stats.ModuleStats = []ModuleStat{}
	index := make(map[model.Module]int)
	for _, row := range rows {
		i, ok := index[row.Module]
		if !ok {
			stats.ModuleStats = append(stats.ModuleStats, ModuleStat{Module: row.Module})
			i = len(stats.ModuleStats) - 1
			index[row.Module] = i
		}
		m := &stats.ModuleStats[i]
		m.TotalQuestions += row.Count
		switch row.Difficulty {
		case model.Easy:
			m.Easy += row.Count
		case model.Medium:
			m.Medium += row.Count
		case model.Hard:
			m.Hard += row.Count
		}
	}

	if stats.RecentUsers, _, err = s.UserRepo.ListByActivity(ctx, 1, recentStatsSize); err != nil {
		return nil, err
	}
	if stats.RecentQuestions, _, err = s.QuestionRepo.List(ctx, quiz.Filter{}, 1, recentStatsSize); err != nil {
		return nil, err
	}
	return &stats, nil
}

type UserPage struct {
	Users       []repository.UserActivity `json:"users"`
	Total       int64                     `json:"total"`
	TotalPages  int                       `json:"totalPages"`
	CurrentPage int                       `json:"currentPage"`
}

func (s *AdminService) ListUsers(ctx context.Context, page, limit int) (*UserPage, error) {
	users, total, err := s.UserRepo.ListByActivity(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &UserPage{
		Users:       users,
		Total:       total,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		CurrentPage: page,
	}, nil
}
