package service

import (
	"context"
	"errors"
	"math"
	"math_quiz_backend/internal/config"
	"math_quiz_backend/internal/model"
	"math_quiz_backend/internal/quiz"
	"math_quiz_backend/internal/repository"
	"math_quiz_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type DashboardService struct {
	UserRepo     *repository.UserRepository
	ProgressRepo *repository.ProgressRepository
	ResultRepo   *repository.QuizResultRepository
	Cfg          *config.QuizConfig
	Location     *time.Location
	now          func() time.Time
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	progressRepo *repository.ProgressRepository,
	resultRepo *repository.QuizResultRepository,
	cfg *config.QuizConfig,
	loc *time.Location,
) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{
		UserRepo:     userRepo,
		ProgressRepo: progressRepo,
		ResultRepo:   resultRepo,
		Cfg:          cfg,
		Location:     loc,
		now:          time.Now,
	}
}

type Dashboard struct {
	User          *model.User         `json:"user"`
	Progress      *model.UserProgress `json:"progress"`
	RecentQuizzes []model.QuizResult  `json:"recentQuizzes"`
	Streak        int                 `json:"streak"`
}

func (s *DashboardService) GetUserDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	progress, err := s.ProgressRepo.Get(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = &model.UserProgress{UserID: userID, StrongTopics: []string{}, WeakTopics: []string{}}
	} else if err != nil {
		return nil, err
	}

	limit := s.Cfg.RecentResults
	if limit <= 0 {
		limit = 10
	}
	recent, err := s.ResultRepo.Recent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	streak, err := s.Streak(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		User:          user,
		Progress:      progress,
		RecentQuizzes: recent,
		Streak:        streak,
	}, nil
}

// Streak counts consecutive calendar days with at least one quiz, in the
// service's time zone.
func (s *DashboardService) Streak(ctx context.Context, userID uint) (int, error) {
	now := s.now().In(s.Location)
	activity, err := s.ResultRepo.ActivitySince(ctx, userID, quiz.StreakSince(now))
	if err != nil {
		return 0, err
	}
	return quiz.Streak(activity, now), nil
}

type LeaderboardRow struct {
	Rank           int    `json:"rank"`
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	QuizzesTaken   int    `json:"quizzesTaken"`
	Accuracy       int    `json:"accuracy"`
	CorrectAnswers int    `json:"correctAnswers"`
}

func (s *DashboardService) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	size := s.Cfg.LeaderboardSize
	if size <= 0 {
		size = 10
	}
	entries, err := s.ProgressRepo.Leaderboard(ctx, size)
	if err != nil {
		return nil, err
	}

	rows := make([]LeaderboardRow, len(entries))
	for i, e := range entries {
		rows[i] = LeaderboardRow{
			Rank:           i + 1,
			Username:       e.Username,
			FullName:       e.FullName,
			QuizzesTaken:   e.TotalQuizzesTaken,
			Accuracy:       int(math.Floor(e.Accuracy + 0.5)),
			CorrectAnswers: e.TotalCorrectAnswers,
		}
	}
	return rows, nil
}
