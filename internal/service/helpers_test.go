package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"math_quiz_backend/internal/config"
	"math_quiz_backend/internal/model"
	"math_quiz_backend/internal/quiz"
	"math_quiz_backend/internal/repository"
	"math_quiz_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	db        *gorm.DB
	cfg       *config.Config
	questions *repository.QuestionRepository
	results   *repository.QuizResultRepository
	progress  *repository.ProgressRepository
	users     *repository.UserRepository
	quiz      *QuizService
	auth      *AuthService
	dashboard *DashboardService
	admin     *AdminService
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = ":memory:"
	cfg.JWT.Secret = testSecret
	cfg.JWT.ExpireTime = time.Hour
	cfg.Quiz = config.QuizConfig{
		DefaultCount:    10,
		MaxCount:        100,
		RecentResults:   10,
		LeaderboardSize: 10,
		SubmitLockTTL:   time.Second,
		Topics:          quiz.DefaultTopicThresholds(),
		RandomSeed:      7,
	}
	return cfg
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig()
	db, err := database.InitDB(&cfg.Database)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{
		db:        db,
		cfg:       cfg,
		questions: repository.NewQuestionRepository(db),
		results:   repository.NewQuizResultRepository(db),
		progress:  repository.NewProgressRepository(db),
		users:     repository.NewUserRepository(db),
	}
	f.quiz = NewQuizService(db, f.questions, f.results, f.progress, NewLocalLocker(), &cfg.Quiz)
	f.auth = NewAuthService(db, f.users, f.progress, cfg)
	f.dashboard = NewDashboardService(f.users, f.progress, f.results, &cfg.Quiz, time.UTC)
	f.admin = NewAdminService(f.questions, f.users, f.results, f.progress)
	return f
}

// seedBand inserts n questions of one difficulty and returns them with ids.
func (f *fixture) seedBand(t *testing.T, module model.Module, chapter string, d model.Difficulty, n int) []model.Question {
	t.Helper()
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			Module:        module,
			Chapter:       chapter,
			Difficulty:    d,
			Type:          model.TypeMCQ,
			Text:          fmt.Sprintf("%s %s %s #%d", module, chapter, d, i),
			Options:       model.QuestionOptions{A: "1", B: "2", C: "3", D: "4"},
			CorrectAnswer: "A",
			Explanation:   "because",
			Marks:         1,
			TimeLimit:     120,
			Tags:          []string{},
		}
	}
	require.NoError(t, f.questions.CreateBatch(context.Background(), qs))
	return qs
}

func (f *fixture) login(t *testing.T, username string) *model.User {
	t.Helper()
	resp, err := f.auth.Login(context.Background(), username)
	require.NoError(t, err)
	return resp.User
}
