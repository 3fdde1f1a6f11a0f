package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"math_quiz_backend/internal/config"
	"math_quiz_backend/internal/model"
	"math_quiz_backend/internal/quiz"
	"math_quiz_backend/internal/repository"
	"math_quiz_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminPassword = "correct horse"

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = ":memory:"
	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	cfg.JWT.ExpireTime = time.Hour
	cfg.Admin.PasswordHash = string(hash)
	cfg.Quiz = config.QuizConfig{
		DefaultCount:    10,
		MaxCount:        50,
		RecentResults:   10,
		LeaderboardSize: 10,
		SubmitLockTTL:   time.Second,
		Topics:          quiz.DefaultTopicThresholds(),
		RandomSeed:      11,
	}
	return cfg
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := testConfig(t)
	db, err := database.InitDB(&cfg.Database)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	a := New(cfg, db, nil)
	t.Cleanup(func() {
		a.Close(context.Background())
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	repo := repository.NewQuestionRepository(db)
	var qs []model.Question
	for _, d := range model.Difficulties {
		for i := 0; i < 5; i++ {
			qs = append(qs, model.Question{
				Module:        model.ModuleAlgebra,
				Chapter:       "Quadratics",
				Difficulty:    d,
				Type:          model.TypeMCQ,
				Text:          fmt.Sprintf("%s question %d", d, i),
				Options:       model.QuestionOptions{A: "1", B: "2", C: "3", D: "4"},
				CorrectAnswer: "A",
				Marks:         1,
				TimeLimit:     60,
				Tags:          []string{},
			})
		}
	}
	require.NoError(t, repo.CreateBatch(context.Background(), qs))
	return a
}

func call(t *testing.T, a *App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	code, env := call(t, a, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, code)

	var body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	decode(t, env, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "up", body.Components["database"])
	assert.Equal(t, "disabled", body.Components["redis"])
}

func TestQuizFlow(t *testing.T) {
	a := newTestApp(t)

	code, env := call(t, a, http.MethodPost, "/api/auth/login", "", gin.H{"username": "  Asha "})
	require.Equal(t, http.StatusOK, code)
	var login struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	decode(t, env, &login)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "asha", login.User.Username)

	code, env = call(t, a, http.MethodGet, "/api/quiz/modules", "", nil)
	require.Equal(t, http.StatusOK, code)
	var modules []struct {
		Name           string `json:"name"`
		TotalQuestions int    `json:"totalQuestions"`
	}
	decode(t, env, &modules)
	require.Len(t, modules, 1)
	assert.Equal(t, "Algebra", modules[0].Name)
	assert.Equal(t, 15, modules[0].TotalQuestions)

	code, _ = call(t, a, http.MethodGet, "/api/quiz/questions/algebra/sprint", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = call(t, a, http.MethodGet, "/api/quiz/questions/alg/mock?limit=10", "", nil)
	require.Equal(t, http.StatusOK, code)
	var sel quiz.Selection
	decode(t, env, &sel)
	assert.Equal(t, 10, sel.Delivered)
	require.NotNil(t, sel.Bands)
	assert.Equal(t, quiz.BandCounts{Easy: 4, Medium: 4, Hard: 2}, *sel.Bands)

	answers := make(map[string]string, len(sel.Questions))
	ids := make([]string, 0, len(sel.Questions))
	for i, q := range sel.Questions {
		ids = append(ids, q.ID)
		if i < 7 {
			answers[q.ID] = "A"
		} else {
			answers[q.ID] = "B"
		}
	}
	submit := gin.H{"type": "mock", "answers": answers, "questionIds": ids, "timeTaken": 300}

	code, _ = call(t, a, http.MethodPost, "/api/quiz/submit/Algebra", "", submit)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = call(t, a, http.MethodPost, "/api/quiz/submit/Algebra", login.Token, submit)
	require.Equal(t, http.StatusCreated, code)
	var submitted struct {
		Result   model.QuizResult   `json:"result"`
		Progress model.UserProgress `json:"progress"`
	}
	decode(t, env, &submitted)
	assert.Equal(t, 7, submitted.Result.CorrectAnswers)
	assert.Equal(t, 10, submitted.Result.TotalQuestions)
	assert.InDelta(t, 70.0, submitted.Result.Accuracy, 1e-9)
	assert.Equal(t, 1, submitted.Progress.TotalQuizzesTaken)
	assert.InDelta(t, 30.0, submitted.Progress.AverageTimePerQuestion, 1e-9)

	code, _ = call(t, a, http.MethodPost, "/api/quiz/submit/Algebra", login.Token, gin.H{"type": "mock", "answers": gin.H{}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = call(t, a, http.MethodGet, "/api/dashboard", login.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var dash struct {
		Progress      model.UserProgress `json:"progress"`
		RecentQuizzes []model.QuizResult `json:"recentQuizzes"`
		Streak        int                `json:"streak"`
	}
	decode(t, env, &dash)
	assert.Equal(t, 7, dash.Progress.TotalCorrectAnswers)
	assert.Len(t, dash.RecentQuizzes, 1)
	assert.Equal(t, 1, dash.Streak)

	code, env = call(t, a, http.MethodGet, "/api/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, code)
	var board []struct {
		Rank     int    `json:"rank"`
		Username string `json:"username"`
		Accuracy int    `json:"accuracy"`
	}
	decode(t, env, &board)
	require.Len(t, board, 1)
	assert.Equal(t, "asha", board[0].Username)
	assert.Equal(t, 70, board[0].Accuracy)

	code, env = call(t, a, http.MethodPut, "/api/auth/profile", login.Token, gin.H{"class": "12th", "targetExam": []string{"JEE Main"}})
	require.Equal(t, http.StatusOK, code, env.Message)
	code, _ = call(t, a, http.MethodPut, "/api/auth/profile", login.Token, gin.H{"class": "college"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdminRoutes(t *testing.T) {
	a := newTestApp(t)

	_, env := call(t, a, http.MethodPost, "/api/auth/login", "", gin.H{"username": "bilal"})
	var student struct {
		Token string `json:"token"`
	}
	decode(t, env, &student)

	code, _ := call(t, a, http.MethodGet, "/api/admin/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = call(t, a, http.MethodGet, "/api/admin/stats", student.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, a, http.MethodPost, "/api/admin/login", "", gin.H{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = call(t, a, http.MethodPost, "/api/admin/login", "", gin.H{"password": adminPassword})
	require.Equal(t, http.StatusOK, code)
	var admin struct {
		Token string `json:"token"`
	}
	decode(t, env, &admin)

	code, env = call(t, a, http.MethodGet, "/api/admin/stats", admin.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var stats struct {
		Overview struct {
			TotalQuestions int `json:"totalQuestions"`
			TotalUsers     int `json:"totalUsers"`
		} `json:"overview"`
	}
	decode(t, env, &stats)
	assert.Equal(t, 15, stats.Overview.TotalQuestions)
	assert.Equal(t, 1, stats.Overview.TotalUsers)

	bad := gin.H{
		"module": "Algebra", "chapter": "Quadratics", "difficulty": "Easy", "type": "MCQ",
		"question": "2+2?", "options": gin.H{"A": "4", "B": "3", "C": "2", "D": "1"}, "correctAnswer": "E",
	}
	code, _ = call(t, a, http.MethodPost, "/api/admin/questions", admin.Token, bad)
	assert.Equal(t, http.StatusBadRequest, code)

	good := bad
	good["correctAnswer"] = "A"
	code, env = call(t, a, http.MethodPost, "/api/admin/questions", admin.Token, good)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var created model.Question
	decode(t, env, &created)
	require.NotEmpty(t, created.ID)

	code, _ = call(t, a, http.MethodGet, "/api/admin/questions/"+created.ID, admin.Token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = call(t, a, http.MethodGet, "/api/admin/questions?module=algebra&difficulty=Easy&limit=4", admin.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Questions  []model.Question `json:"questions"`
		Total      int              `json:"total"`
		TotalPages int              `json:"totalPages"`
	}
	decode(t, env, &page)
	assert.Equal(t, 6, page.Total)
	assert.Len(t, page.Questions, 4)
	assert.Equal(t, 2, page.TotalPages)

	code, _ = call(t, a, http.MethodDelete, "/api/admin/questions/"+created.ID, admin.Token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, a, http.MethodDelete, "/api/admin/questions/"+created.ID, admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = call(t, a, http.MethodGet, "/api/admin/users", admin.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var users struct {
		Total int `json:"total"`
	}
	decode(t, env, &users)
	assert.Equal(t, 1, users.Total)
}

func TestReloadAppliesQuizLimits(t *testing.T) {
	a := newTestApp(t)

	cfg := testConfig(t)
	cfg.Quiz.DefaultCount = 3
	a.Reload(cfg)

	code, env := call(t, a, http.MethodGet, "/api/quiz/questions/algebra/revision", "", nil)
	require.Equal(t, http.StatusOK, code)
	var sel quiz.Selection
	decode(t, env, &sel)
	assert.Equal(t, 3, sel.Delivered)
}

func TestMetricsAndSwagger(t *testing.T) {
	a := newTestApp(t)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/quiz/submit/{module}")
}
