package service

import (
	"context"
	"testing"
	"time"

	"math_quiz_backend/internal/model"
	"math_quiz_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStreakAndRecent(t *testing.T) {
	f := newFixture(t)
	user := f.login(t, "asha")
	ctx := context.Background()

	now := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	f.dashboard.now = func() time.Time { return now }

	// Activity today, yesterday and the day before, a gap, then older days.
	for _, daysAgo := range []int{0, 0, 1, 2, 4, 5, 6, 7, 8, 9, 10, 11} {
		r := &model.QuizResult{UserID: user.ID, Module: "Algebra", QuizType: model.ModeMock, TotalQuestions: 1}
		r.CreatedAt = now.AddDate(0, 0, -daysAgo).Add(-time.Hour)
		require.NoError(t, f.results.Create(ctx, r))
	}

	d, err := f.dashboard.GetUserDashboard(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Streak)
	assert.Len(t, d.RecentQuizzes, 10)
	assert.Equal(t, "asha", d.User.Username)
	assert.Equal(t, user.ID, d.Progress.UserID)
}

func TestDashboardStreakSurvivesQuietToday(t *testing.T) {
	f := newFixture(t)
	user := f.login(t, "bilal")
	ctx := context.Background()

	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	f.dashboard.now = func() time.Time { return now }
	for _, daysAgo := range []int{1, 2} {
		r := &model.QuizResult{UserID: user.ID, Module: "Algebra", QuizType: model.ModeMock}
		r.CreatedAt = now.AddDate(0, 0, -daysAgo)
		require.NoError(t, f.results.Create(ctx, r))
	}

	streak, err := f.dashboard.Streak(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
}

func TestDashboardUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.dashboard.GetUserDashboard(context.Background(), 404)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestLeaderboardRoundsAccuracy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, s := range []struct {
		name               string
		attempted, correct int
		accuracy           float64
	}{
		{"asha", 3, 2, 66.67},
		{"bilal", 8, 1, 12.5},
		{"chen", 3, 3, 100},
	} {
		u := f.login(t, s.name)
		p, err := f.progress.Get(ctx, u.ID)
		require.NoError(t, err)
		p.TotalQuestionsAttempted = s.attempted
		p.TotalCorrectAnswers = s.correct
		p.TotalQuizzesTaken = 1
		p.Accuracy = s.accuracy
		require.NoError(t, f.progress.Save(ctx, p))
	}

	rows, err := f.dashboard.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, LeaderboardRow{Rank: 1, Username: "chen", FullName: "chen", QuizzesTaken: 1, Accuracy: 100, CorrectAnswers: 3}, rows[0])
	assert.Equal(t, "asha", rows[1].Username)
	assert.Equal(t, 67, rows[1].Accuracy)
	assert.Equal(t, 13, rows[2].Accuracy)
	assert.Equal(t, 3, rows[2].Rank)
}
