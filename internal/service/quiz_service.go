package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"math_quiz_backend/internal/config"
	"math_quiz_backend/internal/model"
	"math_quiz_backend/internal/quiz"
	"math_quiz_backend/internal/repository"
	"math_quiz_backend/internal/util"
	"math_quiz_backend/pkg/logger"
	"math_quiz_backend/pkg/monitoring"
	"math_quiz_backend/pkg/tracing"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuestionStore is the question bank plus the grouped counts the catalogue
// endpoints need.
type QuestionStore interface {
	quiz.QuestionBank
	CountByGroup(ctx context.Context, f quiz.Filter) ([]repository.QuestionGroupCount, error)
}

type quizLimits struct {
	defaultCount int
	maxCount     int
	topics       quiz.TopicThresholds
}

type QuizService struct {
	DB           *gorm.DB
	Questions    QuestionStore
	ResultRepo   *repository.QuizResultRepository
	ProgressRepo *repository.ProgressRepository
	Locker       UserLocker
	Selector     *quiz.Selector

	mu     sync.RWMutex
	limits quizLimits
	now    func() time.Time
}

func NewQuizService(
	db *gorm.DB,
	questions QuestionStore,
	resultRepo *repository.QuizResultRepository,
	progressRepo *repository.ProgressRepository,
	locker UserLocker,
	cfg *config.QuizConfig,
) *QuizService {
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if locker == nil {
		locker = NewLocalLocker()
	}
	s := &QuizService{
		DB:           db,
		Questions:    questions,
		ResultRepo:   resultRepo,
		ProgressRepo: progressRepo,
		Locker:       locker,
		Selector:     quiz.NewSelector(rand.NewSource(seed)),
		now:          time.Now,
	}
	s.SetLimits(cfg)
	return s
}

// SetLimits applies count limits and topic thresholds from a (re)loaded config.
func (s *QuizService) SetLimits(cfg *config.QuizConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = quizLimits{
		defaultCount: cfg.DefaultCount,
		maxCount:     cfg.MaxCount,
		topics:       cfg.Topics,
	}
}

func (s *QuizService) currentLimits() quizLimits {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limits
}

// ClampCount maps a requested count into [1, max]; non-positive requests
// get the default.
func (s *QuizService) ClampCount(n int) int {
	l := s.currentLimits()
	if n <= 0 {
		n = l.defaultCount
	}
	if l.maxCount > 0 && n > l.maxCount {
		n = l.maxCount
	}
	return n
}

type DifficultyCounts struct {
	Easy   int64 `json:"easy"`
	Medium int64 `json:"medium"`
	Hard   int64 `json:"hard"`
}

func (d *DifficultyCounts) add(diff model.Difficulty, n int64) {
	switch diff {
	case model.Easy:
		d.Easy += n
	case model.Medium:
		d.Medium += n
	case model.Hard:
		d.Hard += n
	}
}

type ModuleSummary struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	TotalQuestions int64            `json:"totalQuestions"`
	Chapters       int              `json:"chapters"`
	Difficulty     DifficultyCounts `json:"difficulty"`
}

type ChapterSummary struct {
	Chapter        string           `json:"chapter"`
	TotalQuestions int64            `json:"totalQuestions"`
	Difficulty     DifficultyCounts `json:"difficulty"`
}

// moduleSlug turns "Coordinate Geometry" into "coordinate-geometry".
func moduleSlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// ListModules summarizes every module present in the bank.
func (s *QuizService) ListModules(ctx context.Context) ([]ModuleSummary, error) {
	rows, err := s.Questions.CountByGroup(ctx, quiz.Filter{})
	if err != nil {
		return nil, err
	}

	summaries := []ModuleSummary{}
	index := make(map[model.Module]int)
	for _, row := range rows {
		i, ok := index[row.Module]
		if !ok {
			summaries = append(summaries, ModuleSummary{
				ID:   moduleSlug(string(row.Module)),
				Name: string(row.Module),
			})
			i = len(summaries) - 1
			index[row.Module] = i
		}
		m := &summaries[i]
		m.TotalQuestions += row.Count
		m.Difficulty.add(row.Difficulty, row.Count)
	}

	// Rows arrive grouped by (module, chapter, difficulty), so distinct
	// chapters are counted on a second pass.
	chapters := make(map[model.Module]map[string]struct{})
	for _, row := range rows {
		if chapters[row.Module] == nil {
			chapters[row.Module] = make(map[string]struct{})
		}
		chapters[row.Module][row.Chapter] = struct{}{}
	}
	for i := range summaries {
		summaries[i].Chapters = len(chapters[model.Module(summaries[i].Name)])
	}
	return summaries, nil
}

// ChapterPerformance breaks the questions of the matching module(s) down by
// chapter and difficulty.
func (s *QuizService) ChapterPerformance(ctx context.Context, module string) ([]ChapterSummary, error) {
	rows, err := s.Questions.CountByGroup(ctx, quiz.NewFilter(module, ""))
	if err != nil {
		return nil, err
	}

	summaries := []ChapterSummary{}
	index := make(map[string]int)
	for _, row := range rows {
		i, ok := index[row.Chapter]
		if !ok {
			summaries = append(summaries, ChapterSummary{Chapter: row.Chapter})
			i = len(summaries) - 1
			index[row.Chapter] = i
		}
		summaries[i].TotalQuestions += row.Count
		summaries[i].Difficulty.add(row.Difficulty, row.Count)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Chapter < summaries[j].Chapter })
	return summaries, nil
}

// SelectQuestions draws a question set. Mock mode stratifies by difficulty
// and therefore ignores the difficulty filter. A short bank under-fills the
// set; the shortfall is logged and counted, never returned as an error.
func (s *QuizService) SelectQuestions(ctx context.Context, module, difficulty string, mode model.QuizMode, count int) (*quiz.Selection, error) {
	if !mode.Valid() {
		return nil, util.ErrInvalidMode
	}
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.SelectQuestions")
	defer span.End()

	filter := quiz.NewFilter(module, difficulty)
	if mode == model.ModeMock {
		filter.Difficulty = ""
	}
	n := s.ClampCount(count)

	pool, err := s.Questions.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load question pool: %w", err)
	}

	sel := s.Selector.Select(pool, mode, n)
	span.SetAttributes(
		attribute.String("quiz.mode", string(mode)),
		attribute.Int("quiz.requested", sel.Requested),
		attribute.Int("quiz.delivered", sel.Delivered),
	)

	if sel.Short() {
		monitoring.QuestionsUnderfilled.WithLabelValues(string(mode)).Add(float64(sel.Requested - sel.Delivered))
		logger.Log.Warn("Question set under-filled",
			zap.String("module", module),
			zap.String("mode", string(mode)),
			zap.Int("requested", sel.Requested),
			zap.Int("delivered", sel.Delivered),
			zap.Error(sel.Err()),
		)
	}
	return sel, nil
}

type SubmitRequest struct {
	Module string
	Mode   model.QuizMode
	// Answers maps question id to the submitted answer.
	Answers map[string]string
	// QuestionIDs is the presented set; unanswered ids count as incorrect.
	// When empty, the answered ids are the presented set.
	QuestionIDs []string
	TimeTaken   int
}

type SubmitResponse struct {
	Result   *model.QuizResult   `json:"result"`
	Progress *model.UserProgress `json:"progress"`
	// Ignored counts answers whose question id was not in the presented set.
	Ignored int `json:"ignored"`
}

// presentedIDs returns the de-duplicated presented set in a stable order.
func presentedIDs(req *SubmitRequest) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(req.QuestionIDs) > 0 {
		for _, id := range req.QuestionIDs {
			add(id)
		}
		return ids
	}
	answered := make([]string, 0, len(req.Answers))
	for id := range req.Answers {
		answered = append(answered, id)
	}
	sort.Strings(answered)
	for _, id := range answered {
		add(id)
	}
	return ids
}

// Submit grades a submission, stores the result and folds it into the
// user's progress. The store-then-fold sequence runs under the user's lock
// inside one transaction, so concurrent submissions by one user never lose
// an update.
func (s *QuizService) Submit(ctx context.Context, userID uint, req SubmitRequest) (*SubmitResponse, error) {
	if !req.Mode.Valid() {
		return nil, util.ErrInvalidMode
	}
	ids := presentedIDs(&req)
	if len(ids) == 0 {
		return nil, util.ErrEmptySubmission
	}

	ctx, span := tracing.Tracer.Start(ctx, "QuizService.Submit")
	defer span.End()

	found, err := s.Questions.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load presented questions: %w", err)
	}
	byID := make(map[string]model.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	questions := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, util.ErrEmptySubmission
	}
	if dropped := len(ids) - len(questions); dropped > 0 {
		logger.Log.Info("Dropped unknown question ids from submission",
			zap.Uint("userID", userID),
			zap.Int("dropped", dropped),
		)
	}

	result := quiz.Score(questions, req.Answers, req.TimeTaken)
	result.UserID = userID
	result.Module = req.Module
	result.QuizType = req.Mode

	unlock, err := s.Locker.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	limits := s.currentLimits()
	var progress *model.UserProgress
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		results := s.ResultRepo.WithTx(tx)
		progressRepo := s.ProgressRepo.WithTx(tx)

		now := s.now()
		result.CreatedAt = now
		if err := results.Create(ctx, &result); err != nil {
			return fmt.Errorf("store quiz result: %w", err)
		}

		p, err := progressRepo.GetForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		history, err := results.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("load result history: %w", err)
		}

		var next model.UserProgress
		if p.Malformed() {
			monitoring.MalformedProgress.Inc()
			logger.Log.Warn("Rebuilding inconsistent progress from history",
				zap.Uint("userID", userID),
				zap.Int("attempted", p.TotalQuestionsAttempted),
				zap.Int("correct", p.TotalCorrectAnswers),
				zap.Error(quiz.ErrMalformedProgress),
			)
			next = quiz.Rebuild(*p, history, now)
		} else {
			next = quiz.ApplyResult(*p, result, now)
		}
		next.StrongTopics, next.WeakTopics = quiz.Topics(history, limits.topics)

		if err := progressRepo.Save(ctx, &next); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
		progress = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.QuizzesSubmitted.WithLabelValues(string(req.Mode)).Inc()
	monitoring.QuizAccuracy.WithLabelValues(string(req.Mode)).Observe(result.Accuracy)
	logger.Log.Info("Quiz submitted",
		zap.Uint("userID", userID),
		zap.String("module", req.Module),
		zap.String("mode", string(req.Mode)),
		zap.Int("correct", result.CorrectAnswers),
		zap.Int("total", result.TotalQuestions),
		zap.Float64("accuracy", result.Accuracy),
	)

	return &SubmitResponse{Result: &result, Progress: progress, Ignored: result.Ignored}, nil
}

// IsNotFound reports a missing record from any repository.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
