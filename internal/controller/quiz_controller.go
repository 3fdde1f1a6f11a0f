package controller

import (
	"math_quiz_backend/internal/model"
	"math_quiz_backend/internal/service"
	"math_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// GetModules godoc
// @Summary List modules
// @Description Modules in the question bank with question, chapter and difficulty counts
// @Tags Quiz
// @Produce json
// @Success 200 {object} util.Response{data=[]service.ModuleSummary}
// @Router /api/quiz/modules [get]
func (c *QuizController) GetModules(ctx *gin.Context) {
	modules, err := c.QuizService.ListModules(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// GetQuestions godoc
// @Summary Draw a question set
// @Description Revision draws uniformly; mock draws 40% Easy, 40% Medium and the rest Hard, then shuffles. A short bank yields fewer questions than requested.
// @Tags Quiz
// @Produce json
// @Param module path string true "Module name or case-insensitive fragment"
// @Param type path string true "revision or mock"
// @Param difficulty query string false "Easy, Medium, Hard or all (revision only)"
// @Param limit query int false "Number of questions"
// @Success 200 {object} util.Response{data=quiz.Selection}
// @Failure 400 {object} util.Response
// @Router /api/quiz/questions/{module}/{type} [get]
func (c *QuizController) GetQuestions(ctx *gin.Context) {
	mode := model.QuizMode(ctx.Param("type"))
	limit := util.ParseIntDefault(ctx.Query("limit"), 0)

	sel, err := c.QuizService.SelectQuestions(ctx.Request.Context(), ctx.Param("module"), ctx.Query("difficulty"), mode, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sel)
}

// GetChapterPerformance godoc
// @Summary Chapter breakdown of a module
// @Tags Quiz
// @Produce json
// @Param module path string true "Module name or case-insensitive fragment"
// @Success 200 {object} util.Response{data=[]service.ChapterSummary}
// @Router /api/quiz/performance/{module} [get]
func (c *QuizController) GetChapterPerformance(ctx *gin.Context) {
	chapters, err := c.QuizService.ChapterPerformance(ctx.Request.Context(), ctx.Param("module"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, chapters)
}

// SubmitQuizRequest is the body of a quiz submission.
// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	Type        model.QuizMode    `json:"type"`
	Answers     map[string]string `json:"answers"`
	QuestionIDs []string          `json:"questionIds"`
	TimeTaken   int               `json:"timeTaken" binding:"gte=0"`
}

// SubmitQuiz godoc
// @Summary Submit answers
// @Description Grades the answers, stores the result and updates the caller's progress
// @Tags Quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param module path string true "Module"
// @Param body body SubmitQuizRequest true "Answers keyed by question id"
// @Success 201 {object} util.Response{data=service.SubmitResponse}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/quiz/submit/{module} [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Type == "" {
		req.Type = model.ModeMock
	}

	resp, err := c.QuizService.Submit(ctx.Request.Context(), user.UserID, service.SubmitRequest{
		Module:      ctx.Param("module"),
		Mode:        req.Type,
		Answers:     req.Answers,
		QuestionIDs: req.QuestionIDs,
		TimeTaken:   req.TimeTaken,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, resp)
}
