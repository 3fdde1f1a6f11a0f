package controller

import (
	"math_quiz_backend/internal/service"
	"math_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminService *service.AdminService
}

func NewAdminController(adminService *service.AdminService) *AdminController {
	return &AdminController{AdminService: adminService}
}

// @Summary List questions
// @Description Paged question bank, newest first
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param module query string false "Module filter"
// @Param difficulty query string false "Difficulty filter"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=service.QuestionPage}
// @Router /api/admin/questions [get]
func (c *AdminController) ListQuestions(ctx *gin.Context) {
	page, limit := util.Paging(ctx.Query("page"), ctx.Query("limit"))

	result, err := c.AdminService.List(ctx.Request.Context(), ctx.Query("module"), ctx.Query("difficulty"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary Get a question
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Question ID"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /api/admin/questions/{id} [get]
func (c *AdminController) GetQuestion(ctx *gin.Context) {
	q, err := c.AdminService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary Create a question
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuestionRequest true "Question"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Router /api/admin/questions [post]
func (c *AdminController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.AdminService.Create(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary Update a question
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Question ID"
// @Param body body service.QuestionRequest true "Question"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/questions/{id} [put]
func (c *AdminController) UpdateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.AdminService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary Delete a question
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Question ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (c *AdminController) DeleteQuestion(ctx *gin.Context) {
	if err := c.AdminService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id")})
}

// @Summary Platform statistics
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.AdminStats}
// @Router /api/admin/stats [get]
func (c *AdminController) GetStats(ctx *gin.Context) {
	stats, err := c.AdminService.Stats(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary List users by activity
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=service.UserPage}
// @Router /api/admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, limit := util.Paging(ctx.Query("page"), ctx.Query("limit"))

	users, err := c.AdminService.ListUsers(ctx.Request.Context(), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}
