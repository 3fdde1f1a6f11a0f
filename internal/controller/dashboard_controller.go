package controller

import (
	"math_quiz_backend/internal/service"
	"math_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary Dashboard
// @Description Caller's profile, progress, last quizzes and daily streak
// @Tags Dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Failure 401 {object} util.Response
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.DashboardService.GetUserDashboard(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, dashboard)
}

// @Summary Leaderboard
// @Description Top users by total correct answers
// @Tags Dashboard
// @Produce json
// @Success 200 {object} util.Response{data=[]service.LeaderboardRow}
// @Router /api/leaderboard [get]
func (c *DashboardController) GetLeaderboard(ctx *gin.Context) {
	rows, err := c.DashboardService.Leaderboard(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
