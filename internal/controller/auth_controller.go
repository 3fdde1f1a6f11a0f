package controller

import (
	"math_quiz_backend/internal/service"
	"math_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

// Login godoc
// @Summary Log in by username
// @Description Finds or creates the account for the lower-cased username and returns a token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Username"
// @Success 200 {object} util.Response{data=service.LoginResponse}
// @Failure 400 {object} util.Response
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Username is required")
		return
	}

	resp, err := c.AuthService.Login(ctx.Request.Context(), req.Username)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// UpdateProfile godoc
// @Summary Update profile
// @Tags Auth
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Router /api/auth/profile [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.AuthService.UpdateProfile(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// swagger:model AdminLoginRequest
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLogin godoc
// @Summary Admin login
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body AdminLoginRequest true "Admin password"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Router /api/admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Password is required")
		return
	}

	token, err := c.AuthService.AdminLogin(req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"token": token})
}
