package controller

import (
	"errors"
	"math_quiz_backend/internal/service"
	"math_quiz_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response envelope. Anything
// unrecognised is logged and reported as a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidMode),
		errors.Is(err, util.ErrEmptySubmission),
		errors.Is(err, util.ErrInvalidUsername),
		errors.Is(err, util.ErrInvalidProfile),
		service.IsValidationError(err):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrUserNotFound), errors.Is(err, util.ErrQuestionNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrAdminNotConfigured):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, util.ErrSubmitInProgress):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
