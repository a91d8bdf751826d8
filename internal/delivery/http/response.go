package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolpass-board-service/internal/custom_errors"
)

// JSONResponse is the uniform envelope for every API reply.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Respond(ctx *gin.Context, status, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, 0, "success", data)
}

func Error(ctx *gin.Context, status, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// FromError maps domain errors onto HTTP statuses.
func FromError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, custom_errors.ErrPostNotFound),
		errors.Is(err, custom_errors.ErrCommentNotFound),
		errors.Is(err, custom_errors.ErrUserNotFound),
		errors.Is(err, custom_errors.ErrTagNotFound):
		Error(ctx, http.StatusNotFound, 40401, err.Error())
	case errors.Is(err, custom_errors.ErrForbidden):
		Error(ctx, http.StatusForbidden, 40301, err.Error())
	case errors.Is(err, custom_errors.ErrUsernameExists),
		errors.Is(err, custom_errors.ErrAlreadyLiked):
		Error(ctx, http.StatusConflict, 40901, err.Error())
	case errors.Is(err, custom_errors.ErrValidationFailed),
		errors.Is(err, custom_errors.ErrPasswordMismatch):
		Error(ctx, http.StatusBadRequest, 40001, err.Error())
	case errors.Is(err, custom_errors.ErrInvalidCredentials):
		Error(ctx, http.StatusUnauthorized, 40101, err.Error())
	default:
		Error(ctx, http.StatusInternalServerError, 50001, "internal server error")
	}
}
