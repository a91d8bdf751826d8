package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/model"
	auth_service "schoolpass-board-service/internal/service/auth"
)

type AuthHandler struct {
	auth     auth_service.Service
	log      *logger.Logger
	validate *validator.Validate
}

func NewAuthHandler(auth auth_service.Service, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		log:      log,
		validate: validator.New(),
	}
}

type registerRequest struct {
	Username        string `json:"username" validate:"required,alphanum,min=3,max=32"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	Nickname        string `json:"nickname" validate:"required,max=32"`
	Email           string `json:"email" validate:"required,email"`
	School          string `json:"school" validate:"required,max=64"`
	Grade           string `json:"grade" validate:"required,max=16"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.log.Debug("Register validation failed", slog.String("error", err.Error()))
		Error(ctx, http.StatusBadRequest, 40001, err.Error())
		return
	}

	user, err := h.auth.Register(ctx.Request.Context(), &model.RegisterDTO{
		Username:        req.Username,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Nickname:        req.Nickname,
		Email:           req.Email,
		School:          req.School,
		Grade:           req.Grade,
	})
	if err != nil {
		FromError(ctx, err)
		return
	}

	Success(ctx, user)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		Error(ctx, http.StatusBadRequest, 40001, err.Error())
		return
	}

	user, token, err := h.auth.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		FromError(ctx, err)
		return
	}

	Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	id, ok := userID(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, 40102, "authorization required")
		return
	}

	user, err := h.auth.GetUser(ctx.Request.Context(), id)
	if err != nil {
		FromError(ctx, err)
		return
	}

	Success(ctx, user)
}
