package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/metrics"
	auth_service "schoolpass-board-service/internal/service/auth"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	ContextNicknameKey = "nickname"
)

func bearerToken(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(secret []byte) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			Error(ctx, http.StatusUnauthorized, 40102, "authorization required")
			ctx.Abort()
			return
		}

		claims, err := auth_service.ParseToken(token, secret)
		if err != nil {
			Error(ctx, http.StatusUnauthorized, 40103, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextNicknameKey, claims.Nickname)
		ctx.Next()
	}
}

// OptionalAuth attaches the viewer identity when a valid token is present and
// lets anonymous requests through untouched.
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token := bearerToken(ctx); token != "" {
			if claims, err := auth_service.ParseToken(token, secret); err == nil {
				ctx.Set(ContextUserIDKey, claims.UserID)
				ctx.Set(ContextUsernameKey, claims.Username)
				ctx.Set(ContextNicknameKey, claims.Nickname)
			}
		}
		ctx.Next()
	}
}

func userID(ctx *gin.Context) (int64, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}

// Observe logs each request and feeds the HTTP metrics.
func Observe(log *logger.Logger, provider metrics.MetricsProvider) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = ctx.Request.URL.Path
		}
		status := strconv.Itoa(ctx.Writer.Status())

		provider.IncrementHTTPRequests(ctx.Request.Method, path, status)
		provider.RecordHTTPRequestDuration(ctx.Request.Method, path, time.Since(start))

		log.Debug("Request handled",
			slog.String("method", ctx.Request.Method),
			slog.String("path", path),
			slog.String("status", status),
			slog.Duration("duration", time.Since(start)))
	}
}
