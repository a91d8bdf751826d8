package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/metrics"
)

// NewRouter assembles the HTTP surface: public reads, token-gated writes and
// the uploads directory served as static files.
func NewRouter(
	authHandler *AuthHandler,
	boardHandler *BoardHandler,
	uploadsDir string,
	jwtSecret []byte,
	log *logger.Logger,
	provider metrics.MetricsProvider,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(Observe(log, provider))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	router.Static("/uploads", uploadsDir)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", AuthRequired(jwtSecret), authHandler.Me)
		}

		api.GET("/home", boardHandler.Overview)
		api.GET("/tags", boardHandler.Tags)

		posts := api.Group("/posts")
		{
			posts.GET("", boardHandler.List)
			posts.GET("/:id", OptionalAuth(jwtSecret), boardHandler.Get)

			authed := posts.Group("", AuthRequired(jwtSecret))
			{
				authed.POST("", boardHandler.Create)
				authed.PUT("/:id", boardHandler.Update)
				authed.DELETE("/:id", boardHandler.Delete)
				authed.POST("/:id/comments", boardHandler.AddComment)
				authed.POST("/:id/like", boardHandler.ToggleLike)
			}
		}

		api.DELETE("/comments/:id", AuthRequired(jwtSecret), boardHandler.DeleteComment)
		api.GET("/me/posts", AuthRequired(jwtSecret), boardHandler.MyPosts)
	}

	return router
}
