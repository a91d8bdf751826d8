package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"schoolpass-board-service/internal/config"
	delivery_http "schoolpass-board-service/internal/delivery/http"
	metrics_server "schoolpass-board-service/internal/delivery/metrics"
	"schoolpass-board-service/internal/logger"
	prometheus_metrics "schoolpass-board-service/internal/metrics/prometheus"
	comment_postgres "schoolpass-board-service/internal/repository/comment/postgres"
	like_postgres "schoolpass-board-service/internal/repository/like/postgres"
	post_postgres "schoolpass-board-service/internal/repository/post/postgres"
	"schoolpass-board-service/internal/repository/postgres"
	tag_postgres "schoolpass-board-service/internal/repository/tag/postgres"
	user_postgres "schoolpass-board-service/internal/repository/user/postgres"
	auth_service "schoolpass-board-service/internal/service/auth"
	board_service "schoolpass-board-service/internal/service/board"
	"schoolpass-board-service/internal/storage"
)

func main() {
	cfg := config.MustLoad()
	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DbName)
	ctx := context.Background()
	log := logger.New(cfg.Env)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Error("Failed to parse postgres poolConfig", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("Failed to create postgres pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()
	metrics.SetServiceHealth(true)

	files, err := storage.NewLocalStorage(cfg.Uploads.Dir, log)
	if err != nil {
		log.Error("Failed to init uploads storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	unitOfWork := postgres.NewPostgresUOW(pool, log, metrics)
	postRepo := post_postgres.NewPostRepository(pool, log, metrics)
	tagRepo := tag_postgres.NewTagRepository(pool, log, metrics)
	commentRepo := comment_postgres.NewCommentRepository(pool, log, metrics)
	likeRepo := like_postgres.NewLikeRepository(pool, log, metrics)
	userRepo := user_postgres.NewUserRepository(pool, log, metrics)

	boardService := board_service.NewBoardService(postRepo, tagRepo, commentRepo, likeRepo, unitOfWork, files, log, metrics)
	authService := auth_service.NewAuthService(userRepo, log, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authHandler := delivery_http.NewAuthHandler(authService, log)
	boardHandler := delivery_http.NewBoardHandler(boardService, files, log)

	router := delivery_http.NewRouter(authHandler, boardHandler, cfg.Uploads.Dir, []byte(cfg.Auth.JWTSecret), log, metrics)
	httpServer := delivery_http.NewServer(router, cfg.HTTPServer.Address, cfg.HTTPServer.Port, log)

	metricsServer := metrics_server.NewServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	done := make(chan bool, 1)
	metricsDone := make(chan bool, 1)

	go func() {
		if err := httpServer.Run(); err != nil {
			log.Error("HTTP server error", slog.String("error", err.Error()))
		}
		done <- true
	}()

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	metrics.SetServiceHealth(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	<-done
	<-metricsDone

	log.Info("Server exited")
}
