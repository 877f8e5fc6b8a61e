package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Dylan-Mejia/QuizAppBCS377/internal/cache"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/config"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/question"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/repository"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/service"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/transport/rest"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// Question catalog: a malformed catalog is a startup failure.
	pool, err := question.LoadPool(cfg.QuestionsPath)
	if err != nil {
		log.Fatal("Failed to load question catalog: ", err)
	}
	log.Printf("Loaded %d questions from %s", pool.Len(), cfg.QuestionsPath)

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB: ", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis: ", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	sessionRepo := repository.NewSessionRepo(db)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb)
	lbCache := cache.NewLeaderboardCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	gameSvc := service.NewGameService(pool, question.NewSampler(pool, nil), userRepo, sessionRepo, sessionCache, lbCache)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	gameSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService: authSvc,
		GameService: gameSvc,
		WSHub:       wsHub,
		StaticDir:   cfg.StaticDir,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /api/auth/signup")
		log.Println("  POST /api/auth/login")
		log.Println("  GET  /api/auth/me")
		log.Println("  POST /api/game/start")
		log.Println("  POST /api/game/answer")
		log.Println("  POST /api/game/finish")
		log.Println("  GET  /api/game/session/{id}")
		log.Println("  GET  /api/user/history")
		log.Println("  GET  /api/leaderboard")
		log.Println("  WS   /api/leaderboard/live")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe: ", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exited")
}
