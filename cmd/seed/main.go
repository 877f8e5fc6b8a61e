package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dylan-Mejia/QuizAppBCS377/internal/config"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/model"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/question"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/repository"
)

// Seeds a demo account and verifies the question catalog parses, so a
// fresh environment is playable right away.
func main() {
	cfg := config.Load()

	pool, err := question.LoadPool(cfg.QuestionsPath)
	if err != nil {
		log.Fatalf("Question catalog is invalid: %v", err)
	}
	fmt.Printf("Catalog OK: %d questions\n", pool.Len())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	users := repository.NewUserRepo(client.Database(cfg.MongoDatabase))

	const demoEmail = "demo@example.com"
	if _, err := users.GetByEmail(ctx, demoEmail); err == nil {
		fmt.Println("Demo user already exists, nothing to do")
		return
	} else if !errors.Is(err, model.ErrUserNotFound) {
		log.Fatalf("Failed to check demo user: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	user := &model.User{
		Email:            demoEmail,
		PasswordHash:     string(hash),
		DisplayName:      "Demo Player",
		RecentPlayedSets: []model.PlayedSet{},
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("Failed to insert demo user: %v", err)
	}

	fmt.Printf("Successfully created demo user '%s' (password: changeme)\n", demoEmail)
}
