package main

import (
	"context"
	"log"

	"github.com/globuddy/globuddy-server/internal/config"
	"github.com/globuddy/globuddy-server/internal/entity"
	"github.com/globuddy/globuddy-server/internal/server"
	"github.com/globuddy/globuddy-server/pkg/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect(cfg.DatabaseURL)
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	redisClient := connectRedis(cfg.RedisURL)

	srv := server.NewServer(db, redisClient, cfg)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.LearningLanguage{},
		&entity.Connection{},
		&entity.Post{},
		&entity.Comment{},
		&entity.Like{},
		&entity.Message{},
		&entity.Group{},
		&entity.GroupMember{},
		&entity.GroupMessage{},
		&entity.Notification{},
	)
}

// connectRedis returns nil when redis is not configured or unreachable.
// Live notification delivery, rate limiting and like-count caching degrade
// gracefully without it.
func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("REDIS_URL not set, running without redis")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, running without redis: %v", err)
		return nil
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unreachable, running without redis: %v", err)
		return nil
	}

	log.Println("connected to redis")
	return client
}
