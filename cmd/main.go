package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"crms/backend/internal/api/handler"
	"crms/backend/internal/auth"
	"crms/backend/internal/complaint"
	"crms/backend/internal/evidence"
	"crms/backend/internal/hub"
	"crms/backend/internal/list"
	"crms/backend/internal/models"
	"crms/backend/internal/notify"
	"crms/backend/internal/resolver"
	"crms/backend/internal/storage"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupDependencies() (*gorm.DB, *redis.Client) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		env("DB_HOST", "localhost"),
		env("DB_USER", "user"),
		env("DB_PASSWORD", "password"),
		env("DB_NAME", "crmsdb"),
		env("DB_PORT", "5432"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     env("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Complaint{},
		&models.Evidence{},
		&models.ComplaintUpdate{},
		&models.AuditEntry{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting CRMS Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	names := resolver.New(s)
	pager := list.NewPager(s, names)

	authSvc := auth.NewService(s)
	complaintSvc := complaint.NewService(s)

	evidenceDir := env("EVIDENCE_DIR", "./data/evidence")
	blobs := evidence.NewFSStore(evidenceDir, env("EVIDENCE_BASE_URL", "/files"))
	evidenceSvc := evidence.NewService(s, blobs)

	manager := hub.NewManager(s)
	go manager.Run()

	// Telegram notifications are optional; set the token to enable.
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		notifier, err := notify.NewTelegramNotifier(token, s)
		if err != nil {
			log.Fatalf("Failed to start Telegram notifier: %v", err)
		}
		complaintSvc.SetNotifier(notifier)
		go notifier.Run()
	}

	r := gin.Default()
	h := handler.NewHandler(s, authSvc, complaintSvc, evidenceSvc, pager, manager)
	h.RegisterRoutes(r)

	// Evidence download URLs resolve against this static route: the
	// store's base URL mounts its base directory.
	r.Static("/files", evidenceDir)

	server := &http.Server{
		Addr:           ":" + env("PORT", "8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
