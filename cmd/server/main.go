package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"trivia-backend/internal/config"
	"trivia-backend/internal/database"
	"trivia-backend/internal/router"

	"github.com/gin-gonic/gin"
)

// @title           Trivia API
// @version         1.0
// @description     Trivia questions, categories and quiz play
// @host            localhost:8080
// @BasePath        /

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	if cfg.SeedFile != "" {
		applied, err := database.Seed(db, cfg.SeedFile)
		if err != nil {
			log.Fatalf("failed to seed database from %s: %v", cfg.SeedFile, err)
		}
		if applied {
			log.Printf("database seeded from %s", cfg.SeedFile)
		} else {
			log.Println("database already has categories, seed skipped")
		}
	}

	r := router.New(cfg, db)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("server starting on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
