package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/local-fix/api-go/config"
	"github.com/local-fix/api-go/routes"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, relying on environment")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	// Initialize database
	db := config.InitDB()

	// Create a new Gin router
	r := gin.Default()

	// Initialize routes
	routes.SetupRoutes(r, db)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("starting server")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
