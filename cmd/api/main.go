package main

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/justsurfingit/job-application-tracker/internal/auth"
	"github.com/justsurfingit/job-application-tracker/internal/config"
	"github.com/justsurfingit/job-application-tracker/internal/database"
	"github.com/justsurfingit/job-application-tracker/internal/handlers"
	"github.com/justsurfingit/job-application-tracker/internal/logger"
	"github.com/justsurfingit/job-application-tracker/internal/services"
	"github.com/justsurfingit/job-application-tracker/internal/storage"
)

func main() {
	// 1. Logging & Environment
	logger.Init()
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// 2. Database Connection
	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// 3. Core Services
	appService := services.NewApplicationService(db)

	// 4. Identity Verification
	verifier := auth.NewVerifier(cfg.AuthDomain, cfg.AuthAudience)

	// 5. Handlers
	appHandler := handlers.NewApplicationHandler(appService)

	var uploadHandler *handlers.UploadHandler
	if cfg.S3Bucket != "" {
		st, err := storage.NewS3Storage(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			cfg.S3Region,
			cfg.S3Bucket,
			cfg.S3Endpoint,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure object storage")
		}
		uploadHandler = handlers.NewUploadHandler(st)
	} else {
		log.Warn().Msg("S3_BUCKET not set, resume uploads disabled")
	}

	// 6. Router & CORS
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(loggerMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 7. Routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		apps := api.Group("/applications", verifier.Middleware())
		{
			apps.POST("", appHandler.CreateApplication)
			apps.GET("", appHandler.ListApplications)
			apps.GET("/stats", appHandler.GetStats)
			apps.GET("/search", appHandler.SearchApplications)
			apps.GET("/:id", appHandler.GetApplication)
			apps.PUT("/:id", appHandler.UpdateApplication)
			apps.DELETE("/:id", appHandler.DeleteApplication)

			if uploadHandler != nil {
				apps.POST("/resume", uploadHandler.UploadResume)
			}
		}
	}

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
