package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hearthline/hearthline/config"
	"github.com/hearthline/hearthline/internal/api/handlers"
	"github.com/hearthline/hearthline/internal/api/middleware"
	"github.com/hearthline/hearthline/internal/api/routes"
	"github.com/hearthline/hearthline/internal/cache"
	"github.com/hearthline/hearthline/internal/logger"
	"github.com/hearthline/hearthline/internal/providers/llm"
	mongorepo "github.com/hearthline/hearthline/internal/repositories/mongo"
	pgrepo "github.com/hearthline/hearthline/internal/repositories/postgres"
	"github.com/hearthline/hearthline/internal/services"
	"github.com/hearthline/hearthline/internal/workers"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	ctx := context.Background()

	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("MongoDB init failed")
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("MongoDB index bootstrap failed")
	}
	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init failed")
	}
	if err := config.InitRedis(); err != nil {
		log.WithError(err).Fatal("Redis init failed")
	}

	engineCfg, err := config.LoadAnalysisConfig(os.Getenv("ANALYSIS_CONFIG_PATH"))
	if err != nil {
		log.WithError(err).Fatal("analysis config load failed")
	}

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "hearthline"
	}
	mongoDB := config.MongoClient.Database(dbName)

	callRepo := mongorepo.NewCallRepo(mongoDB)
	transcriptRepo := pgrepo.NewTranscriptRepo(config.PostgresDB)
	reportRepo := pgrepo.NewReportRepo(config.PostgresDB)
	caregiverRepo := pgrepo.NewCaregiverRepo(config.PostgresDB)

	callSvc := services.NewCallService(callRepo, transcriptRepo, reportRepo, config.RedisClient, engineCfg, log)
	transcriptSvc := services.NewTranscriptService(transcriptRepo)
	reportSvc := services.NewReportService(reportRepo, cache.NewRedisCache(config.RedisClient))
	authSvc := services.NewAuthService(caregiverRepo)

	// optional LLM reviewer; the deterministic pipeline runs without it
	var reviewer llm.Provider
	var embedder llm.Embedder
	if project := os.Getenv("GCP_PROJECT_ID"); project != "" {
		location := os.Getenv("GCP_LOCATION")
		if location == "" {
			location = "us-central1"
		}
		vg, verr := llm.NewVertexGemini(ctx, project, location, os.Getenv("VERTEX_MODEL"), os.Getenv("VERTEX_EMBED_MODEL"))
		if verr != nil {
			log.WithError(verr).Warn("Vertex init failed; running without second opinions")
		} else {
			reviewer = vg
			embedder = vg
			defer vg.Close()
		}
	}

	pool := &workers.ReviewWorkerPool{
		Redis:       config.RedisClient,
		Transcripts: transcriptRepo,
		Reports:     reportRepo,
		LLM:         reviewer,
		Embedder:    embedder,
		Logger:      log,
	}
	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Fatal("review worker start failed")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:   handlers.NewAuthHandler(authSvc),
		Call:   handlers.NewCallHandler(callSvc, transcriptSvc),
		Report: handlers.NewReportHandler(reportSvc, caregiverRepo),
		WS:     handlers.NewWSHandler(callSvc, config.RedisClient),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
