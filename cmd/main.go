package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lamngoc/ascent/config"
	"github.com/lamngoc/ascent/database"
	_ "github.com/lamngoc/ascent/docs" // Swagger docs
	adminctrl "github.com/lamngoc/ascent/internal/controller/admin"
	candidatectrl "github.com/lamngoc/ascent/internal/controller/candidate"
	"github.com/lamngoc/ascent/internal/events"
	"github.com/lamngoc/ascent/internal/logger"
	"github.com/lamngoc/ascent/internal/model"
	"github.com/lamngoc/ascent/internal/repository"
	"github.com/lamngoc/ascent/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Ascent Leadership Assessment API
// @version 1.0
// @description Adaptive leadership-assessment API: candidates answer five questions, an AI gateway personalizes questions from prior answers, and chapter admins review candidates.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			events.NewDispatcher,
		),

		fx.Provide(
			repository.NewAssessmentRepository,
			repository.NewResponseRepository,
			repository.NewVerticalRepository,
			repository.NewAdaptationRecordRepository,
			repository.NewRateCounterRepository,
		),

		fx.Provide(
			service.NewGeminiGenerator,
			service.NewVerticalSuggestionService,
			service.NewQuestionAdapterService,
			service.NewRelevanceGuard,
			service.NewDraftService,
			service.NewAnalyticsService,
			service.NewRateLimitService,
			service.NewScoringService,
			service.NewAssessmentService,
			service.NewAdminService,
		),

		fx.Provide(
			candidatectrl.NewAssessmentController,
			adminctrl.NewAdminController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(StartDispatcher),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Chapter-ID", "X-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartDispatcher ties the outbound job queue to the application lifecycle.
func StartDispatcher(lc fx.Lifecycle, dispatcher *events.Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			dispatcher.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return dispatcher.Stop(ctx)
		},
	})
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	assessmentCtrl *candidatectrl.AssessmentController,
	adminCtrl *adminctrl.AdminController,
) {
	apiGroup := router.Group("/api/v1")
	assessmentCtrl.RegisterRoutes(apiGroup)

	adminGroup := router.Group("/api/v1/admin")
	adminCtrl.RegisterRoutes(adminGroup)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Ascent API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Assessment{},
		&model.Response{},
		&model.Vertical{},
		&model.AdaptationRecord{},
		&model.RateCounter{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
