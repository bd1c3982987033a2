package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/npthao/examhub/config"
	"github.com/npthao/examhub/database"
	adminctrl "github.com/npthao/examhub/internal/controller/admin"
	userctrl "github.com/npthao/examhub/internal/controller/user"
	"github.com/npthao/examhub/internal/logger"
	"github.com/npthao/examhub/internal/middleware"
	"github.com/npthao/examhub/internal/repository"
	"github.com/npthao/examhub/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

// @title ExamHub API
// @version 1.0
// @description Test attempt lifecycle API: start or resume attempts, autosave progress, submit for grading and review results with AI feedback.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewTestRepository,
			repository.NewQuestionRepository,
			repository.NewTestAttemptRepository,
		),

		fx.Provide(
			service.NewTestCatalogService,
			service.NewAdminTestService,
			service.NewGeminiFeedbackService,
			service.NewAttemptLifecycleService,
		),

		fx.Provide(
			userctrl.NewTestController,
			userctrl.NewAttemptController,
			adminctrl.NewAdminTestController,
		),

		fx.Invoke(database.Migrate),
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
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the server
// lifecycle through fx hooks.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	testCtrl *userctrl.TestController,
	attemptCtrl *userctrl.AttemptController,
	adminTestCtrl *adminctrl.AdminTestController,
) {
	adminAPIGroup := router.Group("/api/v1/admin")
	adminAPIGroup.Use(middleware.RequireAuth(cfg))
	{
		adminAPIGroup.POST("/tests", adminTestCtrl.CreateTest)
	}

	userAPIGroup := router.Group("/api/v1")
	userAPIGroup.Use(middleware.RequireAuth(cfg))
	{
		userAPIGroup.GET("/tests", testCtrl.GetAllTests)
		userAPIGroup.GET("/tests/:test_id", testCtrl.GetTestDetails)

		userAPIGroup.POST("/tests/:test_id/attempts/start", attemptCtrl.StartOrResume)
		userAPIGroup.GET("/tests/:test_id/attempt-status", attemptCtrl.GetStatus)
		userAPIGroup.GET("/tests/:test_id/my-attempts", attemptCtrl.GetMyAttemptsForTest)
		userAPIGroup.GET("/my-attempts", attemptCtrl.GetMyAttempts)

		userAPIGroup.PATCH("/attempts/:attempt_id/progress", attemptCtrl.SaveProgress)
		userAPIGroup.POST("/attempts/:attempt_id/submit", attemptCtrl.Submit)
		userAPIGroup.GET("/attempts/:attempt_id/result", attemptCtrl.GetResult)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("ExamHub API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
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
