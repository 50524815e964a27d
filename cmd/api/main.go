package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ds-interno/solicitudes-api/api/swagger"
	"github.com/ds-interno/solicitudes-api/internal/handler"
	"github.com/ds-interno/solicitudes-api/internal/middleware"
	"github.com/ds-interno/solicitudes-api/internal/repository"
	"github.com/ds-interno/solicitudes-api/internal/service"
	"github.com/ds-interno/solicitudes-api/pkg/cache"
	"github.com/ds-interno/solicitudes-api/pkg/config"
	"github.com/ds-interno/solicitudes-api/pkg/database"
	"github.com/ds-interno/solicitudes-api/pkg/jobs"
	"github.com/ds-interno/solicitudes-api/pkg/logger"
	"github.com/ds-interno/solicitudes-api/pkg/mailer"
	corsmiddleware "github.com/ds-interno/solicitudes-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ds-interno/solicitudes-api/pkg/middleware/requestid"
)

// @title Solicitudes DS API
// @version 1.0.0
// @description Request approval and Kanban tracking backend for the development team
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()

	solicitudRepo := repository.NewSolicitudRepository(db)
	actividadRepo := repository.NewActividadRepository(db)
	sprintRepo := repository.NewSprintRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	notifier := mailer.New(cfg.SMTP)

	correoQueue := jobs.NewQueue("correos", func(ctx context.Context, job jobs.Job) error {
		correo, ok := job.Payload.(service.CorreoJob)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", job.Payload)
		}
		return notifier.Send(correo.Para, correo.Asunto, correo.HTML)
	}, jobs.QueueConfig{
		Workers:    cfg.MailQueue.Workers,
		BufferSize: cfg.MailQueue.BufferSize,
		MaxRetries: cfg.MailQueue.MaxRetries,
		RetryDelay: cfg.MailQueue.RetryDelay,
		Logger:     logr,
	})
	correoQueue.Start(ctx)
	defer correoQueue.Stop()

	metricsSvc := service.NewMetricsService()
	syncSvc := service.NewSyncService(actividadRepo, solicitudRepo, logr)

	var dashboardCache *repository.CacheRepository
	if cfg.Dashboard.CacheEnabled && redisClient != nil {
		dashboardCache = cacheRepo
	}
	solicitudSvc := service.NewSolicitudService(
		solicitudRepo,
		actividadRepo,
		sprintRepo,
		notifier,
		correoQueue,
		dashboardCache,
		cfg.Dashboard.CacheTTL,
		metricsSvc,
		validate,
		logr,
	)
	actividadSvc := service.NewActividadService(actividadRepo, syncSvc, validate, logr)
	sprintSvc := service.NewSprintService(sprintRepo, validate, logr)

	solicitudHandler := handler.NewSolicitudHandler(solicitudSvc, cfg.PublicBaseURL)
	actividadHandler := handler.NewActividadHandler(actividadSvc)
	sprintHandler := handler.NewSprintHandler(sprintSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		solicitudes := api.Group("/solicitudes")
		solicitudes.POST("/notificar", solicitudHandler.Notificar)
		solicitudes.GET("/approve", solicitudHandler.Aprobar)
		solicitudes.GET("/dashboard", solicitudHandler.Dashboard)
		solicitudes.PUT("/update-field", solicitudHandler.ActualizarCampo)
		solicitudes.GET("/:code/progress", solicitudHandler.Progreso)

		actividades := api.Group("/actividades")
		actividades.POST("/add", actividadHandler.Create)
		actividades.PUT("/update-status", actividadHandler.Update)
		actividades.DELETE("/:taskId", actividadHandler.Delete)

		sprints := api.Group("/sprints")
		sprints.GET("", sprintHandler.List)
		sprints.GET("/:id", sprintHandler.Get)
		sprints.POST("", sprintHandler.Create)
		sprints.PUT("/:id", sprintHandler.Update)
		sprints.DELETE("/:id", sprintHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
