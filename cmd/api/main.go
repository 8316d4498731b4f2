package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campushq/school-admin-api/api/swagger"
	"github.com/campushq/school-admin-api/internal/handler"
	"github.com/campushq/school-admin-api/internal/identity"
	"github.com/campushq/school-admin-api/internal/middleware"
	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/repository"
	"github.com/campushq/school-admin-api/internal/service"
	"github.com/campushq/school-admin-api/pkg/config"
	"github.com/campushq/school-admin-api/pkg/database"
	"github.com/campushq/school-admin-api/pkg/logger"
	corsmiddleware "github.com/campushq/school-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushq/school-admin-api/pkg/middleware/requestid"
)

// @title School Admin API
// @version 1.0.0
// @description Role-scoped administrative API for school management
// @BasePath /api/v1
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()
	provider := identity.NewHTTPProvider(cfg.Identity)
	verifier := identity.NewTokenVerifier(cfg.JWT.Secret)

	examRepo := repository.NewExamRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	resultRepo := repository.NewResultRepository(db)
	eventRepo := repository.NewEventRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	parentRepo := repository.NewParentRepository(db)
	lessonRepo := repository.NewLessonRepository(db)

	metricsSvc := service.NewMetricsService()

	examHandler := handler.NewExamHandler(service.NewExamService(examRepo, lessonRepo, metricsSvc, validate, logr))
	assignmentHandler := handler.NewAssignmentHandler(service.NewAssignmentService(assignmentRepo, lessonRepo, metricsSvc, validate, logr))
	resultHandler := handler.NewResultHandler(service.NewResultService(resultRepo, metricsSvc, logr), cfg.Export.Enabled)
	eventHandler := handler.NewEventHandler(service.NewEventService(eventRepo, validate, logr))
	classHandler := handler.NewClassHandler(service.NewClassService(classRepo, validate, logr))
	subjectHandler := handler.NewSubjectHandler(service.NewSubjectService(subjectRepo, validate, logr))
	studentHandler := handler.NewStudentHandler(service.NewStudentService(studentRepo, provider, metricsSvc, validate, logr))
	teacherHandler := handler.NewTeacherHandler(service.NewTeacherService(teacherRepo, provider, validate, logr))
	parentHandler := handler.NewParentHandler(service.NewParentService(parentRepo, logr))
	lessonHandler := handler.NewLessonHandler(service.NewLessonService(lessonRepo, logr))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(verifier))

	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleStudent, models.RoleParent)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	adminOrTeacher := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)

	api.GET("/exams", anyRole, examHandler.List)
	api.POST("/exams", adminOrTeacher, examHandler.Create)
	api.PUT("/exams/:id", adminOrTeacher, examHandler.Update)
	api.DELETE("/exams/:id", adminOrTeacher, examHandler.Delete)

	api.GET("/assignments", anyRole, assignmentHandler.List)
	api.POST("/assignments", adminOrTeacher, assignmentHandler.Create)
	api.PUT("/assignments/:id", adminOrTeacher, assignmentHandler.Update)
	api.DELETE("/assignments/:id", adminOrTeacher, assignmentHandler.Delete)

	api.GET("/results", anyRole, resultHandler.List)
	api.GET("/results/export", adminOrTeacher, resultHandler.Export)

	api.GET("/events", anyRole, eventHandler.List)
	api.POST("/events", adminOnly, eventHandler.Create)
	api.PUT("/events/:id", adminOnly, eventHandler.Update)
	api.DELETE("/events/:id", adminOnly, eventHandler.Delete)

	api.GET("/classes", anyRole, classHandler.List)
	api.POST("/classes", adminOnly, classHandler.Create)
	api.PUT("/classes/:id", adminOnly, classHandler.Update)
	api.DELETE("/classes/:id", adminOnly, classHandler.Delete)

	api.GET("/subjects", adminOnly, subjectHandler.List)
	api.POST("/subjects", adminOnly, subjectHandler.Create)
	api.PUT("/subjects/:id", adminOnly, subjectHandler.Update)
	api.DELETE("/subjects/:id", adminOnly, subjectHandler.Delete)

	api.GET("/students", adminOrTeacher, studentHandler.List)
	api.POST("/students", adminOnly, studentHandler.Create)
	api.PUT("/students/:id", adminOnly, studentHandler.Update)
	api.DELETE("/students/:id", adminOnly, studentHandler.Delete)

	api.GET("/teachers", anyRole, teacherHandler.List)
	api.POST("/teachers", adminOnly, teacherHandler.Create)
	api.PUT("/teachers/:id", adminOnly, teacherHandler.Update)
	api.DELETE("/teachers/:id", adminOnly, teacherHandler.Delete)

	api.GET("/parents", adminOrTeacher, parentHandler.List)
	api.GET("/lessons", adminOrTeacher, lessonHandler.ListOwn)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
