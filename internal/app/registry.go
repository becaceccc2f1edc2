package app

import (
	"database/sql"
	"net/http"
	"time"

	"hr-lite/internal/config"
	"hr-lite/internal/department"
	"hr-lite/internal/employee"
	"hr-lite/internal/media"
	"hr-lite/internal/middleware"
	"hr-lite/internal/position"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies is everything registerModules needs. Redis and Publisher may
// be nil.
type Dependencies struct {
	GormDB         *gorm.DB
	DB             *sql.DB
	Redis          *redis.Client
	Store          media.Store
	Publisher      employee.EventPublisher
	Media          config.MediaConfig
	IdempotencyTTL time.Duration
	Logger         *zap.Logger
}

func registerModules(router *gin.Engine, deps Dependencies) {
	// --- Repositories ---
	departmentRepo := department.NewRepository(deps.GormDB)
	positionRepo := position.NewRepository(deps.GormDB)
	employeeRepo := employee.NewRepository(deps.GormDB)

	// --- Services ---
	departmentService := department.NewService(deps.DB, departmentRepo, deps.Logger)
	positionService := position.NewService(deps.DB, positionRepo, deps.Logger)
	employeeService := employee.NewService(deps.DB, employeeRepo, deps.Store, deps.Publisher, deps.Logger)

	// --- Handlers ---
	departmentHandler := department.NewHandler(departmentService, deps.Logger)
	positionHandler := position.NewHandler(positionService, deps.Logger)
	employeeHandler := employee.NewHandler(employeeService, deps.Logger)

	// --- Routes Registration ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.Static(deps.Media.URLPrefix, deps.Media.Root)

	var createEmployee []gin.HandlerFunc
	if deps.Redis != nil {
		createEmployee = append(createEmployee, middleware.Idempotency(deps.Redis, deps.IdempotencyTTL, deps.Logger))
	}

	department.RegisterRoutes(router, departmentHandler)
	position.RegisterRoutes(router, positionHandler)
	employee.RegisterRoutes(router, employeeHandler, createEmployee...)
}
