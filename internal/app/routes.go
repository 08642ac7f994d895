package app

import (
	"context"
	"time"

	"github.com/Mahran1998/opsflow/internal/cache"
	"github.com/Mahran1998/opsflow/internal/config"
	"github.com/Mahran1998/opsflow/internal/handlers"
	"github.com/Mahran1998/opsflow/internal/service"
	"github.com/Mahran1998/opsflow/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/health/db", healthDBHandler(db))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	api := r.Group("/api/v1")

	var st store.RequestStore
	if cfg.Store.Backend == config.BackendMemory || db == nil {
		st = store.NewMemoryStore()
	} else {
		st = store.NewPGRequestStore(db)
	}

	var requestCache *cache.RequestCache
	if rdb != nil {
		requestCache = cache.NewRequestCache(rdb, cfg.Redis.DefaultTTL.Duration())
	}

	requestSvc := service.NewRequestService(st, requestCache)
	requestHandler := handlers.NewRequestHandler(requestSvc)
	registerRequestRoutes(api, requestHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "OpsFlow API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

// healthDBHandler probes the storage gateway. The memory backend has no
// gateway to probe and always reports connected.
func healthDBHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(200, gin.H{"canConnect": true, "backend": config.BackendMemory})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		err := db.Ping(ctx)
		c.JSON(200, gin.H{"canConnect": err == nil, "backend": config.BackendPostgres})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerRequestRoutes(api *gin.RouterGroup, h *handlers.RequestHandler) {
	api.POST("/requests", h.Create)
	api.GET("/requests", h.List)
	api.GET("/requests/:id", h.GetByID)
	api.PATCH("/requests/:id", h.Update)
}
