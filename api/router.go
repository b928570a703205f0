package api

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerSpecPath = "/docs/preserve.swagger.json"

// RouterConfig carries what NewRouter needs besides the handlers.
type RouterConfig struct {
	JWTSecret  string
	SwaggerDir string
	Health     http.Handler
}

func NewRouter(cfg RouterConfig, reservations *ReservationHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	group := router.Group("/api/v1/preserveservice")
	reservations.Register(group, JWTAuth(cfg.JWTSecret))

	if cfg.Health != nil {
		router.GET("/healthz", gin.WrapH(cfg.Health))
	}

	if cfg.SwaggerDir != "" {
		router.StaticFile(swaggerSpecPath, filepath.Join(cfg.SwaggerDir, "preserve.swagger.json"))
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerSpecPath))))
	}

	return router
}
