package routes

import (
	"net/http"
	"time"

	"civic-jharkhand-be/controllers"
	"civic-jharkhand-be/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Dependencies struct {
	Auth    *controllers.AuthController
	Reports *controllers.ReportController
	Uploads *controllers.UploadController

	Authenticate gin.HandlerFunc
	RateLimit    gin.HandlerFunc

	UploadDir   string
	CORSOrigins []string
	Logger      *zap.Logger
}

// Setup builds the engine with middleware, API routes, static uploads and metrics.
func Setup(d *Dependencies) *gin.Engine {
	controllers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestLogger(d.Logger))
	r.Use(middlewares.Metrics())
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	if d.RateLimit == nil {
		d.RateLimit = func(c *gin.Context) { c.Next() }
	}

	api := r.Group("/api")
	AuthRoutes(api, d)
	ReportRoutes(api, d)
	UploadRoutes(api, d)

	if d.UploadDir != "" {
		r.Static(controllers.UploadURLPrefix, d.UploadDir)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders: []string{middlewares.RequestIDHeader, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
