package router

import (
	"net/http"
	"strings"

	"github.com/bolt-support/insights-service/api"
	"github.com/bolt-support/insights-service/internal/handler"
	"github.com/bolt-support/insights-service/internal/middleware"
	"github.com/bolt-support/insights-service/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func New(insights *handler.InsightsHandler, log zerolog.Logger) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Observe(log))

	r.GET("/", web.Dashboard)
	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/") })
	r.GET("/swagger/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = "/swagger/index.html"
			c.Request.RequestURI = "/swagger/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/summary", insights.Summary)
		v1.GET("/categories", insights.Categories)
		v1.GET("/review-flags", insights.ReviewFlags)
		v1.GET("/timeline", insights.Timeline)
		v1.GET("/breakdown", insights.Breakdown)
		v1.GET("/tickets", insights.Tickets)
		v1.GET("/filters", insights.Options)
		v1.GET("/export", insights.Export)
		v1.POST("/reload", insights.Reload)
	}

	return r
}
