package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/legisdash/legisdash/config"
	"github.com/legisdash/legisdash/internal/api/handlers"
	"github.com/legisdash/legisdash/internal/api/middleware"
	"github.com/legisdash/legisdash/internal/logger"
	"github.com/legisdash/legisdash/internal/metrics"
)

type Router struct {
	engine             *gin.Engine
	log                *logger.Logger
	metrics            *metrics.Metrics
	registry           prometheus.Gatherer
	cors               *config.CORSConfig
	viewHandler        *handlers.ViewHandler
	propositionHandler *handlers.PropositionHandler
	deputyHandler      *handlers.DeputyHandler
	overviewHandler    *handlers.OverviewHandler
}

func NewRouter(
	log *logger.Logger,
	m *metrics.Metrics,
	registry prometheus.Gatherer,
	cors *config.CORSConfig,
	viewHandler *handlers.ViewHandler,
	propositionHandler *handlers.PropositionHandler,
	deputyHandler *handlers.DeputyHandler,
	overviewHandler *handlers.OverviewHandler,
) *Router {
	return &Router{
		log:                log,
		metrics:            m,
		registry:           registry,
		cors:               cors,
		viewHandler:        viewHandler,
		propositionHandler: propositionHandler,
		deputyHandler:      deputyHandler,
		overviewHandler:    overviewHandler,
	}
}

func (r *Router) Setup(mode string) *gin.Engine {
	gin.SetMode(mode)
	r.engine = gin.New()
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.ClientInfo())
	r.engine.Use(middleware.Logger(r.log))
	if r.metrics != nil {
		r.engine.Use(middleware.Metrics(r.metrics))
	}
	if r.cors != nil {
		r.engine.Use(middleware.CORS(r.cors))
	}
	r.engine.Use(middleware.ErrorHandler())

	r.setupRoutes()
	return r.engine
}

func (r *Router) setupRoutes() {
	if r.registry != nil {
		r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))
	}

	api := r.engine.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.GET("/overview", r.overviewHandler.Get)
	api.GET("/transparency", handlers.Transparency)

	// Stateful list and agenda views
	views := api.Group("/views")
	{
		views.POST("/:kind", r.viewHandler.Open)
	}
	view := api.Group("/views/:kind/:id")
	{
		view.GET("", r.viewHandler.Get)
		view.DELETE("", r.viewHandler.Close)

		view.PUT("/page", r.viewHandler.SetPage)
		view.PUT("/page-size", r.viewHandler.SetPageSize)
		view.PUT("/sort", r.viewHandler.SetSort)
		view.PUT("/filters", r.viewHandler.SetFilter)
		view.PUT("/week", r.viewHandler.SetWeek)
		view.DELETE("/error", r.viewHandler.DismissError)
		view.POST("/reload", r.viewHandler.Reload)
	}

	propositions := api.Group("/propositions")
	{
		propositions.GET("/filters", r.propositionHandler.Filters)
		propositions.GET("/:id", r.propositionHandler.Get)
		propositions.GET("/:id/score", r.propositionHandler.Score)
	}

	deputies := api.Group("/deputies")
	{
		deputies.GET("/:id", r.deputyHandler.Get)
		deputies.GET("/:id/activity", r.deputyHandler.Activity)
	}
}
