package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "plant_monitor/docs"
	"plant_monitor/internal/logger"
	"plant_monitor/internal/service"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	gatherer prometheus.Gatherer
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// WithMetrics exposes g on GET /metrics.
func (h *Handler) WithMetrics(g prometheus.Gatherer) *Handler {
	h.gatherer = g
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerAnalysisRoutes(api)
		h.registerPlantRoutes(api)
		h.registerLogRoutes(api)

		// Live view of the trigger record
		api.GET("/ws", h.wsConnect)
	}
}

func (h *Handler) registerAnalysisRoutes(api *gin.RouterGroup) {
	// Body: {"plantId":"...","sensorNode":"JSON"}
	api.POST("/analysis/run", h.runAnalysis)

	monitoring := api.Group("/monitoring")
	{
		monitoring.GET("/trigger", h.getTrigger)
		monitoring.DELETE("/trigger", h.clearTrigger)
	}
}

func (h *Handler) registerPlantRoutes(api *gin.RouterGroup) {
	plants := api.Group("/plants")
	{
		plants.GET("", h.listPlants)
		plants.POST("", h.addPlant)
		plants.GET("/:id", h.getPlant)
		plants.PUT("/:id/status", h.updatePlantStatus)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
	}
}
