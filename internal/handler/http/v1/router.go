package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/categories", h.listCategories)

	// Публичная панель и действия граждан
	reports := api.Group("/reports")
	{
		reports.GET("", h.listReports)
		reports.GET("/geojson", h.reportsGeoJSON)
		reports.GET("/stream", h.streamReports)
		reports.GET("/:id", h.getReport)
		reports.POST("", h.createReport)
		reports.POST("/:id/confirm", h.confirmReport)
		reports.POST("/:id/evidence", h.attachEvidence)
	}

	// Действия органа власти, по API-ключу
	authority := reports.Group("/:id", APIKeyAuthMiddleware(h.cfg, h.logger))
	{
		authority.PATCH("/status", h.updateStatus)
		authority.POST("/responses", h.addAuthorityResponse)
	}

	api.POST("/triage", h.triage)
	api.POST("/evidence/inspect", h.inspectEvidence)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
