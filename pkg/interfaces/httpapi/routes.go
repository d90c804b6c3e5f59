package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, h *handlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Stateless conversions and engines
	api.POST("/bom/validate", h.validate)
	api.POST("/bom/collapse", h.collapse)
	api.POST("/bom/expand", h.expand)
	api.POST("/eoq", h.eoq)
	api.POST("/mrp", h.mrp)

	folders := api.Group("/folders")
	folders.GET("", h.listFolders)
	folders.POST("", h.createFolder)
	folders.GET("/:folderID", h.getFolder)

	folders.GET("/:folderID/components", h.listComponents)
	folders.POST("/:folderID/components", h.createComponent)
	folders.GET("/:folderID/components/:componentID", h.getComponent)
	folders.DELETE("/:folderID/components/:componentID", h.deleteComponent)

	folders.GET("/:folderID/boms", h.listBOMs)
	folders.POST("/:folderID/boms", h.saveBOM)
	folders.GET("/:folderID/boms/:bomID", h.getBOM)
	folders.DELETE("/:folderID/boms/:bomID", h.deleteBOM)
	folders.POST("/:folderID/boms/:bomID/expand", h.expandBOM)
	folders.POST("/:folderID/boms/:bomID/eoq", h.eoqBOM)
	folders.POST("/:folderID/boms/:bomID/mrp", h.mrpBOM)
}
