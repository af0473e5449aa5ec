package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/projectziio/ziio-ai/internal/analysis/service"
	"github.com/projectziio/ziio-ai/pkg/logger"
)

// RegisterFileAnalysisRoutes mounts the saved-analysis history routes.
func RegisterFileAnalysisRoutes(r gin.IRouter, svc service.History) {
	r.POST("/api/file-analysis", func(c *gin.Context) {
		var req struct {
			FileName string          `json:"fileName"`
			FileSize int64           `json:"fileSize"`
			Analysis json.RawMessage `json:"analysis"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		id, err := svc.Save(c.Request.Context(), req.FileName, req.FileSize, req.Analysis)
		if err != nil {
			if errors.Is(err, service.ErrNoFileName) || errors.Is(err, service.ErrInvalidAnalysis) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logger.Errorf("file-analysis: save %q: %v", req.FileName, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file analysis"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
	})

	r.GET("/api/file-analysis", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), listLimit(c.Query("limit")))
		if err != nil {
			logger.Errorf("file-analysis: list: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list file analyses"})
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/api/file-analysis/:id", func(c *gin.Context) {
		fa, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			logger.Errorf("file-analysis: get: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load file analysis"})
			return
		}
		c.JSON(http.StatusOK, fa)
	})
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// listLimit parses the limit query into 1..maxListLimit.
func listLimit(q string) int {
	n, err := strconv.Atoi(q)
	switch {
	case err != nil:
		return defaultListLimit
	case n < 1:
		return 1
	case n > maxListLimit:
		return maxListLimit
	}
	return n
}
