package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectziio/ziio-ai/internal/llm"
	"github.com/projectziio/ziio-ai/pkg/logger"
)

// gatewayStatus is the status reported by the gateway, or 500.
func gatewayStatus(err error) int {
	if s := llm.StatusCode(err); s >= 400 && s < 600 {
		return s
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// featureFailed writes {"error": "<feature> failed", "details": ...} for the
// streamed routes.
func featureFailed(c *gin.Context, feature string, err error) {
	details := "Unknown error"
	var ae *llm.APIError
	if errors.As(err, &ae) && ae.Message != "" {
		details = ae.Message
	}
	logger.WithFields(map[string]interface{}{"request_id": c.GetString("request_id"), "feature": feature}).Warnf("%s failed: %v", feature, err)
	c.JSON(gatewayStatus(err), gin.H{"error": feature + " failed", "details": details})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
