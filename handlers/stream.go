package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectziio/ziio-ai/internal/llm"
	"github.com/projectziio/ziio-ai/pkg/logger"
)

// ModelHeader names the model that served a streamed response.
const ModelHeader = "X-Model"

// writeStream copies deltas to the client as plain text, flushing after
// each one. Errors after the first byte can only be logged.
func writeStream(c *gin.Context, s *llm.Stream) {
	defer s.Close()
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Header(ModelHeader, s.Model())
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()

	ctx := c.Request.Context()
	for {
		delta, err := s.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			logger.Warnf("stream %s: %v", s.Model(), err)
			return
		}
		if _, err := c.Writer.WriteString(delta); err != nil {
			return
		}
		c.Writer.Flush()
		if ctx.Err() != nil {
			return
		}
	}
}
