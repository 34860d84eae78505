package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collabhub/server/internal/port/inbound"
)

// healthHandler implements inbound.HealthHttpPort.
type healthHandler struct {
	version string
}

// NewHealthHandler creates a liveness handler.
func NewHealthHandler(version string) inbound.HealthHttpPort {
	return &healthHandler{version: version}
}

func (h *healthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}
