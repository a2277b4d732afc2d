package health

import (
	"github.com/ethanbaker/intake/internal/monitor"
	"github.com/gin-gonic/gin"
)

// StatusSource reports the last scheduled sheet connection check
type StatusSource interface {
	Last() (monitor.Status, bool)
}

// RegisterRoutes registers the routes for the health module. The source may be
// nil when scheduled checks are disabled
func RegisterRoutes(g *gin.RouterGroup, source StatusSource) {
	ctl := &controller{source: source}

	g.GET("/health", ctl.getStatus)
}

// RegisterRoot registers the liveness route at the server root
func RegisterRoot(engine *gin.Engine) {
	engine.GET("/", getRoot)
}
