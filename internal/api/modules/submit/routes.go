package submit

import (
	"context"
	"time"

	"github.com/ethanbaker/intake/internal/submission"
	"github.com/gin-gonic/gin"
)

// Sheet is the spreadsheet append service the handlers write through
type Sheet interface {
	Verify(ctx context.Context) error
	Append(ctx context.Context, rec submission.Record) error
}

// Register routes for the submit module
func RegisterRoutes(g *gin.RouterGroup, sheet Sheet) {
	ctl := &controller{
		sheet: sheet,
		now:   time.Now,
	}

	g.POST("/submit", ctl.Submit)          // Validate a project and append it as a row
	g.GET("/check-sheet", ctl.CheckSheet) // Verify the spreadsheet connection
}
