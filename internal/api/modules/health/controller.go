package health

import (
	"github.com/ethanbaker/intake/pkg/sdk"
	"github.com/gin-gonic/gin"
)

type controller struct {
	source StatusSource
}

// Return status of the API
func (ctl *controller) getStatus(c *gin.Context) {
	res := sdk.NewStatus(sdk.StatusHealthy)

	if ctl.source != nil {
		if last, ok := ctl.source.Last(); ok {
			res.Sheet = &sdk.SheetStatus{
				CheckedAt: last.CheckedAt,
				Connected: last.Connected,
				Error:     last.Error,
			}
		}
	}

	c.JSON(res.AsGinResponse())
}

func getRoot(c *gin.Context) {
	c.JSON(sdk.NewStatus(sdk.StatusOnline).AsGinResponse())
}
