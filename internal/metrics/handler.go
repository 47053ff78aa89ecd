package metrics

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the current snapshot as JSON.
func (c *Collector) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, c.Snapshot())
	}
}
