package http

import "github.com/gin-gonic/gin"

// Register attaches contact routes to the given router group.
// submitMW runs in front of POST only.
func (h *Handler) Register(rg *gin.RouterGroup, submitMW ...gin.HandlerFunc) {
	rg.POST("", append(submitMW, h.submit)...)
	rg.GET("", h.latest)
	rg.GET("/prefill", h.prefill)
}
