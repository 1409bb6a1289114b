package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oakline-signs/site-backend/internal/contact/domain"
	"github.com/oakline-signs/site-backend/internal/logging"
)

func (h *Handler) submit(c *gin.Context) {
	var req domain.Payload
	// An empty body binds to the zero payload and fails validation below.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logging.NewLogger(c.Request.Context()).LogWarnf("contact.submit", "bad body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sub, err := h.svc.HandleSubmit(c.Request.Context(), req)
	if err != nil {
		var (
			ve *domain.ValidationError
			ne *domain.NotificationError
		)
		switch {
		case errors.As(err, &ve):
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
		case errors.As(err, &ne):
			resp := gin.H{"error": "Email Error: " + ne.Error()}
			if sub != nil {
				resp["id"] = sub.ID
			}
			c.JSON(http.StatusInternalServerError, resp)
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "id": sub.ID})
}

func (h *Handler) latest(c *gin.Context) {
	items, err := h.svc.ListRecent(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if items == nil {
		items = []domain.Submission{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "latest": items, "count": len(items)})
}

// prefill maps catalogue query params onto form values.
func (h *Handler) prefill(c *gin.Context) {
	category := c.Query("category")

	resp := gin.H{"ok": true, "category": nil, "subCategory": nil}
	if category != "" {
		resp["category"] = category
	}
	if sub, ok := domain.NormalizeSubCategory(category, c.Query("subcategory")); ok {
		resp["subCategory"] = sub
	}
	c.JSON(http.StatusOK, resp)
}
