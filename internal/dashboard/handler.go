package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libris-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(admin gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	admin.GET("/admin/dashboard", h.Metrics)
	admin.GET("/admin/reports/top-books", h.TopBorrowed)
	admin.GET("/admin/reports/overdue", h.OverdueLoans)
}

func (h *Handler) Metrics(c *gin.Context) {
	m, err := h.svc.Metrics(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) TopBorrowed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	out, err := h.svc.TopBorrowed(c.Request.Context(), limit)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": out})
}

func (h *Handler) OverdueLoans(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	out, err := h.svc.OverdueLoans(c.Request.Context(), limit)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": out})
}
