package reconcile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"libris-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(admin gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	admin.POST("/admin/fines/reconcile", h.Reconcile)
}

// Reconcile godoc
// @Summary  Recompute overdue status and fines for open loans
// @Tags     admin
// @Produce  json
// @Success  200 {object} Report
// @Router   /admin/fines/reconcile [post]
func (h *Handler) Reconcile(c *gin.Context) {
	rep, err := h.svc.ReconcileOverdue(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
