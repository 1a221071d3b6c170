package reservations

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libris-backend/internal/platform/apierr"
	"libris-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(user gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	user.POST("/reservations", h.Create)
	user.GET("/me/reservations", h.ListMine)
	user.DELETE("/reservations/:id", h.Cancel)
}

// Create godoc
// @Summary  Reserve a book
// @Tags     reservations
// @Accept   json
// @Produce  json
// @Param    body body CreateRequest true "book"
// @Success  201 {object} ReservationResponse
// @Router   /reservations [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.New(apierr.CodeInvalidSelection, "Invalid book selection."))
		return
	}
	res, err := h.svc.Create(c.Request.Context(), auth.UserIDFrom(c), req.BookID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListMine(c *gin.Context) {
	out, err := h.svc.ListMine(c.Request.Context(), auth.UserIDFrom(c))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": out})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierr.Respond(c, apierr.ErrInvalid("invalid id"))
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), auth.UserIDFrom(c), id); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
