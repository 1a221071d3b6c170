package loans

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libris-backend/internal/platform/apierr"
	"libris-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(user, admin gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	user.POST("/loans", h.Borrow)
	user.POST("/loans/:id/return", h.Return)
	user.GET("/me/loans", h.ActiveLoans)
	user.GET("/me/history", h.History)

	admin.GET("/admin/loans/:id", h.GetLoan)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierr.Respond(c, apierr.ErrInvalid("invalid id"))
		return 0, false
	}
	return id, true
}

// Borrow godoc
// @Summary  Borrow a copy of a book
// @Tags     loans
// @Accept   json
// @Produce  json
// @Param    body body BorrowRequest true "book"
// @Success  201 {object} BorrowResponse
// @Router   /loans [post]
func (h *Handler) Borrow(c *gin.Context) {
	var req BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, errInvalidSelection())
		return
	}
	res, err := h.svc.Borrow(c.Request.Context(), auth.UserIDFrom(c), req.BookID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.Header("Location", "/api/v1/me/loans")
	c.JSON(http.StatusCreated, res)
}

// Return godoc
// @Summary  Return a borrowed book
// @Tags     loans
// @Produce  json
// @Param    id path int true "transaction id"
// @Success  200 {object} ReturnResponse
// @Router   /loans/{id}/return [post]
func (h *Handler) Return(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	// patrons may only return their own loans
	acct, _ := auth.AccountFrom(c)
	if !auth.Authorize(acct, auth.RoleAdmin) {
		loan, err := h.svc.GetLoan(c.Request.Context(), id)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		if loan.UserID != auth.UserIDFrom(c) {
			apierr.Respond(c, errLoanNotFound())
			return
		}
	}

	res, err := h.svc.Return(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ActiveLoans(c *gin.Context) {
	out, err := h.svc.ActiveLoans(c.Request.Context(), auth.UserIDFrom(c))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": out})
}

func (h *Handler) History(c *gin.Context) {
	out, err := h.svc.History(c.Request.Context(), auth.UserIDFrom(c))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": out})
}

func (h *Handler) GetLoan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.svc.GetLoan(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
