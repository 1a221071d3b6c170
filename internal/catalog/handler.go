package catalog

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libris-backend/internal/platform/apierr"
)

const maxImportBytes = 10 << 20

type Handler struct{ svc *Service }

func RegisterRoutes(public, admin gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	public.GET("/books", h.Search)
	public.GET("/books/:id", h.GetBook)
	public.GET("/categories", h.ListCategories)

	admin.POST("/admin/books", h.CreateBook)
	admin.POST("/admin/books/import", h.ImportBooks)
	admin.POST("/admin/books/:id/copies", h.AddCopy)

	admin.POST("/admin/categories", h.CreateCategory)
	admin.GET("/admin/categories/:id", h.GetCategory)
	admin.PUT("/admin/categories/:id", h.UpdateCategory)
	admin.DELETE("/admin/categories/:id", h.DisableCategory)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierr.Respond(c, apierr.ErrInvalid("invalid id"))
		return 0, false
	}
	return id, true
}

// Search godoc
// @Summary  Search the catalog
// @Tags     catalog
// @Produce  json
// @Param    q          query string false "title or ISBN substring"
// @Param    category   query int    false "category id"
// @Param    page       query int    false "page (1-based)"
// @Param    page_size  query int    false "page size (default 10, over 100 is rejected)"
// @Success  200 {object} SearchResult
// @Failure  400 {object} object "page_size over 100"
// @Router   /books [get]
func (h *Handler) Search(c *gin.Context) {
	cat, _ := strconv.ParseInt(c.Query("category"), 10, 64)
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))

	res, err := h.svc.Search(c.Request.Context(), SearchQuery{
		Term:       c.Query("q"),
		CategoryID: cat,
		Page:       page,
		PageSize:   size,
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.svc.GetBook(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.ErrInvalid(err.Error()))
		return
	}
	res, err := h.svc.CreateBook(c.Request.Context(), req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.Header("Location", "/api/v1/books/"+strconv.FormatInt(res.BookID, 10))
	c.JSON(http.StatusCreated, res)
}

// ImportBooks accepts either a multipart upload in field "file" or a raw
// text/csv body. ?encoding=shift_jis switches the decoder.
func (h *Handler) ImportBooks(c *gin.Context) {
	var src io.Reader
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			apierr.Respond(c, apierr.ErrInvalid("cannot open upload"))
			return
		}
		defer f.Close()
		src = f
	} else {
		src = c.Request.Body
	}

	res, err := h.svc.ImportBooks(c.Request.Context(), io.LimitReader(src, maxImportBytes), c.Query("encoding"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) AddCopy(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req AddCopyRequest
	// empty body is allowed
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierr.Respond(c, apierr.ErrInvalid(err.Error()))
			return
		}
	}
	res, err := h.svc.AddCopy(c.Request.Context(), id, req.Location)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListCategories(c *gin.Context) {
	res, err := h.svc.ListCategories(c.Request.Context(), c.Query("all"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.ErrInvalid(err.Error()))
		return
	}
	res, err := h.svc.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.ErrInvalid(err.Error()))
		return
	}
	res, err := h.svc.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DisableCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DisableCategory(c.Request.Context(), id); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
