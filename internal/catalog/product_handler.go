package catalog

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/elkisser/the-cookie-box/internal/pkg/response"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) ListPublic(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid list query", err.Error())
		return
	}

	data, total, err := h.service.ListPublic(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, data, response.NewPagination(q.Page, q.Limit, total))
}

func (h *Handler) ListAdmin(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid list query", err.Error())
		return
	}

	data, total, err := h.service.ListAdmin(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, data, response.NewPagination(q.Page, q.Limit, total))
}

func (h *Handler) Get(c *gin.Context) {
	data, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, data)
}

func (h *Handler) Create(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Invalid multipart form", err.Error())
		return
	}

	price, err := decimal.NewFromString(c.PostForm("price"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Invalid price", err.Error())
		return
	}

	req := CreateProductRequest{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       price,
	}

	image, filename, cleanup, err := openImage(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Invalid image upload", err.Error())
		return
	}
	defer cleanup()

	data, err := h.service.Create(c.Request.Context(), req, image, filename)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, data)
}

func (h *Handler) Update(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Invalid multipart form", err.Error())
		return
	}

	price, err := decimal.NewFromString(c.PostForm("price"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Invalid price", err.Error())
		return
	}

	req := UpdateProductRequest{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       price,
		ImageURL:    c.PostForm("imageUrl"),
	}

	image, filename, cleanup, err := openImage(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Invalid image upload", err.Error())
		return
	}
	defer cleanup()

	data, err := h.service.Update(c.Request.Context(), c.Param("id"), req, image, filename)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, data)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil)
}

func (h *Handler) Restore(c *gin.Context) {
	if err := h.service.Restore(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil)
}

// openImage returns the optional "image" form file. A missing file is
// (nil, ...) and not an error.
func openImage(c *gin.Context) (io.Reader, string, func(), error) {
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", func() {}, nil
		}
		return nil, "", func() {}, err
	}

	var file multipart.File
	file, err = header.Open()
	if err != nil {
		return nil, "", func() {}, err
	}
	return file, header.Filename, func() { file.Close() }, nil
}
