package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ecommerce/internal/application"
	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/response"
)

const maxImageBytes = 5 << 20

type ProductHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.CatalogService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

type createProductRequest struct {
	Name        string   `json:"name" binding:"required,notblank,max=150"`
	Description string   `json:"description" binding:"required,notblank,max=500"`
	Category    string   `json:"category" binding:"required,notblank,max=100"`
	Image       string   `json:"image" binding:"required,url"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
}

type updateProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,notblank,max=150"`
	Description *string  `json:"description" binding:"omitempty,notblank,max=500"`
	Category    *string  `json:"category" binding:"omitempty,notblank,max=100"`
	Image       *string  `json:"image" binding:"omitempty,url"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func (r updateProductRequest) patch() entity.ProductPatch {
	return entity.ProductPatch{
		Name:        trimmed(r.Name),
		Description: trimmed(r.Description),
		Category:    trimmed(r.Category),
		Image:       trimmed(r.Image),
		Price:       r.Price,
		Stock:       r.Stock,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.Svc.List(c.Request.Context())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, products, "", map[string]any{"count": len(products)})
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if !bindJSON(c, &req) {
		return
	}
	in := application.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		Price:       *req.Price,
	}
	if req.Stock != nil {
		in.Stock = *req.Stock
	}
	p, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "product created", nil)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), id, req.patch())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "product updated", nil)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusNoContent, nil, "", nil)
}

func (h *ProductHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "validation errors", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	products, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, products, "", map[string]any{"count": len(products), "q": q})
}

// UploadImage accepts a multipart "image" field.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation errors", map[string]string{"image": "is required"})
		return
	}
	if fh.Size > maxImageBytes {
		response.Error[any](c, http.StatusBadRequest, "validation errors", map[string]string{"image": "must be at most 5MB"})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Error[any](c, http.StatusBadRequest, "validation errors", map[string]string{"image": "must be an image"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	p, err := h.Svc.UploadImage(c.Request.Context(), id, f, fh.Filename, contentType)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "image uploaded", nil)
}
