package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DanielPerezVapo/panaderia-api/internal/domains/catalog/adapters/http/mapper"
	catalogapp "github.com/DanielPerezVapo/panaderia-api/internal/domains/catalog/application"
	catalogports "github.com/DanielPerezVapo/panaderia-api/internal/domains/catalog/ports"
	"github.com/DanielPerezVapo/panaderia-api/internal/shared/httperr"
	"github.com/DanielPerezVapo/panaderia-api/internal/shared/identity"
)

// Handler exposes the product catalog: public listing plus admin CRUD.
type Handler struct {
	service   catalogports.Service
	logger    *slog.Logger
	responder *httperr.Responder
}

func NewHandler(service catalogports.Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		responder: httperr.NewResponder(ErrorMapper),
	}
}

// Register mounts the catalog routes. The admin group must carry the
// auth/admin middleware; the public listing stays open.
func (h *Handler) Register(public gin.IRoutes, admin gin.IRoutes) {
	public.GET("/api/productos", h.ListProducts)
	admin.POST("/api/productos", h.AddProduct)
	admin.PUT("/api/productos/:id", h.UpdateProduct)
	admin.DELETE("/api/productos/:id", h.DeleteProduct)
}

// ListProducts returns the full catalog ordered by id.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "Error al obtener productos")
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainProducts(products))
}

// AddProduct creates a product (admin only).
func (h *Handler) AddProduct(c *gin.Context) {
	var req mapper.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Complete() {
		httperr.BadRequest(c, "Nombre, precio y cantidad son requeridos")
		return
	}
	created, err := h.service.AddProduct(c.Request.Context(), mapper.ToDomainProduct(req))
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Pan agregado correctamente", "id": created.ID})
}

// UpdateProduct overwrites a product (admin only).
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req mapper.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Complete() {
		httperr.BadRequest(c, "Nombre, precio y cantidad son requeridos")
		return
	}
	if _, err := h.service.UpdateProduct(c.Request.Context(), id, mapper.ToDomainProduct(req)); err != nil {
		h.responder.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Producto actualizado correctamente"})
}

// DeleteProduct removes a product (admin only) and logs who did it.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleted, err := h.service.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	if caller, ok := identity.FromContext(c); ok && h.logger != nil {
		h.logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "admin deleted product",
			slog.String("admin", caller.Username),
			slog.Int64("product.id", deleted.ID),
			slog.String("product.name", deleted.Name))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Producto eliminado correctamente"})
}

// ErrorMapper translates catalog errors into the storefront's status
// mapping.
func ErrorMapper(err error) (int, string, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return http.StatusNotFound, "Producto no encontrado", true
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return http.StatusBadRequest, "Datos de producto inválidos", true
	default:
		return 0, "", false
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httperr.BadRequest(c, "Identificador de producto inválido")
		return 0, false
	}
	return id, true
}
