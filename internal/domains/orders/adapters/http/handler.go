package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/application"
	ordersdomain "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/domain"
	ordersports "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/ports"
	"github.com/DanielPerezVapo/panaderia-api/internal/shared/httperr"
)

// Handler exposes order placement over the storefront API. The cart
// endpoint is deliberately unauthenticated: guests may order.
type Handler struct {
	service   ordersports.Service
	responder *httperr.Responder
}

func NewHandler(service ordersports.Service) *Handler {
	return &Handler{
		service:   service,
		responder: httperr.NewResponder(ErrorMapper),
	}
}

// Register mounts the order routes on the router group.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/api/carrito/guardar", h.SaveCart)
}

// SaveCart validates and reserves the submitted cart atomically.
func (h *Handler) SaveCart(c *gin.Context) {
	var req mapper.CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "cuerpo de la petición inválido")
		return
	}
	lines := mapper.ToDomainCart(req)
	if _, err := h.service.PlaceOrder(c.Request.Context(), lines); err != nil {
		h.respondOrderError(c, err, lines)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"mensaje": "Pedido guardado correctamente y stock actualizado",
	})
}

// respondOrderError prefers the client's own product names in rejection
// messages, matching what the storefront renders.
func (h *Handler) respondOrderError(c *gin.Context, err error, lines []ordersdomain.CartLine) {
	var shortfall *ordersapp.InsufficientStockError
	if errors.As(err, &shortfall) {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("Stock insuficiente para %s. Disponible: %d, Solicitado: %d",
				productLabel(lines, shortfall.ProductID), shortfall.Available, shortfall.Requested),
		})
		return
	}
	h.responder.Error(c, err)
}

// ErrorMapper translates reservation errors into the storefront's
// status mapping: empty or malformed carts 400, unknown products 404,
// stock shortfalls 409, everything else 500.
func ErrorMapper(err error) (int, string, bool) {
	var notFound *ordersapp.ProductNotFoundError
	var shortfall *ordersapp.InsufficientStockError
	switch {
	case errors.Is(err, ordersdomain.ErrEmptyCart):
		return http.StatusBadRequest, "El carrito está vacío", true
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return http.StatusBadRequest, "El carrito contiene líneas inválidas", true
	case errors.As(err, &notFound):
		return http.StatusNotFound, fmt.Sprintf("Producto con ID %d no encontrado", notFound.ProductID), true
	case errors.As(err, &shortfall):
		return http.StatusConflict, fmt.Sprintf("Stock insuficiente para el producto %d. Disponible: %d, Solicitado: %d",
			shortfall.ProductID, shortfall.Available, shortfall.Requested), true
	case errors.Is(err, ordersapp.ErrInfrastructure):
		return http.StatusInternalServerError, "Error al guardar el pedido", true
	default:
		return 0, "", false
	}
}

func productLabel(lines []ordersdomain.CartLine, productID int64) string {
	for _, line := range lines {
		if line.ProductID == productID && line.Name != "" {
			return line.Name
		}
	}
	return fmt.Sprintf("el producto %d", productID)
}
