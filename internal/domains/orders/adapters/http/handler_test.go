package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersapp "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/application"
	ordersdomain "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/domain"
)

type stubService struct {
	receipt  *ordersdomain.Receipt
	err      error
	gotLines []ordersdomain.CartLine
}

func (s *stubService) PlaceOrder(_ context.Context, lines []ordersdomain.CartLine) (*ordersdomain.Receipt, error) {
	s.gotLines = lines
	if s.err != nil {
		return nil, s.err
	}
	return s.receipt, nil
}

func newTestRouter(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc).Register(router)
	return router
}

func postCart(t *testing.T, router *gin.Engine, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/carrito/guardar", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec, payload
}

const validCart = `{"productos":[{"id":1,"nombre":"Baguette","precio":2.5,"cantidad":2}]}`

func TestSaveCart_Success(t *testing.T) {
	svc := &stubService{receipt: &ordersdomain.Receipt{Lines: 1, ProductIDs: []int64{1}}}
	router := newTestRouter(svc)

	rec, payload := postCart(t, router, validCart)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "Pedido guardado correctamente y stock actualizado", payload["mensaje"])

	require.Len(t, svc.gotLines, 1)
	assert.Equal(t, int64(1), svc.gotLines[0].ProductID)
	assert.Equal(t, "Baguette", svc.gotLines[0].Name)
	assert.Equal(t, int32(2), svc.gotLines[0].Quantity)
}

func TestSaveCart_MalformedBody(t *testing.T) {
	router := newTestRouter(&stubService{})

	rec, payload := postCart(t, router, `{"productos":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cuerpo de la petición inválido", payload["error"])
}

func TestSaveCart_EmptyCart(t *testing.T) {
	svc := &stubService{err: fmt.Errorf("%w: %w", ordersapp.ErrInvalidInput, ordersdomain.ErrEmptyCart)}
	router := newTestRouter(svc)

	rec, payload := postCart(t, router, `{"productos":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "El carrito está vacío", payload["error"])
}

func TestSaveCart_UnknownProduct(t *testing.T) {
	svc := &stubService{err: &ordersapp.ProductNotFoundError{ProductID: 42}}
	router := newTestRouter(svc)

	rec, payload := postCart(t, router, validCart)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Producto con ID 42 no encontrado", payload["error"])
}

func TestSaveCart_InsufficientStockUsesClientProductName(t *testing.T) {
	svc := &stubService{err: &ordersapp.InsufficientStockError{ProductID: 1, Available: 1, Requested: 2}}
	router := newTestRouter(svc)

	rec, payload := postCart(t, router, validCart)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Stock insuficiente para Baguette. Disponible: 1, Solicitado: 2", payload["error"])
}

func TestSaveCart_InfrastructureFailure(t *testing.T) {
	svc := &stubService{err: fmt.Errorf("%w: %w", ordersapp.ErrInfrastructure, errors.New("connection refused"))}
	router := newTestRouter(svc)

	rec, payload := postCart(t, router, validCart)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error al guardar el pedido", payload["error"])
}

func TestSaveCart_UnmappedErrorFallsBackToGeneric500(t *testing.T) {
	svc := &stubService{err: errors.New("boom")}
	router := newTestRouter(svc)

	rec, payload := postCart(t, router, validCart)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error interno del servidor", payload["error"])
}
