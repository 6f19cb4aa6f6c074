// Package httperr maps application errors onto the storefront's JSON
// error shape: {"error": "..."} plus a status code chosen per failure
// class.
package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Mapper translates a domain or application error into a status code
// and user-facing message. The boolean reports whether it applied.
type Mapper func(err error) (int, string, bool)

// Responder renders errors through a chain of domain mappers, falling
// back to a generic 500 so internal details never leak to clients.
type Responder struct {
	mappers []Mapper
}

func NewResponder(mappers ...Mapper) *Responder {
	return &Responder{mappers: mappers}
}

// AddMapper appends a mapper to the chain.
func (r *Responder) AddMapper(mapper Mapper) {
	r.mappers = append(r.mappers, mapper)
}

// Error writes the mapped status and {"error": message} body.
func (r *Responder) Error(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if status, message, ok := mapper(err); ok {
			c.JSON(status, gin.H{"error": message})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno del servidor"})
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// Unauthorized writes a 401 with the given message.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
}

// Forbidden writes a 403 with the given message.
func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, gin.H{"error": message})
}

// NotFound writes a 404 with the given message.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"error": message})
}

// Internal writes a 500 with the given message.
func Internal(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
