package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielPerezVapo/panaderia-api/internal/shared/httperr"
	"github.com/DanielPerezVapo/panaderia-api/internal/shared/identity"
)

// Resolve attaches the caller identity to the context when a valid
// session cookie is present, without blocking anonymous requests.
func (h *Handler) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(SessionCookie); err == nil {
			if session, err := h.service.SessionFor(c.Request.Context(), token); err == nil {
				identity.Set(c, identity.Identity{
					UserID:   session.UserID,
					Username: session.Username,
					Admin:    session.Admin,
				})
			}
		}
		c.Next()
	}
}

// RequireAuth rejects requests without a valid session.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identity.FromContext(c); !ok {
			httperr.Unauthorized(c, "Debes iniciar sesión")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects authenticated callers without the admin flag.
// Order matters: RequireAuth must run first so the 401/403 split
// matches the storefront contract.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity.FromContext(c)
		if !ok {
			httperr.Unauthorized(c, "Debes iniciar sesión")
			c.Abort()
			return
		}
		if !caller.Admin {
			httperr.Forbidden(c, "No tienes permisos de administrador")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectGuests sends unauthenticated page requests back to the
// landing page instead of returning a JSON error.
func (h *Handler) RedirectGuests() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identity.FromContext(c); !ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
