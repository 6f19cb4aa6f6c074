package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	userapp "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/application"
	userdomain "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/domain"
	userports "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/ports"
	"github.com/DanielPerezVapo/panaderia-api/internal/shared/identity"
)

// SessionCookie is the storefront's session cookie name.
const SessionCookie = "sid"

// Handler exposes registration, login, logout, and profile endpoints.
type Handler struct {
	service    userports.Service
	sessionTTL time.Duration
}

func NewHandler(service userports.Service, sessionTTL time.Duration) *Handler {
	if sessionTTL <= 0 {
		sessionTTL = userapp.DefaultSessionTTL
	}
	return &Handler{service: service, sessionTTL: sessionTTL}
}

// Register mounts the account routes.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/registro", h.RegisterAccount)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.GET("/perfil", h.RequireAuth(), h.Profile)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterAccount creates a non-admin account.
func (h *Handler) RegisterAccount(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Usuario y contraseña son requeridos"})
		return
	}
	_, err := h.service.Register(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Usuario registrado correctamente. Ya puedes iniciar sesión."})
	case errors.Is(err, userdomain.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "La contraseña debe tener al menos 6 caracteres"})
	case errors.Is(err, userports.ErrDuplicateUsername):
		c.JSON(http.StatusBadRequest, gin.H{"error": "El usuario ya existe"})
	case errors.Is(err, userapp.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Usuario y contraseña son requeridos"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al registrar usuario"})
	}
}

// Login verifies credentials and sets the sid cookie.
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "Cuerpo de la petición inválido"})
		return
	}
	session, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, userapp.ErrAuthentication) {
			c.JSON(http.StatusUnauthorized, gin.H{"mensaje": "Usuario o contraseña incorrecta"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "Error al procesar el inicio de sesión"})
		return
	}
	h.setSessionCookie(c, session.Token, int(h.sessionTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"mensaje":  "Has iniciado sesión correctamente",
		"redirect": "/index2.html",
		"isAdmin":  session.Admin,
	})
}

// Logout destroys the session and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil {
		h.service.Logout(c.Request.Context(), token)
	}
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"mensaje": "Has cerrado sesión"})
}

// Profile reports the authenticated caller.
func (h *Handler) Profile(c *gin.Context) {
	caller, ok := identity.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Debes iniciar sesión"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":      caller.UserID,
		"usuario": caller.Username,
		"isAdmin": caller.Admin,
	})
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, value, maxAge, "/", "", false, true)
}
