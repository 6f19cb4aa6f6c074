package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/DanielPerezVapo/panaderia-api/internal/domains/users/adapters/memory"
	userapp "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/application"
	userdomain "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/domain"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Handler, *memory.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := memory.NewRepository()
	svc := userapp.NewService(repo, memory.NewSessionStore())
	handler := NewHandler(svc, 0)

	router := gin.New()
	router.Use(handler.Resolve())
	handler.Register(router)
	return router, handler, repo
}

func doJSON(router *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookie {
			return cookie
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestRegisterAccount(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(router, http.MethodPost, "/registro", `{"username":"ana","password":"migas123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "Usuario registrado correctamente. Ya puedes iniciar sesión.", payload["mensaje"])

	rec = doJSON(router, http.MethodPost, "/registro", `{"username":"ana","password":"otra456"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "El usuario ya existe", decodeBody(t, rec)["error"])

	rec = doJSON(router, http.MethodPost, "/registro", `{"username":"luis","password":"corta"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "La contraseña debe tener al menos 6 caracteres", decodeBody(t, rec)["error"])

	rec = doJSON(router, http.MethodPost, "/registro", `{"username":"","password":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Usuario y contraseña son requeridos", decodeBody(t, rec)["error"])
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	router, _, _ := newTestRouter(t)
	doJSON(router, http.MethodPost, "/registro", `{"username":"ana","password":"migas123"}`)

	rec := doJSON(router, http.MethodPost, "/login", `{"username":"ana","password":"migas123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, "Has iniciado sesión correctamente", payload["mensaje"])
	assert.Equal(t, "/index2.html", payload["redirect"])
	assert.Equal(t, false, payload["isAdmin"])

	cookie := sessionCookie(t, rec)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Positive(t, cookie.MaxAge)
}

func TestLogin_BadCredentials(t *testing.T) {
	router, _, _ := newTestRouter(t)
	doJSON(router, http.MethodPost, "/registro", `{"username":"ana","password":"migas123"}`)

	rec := doJSON(router, http.MethodPost, "/login", `{"username":"ana","password":"incorrecta"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Usuario o contraseña incorrecta", decodeBody(t, rec)["mensaje"])
}

func TestProfile_RequiresSession(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(router, http.MethodGet, "/perfil", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Debes iniciar sesión", decodeBody(t, rec)["error"])
}

func TestProfile_ReportsCaller(t *testing.T) {
	router, _, _ := newTestRouter(t)
	doJSON(router, http.MethodPost, "/registro", `{"username":"ana","password":"migas123"}`)
	login := doJSON(router, http.MethodPost, "/login", `{"username":"ana","password":"migas123"}`)

	rec := doJSON(router, http.MethodGet, "/perfil", "", sessionCookie(t, login))
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, "ana", payload["usuario"])
	assert.Equal(t, false, payload["isAdmin"])
}

func TestLogout_InvalidatesSession(t *testing.T) {
	router, _, _ := newTestRouter(t)
	doJSON(router, http.MethodPost, "/registro", `{"username":"ana","password":"migas123"}`)
	login := doJSON(router, http.MethodPost, "/login", `{"username":"ana","password":"migas123"}`)
	cookie := sessionCookie(t, login)

	rec := doJSON(router, http.MethodPost, "/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Has cerrado sesión", decodeBody(t, rec)["mensaje"])
	cleared := sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	rec = doJSON(router, http.MethodGet, "/perfil", "", cookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin_SplitsUnauthorizedAndForbidden(t *testing.T) {
	router, handler, repo := newTestRouter(t)
	router.GET("/solo-admin", handler.RequireAuth(), handler.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	doJSON(router, http.MethodPost, "/registro", `{"username":"ana","password":"migas123"}`)
	seedAdmin(t, repo, "jefa", "obrador123")

	rec := doJSON(router, http.MethodGet, "/solo-admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	login := doJSON(router, http.MethodPost, "/login", `{"username":"ana","password":"migas123"}`)
	rec = doJSON(router, http.MethodGet, "/solo-admin", "", sessionCookie(t, login))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "No tienes permisos de administrador", decodeBody(t, rec)["error"])

	login = doJSON(router, http.MethodPost, "/login", `{"username":"jefa","password":"obrador123"}`)
	rec = doJSON(router, http.MethodGet, "/solo-admin", "", sessionCookie(t, login))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRedirectGuests(t *testing.T) {
	router, handler, _ := newTestRouter(t)
	router.GET("/index2.html", handler.RedirectGuests(), func(c *gin.Context) {
		c.String(http.StatusOK, "panel")
	})

	rec := doJSON(router, http.MethodGet, "/index2.html", "")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func seedAdmin(t *testing.T, repo *memory.Repository, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user, err := userdomain.NewUser(0, username, string(hash))
	require.NoError(t, err)
	user.Admin = true
	_, err = repo.Create(context.Background(), user)
	require.NoError(t, err)
}
