package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yahveh/internal/core/apperror"
	appctx "yahveh/internal/core/context"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeValidator struct {
	actor *appctx.Actor
	err   error
}

func (f *fakeValidator) Validate(string) (*appctx.Actor, error) {
	return f.actor, f.err
}

func performRequest(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandlerBusinessRule(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/t", func(c *gin.Context) {
		_ = c.Error(apperror.NewBusinessRule("La nota de entrega ya se encuentra anulada"))
		c.Abort()
	})

	w := performRequest(router, http.MethodGet, "/t", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, apperror.CodeBusinessRule, body["code"])
	assert.Equal(t, "La nota de entrega ya se encuentra anulada", body["message"])
}

func TestErrorHandlerNotFound(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/t", func(c *gin.Context) {
		_ = c.Error(apperror.NewNotFound("delivery note", 99))
		c.Abort()
	})

	w := performRequest(router, http.MethodGet, "/t", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorHandlerOpaqueInternal(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/t", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: relation does not exist"))
		c.Abort()
	})

	w := performRequest(router, http.MethodGet, "/t", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, w.Body.String(), "relation does not exist")
}

func TestErrorHandlerDatabaseIsOpaque(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/t", func(c *gin.Context) {
		_ = c.Error(apperror.NewDatabase(errors.New("connection refused")))
		c.Abort()
	})

	w := performRequest(router, http.MethodGet, "/t", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestErrorHandlerSkipsWrittenResponses(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/t", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		_ = c.Error(errors.New("late failure"))
	})

	w := performRequest(router, http.MethodGet, "/t", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestAuthMissingHeader(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(Auth(&fakeValidator{}))
	router.GET("/t", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := performRequest(router, http.MethodGet, "/t", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMalformedHeader(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(Auth(&fakeValidator{}))
	router.GET("/t", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := performRequest(router, http.MethodGet, "/t", map[string]string{
		"Authorization": "Token abc",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectedToken(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(Auth(&fakeValidator{err: apperror.NewUnauthorized("invalid or expired token")}))
	router.GET("/t", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := performRequest(router, http.MethodGet, "/t", map[string]string{
		"Authorization": "Bearer bad-token",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthInstallsActor(t *testing.T) {
	actor := &appctx.Actor{UserID: 7, Login: "ana", Role: "ADMIN"}

	var seen *appctx.Actor
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(Auth(&fakeValidator{actor: actor}))
	router.GET("/t", func(c *gin.Context) {
		seen = appctx.GetActor(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := performRequest(router, http.MethodGet, "/t", map[string]string{
		"Authorization": "Bearer good-token",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, int64(7), seen.UserID)
	assert.Equal(t, "ADMIN", seen.Role)
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(Auth(&fakeValidator{actor: &appctx.Actor{UserID: 7, Login: "ana", Role: "LIM"}}))
	router.Use(RequireRole("ADMIN", "LIM"))
	router.GET("/t", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := performRequest(router, http.MethodGet, "/t", map[string]string{
		"Authorization": "Bearer good-token",
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(Auth(&fakeValidator{actor: &appctx.Actor{UserID: 7, Login: "ana", Role: "LIM"}}))
	router.Use(RequireRole("ADMIN"))
	router.GET("/t", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := performRequest(router, http.MethodGet, "/t", map[string]string{
		"Authorization": "Bearer good-token",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, apperror.CodeForbidden, body["code"])
}

func TestRequireRoleWithoutActor(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(RequireRole("ADMIN"))
	router.GET("/t", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := performRequest(router, http.MethodGet, "/t", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTraceGeneratesRequestID(t *testing.T) {
	router := gin.New()
	router.Use(Trace())
	router.GET("/t", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := performRequest(router, http.MethodGet, "/t", nil)

	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestTracePropagatesIncomingTraceID(t *testing.T) {
	router := gin.New()
	router.Use(Trace())
	router.GET("/t", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := performRequest(router, http.MethodGet, "/t", map[string]string{
		HeaderTraceID: "trace-abc",
	})

	assert.Equal(t, "trace-abc", w.Header().Get(HeaderTraceID))
}
