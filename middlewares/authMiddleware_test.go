package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"civic-jharkhand-be/models"
	"civic-jharkhand-be/repository"
	"civic-jharkhand-be/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	router *gin.Engine
	tokens *utils.TokenManager
	users  *repository.MemoryUserRepository
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	tokens, err := utils.NewTokenManager("middleware-secret", time.Hour)
	require.NoError(t, err)
	users := repository.NewMemoryUserRepository()

	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens, users, nil), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID.Hex()})
	})
	r.GET("/admin", AuthMiddleware(tokens, users, nil), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.POST("/limited", AuthMiddleware(tokens, users, nil), ReportRateLimiter(nil, 1, nil), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return &authFixture{router: r, tokens: tokens, users: users}
}

func (f *authFixture) createUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: "Test", Email: email, Password: "hash", Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *authFixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	return body.Code
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	f := newAuthFixture(t)
	u := f.createUser(t, "asha@example.com", models.RoleCitizen)
	token, err := f.tokens.Issue(u.ID.Hex(), u.Role)
	require.NoError(t, err)

	w := f.do(http.MethodGet, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), u.ID.Hex())
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	f := newAuthFixture(t)

	w := f.do(http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", errorCode(t, w))
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	u := f.createUser(t, "asha@example.com", models.RoleCitizen)

	expired, err := utils.NewTokenManager("middleware-secret", -time.Minute)
	require.NoError(t, err)
	token, err := expired.Issue(u.ID.Hex(), u.Role)
	require.NoError(t, err)

	w := f.do(http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestAuthMiddlewareRejectsForeignSignature(t *testing.T) {
	f := newAuthFixture(t)
	u := f.createUser(t, "asha@example.com", models.RoleCitizen)

	other, err := utils.NewTokenManager("someone-else", time.Hour)
	require.NoError(t, err)
	token, err := other.Issue(u.ID.Hex(), u.Role)
	require.NoError(t, err)

	w := f.do(http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsDeletedUserAndRoleMismatch(t *testing.T) {
	f := newAuthFixture(t)
	u := f.createUser(t, "asha@example.com", models.RoleCitizen)

	ghost, err := f.tokens.Issue("64b000000000000000000000", models.RoleCitizen)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/me", ghost).Code)

	elevated, err := f.tokens.Issue(u.ID.Hex(), models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/admin", elevated).Code)
}

func TestRequireRole(t *testing.T) {
	f := newAuthFixture(t)
	citizen := f.createUser(t, "asha@example.com", models.RoleCitizen)
	admin := f.createUser(t, "admin@example.com", models.RoleAdmin)

	citizenToken, err := f.tokens.Issue(citizen.ID.Hex(), citizen.Role)
	require.NoError(t, err)
	adminToken, err := f.tokens.Issue(admin.ID.Hex(), admin.Role)
	require.NoError(t, err)

	w := f.do(http.MethodGet, "/admin", citizenToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", errorCode(t, w))

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodGet, "/admin", adminToken).Code)
}

func TestReportRateLimiterWithoutRedisPassesThrough(t *testing.T) {
	f := newAuthFixture(t)
	u := f.createUser(t, "asha@example.com", models.RoleCitizen)
	token, err := f.tokens.Issue(u.ID.Hex(), u.Role)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/limited", token).Code)
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(nil))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
