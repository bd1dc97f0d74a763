package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tripay/config"
	"tripay/models"
	"tripay/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "test-secret"
}

func newProtectedRouter(role models.Role) *gin.Engine {
	r := gin.New()
	r.GET("/protected", RequireRole(role), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("userID"),
			"role":    c.GetString("role"),
		})
	})
	return r
}

func TestRequireRoleAllowsMatchingToken(t *testing.T) {
	token, err := utils.GenerateToken("user-1", "a@b.com", string(models.RoleCustomer), time.Hour)
	require.NoError(t, err)

	router := newProtectedRouter(models.RoleCustomer)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
	assert.Contains(t, w.Body.String(), string(models.RoleCustomer))
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	token, err := utils.GenerateToken("user-1", "a@b.com", string(models.RoleMerchant), time.Hour)
	require.NoError(t, err)

	router := newProtectedRouter(models.RoleCustomer)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleRejectsMissingHeader(t *testing.T) {
	router := newProtectedRouter(models.RoleCustomer)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleRejectsMalformedToken(t *testing.T) {
	router := newProtectedRouter(models.RoleCustomer)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleRejectsExpiredToken(t *testing.T) {
	token, err := utils.GenerateToken("user-1", "a@b.com", string(models.RoleCustomer), -time.Minute)
	require.NoError(t, err)

	router := newProtectedRouter(models.RoleCustomer)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
