package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trotropay/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)
	token, err := j.GenerateToken(7, models.RoleMate)
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleMate, claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestRejectsForeignAndExpiredTokens(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)

	other, err := NewJWT("other-secret", time.Hour).GenerateToken(7, models.RoleOwner)
	require.NoError(t, err)
	_, err = j.ValidateToken(other)
	assert.Error(t, err)

	old := NewJWT("test-secret", time.Hour)
	old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := old.GenerateToken(7, models.RoleOwner)
	require.NoError(t, err)
	_, err = j.ValidateToken(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = j.ValidateToken(unsigned)
	assert.Error(t, err)
}

func router(j *JWT) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/owner", j.RequireAuth(), RequireRole(models.RoleOwner), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c), "role": CurrentRole(c)})
	})
	return r
}

func get(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/owner", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthAndRole(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)
	r := router(j)

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer abc").Code)

	mate, err := j.GenerateToken(2, models.RoleMate)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, get(r, "Bearer "+mate).Code)

	owner, err := j.GenerateToken(4, models.RoleOwner)
	require.NoError(t, err)
	w := get(r, "Bearer "+owner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":4,"role":"owner"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	h := EnableCORS([]string{"https://app.trotropay.com.gh"}, ok)
	req := httptest.NewRequest(http.MethodOptions, "/wallet", nil)
	req.Header.Set("Origin", "https://app.trotropay.com.gh")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.trotropay.com.gh", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/wallet", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	EnableCORS(nil, ok).ServeHTTP(w, req)
	assert.Equal(t, "https://evil.example", w.Header().Get("Access-Control-Allow-Origin"))
}
