package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func setupAuthRouter(m *TokenManager) *gin.Engine {
	r := gin.New()
	whoami := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	}
	r.GET("/private", JWTAuth(m), whoami)
	r.GET("/public", OptionalJWT(m), whoami)
	return r
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager(&JWTConfig{SecretKey: "s", Issuer: "test"})
	token, err := m.GenerateAccessToken(42, "Amina")
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "Amina", claims.Name)

	other := NewTokenManager(&JWTConfig{SecretKey: "other"})
	_, err = other.ParseToken(token)
	assert.Error(t, err, "密钥不同")
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager(&JWTConfig{SecretKey: "s", AccessTokenTTL: time.Minute})
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := m.GenerateAccessToken(1, "x")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseToken(token)
	assert.Error(t, err)
}

func TestJWTAuth(t *testing.T) {
	m := NewTokenManager(nil)
	r := setupAuthRouter(m)
	token, err := m.GenerateAccessToken(7, "u")
	require.NoError(t, err)

	w := performRequest(r, http.MethodGet, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthenticated.")

	w = performRequest(r, http.MethodGet, "/private", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(r, http.MethodGet, "/private", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
}

func TestOptionalJWT(t *testing.T) {
	m := NewTokenManager(nil)
	r := setupAuthRouter(m)
	token, _ := m.GenerateAccessToken(9, "u")

	w := performRequest(r, http.MethodGet, "/public", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())

	w = performRequest(r, http.MethodGet, "/public", "garbage")
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String(), "无效 token 按匿名处理")

	w = performRequest(r, http.MethodGet, "/public", token)
	assert.JSONEq(t, `{"user_id":9}`, w.Body.String())
}

func TestCooldownLimiter(t *testing.T) {
	l := NewCooldownLimiter()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Check("k", time.Minute).Allowed)
	res := l.Check("k", time.Minute)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Minute, res.RetryAfter)

	now = now.Add(61 * time.Second)
	assert.True(t, l.Check("k", time.Minute).Allowed)

	l.Reset("k")
	assert.True(t, l.Check("k", time.Minute).Allowed)
	assert.True(t, l.Check("other", time.Minute).Allowed)
}

func TestCooldown_Middleware(t *testing.T) {
	m := NewTokenManager(nil)
	token, _ := m.GenerateAccessToken(3, "u")
	r := gin.New()
	r.POST("/listings/:id/reports", JWTAuth(m), Cooldown(NewCooldownLimiter(), "report", time.Hour), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	assert.Equal(t, http.StatusCreated, performRequest(r, http.MethodPost, "/listings/1/reports", token).Code)
	w := performRequest(r, http.MethodPost, "/listings/1/reports", token)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusCreated, performRequest(r, http.MethodPost, "/listings/2/reports", token).Code)
}

func TestCooldownLimiter_CheckOnlyMarkExecuted(t *testing.T) {
	l := NewCooldownLimiter()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.CheckOnly("k", time.Minute).Allowed)
	assert.True(t, l.CheckOnly("k", time.Minute).Allowed, "只检查不记录")

	l.MarkExecuted("k")
	now = now.Add(20 * time.Second)
	res := l.CheckOnly("k", time.Minute)
	assert.False(t, res.Allowed)
	assert.Equal(t, 40*time.Second, res.RetryAfter)
}

func TestCooldown_FailedRequestNotCounted(t *testing.T) {
	m := NewTokenManager(nil)
	token, _ := m.GenerateAccessToken(3, "u")
	status := http.StatusUnprocessableEntity
	r := gin.New()
	r.POST("/listings/:id/reports", JWTAuth(m), Cooldown(NewCooldownLimiter(), "report", time.Hour), func(c *gin.Context) {
		c.Status(status)
	})

	assert.Equal(t, http.StatusUnprocessableEntity, performRequest(r, http.MethodPost, "/listings/1/reports", token).Code)
	status = http.StatusInternalServerError
	assert.Equal(t, http.StatusInternalServerError, performRequest(r, http.MethodPost, "/listings/1/reports", token).Code)

	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, performRequest(r, http.MethodPost, "/listings/1/reports", token).Code)
	assert.Equal(t, http.StatusTooManyRequests, performRequest(r, http.MethodPost, "/listings/1/reports", token).Code)
}

func TestFormatRetryMessage(t *testing.T) {
	assert.Equal(t, "Please wait 30 seconds before trying again.", formatRetryMessage(30*time.Second))
	assert.Equal(t, "Please wait 2 minutes before trying again.", formatRetryMessage(2*time.Minute))
	assert.Equal(t, "Please wait 1 min 5 s before trying again.", formatRetryMessage(65*time.Second))
}
