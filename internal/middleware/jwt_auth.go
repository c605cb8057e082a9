package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ==================== JWT 配置 ====================

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey      string        // 签名密钥
	AccessTokenTTL time.Duration // Access Token 有效期
	Issuer         string        // 签发者
}

// DefaultJWTConfig 默认配置
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey:      "dev-secret-change-me",
		AccessTokenTTL: 24 * time.Hour,
		Issuer:         "classifieds-sandbox",
	}
}

// ==================== Claims 定义 ====================

// UserClaims 用户声明
type UserClaims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// ==================== Token 签发与解析 ====================

// TokenManager 签发/校验 HS256 token
type TokenManager struct {
	cfg JWTConfig
	now func() time.Time
}

func NewTokenManager(cfg *JWTConfig) *TokenManager {
	if cfg == nil {
		cfg = DefaultJWTConfig()
	}
	c := *cfg
	if c.AccessTokenTTL <= 0 {
		c.AccessTokenTTL = DefaultJWTConfig().AccessTokenTTL
	}
	return &TokenManager{cfg: c, now: time.Now}
}

// GenerateAccessToken 生成 Access Token
func (m *TokenManager) GenerateAccessToken(userID int64, name string) (string, error) {
	now := m.now()
	claims := &UserClaims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   "access",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.cfg.SecretKey))
}

// ParseToken 解析 Token，只接受 HMAC 签名的 access token
func (m *TokenManager) ParseToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(m.cfg.SecretKey), nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject != "access" {
		return nil, errors.New("invalid token type")
	}
	return claims, nil
}

// ==================== Gin 中间件 ====================

// Context Keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyClaims = "claims"
)

// JWTAuth 强制登录
func JWTAuth(m *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			unauthorized(c, "Unauthenticated.")
			return
		}

		claims, err := m.ParseToken(raw)
		if err != nil {
			unauthorized(c, "Token is invalid or expired.")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWT 可选认证，token 无效时按匿名处理
func OptionalJWT(m *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c); ok {
			if claims, err := m.ParseToken(raw); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// ==================== 辅助函数 ====================

// GetUserID 从 Context 获取用户 ID，匿名返回 0
func GetUserID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyUserID); exists {
		return id.(int64)
	}
	return 0
}

// GetUserClaims 从 Context 获取完整 Claims
func GetUserClaims(c *gin.Context) *UserClaims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		return claims.(*UserClaims)
	}
	return nil
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setClaims(c *gin.Context, claims *UserClaims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyClaims, claims)
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    401,
		"message": msg,
	})
}
