package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"nd_motors_backend/internal/model"
	"nd_motors_backend/internal/repository"
)

// ==================== JWT 配置 ====================

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey string        // 签名密钥
	TokenTTL  time.Duration // Token 有效期
	Issuer    string        // 签发者
}

// DefaultJWTConfig 默认配置
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey: "nd-motors-secret-key-change-in-production",
		TokenTTL:  24 * time.Hour,
		Issuer:    "nd-motors",
	}
}

// 全局配置
var jwtConfig = DefaultJWTConfig()

// SetJWTConfig 设置 JWT 配置
func SetJWTConfig(cfg *JWTConfig) {
	jwtConfig = cfg
}

// GetJWTConfig 获取 JWT 配置
func GetJWTConfig() *JWTConfig {
	return jwtConfig
}

// ==================== Claims 定义 ====================

// DealerClaims 经销商声明，负载只含 id + email
type DealerClaims struct {
	DealerID int64  `json:"id"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// ==================== Token 生成 / 解析 ====================

// GenerateToken 为经销商签发会话 Token，24 小时过期
func GenerateToken(dealer *model.Dealer) (string, error) {
	now := time.Now()
	claims := &DealerClaims{
		DealerID: dealer.ID,
		Email:    dealer.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtConfig.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtConfig.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SecretKey))
}

// ParseToken 解析并校验 Token
func ParseToken(tokenString string) (*DealerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DealerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtConfig.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*DealerClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ==================== Gin 中间件 ====================

// Context Keys
const (
	ContextKeyDealerID = "dealer_id"
	ContextKeyDealer   = "dealer"
)

// JWTAuth 会话校验中间件
// 校验签名与有效期后回查经销商记录，查不到同样按 401 处理。
// 只读操作，可重复调用，作为所有受保护路由的前置关卡。
func JWTAuth(dealerRepo repository.DealerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization header missing or invalid",
			})
			c.Abort()
			return
		}

		claims, err := ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid token",
			})
			c.Abort()
			return
		}

		// 回查经销商，Token 合法但账号已不存在同样拒绝
		dealer, err := dealerRepo.GetByID(c.Request.Context(), claims.DealerID)
		if err != nil || dealer == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid token",
			})
			c.Abort()
			return
		}

		c.Set(ContextKeyDealerID, dealer.ID)
		c.Set(ContextKeyDealer, dealer)

		c.Next()
	}
}

// ==================== 辅助函数 ====================

// GetDealerID 从 Context 获取经销商 ID
func GetDealerID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyDealerID); exists {
		return id.(int64)
	}
	return 0
}

// GetDealer 从 Context 获取经销商记录
func GetDealer(c *gin.Context) *model.Dealer {
	if dealer, exists := c.Get(ContextKeyDealer); exists {
		return dealer.(*model.Dealer)
	}
	return nil
}
