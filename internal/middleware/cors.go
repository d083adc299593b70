package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware 按配置的来源放行跨域请求
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// StaticAssetHeaders 静态图片目录的跨域响应头
// 前端 <img> 跨源加载图片需要 cross-origin 资源策略
func StaticAssetHeaders(allowedOrigins []string) gin.HandlerFunc {
	var origin string
	if len(allowedOrigins) > 0 {
		origin = allowedOrigins[0]
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Next()
	}
}
