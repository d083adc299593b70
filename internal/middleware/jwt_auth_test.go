package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nd_motors_backend/internal/model"
	"nd_motors_backend/internal/repository"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Dealer{}); err != nil {
		t.Fatalf("自动建表失败: %v", err)
	}
	return db
}

func createTestDealer(t *testing.T, db *gorm.DB) *model.Dealer {
	dealer := &model.Dealer{
		Name:        "John",
		Email:       "john@example.com",
		Password:    "hashed",
		CompanyName: "John Motors",
		Phone:       "123456",
		Address:     "1 Main St",
	}
	if err := db.Create(dealer).Error; err != nil {
		t.Fatalf("创建经销商失败: %v", err)
	}
	return dealer
}

func TestGenerateAndParseToken(t *testing.T) {
	dealer := &model.Dealer{Email: "john@example.com"}
	dealer.ID = 42

	token, err := GenerateToken(dealer)
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if claims.DealerID != 42 {
		t.Errorf("dealerID = %d, want 42", claims.DealerID)
	}
	if claims.Email != "john@example.com" {
		t.Errorf("email = %s, want john@example.com", claims.Email)
	}
}

func TestParseTokenExpired(t *testing.T) {
	// 临时把有效期调成负数签发一个已过期 Token
	original := GetJWTConfig()
	SetJWTConfig(&JWTConfig{
		SecretKey: original.SecretKey,
		TokenTTL:  -time.Minute,
		Issuer:    original.Issuer,
	})
	dealer := &model.Dealer{Email: "john@example.com"}
	dealer.ID = 1
	token, err := GenerateToken(dealer)
	SetJWTConfig(original)

	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}
	if _, err := ParseToken(token); err == nil {
		t.Errorf("过期 Token 应该解析失败")
	}
}

func TestJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupAuthTestDB(t)
	dealer := createTestDealer(t, db)
	dealerRepo := repository.NewDealerRepository(db)

	r := gin.New()
	r.GET("/protected", JWTAuth(dealerRepo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"dealerId": GetDealerID(c)})
	})

	// 无 Authorization 头
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("无凭证 status = %d, want 401", w.Code)
	}

	// 伪造 Token
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("伪造凭证 status = %d, want 401", w.Code)
	}

	// 合法 Token
	token, err := GenerateToken(dealer)
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("合法凭证 status = %d, want 200", w.Code)
	}

	// Token 合法但账号已删除
	if err := db.Delete(&model.Dealer{}, dealer.ID).Error; err != nil {
		t.Fatalf("删除经销商失败: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("账号已删除 status = %d, want 401", w.Code)
	}
}
