package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nd_motors_backend/internal/api/dto"
	"nd_motors_backend/internal/middleware"
	"nd_motors_backend/internal/service"
)

// DealerController 经销商账户接口
type DealerController struct {
	dealerService *service.DealerService
}

func NewDealerController(s *service.DealerService) *DealerController {
	return &DealerController{dealerService: s}
}

// Register
// @Summary 经销商注册
// @Description 注册新经销商账户，成功后直接返回会话 Token
// @Tags Dealer (经销商模块)
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "注册信息"
// @Success 201 {object} dto.AuthResponse "经销商信息 + Token"
// @Failure 400 {object} map[string]string "参数错误/邮箱已注册"
// @Router /api/dealers/register [post]
func (ctrl *DealerController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request: " + err.Error()})
		return
	}

	resp, err := ctrl.dealerService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login
// @Summary 经销商登录
// @Description 邮箱 + 密码登录，返回经销商信息与会话 Token
// @Tags Dealer (经销商模块)
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "登录凭证"
// @Success 200 {object} dto.AuthResponse "经销商信息 + Token"
// @Failure 401 {object} map[string]string "凭证错误"
// @Router /api/dealers/login [post]
func (ctrl *DealerController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request: " + err.Error()})
		return
	}

	resp, err := ctrl.dealerService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// 账户不存在与密码错误统一返回同一响应
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile
// @Summary 获取当前经销商资料
// @Tags Dealer (经销商模块)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Dealer "经销商资料"
// @Failure 401 {object} map[string]string "未认证"
// @Router /api/dealers/profile [get]
func (ctrl *DealerController) GetProfile(c *gin.Context) {
	dealerID := middleware.GetDealerID(c)

	dealer, err := ctrl.dealerService.GetProfile(c.Request.Context(), dealerID)
	if err != nil {
		if errors.Is(err, service.ErrDealerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Dealer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, dealer)
}

// UpdateProfile
// @Summary 更新当前经销商资料
// @Description 部分更新，只允许 name/companyName/phone/address
// @Tags Dealer (经销商模块)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpdateProfileRequest true "待更新字段"
// @Success 200 {object} model.Dealer "更新后的资料"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 401 {object} map[string]string "未认证"
// @Router /api/dealers/profile [put]
func (ctrl *DealerController) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request: " + err.Error()})
		return
	}

	dealerID := middleware.GetDealerID(c)

	dealer, err := ctrl.dealerService.UpdateProfile(c.Request.Context(), dealerID, &req)
	if err != nil {
		if errors.Is(err, service.ErrDealerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Dealer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, dealer)
}
