package dto

import "nd_motors_backend/internal/model"

// RegisterRequest 经销商注册
type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	CompanyName string `json:"companyName" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Address     string `json:"address" binding:"required"`
}

// LoginRequest 经销商登录
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest 资料更新，只开放四个字段，nil 表示不修改
type UpdateProfileRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	CompanyName *string `json:"companyName" binding:"omitempty,min=1"`
	Phone       *string `json:"phone" binding:"omitempty,min=1"`
	Address     *string `json:"address" binding:"omitempty,min=1"`
}

// AuthResponse 注册/登录响应：经销商信息（密码已由 json:"-" 屏蔽）+ 会话 Token
type AuthResponse struct {
	*model.Dealer
	Token string `json:"token"`
}
