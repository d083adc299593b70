package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"nd_motors_backend/internal/api/dto"
	"nd_motors_backend/internal/middleware"
	"nd_motors_backend/internal/model"
	"nd_motors_backend/internal/repository"
)

// ==================== DealerService 经销商服务 ====================

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDealerNotFound     = errors.New("dealer not found")
)

// DealerService 经销商服务
type DealerService struct {
	dealerRepo repository.DealerRepository
}

// NewDealerService 创建经销商服务
func NewDealerService(dealerRepo repository.DealerRepository) *DealerService {
	return &DealerService{dealerRepo: dealerRepo}
}

// Register 注册经销商并直接签发会话 Token
// 密码哈希在入库前显式完成（bcrypt 自带随机盐），不依赖任何 ORM 钩子。
func (s *DealerService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	exists, err := s.dealerRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	dealer := &model.Dealer{
		Name:        req.Name,
		Email:       req.Email,
		Password:    string(hashedPassword),
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		Address:     req.Address,
		Status:      model.DealerStatusActive,
	}

	if err := s.dealerRepo.Create(ctx, dealer); err != nil {
		return nil, err
	}

	token, err := middleware.GenerateToken(dealer)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Dealer: dealer, Token: token}, nil
}

// Login 登录
// 明文密码只进 bcrypt 比较，查无此人与密码错误对外不区分。
func (s *DealerService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	dealer, err := s.dealerRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if dealer == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(dealer.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := middleware.GenerateToken(dealer)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Dealer: dealer, Token: token}, nil
}

// GetProfile 获取经销商资料
func (s *DealerService) GetProfile(ctx context.Context, dealerID int64) (*model.Dealer, error) {
	dealer, err := s.dealerRepo.GetByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	if dealer == nil {
		return nil, ErrDealerNotFound
	}
	return dealer, nil
}

// UpdateProfile 部分更新资料，只开放 name/companyName/phone/address
func (s *DealerService) UpdateProfile(ctx context.Context, dealerID int64, req *dto.UpdateProfileRequest) (*model.Dealer, error) {
	dealer, err := s.dealerRepo.GetByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	if dealer == nil {
		return nil, ErrDealerNotFound
	}

	if req.Name != nil {
		dealer.Name = *req.Name
	}
	if req.CompanyName != nil {
		dealer.CompanyName = *req.CompanyName
	}
	if req.Phone != nil {
		dealer.Phone = *req.Phone
	}
	if req.Address != nil {
		dealer.Address = *req.Address
	}

	if err := s.dealerRepo.Update(ctx, dealer); err != nil {
		return nil, err
	}

	return dealer, nil
}
