package dto

import "nd_motors_backend/internal/model"

// VehicleCreateRequest 新建车辆，multipart 表单字段
type VehicleCreateRequest struct {
	Title        string   `form:"title" binding:"required"`
	Make         string   `form:"make" binding:"required"`
	Model        string   `form:"model" binding:"required"`
	Year         int      `form:"year" binding:"required,min=1900"`
	Price        float64  `form:"price" binding:"required,gt=0"`
	Description  string   `form:"description" binding:"required"`
	Mileage      int      `form:"mileage" binding:"min=0"`
	FuelType     string   `form:"fuelType" binding:"required,oneof=Petrol Diesel Electric Hybrid"`
	Transmission string   `form:"transmission" binding:"required,oneof=Manual Automatic"`
	BodyStyle    string   `form:"bodyStyle" binding:"required"`
	Color        string   `form:"color" binding:"required"`
	EngineSize   string   `form:"engineSize"`
	Power        string   `form:"power"`
	Features     []string `form:"features"`
	Condition    string   `form:"condition" binding:"required,oneof='New' 'Used' 'Certified Pre-owned'"`
	Featured     bool     `form:"featured"`
}

// VehicleUpdateRequest 更新车辆，全部可选，nil 表示不修改
type VehicleUpdateRequest struct {
	Title        *string  `form:"title" binding:"omitempty,min=1"`
	Make         *string  `form:"make" binding:"omitempty,min=1"`
	Model        *string  `form:"model" binding:"omitempty,min=1"`
	Year         *int     `form:"year" binding:"omitempty,min=1900"`
	Price        *float64 `form:"price" binding:"omitempty,gt=0"`
	Description  *string  `form:"description" binding:"omitempty,min=1"`
	Mileage      *int     `form:"mileage" binding:"omitempty,min=0"`
	FuelType     *string  `form:"fuelType" binding:"omitempty,oneof=Petrol Diesel Electric Hybrid"`
	Transmission *string  `form:"transmission" binding:"omitempty,oneof=Manual Automatic"`
	BodyStyle    *string  `form:"bodyStyle" binding:"omitempty,min=1"`
	Color        *string  `form:"color" binding:"omitempty,min=1"`
	EngineSize   *string  `form:"engineSize"`
	Power        *string  `form:"power"`
	Features     []string `form:"features"`
	Condition    *string  `form:"condition" binding:"omitempty,oneof='New' 'Used' 'Certified Pre-owned'"`
	Status       *string  `form:"status" binding:"omitempty,oneof=active inactive sold"`
	Featured     *bool    `form:"featured"`
}

// VehicleListRequest 公开检索参数
// 枚举字段在边界校验，非法值直接 400，不会流入目录层
type VehicleListRequest struct {
	Page         int      `form:"page,default=1" binding:"omitempty,min=1"`
	Limit        int      `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
	Search       string   `form:"search"`
	Make         string   `form:"make"`
	Model        string   `form:"model"`
	MinPrice     *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice     *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	MinYear      *int     `form:"minYear" binding:"omitempty,min=1900"`
	MaxYear      *int     `form:"maxYear" binding:"omitempty,min=1900"`
	FuelType     string   `form:"fuelType" binding:"omitempty,oneof=Petrol Diesel Electric Hybrid"`
	Transmission string   `form:"transmission" binding:"omitempty,oneof=Manual Automatic"`
	Condition    string   `form:"condition" binding:"omitempty,oneof='New' 'Used' 'Certified Pre-owned'"`
	Status       string   `form:"status" binding:"omitempty,oneof=active inactive sold"`
}

// VehicleListResponse 分页检索结果
type VehicleListResponse struct {
	Vehicles    []model.Vehicle `json:"vehicles"`
	Total       int64           `json:"total"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
}
