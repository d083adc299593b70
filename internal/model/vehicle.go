package model

import (
	"gorm.io/datatypes"
)

// VehicleStatus 车辆上架状态
type VehicleStatus string

const (
	VehicleStatusActive   VehicleStatus = "active"
	VehicleStatusInactive VehicleStatus = "inactive"
	VehicleStatusSold     VehicleStatus = "sold"
)

// Vehicle 车辆挂牌信息
type Vehicle struct {
	BaseModel
	// 归属经销商（创建后不可变更）
	DealerID int64   `gorm:"index;not null" json:"dealerId"`
	Dealer   *Dealer `gorm:"foreignKey:DealerID" json:"-"`

	// --- 基本信息 ---
	Title       string  `gorm:"size:255;not null" json:"title"`
	Make        string  `gorm:"size:100;index;not null" json:"make"`
	Model       string  `gorm:"size:100;index;not null" json:"model"`
	Year        int     `gorm:"index;not null" json:"year"`
	Price       float64 `gorm:"type:decimal(10,2);index;not null" json:"price"`
	Description string  `gorm:"type:text;not null" json:"description"`

	// --- 技术参数 ---
	Mileage      int    `gorm:"not null" json:"mileage"`
	FuelType     string `gorm:"size:30;index;not null" json:"fuelType"`
	Transmission string `gorm:"size:30;index;not null" json:"transmission"`
	BodyStyle    string `gorm:"size:50;not null" json:"bodyStyle"`
	Color        string `gorm:"size:50;not null" json:"color"`
	EngineSize   string `gorm:"size:30" json:"engineSize"`
	Power        string `gorm:"size:30" json:"power"`

	// 配置清单，保序字符串数组
	Features datatypes.JSON `gorm:"type:json" json:"features"`

	Condition string        `gorm:"size:30;index;not null" json:"condition"`
	Status    VehicleStatus `gorm:"size:20;index;default:'active'" json:"status"`

	// --- 统计计数（只增，由外部调用方维护） ---
	Views     int `gorm:"default:0" json:"views"`
	Inquiries int `gorm:"default:0" json:"inquiries"`

	Featured bool `gorm:"default:false" json:"featured"`

	// 关联关系
	Images []VehicleImage `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"images"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// VehicleImage 车辆图片
// is_main 语义：每辆车至多一张主图，由写入路径保证（见 ImageService）
type VehicleImage struct {
	BaseModel

	VehicleID int64    `gorm:"index;not null" json:"vehicleId"`
	Vehicle   *Vehicle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// 相对存储路径，读取时再拼接成绝对 URL
	ImageURL string `gorm:"size:512;not null" json:"imageUrl"`
	IsMain   bool   `gorm:"default:false" json:"isMain"`
	Order    int    `gorm:"column:order_num;default:0" json:"order"`

	// 外部存储标识（S3 key 等，本地存储为空）
	StorageID string `gorm:"size:255" json:"storageId,omitempty"`
}

func (VehicleImage) TableName() string {
	return "vehicle_images"
}
