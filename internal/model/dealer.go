package model

import "time"

// DealerStatus 经销商账号状态
type DealerStatus string

const (
	DealerStatusActive    DealerStatus = "active"
	DealerStatusInactive  DealerStatus = "inactive"
	DealerStatusSuspended DealerStatus = "suspended"
)

// Dealer 经销商账号
type Dealer struct {
	BaseModel
	// 基础信息
	Name        string `gorm:"size:100;not null" json:"name"`
	Email       string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password    string `gorm:"size:255;not null" json:"-"` // bcrypt 哈希，永不外发
	CompanyName string `gorm:"size:150;not null" json:"companyName"`
	Phone       string `gorm:"size:30;not null" json:"phone"`
	Address     string `gorm:"type:text;not null" json:"address"`

	IsVerified bool         `gorm:"default:false" json:"isVerified"`
	Status     DealerStatus `gorm:"size:20;default:'active'" json:"status"`

	// 密码重置（预留字段，重置流程由外部触发）
	ResetPasswordToken   string     `gorm:"size:255" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`

	// 关联关系
	Vehicles []Vehicle `gorm:"foreignKey:DealerID" json:"-"`
}

func (Dealer) TableName() string {
	return "dealers"
}
