package model

// Activity 经销商操作记录（只追加，不修改不删除）
type Activity struct {
	BaseModel

	DealerID int64   `gorm:"index;not null" json:"dealerId"`
	Dealer   *Dealer `gorm:"foreignKey:DealerID" json:"-"`

	// 类型标签，如 "vehicle"
	Type        string `gorm:"size:50;not null" json:"type"`
	Description string `gorm:"size:255;not null" json:"description"`
}

func (Activity) TableName() string {
	return "activities"
}
