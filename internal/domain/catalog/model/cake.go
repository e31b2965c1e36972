package model

import (
	"time"

	baseModel "cake_shop_backend/pkg/model"
)

// CakeSize 规格及价格调整，整体以 jsonb 存储
type CakeSize struct {
	Size            string `json:"size"`
	Price           int64  `json:"price"`
	PriceAdjustment int64  `json:"price_adjustment"`
}

// Review 商品评价
type Review struct {
	baseModel.BaseModel
	CakeID  string    `gorm:"index;not null" json:"cakeId"`
	Name    string    `gorm:"not null" json:"name"`
	Rating  float64   `gorm:"not null" json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `gorm:"autoCreateTime" json:"date"`
}

// Cake 蛋糕商品
// 价格单位为卢比整数
type Cake struct {
	baseModel.BaseModel
	Name           string     `gorm:"not null" json:"name"`
	Flavor         string     `json:"flavor"`
	Price          int64      `gorm:"not null" json:"price"`
	OriginalPrice  *int64     `json:"original_price,omitempty"`
	Image          string     `gorm:"not null" json:"image"`
	Rating         float64    `gorm:"default:0" json:"rating"`
	ReviewCount    int        `gorm:"default:0" json:"reviewCount"`
	Description    string     `json:"description"`
	Label          string     `json:"label"`
	Tag            string     `json:"tag"`
	Sizes          []CakeSize `gorm:"serializer:json;type:jsonb" json:"sizes"`
	ProductDetails []string   `gorm:"serializer:json;type:jsonb" json:"product_details"`
	Reviews        []Review   `gorm:"foreignKey:CakeID" json:"reviews,omitempty"`
}

// AddonProduct 附加商品（蜡烛、贺卡等）
type AddonProduct struct {
	baseModel.BaseModel
	Name  string `gorm:"not null" json:"name"`
	Image string `gorm:"not null" json:"image"`
	Price int64  `gorm:"not null" json:"price"`
	Tag   string `json:"tag"`
}
