package models

import (
	"github.com/shopspring/decimal"
)

// Project is a conservation project listing. Seeded at startup and immutable
// afterwards. Credits is the listed pool size, informational only: trades are
// never checked against it and never decrement it.
type Project struct {
	ID          int             `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Description string          `gorm:"column:description;not null" json:"description"`
	Location    string          `gorm:"column:location;not null" json:"location"`
	Credits     decimal.Decimal `gorm:"column:credits;type:decimal(18,2);not null" json:"credits"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(18,2);not null" json:"price"`
	ImageURL    string          `gorm:"column:image_url;not null" json:"imageUrl"`
}

func (Project) TableName() string {
	return "projects"
}
