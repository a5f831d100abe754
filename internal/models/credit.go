package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade direction values for Credit.Type.
const (
	TradeTypeBuy  = "buy"
	TradeTypeSell = "sell"
)

// Credit is one immutable ledger entry for a completed trade. Price is the
// project's price-per-credit captured at settlement time, so replaying a
// user's credits in id order reproduces every balance change.
type Credit struct {
	ID        int             `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	ProjectID int             `gorm:"column:project_id;not null" json:"projectId"`
	UserID    int             `gorm:"column:user_id;not null;index" json:"userId"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(18,2);not null" json:"price"`
	Type      string          `gorm:"column:type;not null" json:"type"`
	Timestamp time.Time       `gorm:"column:timestamp;not null" json:"timestamp"`
}

func (Credit) TableName() string {
	return "credits"
}
