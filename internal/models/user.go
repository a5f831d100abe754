package models

import (
	"github.com/shopspring/decimal"
)

// User matches the Express users table (shared/schema.ts). Balance is a
// decimal serialized as a string on the wire, same as Postgres numeric.
type User struct {
	ID       int             `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Username string          `gorm:"column:username;not null;uniqueIndex" json:"username"`
	Password string          `gorm:"column:password;not null" json:"-"`
	Balance  decimal.Decimal `gorm:"column:balance;type:decimal(18,2);not null" json:"balance"`
}

// TableName overrides the table name to users (Express pgTable name).
func (User) TableName() string {
	return "users"
}
