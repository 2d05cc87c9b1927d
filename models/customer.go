package models

import (
	"strings"
	"time"
)

type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_customers_email" json:"email"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// NormalizeEmail is the natural key of a customer: emails compare case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
