package models

import (
	"strings"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;not null;default:'customer'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParseRole aceita os nomes antigos dos clientes ("Service Provider", "Customer").
func ParseRole(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleProvider, "service provider", "service_provider":
		return RoleProvider, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}
