package models

import "time"

const (
	RoleOwner      = "owner"
	RoleTechnician = "technician"
)

type User struct {
	ID        string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID string  `gorm:"type:varchar(36);index" json:"companyId"`
	Company   Company `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'owner'" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
