package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service é o catálogo de serviços. Duration em horas.
type Service struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID string `gorm:"type:varchar(36);index" json:"companyId"`

	Name          string          `gorm:"size:100;not null" json:"name"`
	Description   string          `gorm:"size:255" json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	Duration      int             `gorm:"default:1" json:"duration"`
	Active        bool            `gorm:"default:true" json:"active"`
	PublicBooking bool            `gorm:"default:false" json:"publicBooking"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
