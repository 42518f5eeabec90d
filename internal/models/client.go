package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client pode ser pessoa física, jurídica ou empresa parceira.
// Parceiros carregam os valores padrão de cobrança usados no chamado.
type Client struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID string `gorm:"type:varchar(36);index" json:"companyId"`

	Type     string `gorm:"size:20;not null;default:'PF'" json:"type"`
	Name     string `gorm:"size:150;not null" json:"name"`
	Document string `gorm:"size:20;index" json:"document"`
	Email    string `gorm:"size:100" json:"email"`
	Phone    string `gorm:"size:20" json:"phone"`

	Address string `gorm:"size:255" json:"address"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:2" json:"state"`

	DefaultTicketValue        decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"defaultTicketValue"`
	DefaultHoursIncluded      *int                `json:"defaultHoursIncluded"`
	DefaultKmRate             decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"defaultKmRate"`
	DefaultAdditionalHourRate decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"defaultAdditionalHourRate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
