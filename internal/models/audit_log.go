package models

import "time"

type AuditLog struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	CompanyID string  `gorm:"type:varchar(36);index" json:"companyId"`
	UserID    *string `gorm:"type:varchar(36)" json:"userId"`
	Action    string  `gorm:"size:50;not null" json:"action"`

	Entity   string  `gorm:"size:50" json:"entity"`
	EntityID *string `gorm:"type:varchar(36)" json:"entityId"`
	Metadata string  `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `json:"createdAt"`
}
