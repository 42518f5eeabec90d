package models

import (
	"time"

	"gorm.io/datatypes"
)

// IntegrationSettings guarda expediente, estado do Google Calendar e a
// política de cálculos por empresa. Uma linha por tenant.
type IntegrationSettings struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID string `gorm:"type:varchar(36);uniqueIndex" json:"companyId"`

	GoogleCalendarStatus  string         `gorm:"size:20;default:'disconnected'" json:"googleCalendarStatus"`
	GoogleCalendarEmail   string         `gorm:"size:150" json:"googleCalendarEmail"`
	GoogleCalendarID      string         `gorm:"size:255" json:"googleCalendarId"`
	GoogleCalendarEnabled *bool          `json:"googleCalendarEnabled"`
	GoogleCalendarToken   datatypes.JSON `json:"-"`

	LeadTimeMinutes      int `gorm:"default:30" json:"leadTimeMinutes"`
	BufferMinutes        int `gorm:"default:15" json:"bufferMinutes"`
	TravelMinutes        int `gorm:"default:30" json:"travelMinutes"`
	DefaultDurationHours int `gorm:"default:3" json:"defaultDurationHours"`

	WorkingDays  datatypes.JSON `json:"workingDays"`
	WorkingHours datatypes.JSON `json:"workingHours"`
	Timezone     string         `gorm:"size:64" json:"timezone"`

	CalculationsEnabled     *bool          `json:"calculationsEnabled"`
	CalculationsPerTicket   bool           `json:"calculationsPerTicket"`
	CalculationsClientTypes datatypes.JSON `json:"calculationsClientTypes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
