package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Ticket struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyID string `gorm:"type:varchar(36);index:idx_ticket_company_start" json:"companyId"`

	TechnicianID *string `gorm:"type:varchar(36)" json:"technicianId"`

	ClientID string `gorm:"type:varchar(36);index" json:"clientId"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client"`

	ServiceID *string  `gorm:"type:varchar(36)" json:"serviceId"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	Status string `gorm:"size:20;default:'ABERTO'" json:"status"`

	// janela agendada; a exibição usa o fuso do negócio
	ScheduledFor    time.Time `gorm:"index:idx_ticket_company_start" json:"scheduledFor"`
	ScheduledEndFor time.Time `json:"scheduledEndFor"`
	Duration        int       `json:"duration"`
	TravelMinutes   int       `json:"travelMinutes"`
	BufferMinutes   int       `json:"bufferMinutes"`

	Description    string `gorm:"type:text" json:"description"`
	Address        string `gorm:"size:255" json:"address"`
	City           string `gorm:"size:100" json:"city"`
	State          string `gorm:"size:2" json:"state"`
	TicketNumber   string `gorm:"size:20;index" json:"ticketNumber"`
	FinalClient    string `gorm:"size:150" json:"finalClient"`
	ServiceAddress string `gorm:"size:255" json:"serviceAddress"`
	ChargeType     string `gorm:"size:20" json:"chargeType"`
	ApprovedBy     string `gorm:"size:100" json:"approvedBy"`

	TicketValue        decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"ticketValue"`
	KmRate             decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"kmRate"`
	AdditionalHourRate decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"additionalHourRate"`

	CalculationsEnabled   bool   `json:"calculationsEnabled"`
	SyncToGoogleCalendar  bool   `json:"syncToGoogleCalendar"`
	GoogleCalendarEventID string `gorm:"size:255" json:"googleCalendarEventId"`
	CancellationReason    string `gorm:"size:255" json:"cancellationReason"`

	CancelledAt *time.Time `json:"cancelledAt"`
	CompletedAt *time.Time `json:"completedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
