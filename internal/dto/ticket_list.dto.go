package dto

import "time"

type TicketListDTO struct {
	ID             string    `json:"id"`
	TicketNumber   string    `json:"ticket_number"`
	ScheduledFor   time.Time `json:"scheduled_for"`
	ScheduledEnd   time.Time `json:"scheduled_end_for"`
	Status         string    `json:"status"`
	ClientName     string    `json:"client_name"`
	ClientType     string    `json:"client_type"`
	ServiceName    string    `json:"service_name,omitempty"`
	FinalClient    string    `json:"final_client,omitempty"`
	Address        string    `json:"address"`
	TicketValue    string    `json:"ticket_value,omitempty"`
	CalendarSynced bool      `json:"calendar_synced"`
}
