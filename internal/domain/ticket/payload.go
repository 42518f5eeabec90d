package ticket

// ===============================
// Payload de criação (união marcada)
// ===============================

type PayloadKind string

const (
	KindService        PayloadKind = "service"
	KindPartnerBilling PayloadKind = "partner_billing"
)

// Payload é ServicePayload ou PartnerBillingPayload.
type Payload interface {
	Kind() PayloadKind
	Base() Common
}

type Common struct {
	ClientID             string `json:"clientId"`
	ScheduledFor         string `json:"scheduledFor"`
	Duration             int    `json:"duration"`
	Description          string `json:"description"`
	SyncToGoogleCalendar bool   `json:"syncToGoogleCalendar"`
	CalculationsEnabled  bool   `json:"calculationsEnabled"`
}

// ServicePayload para clientes PF/PJ: serviço do catálogo e endereço do cliente.
type ServicePayload struct {
	Common
	ServiceID string `json:"serviceId,omitempty"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
}

func (p ServicePayload) Kind() PayloadKind { return KindService }

func (p ServicePayload) Base() Common { return p.Common }

// PartnerBillingPayload para empresas parceiras. Valores monetários em "150.00".
type PartnerBillingPayload struct {
	Common
	TicketNumber       string     `json:"ticketNumber"`
	FinalClient        string     `json:"finalClient"`
	TicketValue        string     `json:"ticketValue"`
	ChargeType         ChargeType `json:"chargeType"`
	ApprovedBy         string     `json:"approvedBy"`
	KmRate             string     `json:"kmRate,omitempty"`
	AdditionalHourRate string     `json:"additionalHourRate,omitempty"`
	ServiceAddress     string     `json:"serviceAddress"`
}

func (p PartnerBillingPayload) Kind() PayloadKind { return KindPartnerBilling }

func (p PartnerBillingPayload) Base() Common { return p.Common }
