package ticket

import (
	"errors"
	"sort"
	"strings"
)

// ===============================
// Erros de campo
// ===============================

const (
	ErrRequired = "required"
	ErrPositive = "must_be_positive"
	ErrInvalid  = "invalid"
)

// FieldErrors mapeia campo -> código do erro.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	return "validation_failed: " + strings.Join(fe.Fields(), ", ")
}

func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for f := range fe {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// ===============================
// Rascunho
// ===============================

// Draft são os campos editáveis do formulário de chamado.
type Draft struct {
	ClientID           string
	ServiceID          string
	ScheduledDate      string
	ScheduledTime      string
	Duration           int
	Description        string
	Address            string
	TicketNumber       string
	FinalClient        string
	TicketValue        string
	ChargeType         ChargeType
	ApprovedBy         string
	KmRate             string
	AdditionalHourRate string
	ServiceAddress     string

	CalculationsEnabled bool
}

// ClientRef é o cliente selecionado, quando conhecido.
type ClientRef struct {
	ID      string
	Type    ClientType
	Address string
	City    string
	State   string
}

type BuildOptions struct {
	Client         *ClientRef
	NextNumber     string
	SyncToCalendar bool
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Validate devolve nil quando o rascunho pode ser enviado.
func Validate(d Draft, client *ClientRef, nextNumber string) FieldErrors {
	fe := FieldErrors{}

	if blank(d.ClientID) {
		fe["clientId"] = ErrRequired
	}
	if blank(d.ScheduledDate) {
		fe["scheduledDate"] = ErrRequired
	}
	if blank(d.ScheduledTime) {
		fe["scheduledTime"] = ErrRequired
	}

	if client != nil && client.Type.IsPartner() {
		number := d.TicketNumber
		if number == "" {
			number = nextNumber
		}
		if blank(number) {
			fe["ticketNumber"] = ErrRequired
		}
		if blank(d.FinalClient) {
			fe["finalClient"] = ErrRequired
		}
		if blank(d.ServiceAddress) {
			fe["serviceAddress"] = ErrRequired
		}
		if d.CalculationsEnabled && !IsPositiveMoney(d.TicketValue) {
			fe["ticketValue"] = ErrPositive
		}
		if d.ChargeType != "" && !d.ChargeType.Valid() {
			fe["chargeType"] = ErrInvalid
		}
	} else if blank(d.ServiceID) {
		fe["serviceId"] = ErrRequired
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

// BuildPayload valida e monta a variante correta do payload.
// Rascunho inválido nunca gera payload.
func BuildPayload(d Draft, opts BuildOptions) (Payload, error) {
	if fe := Validate(d, opts.Client, opts.NextNumber); fe != nil {
		return nil, fe
	}

	duration := d.Duration
	if duration <= 0 {
		duration = DefaultDurationHours
	}

	common := Common{
		ClientID:             d.ClientID,
		ScheduledFor:         d.ScheduledDate + "T" + d.ScheduledTime + ":00",
		Duration:             duration,
		Description:          d.Description,
		SyncToGoogleCalendar: opts.SyncToCalendar,
		CalculationsEnabled:  d.CalculationsEnabled,
	}

	if opts.Client != nil && opts.Client.Type.IsPartner() {
		number := d.TicketNumber
		if number == "" {
			number = opts.NextNumber
		}
		charge := d.ChargeType
		if charge == "" {
			charge = DefaultChargeType
		}

		return PartnerBillingPayload{
			Common:             common,
			TicketNumber:       number,
			FinalClient:        d.FinalClient,
			TicketValue:        MoneyString(d.TicketValue),
			ChargeType:         charge,
			ApprovedBy:         d.ApprovedBy,
			KmRate:             MoneyString(d.KmRate),
			AdditionalHourRate: MoneyString(d.AdditionalHourRate),
			ServiceAddress:     d.ServiceAddress,
		}, nil
	}

	p := ServicePayload{
		Common:    common,
		ServiceID: d.ServiceID,
		Address:   d.Address,
	}
	if opts.Client != nil {
		if p.Address == "" {
			p.Address = opts.Client.Address
		}
		p.City = opts.Client.City
		p.State = opts.Client.State
	}
	return p, nil
}
