package ticketdraft

import (
	"fmt"
	"strings"

	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

// ======================================================
// EDIÇÃO
// ======================================================

// SetClient troca o cliente e reaplica endereço, duração e padrões de cobrança.
func (c *Controller) SetClient(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return ErrNotEditing
	}

	var previousAddress string
	if prev := c.clientLocked(c.draft.ClientID); prev != nil {
		previousAddress = prev.Address
	}

	c.draft.ClientID = id
	c.calcOverride = nil

	if client := c.clientLocked(id); client != nil {
		c.applyClientLocked(client, previousAddress)
	} else if !c.durationTouched {
		c.draft.Duration = c.defaultDurationLocked(nil)
	}

	c.recomputeCalculationsLocked()
	c.touchLocked("clientId")
	return nil
}

// applyClientLocked só sobrescreve campos vazios ou que vieram do cliente anterior.
func (c *Controller) applyClientLocked(client *models.Client, previousAddress string) {
	if client.Address != "" && (c.draft.Address == "" || c.draft.Address == previousAddress) {
		c.draft.Address = client.Address
	}

	if !c.durationTouched {
		c.draft.Duration = c.defaultDurationLocked(client)
	}

	if !domain.ClientType(client.Type).IsPartner() {
		return
	}

	if c.draft.TicketValue == "" {
		c.draft.TicketValue = domain.FormatNullBRL(client.DefaultTicketValue)
	}
	if c.draft.KmRate == "" {
		c.draft.KmRate = domain.FormatNullBRL(client.DefaultKmRate)
	}
	if c.draft.AdditionalHourRate == "" {
		c.draft.AdditionalHourRate = domain.FormatNullBRL(client.DefaultAdditionalHourRate)
	}
}

// SetService troca o serviço. Os slots carregados foram calculados para a
// duração do serviço anterior: ficam desatualizados até RefreshSlots.
func (c *Controller) SetService(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return ErrNotEditing
	}
	c.selectServiceLocked(id)
	return nil
}

func (c *Controller) selectServiceLocked(id string) {
	if id != c.draft.ServiceID {
		c.slots = nil
		// uma recarga em andamento percebe a troca quando voltar
		if !c.queries[QuerySlots].Loading {
			c.queries[QuerySlots] = QueryStatus{Stale: true}
		}
	}
	c.draft.ServiceID = id
	c.touchLocked("serviceId")
}

// SetSchedule muda data e horário. Trocar a data descarta um horário que
// sabidamente não está livre no novo dia.
func (c *Controller) SetSchedule(date, clock string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return ErrNotEditing
	}
	if date != "" {
		if _, err := schedule.ParseDate(date, c.locationLocked()); err != nil {
			return fmt.Errorf("invalid date %q", date)
		}
	}
	if clock != "" {
		if _, ok := schedule.ParseClock(clock); !ok {
			return fmt.Errorf("invalid time %q", clock)
		}
	}

	dateChanged := date != c.draft.ScheduledDate
	c.draft.ScheduledDate = date
	c.draft.ScheduledTime = clock

	if dateChanged && clock != "" {
		times := c.deriveLocked().AvailableTimes
		if times.State != schedule.AvailabilityUnknown && !times.Contains(clock) {
			c.log.Debug().Str("date", date).Str("time", clock).Msg("time not available on new date")
			c.draft.ScheduledTime = ""
		}
	}

	c.touchLocked("scheduledDate")
	c.touchLocked("scheduledTime")
	return nil
}

// SetDuration fixa a duração em horas. A partir daqui trocar o cliente não
// mexe mais na duração.
func (c *Controller) SetDuration(hours int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return ErrNotEditing
	}
	if hours <= 0 {
		return fmt.Errorf("invalid duration %d", hours)
	}
	c.draft.Duration = hours
	c.durationTouched = true
	return nil
}

// SetField altera os campos de texto livre pelo nome usado na API.
func (c *Controller) SetField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return ErrNotEditing
	}

	d := &c.draft
	switch field {
	case "description":
		d.Description = value
	case "address":
		d.Address = value
	case "ticketNumber":
		d.TicketNumber = strings.TrimSpace(value)
	case "finalClient":
		d.FinalClient = value
	case "ticketValue":
		d.TicketValue = value
	case "chargeType":
		d.ChargeType = domain.ChargeType(strings.ToUpper(strings.TrimSpace(value)))
	case "approvedBy":
		d.ApprovedBy = value
	case "kmRate":
		d.KmRate = value
	case "additionalHourRate":
		d.AdditionalHourRate = value
	case "serviceAddress":
		d.ServiceAddress = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}

	c.touchLocked(field)
	return nil
}

// SetCalculations registra a escolha por chamado, quando a empresa permite.
func (c *Controller) SetCalculations(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return ErrNotEditing
	}

	var clientType domain.ClientType
	if client := c.clientLocked(c.draft.ClientID); client != nil {
		clientType = domain.ClientType(client.Type)
	}
	if !c.policyLocked().ToggleAllowed(clientType) {
		return ErrNoToggle
	}

	c.calcOverride = &enabled
	c.recomputeCalculationsLocked()
	c.touchLocked("ticketValue")
	return nil
}

func (c *Controller) SetSyncToCalendar(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return ErrNotEditing
	}
	c.syncToCalendar = enabled
	return nil
}

// touchLocked limpa o erro do campo editado e o erro do último envio.
func (c *Controller) touchLocked(field string) {
	delete(c.errors, field)
	c.submitErr = nil
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
