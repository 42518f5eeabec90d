package ticketdraft

import (
	"context"
	"errors"
	"strings"

	"github.com/BruksfildServices01/chamados-pro/internal/apiclient"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

// ======================================================
// VALIDAÇÃO E ENVIO
// ======================================================

// Validate grava e devolve os erros de campo do rascunho atual.
func (c *Controller) Validate() domain.FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()

	fe := domain.Validate(c.draft, c.clientRefLocked(), c.nextNumber)
	c.errors = fe
	return fe
}

// Submit monta o payload e cria o chamado. Rascunho inválido não chega à
// API; falha no envio volta para edição com o rascunho intacto.
func (c *Controller) Submit(ctx context.Context) (*models.Ticket, error) {
	c.mu.Lock()
	if c.state != StateEditing {
		c.mu.Unlock()
		return nil, ErrNotEditing
	}

	payload, err := domain.BuildPayload(c.draft, domain.BuildOptions{
		Client:         c.clientRefLocked(),
		NextNumber:     c.nextNumber,
		SyncToCalendar: c.syncToCalendar,
	})
	if err != nil {
		if fe, ok := domain.AsFieldErrors(err); ok {
			c.errors = fe
		}
		c.mu.Unlock()
		c.log.Debug().Err(err).Msg("draft invalid")
		return nil, err
	}

	gen := c.gen
	c.state = StateSubmitting
	c.errors = nil
	c.submitErr = nil
	c.mu.Unlock()

	base := payload.Base()
	c.log.Debug().
		Str("kind", string(payload.Kind())).
		Str("client_id", base.ClientID).
		Str("scheduled_for", base.ScheduledFor).
		Int("duration", base.Duration).
		Msg("submitting ticket")

	ticket, err := c.api.CreateTicket(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return ticket, err
	}

	if err != nil {
		c.state = StateEditing
		c.submitErr = err
		c.errors = serverFieldErrors(err)
		c.log.Debug().Err(err).Msg("ticket rejected")
		return nil, err
	}

	c.log.Debug().Str("ticket_id", ticket.ID).Msg("ticket created")
	c.resetLocked()
	return ticket, nil
}

// serverFieldErrors traz para o formulário os campos apontados pela API.
func serverFieldErrors(err error) domain.FieldErrors {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || len(apiErr.Fields) == 0 {
		return nil
	}

	fe := domain.FieldErrors{}
	for _, f := range apiErr.Fields {
		code := apiErr.Details[f]
		if code == "" {
			code = domain.ErrInvalid
		}
		fe[f] = code
	}
	return fe
}

func (c *Controller) clientRefLocked() *domain.ClientRef {
	client := c.clientLocked(c.draft.ClientID)
	if client == nil {
		return nil
	}
	return &domain.ClientRef{
		ID:      client.ID,
		Type:    domain.ClientType(client.Type),
		Address: client.Address,
		City:    client.City,
		State:   client.State,
	}
}

// ======================================================
// AÇÕES AUXILIARES
// ======================================================

// CreateService cadastra um serviço só com o nome e já o seleciona.
func (c *Controller) CreateService(ctx context.Context, name string) (*models.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.FieldErrors{"name": domain.ErrRequired}
	}

	c.mu.Lock()
	if c.state != StateEditing {
		c.mu.Unlock()
		return nil, ErrNotEditing
	}
	gen := c.gen
	c.mu.Unlock()

	s, err := c.api.CreateService(ctx, name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen == c.gen {
		c.services = append(c.services, *s)
		c.selectServiceLocked(s.ID)
	}
	return s, nil
}

// LookupDocument busca um cliente por CPF/CNPJ. found=false quando não
// existe; um cliente achado entra na lista e fica selecionado.
func (c *Controller) LookupDocument(ctx context.Context, document string) (*models.Client, bool, error) {
	c.mu.Lock()
	if c.state != StateEditing {
		c.mu.Unlock()
		return nil, false, ErrNotEditing
	}
	c.mu.Unlock()

	client, err := c.api.SearchDocument(ctx, document)
	if errors.Is(err, apiclient.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	if c.clientLocked(client.ID) == nil {
		c.clients = append(c.clients, *client)
	}
	c.mu.Unlock()

	if err := c.SetClient(client.ID); err != nil {
		return client, true, err
	}
	return client, true, nil
}

// ConnectCalendar devolve a URL de consentimento do Google.
func (c *Controller) ConnectCalendar(ctx context.Context) (string, error) {
	u, err := c.api.CalendarAuthURL(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("calendar auth url failed")
		return "", err
	}
	return u, nil
}
