package ticket

import (
	"context"
	"time"

	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

type Repository interface {
	// -------- Company --------
	GetCompanyByID(
		ctx context.Context,
		id string,
	) (*models.Company, error)

	GetCompanyBySlug(
		ctx context.Context,
		slug string,
	) (*models.Company, error)

	// -------- Settings --------
	// devolve configuração padrão (não persistida) quando não existe
	GetIntegrationSettings(
		ctx context.Context,
		companyID string,
	) (*models.IntegrationSettings, error)

	// -------- Client / Service --------
	GetClient(
		ctx context.Context,
		companyID string,
		clientID string,
	) (*models.Client, error)

	GetOrCreateClient(
		ctx context.Context,
		companyID string,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	GetService(
		ctx context.Context,
		companyID string,
		serviceID string,
	) (*models.Service, error)

	// -------- Ticket (create / conflict) --------
	CreateTicket(
		ctx context.Context,
		t *models.Ticket,
	) error

	// CreateTicketExclusive verifica conflito e cria na mesma transação.
	CreateTicketExclusive(
		ctx context.Context,
		t *models.Ticket,
		protectedStart time.Time,
		protectedEnd time.Time,
	) error

	ListTicketNumbers(
		ctx context.Context,
		companyID string,
		prefix string,
	) ([]string, error)

	// -------- Ticket (state change) --------
	GetTicket(
		ctx context.Context,
		companyID string,
		ticketID string,
	) (*models.Ticket, error)

	UpdateTicket(
		ctx context.Context,
		t *models.Ticket,
	) error

	// -------- Availability / listagens --------
	ListBlockingTickets(
		ctx context.Context,
		companyID string,
		start time.Time,
		end time.Time,
	) ([]models.Ticket, error)

	ListTicketsForPeriod(
		ctx context.Context,
		companyID string,
		start time.Time,
		end time.Time,
	) ([]models.Ticket, error)
}
