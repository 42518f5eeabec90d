package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

type TicketGormRepository struct {
	db *gorm.DB
}

func NewTicketGormRepository(db *gorm.DB) *TicketGormRepository {
	return &TicketGormRepository{db: db}
}

// --------------------------------------------------
// Company
// --------------------------------------------------

func (r *TicketGormRepository) GetCompanyByID(
	ctx context.Context,
	id string,
) (*models.Company, error) {

	var company models.Company
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *TicketGormRepository) GetCompanyBySlug(
	ctx context.Context,
	slug string,
) (*models.Company, error) {

	var company models.Company
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// --------------------------------------------------
// Settings
// --------------------------------------------------

func (r *TicketGormRepository) GetIntegrationSettings(
	ctx context.Context,
	companyID string,
) (*models.IntegrationSettings, error) {

	var settings models.IntegrationSettings
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&settings).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultIntegrationSettings(companyID), nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// DefaultIntegrationSettings espelha os defaults das colunas.
func DefaultIntegrationSettings(companyID string) *models.IntegrationSettings {
	return &models.IntegrationSettings{
		CompanyID:            companyID,
		GoogleCalendarStatus: "disconnected",
		LeadTimeMinutes:      30,
		BufferMinutes:        15,
		TravelMinutes:        30,
		DefaultDurationHours: domain.DefaultDurationHours,
	}
}

// --------------------------------------------------
// Client / Service
// --------------------------------------------------

func (r *TicketGormRepository) GetClient(
	ctx context.Context,
	companyID string,
	clientID string,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", clientID, companyID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *TicketGormRepository) GetOrCreateClient(
	ctx context.Context,
	companyID string,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND phone = ?", companyID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{
		CompanyID: companyID,
		Type:      string(domain.ClientPF),
		Name:      name,
		Phone:     phone,
		Email:     email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *TicketGormRepository) GetService(
	ctx context.Context,
	companyID string,
	serviceID string,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", serviceID, companyID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Ticket
// --------------------------------------------------

func (r *TicketGormRepository) CreateTicket(
	ctx context.Context,
	t *models.Ticket,
) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// CreateTicketExclusive bloqueia os chamados ativos próximos, confere a
// sobreposição das janelas protegidas e cria o chamado na mesma transação.
func (r *TicketGormRepository) CreateTicketExclusive(
	ctx context.Context,
	t *models.Ticket,
	protectedStart time.Time,
	protectedEnd time.Time,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Ticket{})
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		// janela larga; a proteção de cada chamado é aplicada abaixo
		var nearby []models.Ticket
		if err := q.
			Where(
				"company_id = ? AND status <> ? AND scheduled_for < ? AND scheduled_end_for > ?",
				t.CompanyID,
				string(domain.StatusCancelled),
				protectedEnd.Add(24*time.Hour),
				protectedStart.Add(-24*time.Hour),
			).
			Find(&nearby).Error; err != nil {
			return err
		}

		for _, existing := range nearby {
			start, end := domain.ProtectedInterval(existing, 0, 0)
			if protectedStart.Before(end) && protectedEnd.After(start) {
				return httperr.ErrBusiness("time_conflict")
			}
		}

		return tx.Create(t).Error
	})
}

func (r *TicketGormRepository) ListTicketNumbers(
	ctx context.Context,
	companyID string,
	prefix string,
) ([]string, error) {

	var numbers []string
	if err := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("company_id = ? AND ticket_number LIKE ?", companyID, prefix+"%").
		Pluck("ticket_number", &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}

// --------------------------------------------------
// Ticket (Cancel / Complete)
// --------------------------------------------------

func (r *TicketGormRepository) GetTicket(
	ctx context.Context,
	companyID string,
	ticketID string,
) (*models.Ticket, error) {

	var t models.Ticket
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("id = ? AND company_id = ?", ticketID, companyID).
		First(&t).Error; err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *TicketGormRepository) UpdateTicket(
	ctx context.Context,
	t *models.Ticket,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(t).Error
}

// --------------------------------------------------
// Availability / listagens
// --------------------------------------------------

func (r *TicketGormRepository) ListBlockingTickets(
	ctx context.Context,
	companyID string,
	start time.Time,
	end time.Time,
) ([]models.Ticket, error) {

	var tickets []models.Ticket
	if err := r.db.WithContext(ctx).
		Select("id", "scheduled_for", "scheduled_end_for", "duration", "buffer_minutes", "travel_minutes").
		Where(
			"company_id = ? AND status <> ? AND scheduled_for < ? AND scheduled_end_for > ?",
			companyID, string(domain.StatusCancelled), end, start,
		).
		Order("scheduled_for ASC").
		Find(&tickets).Error; err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *TicketGormRepository) ListTicketsForPeriod(
	ctx context.Context,
	companyID string,
	start time.Time,
	end time.Time,
) ([]models.Ticket, error) {

	var tickets []models.Ticket

	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"company_id = ? AND scheduled_for >= ? AND scheduled_for < ?",
			companyID,
			start,
			end,
		).
		Order("scheduled_for ASC").
		Find(&tickets).Error

	if err != nil {
		return nil, err
	}

	return tickets, nil
}

// Compile-time check
var _ domain.Repository = (*TicketGormRepository)(nil)
