package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/chamados-pro/internal/audit"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/middleware"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	Duration      int    `json:"duration"`
	PublicBooking bool   `json:"publicBooking"`
}

type UpdateServiceRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	Price         *string `json:"price,omitempty"`
	Duration      *int    `json:"duration,omitempty"`
	Active        *bool   `json:"active,omitempty"`
	PublicBooking *bool   `json:"publicBooking,omitempty"`
}

func parsePrice(raw string) (decimal.Decimal, bool) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, true
	}
	d, err := domain.ParseMoney(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	activeStr := strings.TrimSpace(c.Query("active")) // "true", "false" ou vazio
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("company_id = ?", middleware.CompanyID(c))

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	services := []models.Service{}
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, services)
}

// Create também atende o cadastro rápido do formulário de chamado,
// que envia só o nome.
func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httperr.Validation(c, []string{"name"}, map[string]string{"name": domain.ErrRequired})
		return
	}

	price, ok := parsePrice(req.Price)
	if !ok {
		httperr.Validation(c, []string{"price"}, map[string]string{"price": domain.ErrInvalid})
		return
	}

	if req.Duration < 0 {
		httperr.Validation(c, []string{"duration"}, map[string]string{"duration": domain.ErrPositive})
		return
	}
	duration := req.Duration
	if duration == 0 {
		duration = 1
	}

	service := models.Service{
		CompanyID:     middleware.CompanyID(c),
		Name:          name,
		Description:   req.Description,
		Price:         price,
		Duration:      duration,
		Active:        true,
		PublicBooking: req.PublicBooking,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Erro ao cadastrar serviço.")
		return
	}

	writeAudit(h.audit, c, "service_created", "service", service.ID, gin.H{"name": service.Name})
	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND company_id = ?", c.Param("id"), middleware.CompanyID(c)).
		First(&service).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Erro ao buscar serviço.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		price, ok := parsePrice(*req.Price)
		if !ok {
			httperr.Validation(c, []string{"price"}, map[string]string{"price": domain.ErrInvalid})
			return
		}
		service.Price = price
	}
	if req.Duration != nil {
		if *req.Duration < 1 {
			httperr.Validation(c, []string{"duration"}, map[string]string{"duration": domain.ErrPositive})
			return
		}
		service.Duration = *req.Duration
	}
	if req.Active != nil {
		service.Active = *req.Active
	}
	if req.PublicBooking != nil {
		service.PublicBooking = *req.PublicBooking
	}

	if service.Name == "" {
		httperr.Validation(c, []string{"name"}, map[string]string{"name": domain.ErrRequired})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Erro ao salvar serviço.")
		return
	}

	writeAudit(h.audit, c, "service_updated", "service", service.ID, req)
	c.JSON(http.StatusOK, service)
}
