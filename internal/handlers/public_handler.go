package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
	ucTicket "github.com/BruksfildServices01/chamados-pro/internal/usecase/ticket"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db       *gorm.DB
	slotsUC  *ucTicket.GetAvailableSlots
	createUC *ucTicket.CreatePublicTicket
}

func NewPublicHandler(
	db *gorm.DB,
	slotsUC *ucTicket.GetAvailableSlots,
	createUC *ucTicket.CreatePublicTicket,
) *PublicHandler {
	return &PublicHandler{
		db:       db,
		slotsUC:  slotsUC,
		createUC: createUC,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateTicketRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ServiceID   string `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:mm
	Description string `json:"description"`
	Address     string `json:"address"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) Services(c *gin.Context) {
	var company models.Company
	if err := h.db.WithContext(c.Request.Context()).
		Where("slug = ?", c.Param("slug")).
		First(&company).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "company_not_found", "Empresa não encontrada.")
			return
		}
		httperr.Internal(c, "failed_to_get_company", "Erro ao buscar empresa.")
		return
	}

	services := []models.Service{}
	if err := h.db.WithContext(c.Request.Context()).
		Where("company_id = ? AND active = ? AND public_booking = ?", company.ID, true, true).
		Order("name ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company": gin.H{
			"name":    company.Name,
			"slug":    company.Slug,
			"phone":   company.Phone,
			"address": company.Address,
			"logoUrl": company.LogoURL,
		},
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABLE SLOTS (MESMO GERADOR DO PAINEL)
////////////////////////////////////////////////////////

func (h *PublicHandler) AvailableSlots(c *gin.Context) {
	serviceID := c.Query("serviceId")
	if serviceID == "" {
		httperr.BadRequest(c, "missing_params", "Serviço obrigatório.")
		return
	}

	duration, _ := strconv.Atoi(c.Query("duration"))

	out, err := h.slotsUC.PublicSlots(c.Request.Context(), c.Param("slug"), ucTicket.AvailableSlotsInput{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		ServiceID: serviceID,
		Duration:  duration,
	})
	if err != nil {
		writeUseCaseError(c, err, "availability_failed", "Erro ao calcular horários.")
		return
	}

	c.JSON(http.StatusOK, out)
}

////////////////////////////////////////////////////////
// CREATE TICKET
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateTicket(c *gin.Context) {
	var req PublicCreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	t, err := h.createUC.Execute(c.Request.Context(), ucTicket.CreatePublicTicketInput{
		Slug:        c.Param("slug"),
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		ServiceID:   req.ServiceID,
		Date:        req.Date,
		Time:        req.Time,
		Description: req.Description,
		Address:     req.Address,
	})
	if err != nil {
		writeUseCaseError(c, err, "failed_to_create_ticket", "Erro ao criar chamado.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           t.ID,
		"status":       t.Status,
		"scheduledFor": t.ScheduledFor,
		"scheduledEnd": t.ScheduledEndFor,
	})
}
