package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/middleware"
	ucTicket "github.com/BruksfildServices01/chamados-pro/internal/usecase/ticket"
)

// ======================================================
// HANDLER
// ======================================================

type TicketHandler struct {
	createUC     *ucTicket.CreateTicket
	cancelUC     *ucTicket.CancelTicket
	completeUC   *ucTicket.CompleteTicket
	listUC       *ucTicket.ListTickets
	nextNumberUC *ucTicket.GetNextNumber
	slotsUC      *ucTicket.GetAvailableSlots
	calendar     CalendarInvalidator
}

func NewTicketHandler(
	createUC *ucTicket.CreateTicket,
	cancelUC *ucTicket.CancelTicket,
	completeUC *ucTicket.CompleteTicket,
	listUC *ucTicket.ListTickets,
	nextNumberUC *ucTicket.GetNextNumber,
	slotsUC *ucTicket.GetAvailableSlots,
	calendar CalendarInvalidator,
) *TicketHandler {
	return &TicketHandler{
		createUC:     createUC,
		cancelUC:     cancelUC,
		completeUC:   completeUC,
		listUC:       listUC,
		nextNumberUC: nextNumberUC,
		slotsUC:      slotsUC,
		calendar:     calendar,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// CreateTicketRequest aceita as duas variantes do payload. scheduledFor
// vem como "YYYY-MM-DDTHH:mm:00" no fuso da empresa.
type CreateTicketRequest struct {
	ClientID     string  `json:"clientId"`
	ServiceID    string  `json:"serviceId"`
	TechnicianID *string `json:"technicianId"`

	ScheduledFor  string `json:"scheduledFor"`
	ScheduledDate string `json:"scheduledDate"`
	ScheduledTime string `json:"scheduledTime"`
	Duration      int    `json:"duration"`

	Description string `json:"description"`
	Address     string `json:"address"`

	TicketNumber       string `json:"ticketNumber"`
	FinalClient        string `json:"finalClient"`
	TicketValue        string `json:"ticketValue"`
	ChargeType         string `json:"chargeType"`
	ApprovedBy         string `json:"approvedBy"`
	KmRate             string `json:"kmRate"`
	AdditionalHourRate string `json:"additionalHourRate"`
	ServiceAddress     string `json:"serviceAddress"`

	SyncToGoogleCalendar bool  `json:"syncToGoogleCalendar"`
	CalculationsEnabled  *bool `json:"calculationsEnabled"`
}

type CancelTicketRequest struct {
	Reason string `json:"reason"`
}

func (r CreateTicketRequest) draft() domain.Draft {
	date, clock := r.ScheduledDate, r.ScheduledTime
	if r.ScheduledFor != "" {
		d, t, _ := strings.Cut(r.ScheduledFor, "T")
		date = d
		if len(t) >= 5 {
			clock = t[:5]
		}
	}

	return domain.Draft{
		ClientID:           r.ClientID,
		ServiceID:          r.ServiceID,
		ScheduledDate:      date,
		ScheduledTime:      clock,
		Duration:           r.Duration,
		Description:        r.Description,
		Address:            r.Address,
		TicketNumber:       r.TicketNumber,
		FinalClient:        r.FinalClient,
		TicketValue:        r.TicketValue,
		ChargeType:         domain.ChargeType(r.ChargeType),
		ApprovedBy:         r.ApprovedBy,
		KmRate:             r.KmRate,
		AdditionalHourRate: r.AdditionalHourRate,
		ServiceAddress:     r.ServiceAddress,
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *TicketHandler) Create(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	companyID := middleware.CompanyID(c)

	t, err := h.createUC.Execute(c.Request.Context(), ucTicket.CreateTicketInput{
		CompanyID:            companyID,
		UserID:               middleware.UserID(c),
		TechnicianID:         req.TechnicianID,
		Draft:                req.draft(),
		SyncToGoogleCalendar: req.SyncToGoogleCalendar,
		CalculationsOverride: req.CalculationsEnabled,
	})
	if err != nil {
		writeUseCaseError(c, err, "failed_to_create_ticket", "Erro ao criar chamado.")
		return
	}

	if t.GoogleCalendarEventID != "" && h.calendar != nil {
		h.calendar.Invalidate(c.Request.Context(), companyID)
	}

	c.JSON(http.StatusCreated, t)
}

// ======================================================
// LIST
// ======================================================

func (h *TicketHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	items, err := h.listUC.ByDate(c.Request.Context(), middleware.CompanyID(c), date)
	if err != nil {
		writeUseCaseError(c, err, "failed_to_list_tickets", "Erro ao listar chamados.")
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *TicketHandler) ListByMonth(c *gin.Context) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	items, err := h.listUC.ByMonth(c.Request.Context(), middleware.CompanyID(c), year, month)
	if err != nil {
		writeUseCaseError(c, err, "failed_to_list_tickets", "Erro ao listar chamados.")
		return
	}

	c.JSON(http.StatusOK, items)
}

// ======================================================
// STATUS
// ======================================================

func (h *TicketHandler) Cancel(c *gin.Context) {
	var req CancelTicketRequest
	// corpo opcional
	_ = c.ShouldBindJSON(&req)

	t, err := h.cancelUC.Execute(
		c.Request.Context(),
		middleware.CompanyID(c),
		middleware.UserID(c),
		c.Param("id"),
		req.Reason,
	)
	if err != nil {
		writeUseCaseError(c, err, "failed_to_cancel_ticket", "Erro ao cancelar chamado.")
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *TicketHandler) Complete(c *gin.Context) {
	t, err := h.completeUC.Execute(
		c.Request.Context(),
		middleware.CompanyID(c),
		middleware.UserID(c),
		c.Param("id"),
	)
	if err != nil {
		writeUseCaseError(c, err, "failed_to_complete_ticket", "Erro ao concluir chamado.")
		return
	}

	c.JSON(http.StatusOK, t)
}

// ======================================================
// NEXT NUMBER / SLOTS
// ======================================================

// NextNumber responde só a string "YYYY-NNNN".
func (h *TicketHandler) NextNumber(c *gin.Context) {
	n, err := h.nextNumberUC.Execute(c.Request.Context(), middleware.CompanyID(c))
	if err != nil {
		writeUseCaseError(c, err, "failed_to_get_next_number", "Erro ao gerar número do chamado.")
		return
	}

	c.JSON(http.StatusOK, n)
}

func (h *TicketHandler) AvailableSlots(c *gin.Context) {
	duration, _ := strconv.Atoi(c.Query("duration"))

	out, err := h.slotsUC.Execute(c.Request.Context(), ucTicket.AvailableSlotsInput{
		CompanyID: middleware.CompanyID(c),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		ServiceID: c.Query("serviceId"),
		Duration:  duration,
	})
	if err != nil {
		writeUseCaseError(c, err, "availability_failed", "Erro ao calcular horários.")
		return
	}

	c.JSON(http.StatusOK, out)
}
