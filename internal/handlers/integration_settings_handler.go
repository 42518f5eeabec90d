package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/chamados-pro/internal/audit"
	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	infraRepo "github.com/BruksfildServices01/chamados-pro/internal/infra/repository"
	"github.com/BruksfildServices01/chamados-pro/internal/middleware"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
	"github.com/BruksfildServices01/chamados-pro/internal/timezone"
)

// CalendarInvalidator descarta eventos em cache da empresa.
type CalendarInvalidator interface {
	Invalidate(ctx context.Context, companyID string)
}

type IntegrationSettingsHandler struct {
	db       *gorm.DB
	calendar CalendarInvalidator
	audit    *audit.Dispatcher
}

func NewIntegrationSettingsHandler(db *gorm.DB, calendar CalendarInvalidator, audit *audit.Dispatcher) *IntegrationSettingsHandler {
	return &IntegrationSettingsHandler{db: db, calendar: calendar, audit: audit}
}

// UpdateIntegrationSettingsRequest: campos ausentes ficam como estão.
type UpdateIntegrationSettingsRequest struct {
	GoogleCalendarEnabled *bool   `json:"googleCalendarEnabled"`
	GoogleCalendarID      *string `json:"googleCalendarId"`

	LeadTimeMinutes      *int `json:"leadTimeMinutes"`
	BufferMinutes        *int `json:"bufferMinutes"`
	TravelMinutes        *int `json:"travelMinutes"`
	DefaultDurationHours *int `json:"defaultDurationHours"`

	WorkingDays  json.RawMessage `json:"workingDays"`
	WorkingHours json.RawMessage `json:"workingHours"`
	Timezone     *string         `json:"timezone"`

	CalculationsEnabled     *bool               `json:"calculationsEnabled"`
	CalculationsPerTicket   *bool               `json:"calculationsPerTicket"`
	CalculationsClientTypes *[]domain.ClientType `json:"calculationsClientTypes"`
}

// integrationSettingsResponse inclui o expediente já normalizado.
type integrationSettingsResponse struct {
	*models.IntegrationSettings
	WorkingHoursConfig schedule.WorkingHoursConfig `json:"workingHoursConfig"`
	WorkingDaysList    []int                       `json:"workingDaysList"`
}

func (h *IntegrationSettingsHandler) load(ctx context.Context, companyID string) (*models.IntegrationSettings, error) {
	var s models.IntegrationSettings
	err := h.db.WithContext(ctx).Where("company_id = ?", companyID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return infraRepo.DefaultIntegrationSettings(companyID), nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func respondSettings(c *gin.Context, s *models.IntegrationSettings) {
	cfg := schedule.NormalizeWorkingHours(s.WorkingHours, s.WorkingDays)

	days := make([]int, 0, 7)
	for wd := 0; wd < 7; wd++ {
		if cfg.Days[wd].Enabled {
			days = append(days, wd)
		}
	}

	c.JSON(http.StatusOK, integrationSettingsResponse{
		IntegrationSettings: s,
		WorkingHoursConfig:  cfg,
		WorkingDaysList:     days,
	})
}

func (h *IntegrationSettingsHandler) Get(c *gin.Context) {
	s, err := h.load(c.Request.Context(), middleware.CompanyID(c))
	if err != nil {
		httperr.Internal(c, "failed_to_get_settings", "Erro ao buscar configurações.")
		return
	}
	respondSettings(c, s)
}

func (h *IntegrationSettingsHandler) Update(c *gin.Context) {
	companyID := middleware.CompanyID(c)

	var req UpdateIntegrationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	s, err := h.load(c.Request.Context(), companyID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_settings", "Erro ao buscar configurações.")
		return
	}

	fe := domain.FieldErrors{}
	minutes := map[string]struct {
		v   *int
		dst *int
	}{
		"leadTimeMinutes": {req.LeadTimeMinutes, &s.LeadTimeMinutes},
		"bufferMinutes":   {req.BufferMinutes, &s.BufferMinutes},
		"travelMinutes":   {req.TravelMinutes, &s.TravelMinutes},
	}
	for field, m := range minutes {
		if m.v == nil {
			continue
		}
		if *m.v < 0 {
			fe[field] = domain.ErrInvalid
			continue
		}
		*m.dst = *m.v
	}

	if req.DefaultDurationHours != nil {
		if *req.DefaultDurationHours < 1 {
			fe["defaultDurationHours"] = domain.ErrPositive
		} else {
			s.DefaultDurationHours = *req.DefaultDurationHours
		}
	}

	if req.Timezone != nil {
		if *req.Timezone != "" && !timezone.IsValid(*req.Timezone) {
			fe["timezone"] = domain.ErrInvalid
		} else {
			s.Timezone = *req.Timezone
		}
	}

	if req.CalculationsClientTypes != nil {
		for _, t := range *req.CalculationsClientTypes {
			if !t.Valid() {
				fe["calculationsClientTypes"] = domain.ErrInvalid
			}
		}
	}

	if len(fe) > 0 {
		httperr.Validation(c, fe.Fields(), fe)
		return
	}

	// 1️⃣ expediente: grava sempre a forma normalizada
	if len(req.WorkingHours) > 0 || len(req.WorkingDays) > 0 {
		hoursRaw := []byte(s.WorkingHours)
		if len(req.WorkingHours) > 0 {
			hoursRaw = req.WorkingHours
		}
		daysRaw := []byte(s.WorkingDays)
		if len(req.WorkingDays) > 0 {
			daysRaw = req.WorkingDays
		}

		cfg := schedule.NormalizeWorkingHours(hoursRaw, daysRaw)
		if b, err := json.Marshal(cfg); err == nil {
			s.WorkingHours = datatypes.JSON(b)
		}
		if len(req.WorkingDays) > 0 {
			if b, err := json.Marshal(schedule.ParseWorkingDays(req.WorkingDays)); err == nil {
				s.WorkingDays = datatypes.JSON(b)
			}
		}
	}

	// 2️⃣ agenda
	calendarChanged := false
	if req.GoogleCalendarEnabled != nil {
		s.GoogleCalendarEnabled = req.GoogleCalendarEnabled
		calendarChanged = true
	}
	if req.GoogleCalendarID != nil && *req.GoogleCalendarID != s.GoogleCalendarID {
		s.GoogleCalendarID = *req.GoogleCalendarID
		calendarChanged = true
	}

	// 3️⃣ cálculos
	if req.CalculationsEnabled != nil {
		s.CalculationsEnabled = req.CalculationsEnabled
	}
	if req.CalculationsPerTicket != nil {
		s.CalculationsPerTicket = *req.CalculationsPerTicket
	}
	if req.CalculationsClientTypes != nil {
		if b, err := json.Marshal(*req.CalculationsClientTypes); err == nil {
			s.CalculationsClientTypes = datatypes.JSON(b)
		}
	}

	db := h.db.WithContext(c.Request.Context())

	// primeira gravação: o insert aplica os defaults da tabela por cima
	// dos zeros, então os valores pedidos são regravados em seguida
	if s.ID == "" {
		desired := *s
		if err := db.Create(s).Error; err != nil {
			httperr.Internal(c, "failed_to_save_settings", "Erro ao salvar configurações.")
			return
		}
		desired.ID, desired.CreatedAt = s.ID, s.CreatedAt
		*s = desired
	}

	if err := db.Save(s).Error; err != nil {
		httperr.Internal(c, "failed_to_save_settings", "Erro ao salvar configurações.")
		return
	}

	if calendarChanged && h.calendar != nil {
		h.calendar.Invalidate(c.Request.Context(), companyID)
	}

	writeAudit(h.audit, c, "settings_updated", "integration_settings", s.ID, nil)
	respondSettings(c, s)
}
