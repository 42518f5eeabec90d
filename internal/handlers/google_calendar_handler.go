package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/chamados-pro/internal/audit"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/infra/gcal"
	infraRepo "github.com/BruksfildServices01/chamados-pro/internal/infra/repository"
	"github.com/BruksfildServices01/chamados-pro/internal/middleware"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
	ucTicket "github.com/BruksfildServices01/chamados-pro/internal/usecase/ticket"
)

// CalendarConnector é o lado OAuth da integração.
type CalendarConnector interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) ([]byte, error)
}

type GoogleCalendarHandler struct {
	db        *gorm.DB
	connector CalendarConnector
	events    *ucTicket.ListCalendarEvents
	cache     CalendarInvalidator
	audit     *audit.Dispatcher
	secret    string
	log       zerolog.Logger
	now       func() time.Time
}

// NewGoogleCalendarHandler aceita connector nil quando o OAuth não está configurado.
func NewGoogleCalendarHandler(
	db *gorm.DB,
	connector CalendarConnector,
	events *ucTicket.ListCalendarEvents,
	cache CalendarInvalidator,
	audit *audit.Dispatcher,
	secret string,
	log zerolog.Logger,
) *GoogleCalendarHandler {
	return &GoogleCalendarHandler{
		db:        db,
		connector: connector,
		events:    events,
		cache:     cache,
		audit:     audit,
		secret:    secret,
		log:       log.With().Str("handler", "google_calendar").Logger(),
		now:       time.Now,
	}
}

// Auth devolve {authUrl} para o navegador abrir o consentimento.
func (h *GoogleCalendarHandler) Auth(c *gin.Context) {
	if h.connector == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "google_disabled", "Integração com o Google não configurada.")
		return
	}

	state, err := gcal.SignState(h.secret, middleware.CompanyID(c), h.now())
	if err != nil {
		httperr.Internal(c, "failed_to_sign_state", "Erro ao iniciar a conexão.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"authUrl": h.connector.AuthURL(state)})
}

// Callback recebe o redirecionamento do Google; a empresa vem do state.
func (h *GoogleCalendarHandler) Callback(c *gin.Context) {
	if h.connector == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "google_disabled", "Integração com o Google não configurada.")
		return
	}

	if e := c.Query("error"); e != "" {
		httperr.BadRequest(c, "google_denied", "Acesso ao Google Agenda não autorizado.")
		return
	}

	companyID, err := gcal.ParseState(h.secret, c.Query("state"))
	if err != nil {
		httperr.BadRequest(c, "invalid_state", "Link de conexão inválido ou expirado.")
		return
	}

	code := c.Query("code")
	if code == "" {
		httperr.BadRequest(c, "missing_code", "Código de autorização ausente.")
		return
	}

	token, err := h.connector.Exchange(c.Request.Context(), code)
	if err != nil {
		h.log.Warn().Err(err).Str("company_id", companyID).Msg("oauth exchange failed")
		httperr.Write(c, http.StatusBadGateway, "google_exchange_failed", "Não foi possível conectar ao Google Agenda.")
		return
	}

	err = h.saveConnection(c.Request.Context(), companyID, func(s *models.IntegrationSettings) {
		s.GoogleCalendarToken = datatypes.JSON(token)
		s.GoogleCalendarStatus = "connected"
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_settings", "Erro ao salvar configurações.")
		return
	}

	if h.audit != nil {
		h.audit.Dispatch(audit.Event{CompanyID: companyID, Action: "calendar_connected", Entity: "integration_settings"})
	}
	c.JSON(http.StatusOK, gin.H{"status": "connected"})
}

func (h *GoogleCalendarHandler) Disconnect(c *gin.Context) {
	companyID := middleware.CompanyID(c)

	err := h.saveConnection(c.Request.Context(), companyID, func(s *models.IntegrationSettings) {
		s.GoogleCalendarToken = nil
		s.GoogleCalendarStatus = "disconnected"
		s.GoogleCalendarEmail = ""
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_settings", "Erro ao salvar configurações.")
		return
	}

	writeAudit(h.audit, c, "calendar_disconnected", "integration_settings", "", nil)
	c.JSON(http.StatusOK, gin.H{"status": "disconnected"})
}

// Events lista os eventos do intervalo. Integração desconectada devolve [].
func (h *GoogleCalendarHandler) Events(c *gin.Context) {
	timeMin, ok := parseTimeParam(c.Query("timeMin"))
	if !ok {
		httperr.BadRequest(c, "invalid_range", "Período inválido.")
		return
	}
	timeMax, ok := parseTimeParam(c.Query("timeMax"))
	if !ok {
		httperr.BadRequest(c, "invalid_range", "Período inválido.")
		return
	}

	events, err := h.events.Execute(c.Request.Context(), middleware.CompanyID(c), timeMin, timeMax)
	if err != nil {
		writeUseCaseError(c, err, "failed_to_list_events", "Erro ao buscar eventos.")
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *GoogleCalendarHandler) saveConnection(ctx context.Context, companyID string, apply func(*models.IntegrationSettings)) error {
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s models.IntegrationSettings
		err := tx.Where("company_id = ?", companyID).First(&s).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s = *infraRepo.DefaultIntegrationSettings(companyID)
		} else if err != nil {
			return err
		}

		apply(&s)
		return tx.Save(&s).Error
	})
	if err != nil {
		return err
	}

	if h.cache != nil {
		h.cache.Invalidate(ctx, companyID)
	}
	return nil
}
