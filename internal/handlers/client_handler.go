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
	"github.com/BruksfildServices01/chamados-pro/internal/validators"
)

type ClientHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewClientHandler(db *gorm.DB, audit *audit.Dispatcher) *ClientHandler {
	return &ClientHandler{db: db, audit: audit}
}

type CreateClientRequest struct {
	Type     string `json:"type" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Document string `json:"document"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`

	// valores padrão de empresas parceiras
	DefaultTicketValue        string `json:"defaultTicketValue"`
	DefaultHoursIncluded      *int   `json:"defaultHoursIncluded"`
	DefaultKmRate             string `json:"defaultKmRate"`
	DefaultAdditionalHourRate string `json:"defaultAdditionalHourRate"`
}

// ======================================================
// LIST CLIENTS
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	companyID := middleware.CompanyID(c)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("company_id = ?", companyID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ? OR document LIKE ?",
			like, like, like, like,
		)
	}

	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", strings.ToUpper(t))
	}

	clients := []models.Client{}
	if err := q.
		Order("name ASC").
		Find(&clients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// ======================================================
// CREATE CLIENT
// ======================================================
func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	clientType, ok := domain.ParseClientType(req.Type)
	if !ok {
		httperr.BadRequest(c, "invalid_client_type", "Tipo de cliente inválido.")
		return
	}

	doc := validators.OnlyDigits(req.Document)
	if doc != "" && !validators.IsDocument(doc) {
		httperr.BadRequest(c, "invalid_document", "CPF ou CNPJ inválido.")
		return
	}

	client := models.Client{
		CompanyID:            middleware.CompanyID(c),
		Type:                 string(clientType),
		Name:                 strings.TrimSpace(req.Name),
		Document:             doc,
		Email:                strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:                req.Phone,
		Address:              req.Address,
		City:                 req.City,
		State:                strings.ToUpper(req.State),
		DefaultHoursIncluded: req.DefaultHoursIncluded,
	}

	money := map[string]struct {
		raw string
		dst *decimal.NullDecimal
	}{
		"defaultTicketValue":        {req.DefaultTicketValue, &client.DefaultTicketValue},
		"defaultKmRate":             {req.DefaultKmRate, &client.DefaultKmRate},
		"defaultAdditionalHourRate": {req.DefaultAdditionalHourRate, &client.DefaultAdditionalHourRate},
	}
	for field, m := range money {
		if strings.TrimSpace(m.raw) == "" {
			continue
		}
		d, err := domain.ParseMoney(m.raw)
		if err != nil || d.IsNegative() {
			httperr.Validation(c, []string{field}, map[string]string{field: domain.ErrInvalid})
			return
		}
		*m.dst = decimal.NewNullDecimal(d)
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_create_client", "Erro ao cadastrar cliente.")
		return
	}

	writeAudit(h.audit, c, "client_created", "client", client.ID, gin.H{"type": client.Type})
	c.JSON(http.StatusCreated, client)
}

// ======================================================
// SEARCH BY DOCUMENT
// ======================================================

// SearchByDocument responde 404 quando não há cliente com o documento.
func (h *ClientHandler) SearchByDocument(c *gin.Context) {
	doc := validators.OnlyDigits(c.Query("document"))
	if doc == "" {
		httperr.BadRequest(c, "missing_document", "Documento obrigatório.")
		return
	}

	var client models.Client
	err := h.db.WithContext(c.Request.Context()).
		Where("company_id = ? AND document = ?", middleware.CompanyID(c), doc).
		First(&client).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_search_client", "Erro ao buscar cliente.")
		return
	}

	c.JSON(http.StatusOK, client)
}
