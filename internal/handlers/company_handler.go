package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/chamados-pro/internal/audit"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/infra/storage"
	"github.com/BruksfildServices01/chamados-pro/internal/middleware"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
	"github.com/BruksfildServices01/chamados-pro/internal/timezone"
	"github.com/BruksfildServices01/chamados-pro/internal/validators"
)

// LogoUploader grava a logo já normalizada e devolve a URL pública.
type LogoUploader interface {
	UploadLogo(ctx context.Context, companyID string, r io.Reader) (string, error)
}

type CompanyHandler struct {
	db    *gorm.DB
	logos LogoUploader
	audit *audit.Dispatcher
}

// NewCompanyHandler aceita logos nil quando o bucket não está configurado.
func NewCompanyHandler(db *gorm.DB, logos LogoUploader, audit *audit.Dispatcher) *CompanyHandler {
	return &CompanyHandler{db: db, logos: logos, audit: audit}
}

type UpdateCompanyRequest struct {
	Name     *string `json:"name"`
	Document *string `json:"document"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Timezone *string `json:"timezone"`
}

func (h *CompanyHandler) load(c *gin.Context) (*models.Company, bool) {
	var company models.Company
	if err := h.db.WithContext(c.Request.Context()).
		First(&company, "id = ?", middleware.CompanyID(c)).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "company_not_found", "Empresa não encontrada.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_company", "Erro ao buscar dados da empresa.")
		return nil, false
	}
	return &company, true
}

func (h *CompanyHandler) Get(c *gin.Context) {
	company, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) Update(c *gin.Context) {
	company, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Nome obrigatório.")
			return
		}
		company.Name = name
	}

	if req.Document != nil {
		if *req.Document != "" && !validators.IsDocument(*req.Document) {
			httperr.BadRequest(c, "invalid_document", "CPF ou CNPJ inválido.")
			return
		}
		company.Document = validators.OnlyDigits(*req.Document)
	}

	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		company.Timezone = *req.Timezone
	}

	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Address != nil {
		company.Address = *req.Address
	}

	if err := h.db.WithContext(c.Request.Context()).Save(company).Error; err != nil {
		httperr.Internal(c, "failed_to_update_company", "Erro ao salvar os dados da empresa.")
		return
	}

	writeAudit(h.audit, c, "company_updated", "company", company.ID, req)
	c.JSON(http.StatusOK, company)
}

// UploadLogo recebe multipart com o campo "logo" (PNG, JPEG ou WebP).
func (h *CompanyHandler) UploadLogo(c *gin.Context) {
	if h.logos == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "storage_disabled", "Upload de logo não configurado.")
		return
	}

	company, ok := h.load(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxLogoBytes+1<<20)

	file, err := c.FormFile("logo")
	if err != nil {
		httperr.BadRequest(c, "missing_logo", "Envie a imagem no campo logo.")
		return
	}
	if file.Size > storage.MaxLogoBytes {
		httperr.BadRequest(c, "logo_too_large", "A imagem deve ter no máximo 5 MB.")
		return
	}

	f, err := file.Open()
	if err != nil {
		httperr.BadRequest(c, "missing_logo", "Envie a imagem no campo logo.")
		return
	}
	defer f.Close()

	url, err := h.logos.UploadLogo(c.Request.Context(), company.ID, f)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			httperr.BadRequest(c, "invalid_image", "Formato de imagem não suportado.")
			return
		}
		httperr.Internal(c, "failed_to_upload_logo", "Erro ao enviar a logo.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(company).
		Update("logo_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_company", "Erro ao salvar os dados da empresa.")
		return
	}

	writeAudit(h.audit, c, "company_logo_updated", "company", company.ID, nil)
	c.JSON(http.StatusOK, gin.H{"logoUrl": url})
}
