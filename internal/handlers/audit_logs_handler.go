package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/chamados-pro/internal/audit"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/httpresp"
	"github.com/BruksfildServices01/chamados-pro/internal/middleware"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs *audit.Logger
}

func NewAuditLogsHandler(logs *audit.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	// --------------------------------------------------
	// Query (sempre protegida pela empresa)
	// --------------------------------------------------
	filter := audit.Filter{
		CompanyID: middleware.CompanyID(c),
		Action:    c.Query("action"),
		Entity:    c.Query("entity"),
		From:      c.Query("from"),
		To:        c.Query("to"),
		Page:      page,
		Limit:     limit,
	}

	logs, total, err := h.logs.List(c.Request.Context(), filter)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// --------------------------------------------------
	// Response
	// --------------------------------------------------
	httpresp.Page(c, page, limit, total, logs)
}
