package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/chamados-pro/internal/audit"
	"github.com/BruksfildServices01/chamados-pro/internal/middleware"
)

// writeAudit registra a ação do usuário autenticado. Nunca bloqueia a resposta.
func writeAudit(
	d *audit.Dispatcher,
	c *gin.Context,
	action string,
	entity string,
	entityID string,
	meta any,
) {
	if d == nil {
		return
	}

	ev := audit.Event{
		CompanyID: middleware.CompanyID(c),
		Action:    action,
		Entity:    entity,
		Metadata:  meta,
	}

	if userID := middleware.UserID(c); userID != "" {
		ev.UserID = &userID
	}
	if entityID != "" {
		ev.EntityID = &entityID
	}

	d.Dispatch(ev)
}
