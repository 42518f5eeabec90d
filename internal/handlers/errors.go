package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
)

type businessStatus struct {
	status  int
	message string
}

var businessErrors = map[string]businessStatus{
	"company_not_found":    {http.StatusNotFound, "Empresa não encontrada."},
	"client_not_found":     {http.StatusNotFound, "Cliente não encontrado."},
	"service_not_found":    {http.StatusNotFound, "Serviço não encontrado."},
	"ticket_not_found":     {http.StatusNotFound, "Chamado não encontrado."},
	"time_conflict":        {http.StatusConflict, "Conflito de horário com outro chamado."},
	"slot_unavailable":     {http.StatusConflict, "Horário indisponível."},
	"invalid_state":        {http.StatusBadRequest, "O chamado não pode mudar para esse status."},
	"invalid_date":         {http.StatusBadRequest, "Data inválida."},
	"invalid_month":        {http.StatusBadRequest, "Mês inválido."},
	"invalid_range":        {http.StatusBadRequest, "Período inválido."},
	"invalid_date_or_time": {http.StatusBadRequest, "Data ou hora inválida."},
	"client_required":      {http.StatusBadRequest, "Nome e telefone são obrigatórios."},
	"calendar_unavailable": {http.StatusBadGateway, "Google Agenda indisponível."},
}

// writeUseCaseError traduz os erros dos casos de uso para a resposta HTTP.
// Erros desconhecidos viram 500 com o código de fallback.
func writeUseCaseError(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	if fe, ok := domain.AsFieldErrors(err); ok {
		httperr.Validation(c, fe.Fields(), fe)
		return
	}

	if code, ok := httperr.BusinessCode(err); ok {
		if bs, known := businessErrors[code]; known {
			httperr.Write(c, bs.status, code, bs.message)
			return
		}
		httperr.BadRequest(c, code, "Requisição inválida.")
		return
	}

	if httperr.IsExclusionConflict(err) {
		bs := businessErrors["time_conflict"]
		httperr.Write(c, bs.status, "time_conflict", bs.message)
		return
	}

	httperr.Internal(c, fallbackCode, fallbackMessage)
}
