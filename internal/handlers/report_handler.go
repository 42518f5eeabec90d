package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/middleware"
	"github.com/BruksfildServices01/chamados-pro/internal/report"
	ucTicket "github.com/BruksfildServices01/chamados-pro/internal/usecase/ticket"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	listUC *ucTicket.ListTickets
}

func NewReportHandler(listUC *ucTicket.ListTickets) *ReportHandler {
	return &ReportHandler{listUC: listUC}
}

// TicketsXLSX exporta os chamados de from até to (YYYY-MM-DD).
func (h *ReportHandler) TicketsXLSX(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		httperr.BadRequest(c, "missing_range", "Informe o período (from e to).")
		return
	}

	items, err := h.listUC.Between(c.Request.Context(), middleware.CompanyID(c), from, to)
	if err != nil {
		writeUseCaseError(c, err, "failed_to_list_tickets", "Erro ao listar chamados.")
		return
	}

	var buf bytes.Buffer
	if err := report.WriteTickets(&buf, items); err != nil {
		httperr.Internal(c, "failed_to_build_report", "Erro ao gerar a planilha.")
		return
	}

	filename := fmt.Sprintf("chamados_%s_%s.xlsx", from, to)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
