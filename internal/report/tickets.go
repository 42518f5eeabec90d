package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/chamados-pro/internal/dto"
)

const ticketsSheet = "Chamados"

var ticketColumns = []string{
	"Número", "Data", "Início", "Fim", "Cliente", "Tipo",
	"Serviço", "Cliente final", "Endereço", "Valor", "Status", "Google Agenda",
}

// WriteTickets gera a planilha de chamados usada no fechamento com parceiros.
func WriteTickets(w io.Writer, items []dto.TicketListDTO) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ticketsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeRow(f, 1, toAny(ticketColumns)); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(ticketColumns), 1)
		_ = f.SetCellStyle(ticketsSheet, "A1", last, style)
	}

	for i, t := range items {
		synced := "não"
		if t.CalendarSynced {
			synced = "sim"
		}

		row := []any{
			t.TicketNumber,
			t.ScheduledFor.Format("02/01/2006"),
			t.ScheduledFor.Format("15:04"),
			t.ScheduledEnd.Format("15:04"),
			t.ClientName,
			t.ClientType,
			t.ServiceName,
			t.FinalClient,
			t.Address,
			t.TicketValue,
			t.Status,
			synced,
		}
		if err := writeRow(f, i+2, row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeRow(f *excelize.File, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(ticketsSheet, cell, v); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	return nil
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
