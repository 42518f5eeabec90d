package ticket

import (
	"time"

	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(t *models.Ticket, now time.Time, reason string) error {
	if err := CanCancel(Status(t.Status)); err != nil {
		return err
	}

	t.Status = string(StatusCancelled)
	t.CancelledAt = &now
	t.CancellationReason = reason
	return nil
}

func Complete(t *models.Ticket, now time.Time) error {
	if err := CanComplete(Status(t.Status)); err != nil {
		return err
	}

	t.Status = string(StatusCompleted)
	t.CompletedAt = &now
	return nil
}

// ProtectedInterval é a janela do chamado acrescida de buffer e deslocamento.
// Valores zerados no chamado usam os padrões da empresa.
func ProtectedInterval(t models.Ticket, defaultBuffer, defaultTravel int) (time.Time, time.Time) {
	buffer := t.BufferMinutes
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	travel := t.TravelMinutes
	if travel <= 0 {
		travel = defaultTravel
	}

	pad := time.Duration(buffer+travel) * time.Minute
	end := t.ScheduledEndFor
	if end.IsZero() {
		end = t.ScheduledFor.Add(time.Duration(t.Duration) * time.Hour)
	}
	return t.ScheduledFor.Add(-pad), end.Add(pad)
}
