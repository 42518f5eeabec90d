package ticket

import "github.com/BruksfildServices01/chamados-pro/internal/httperr"

// ===============================
// Ticket Status
// ===============================

type Status string

const (
	StatusOpen      Status = "ABERTO"
	StatusStarted   Status = "INICIADO"
	StatusCompleted Status = "CONCLUIDO"
	StatusCancelled Status = "CANCELADO"
)

// Blocking indica se o chamado ainda ocupa a agenda.
func (s Status) Blocking() bool {
	return s != StatusCancelled
}

// ===============================
// Validations
// ===============================

// CanCancel: somente chamados abertos ou iniciados
func CanCancel(current Status) error {
	if current != StatusOpen && current != StatusStarted {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanComplete: somente chamados abertos ou iniciados
func CanComplete(current Status) error {
	if current != StatusOpen && current != StatusStarted {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusOpen
}
