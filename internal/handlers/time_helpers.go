package handlers

import (
	"time"

	"github.com/BruksfildServices01/chamados-pro/internal/timezone"
)

// parseTimeParam aceita RFC3339 completo ou só a data, que vira o
// início do dia no fuso padrão do negócio.
func parseTimeParam(v string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", v, timezone.Location(timezone.DefaultTimezone)); err == nil {
		return t, true
	}
	return time.Time{}, false
}
