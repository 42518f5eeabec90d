package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(ticketsCreated.WithLabelValues("PF"))
	IncTicketCreated("PF")
	assert.Equal(t, before+1, testutil.ToFloat64(ticketsCreated.WithLabelValues("PF")))

	IncCalendarFailure("events")
	assert.GreaterOrEqual(t, testutil.ToFloat64(calendarFetchFailures.WithLabelValues("events")), 1.0)

	IncAuditDropped()
	assert.GreaterOrEqual(t, testutil.ToFloat64(auditDropped), 1.0)
}
