package ticket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var partner = &ClientRef{ID: "c1", Type: ClientPartnerCompany}

func partnerDraft() Draft {
	return Draft{
		ClientID:            "c1",
		ScheduledDate:       "2024-01-10",
		ScheduledTime:       "09:00",
		Duration:            4,
		FinalClient:         "Loja Centro",
		ServiceAddress:      "Rua A, 100",
		TicketValue:         "150,00",
		ChargeType:          ChargeFixed,
		CalculationsEnabled: true,
	}
}

func TestValidate_AlwaysRequiredFields(t *testing.T) {
	fe := Validate(Draft{ServiceID: "s1"}, nil, "")

	require.NotNil(t, fe)
	assert.Equal(t, []string{"clientId", "scheduledDate", "scheduledTime"}, fe.Fields())
}

func TestValidate_NonPartnerWithoutService(t *testing.T) {
	d := Draft{ClientID: "c1", ScheduledDate: "2024-01-10", ScheduledTime: "09:00"}

	fe := Validate(d, &ClientRef{ID: "c1", Type: ClientPF}, "")
	require.NotNil(t, fe)
	assert.Equal(t, ErrRequired, fe["serviceId"])

	d.ServiceID = "s1"
	assert.Nil(t, Validate(d, &ClientRef{ID: "c1", Type: ClientPJ}, ""))
}

func TestValidate_PartnerTicketValue(t *testing.T) {
	for _, zero := range []string{"", "0", "0,0", "0,00", "-5,00", "abc"} {
		d := partnerDraft()
		d.TicketValue = zero

		fe := Validate(d, partner, "2024-0001")
		require.NotNil(t, fe, zero)
		assert.True(t, fe.Has("ticketValue"), zero)
	}

	d := partnerDraft()
	assert.Nil(t, Validate(d, partner, "2024-0001"))
}

func TestValidate_PartnerWithoutCalculationsSkipsValue(t *testing.T) {
	d := partnerDraft()
	d.CalculationsEnabled = false
	d.TicketValue = ""

	assert.Nil(t, Validate(d, partner, "2024-0001"))

	d.FinalClient = ""
	d.ServiceAddress = "  "
	fe := Validate(d, partner, "2024-0001")
	assert.Equal(t, []string{"finalClient", "serviceAddress"}, fe.Fields())
}

func TestValidate_PartnerTicketNumberFallsBackToNext(t *testing.T) {
	d := partnerDraft()

	fe := Validate(d, partner, "")
	require.NotNil(t, fe)
	assert.True(t, fe.Has("ticketNumber"))

	assert.Nil(t, Validate(d, partner, "2024-0007"))
}

func TestBuildPayload_InvalidDraftNeverBuilds(t *testing.T) {
	p, err := BuildPayload(Draft{}, BuildOptions{})
	assert.Nil(t, p)

	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.True(t, fe.Has("clientId"))
}

func TestBuildPayload_Partner(t *testing.T) {
	d := partnerDraft()
	d.KmRate = "1,50"
	d.ApprovedBy = "Marcos"

	p, err := BuildPayload(d, BuildOptions{Client: partner, NextNumber: "2024-0003", SyncToCalendar: true})
	require.NoError(t, err)

	pb, ok := p.(PartnerBillingPayload)
	require.True(t, ok)
	assert.Equal(t, KindPartnerBilling, p.Kind())
	assert.Equal(t, "2024-0003", pb.TicketNumber)
	assert.Equal(t, "150.00", pb.TicketValue)
	assert.Equal(t, "1.50", pb.KmRate)
	assert.Equal(t, "", pb.AdditionalHourRate)
	assert.Equal(t, "2024-01-10T09:00:00", pb.ScheduledFor)
	assert.True(t, pb.SyncToGoogleCalendar)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "c1", m["clientId"])
	assert.Equal(t, "VALOR_FIXO", m["chargeType"])
	assert.NotContains(t, m, "additionalHourRate")
	assert.NotContains(t, m, "serviceId")
}

func TestBuildPayload_ServiceUsesClientAddress(t *testing.T) {
	d := Draft{
		ClientID:      "c2",
		ServiceID:     "s1",
		ScheduledDate: "2024-01-10",
		ScheduledTime: "14:30",
	}
	client := &ClientRef{ID: "c2", Type: ClientPF, Address: "Rua B, 20", City: "Campinas", State: "SP"}

	p, err := BuildPayload(d, BuildOptions{Client: client})
	require.NoError(t, err)

	sp, ok := p.(ServicePayload)
	require.True(t, ok)
	assert.Equal(t, "Rua B, 20", sp.Address)
	assert.Equal(t, "Campinas", sp.City)
	assert.Equal(t, DefaultDurationHours, sp.Duration)
	assert.Equal(t, "2024-01-10T14:30:00", sp.Base().ScheduledFor)
}
