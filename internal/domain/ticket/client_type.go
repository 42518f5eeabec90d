package ticket

import "strings"

type ClientType string

const (
	ClientPF             ClientType = "PF"
	ClientPJ             ClientType = "PJ"
	ClientPartnerCompany ClientType = "EMPRESA_PARCEIRA"
)

var AllClientTypes = []ClientType{ClientPF, ClientPJ, ClientPartnerCompany}

func (t ClientType) IsPartner() bool {
	return t == ClientPartnerCompany
}

func (t ClientType) Valid() bool {
	switch t {
	case ClientPF, ClientPJ, ClientPartnerCompany:
		return true
	}
	return false
}

func ParseClientType(s string) (ClientType, bool) {
	t := ClientType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}

// ===============================
// Charge Type
// ===============================

type ChargeType string

const (
	ChargeDaily   ChargeType = "DIARIA"
	ChargePerCall ChargeType = "CHAMADO_AVULSO"
	ChargeFixed   ChargeType = "VALOR_FIXO"
	ChargePerHour ChargeType = "VALOR_POR_HORA"
)

const DefaultChargeType = ChargeFixed

func (c ChargeType) Valid() bool {
	switch c {
	case ChargeDaily, ChargePerCall, ChargeFixed, ChargePerHour:
		return true
	}
	return false
}
