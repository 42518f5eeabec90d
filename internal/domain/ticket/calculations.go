package ticket

import "encoding/json"

// CalculationPolicy é a configuração de "Cálculos e Cronômetro" da empresa.
type CalculationPolicy struct {
	Enabled   bool
	PerTicket bool
	// nil = todos os tipos habilitados
	ClientTypes []ClientType
}

// PolicyFromSettings aplica os padrões: global ligado, todos os tipos.
func PolicyFromSettings(enabled *bool, perTicket bool, clientTypesRaw []byte) CalculationPolicy {
	p := CalculationPolicy{Enabled: true, PerTicket: perTicket}
	if enabled != nil {
		p.Enabled = *enabled
	}

	if len(clientTypesRaw) > 0 {
		var types []ClientType
		if err := json.Unmarshal(clientTypesRaw, &types); err == nil && types != nil {
			p.ClientTypes = types
		}
	}

	return p
}

func (p CalculationPolicy) TypeEnabled(t ClientType) bool {
	if p.ClientTypes == nil {
		return true
	}
	for _, ct := range p.ClientTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// Default é o valor calculado ao abrir o formulário ou trocar o cliente.
func (p CalculationPolicy) Default(t ClientType) bool {
	return p.Enabled && p.TypeEnabled(t)
}

// ToggleAllowed: o usuário só escolhe por chamado quando a empresa permite.
func (p CalculationPolicy) ToggleAllowed(t ClientType) bool {
	return p.Enabled && p.PerTicket && p.TypeEnabled(t)
}

// Resolve aplica a escolha do usuário quando permitida.
func (p CalculationPolicy) Resolve(t ClientType, override *bool) bool {
	if override != nil && p.ToggleAllowed(t) {
		return *override
	}
	return p.Default(t)
}
