package ticket

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidMoney = errors.New("invalid_money")

// ParseMoney aceita o formato brasileiro ("1.234,56", "R$ 150,00") e o
// formato decimal simples ("150.00"). Com vírgula, pontos são milhar.
func ParseMoney(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, "R$")
	v = strings.ReplaceAll(v, " ", "")
	v = strings.ReplaceAll(v, "\u00a0", "")

	if v == "" {
		return decimal.Zero, ErrInvalidMoney
	}

	switch {
	case strings.Contains(v, ","):
		v = strings.ReplaceAll(v, ".", "")
		v = strings.Replace(v, ",", ".", 1)
	case strings.Count(v, ".") > 1:
		v = strings.ReplaceAll(v, ".", "")
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, ErrInvalidMoney
	}
	return d, nil
}

// IsPositiveMoney trata vazio, "0", "0,0" e "0,00" como ausentes.
func IsPositiveMoney(s string) bool {
	d, err := ParseMoney(s)
	return err == nil && d.IsPositive()
}

// MoneyString normaliza para o formato do payload ("150.00").
// Vazio ou inválido vira "".
func MoneyString(s string) string {
	d, err := ParseMoney(s)
	if err != nil {
		return ""
	}
	return d.StringFixed(2)
}

// FormatBRL formata no padrão pt-BR sem símbolo: 1234.5 -> "1.234,50".
func FormatBRL(d decimal.Decimal) string {
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + frac
	if neg {
		return "-" + out
	}
	return out
}

// FormatNullBRL devolve "" para valores nulos ou zero.
func FormatNullBRL(d decimal.NullDecimal) string {
	if !d.Valid || d.Decimal.IsZero() {
		return ""
	}
	return FormatBRL(d.Decimal)
}
