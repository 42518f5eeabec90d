package validators

import "strings"

// OnlyDigits remove pontuação de CPF, CNPJ e telefone.
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsCPF confere os dois dígitos verificadores.
func IsCPF(doc string) bool {
	d := OnlyDigits(doc)
	if len(d) != 11 || repeated(d) {
		return false
	}
	return checkDigit(d[:9], 10) == d[9] && checkDigit(d[:10], 11) == d[10]
}

// IsCNPJ confere os dois dígitos verificadores.
func IsCNPJ(doc string) bool {
	d := OnlyDigits(doc)
	if len(d) != 14 || repeated(d) {
		return false
	}

	first := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	second := append([]int{6}, first...)

	return cnpjDigit(d[:12], first) == d[12] && cnpjDigit(d[:13], second) == d[13]
}

// IsDocument aceita CPF ou CNPJ.
func IsDocument(doc string) bool {
	return IsCPF(doc) || IsCNPJ(doc)
}

func repeated(d string) bool {
	return strings.Count(d, d[:1]) == len(d)
}

func checkDigit(base string, weight int) byte {
	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * (weight - i)
	}
	return mod11(sum)
}

func cnpjDigit(base string, weights []int) byte {
	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * weights[i]
	}
	return mod11(sum)
}

func mod11(sum int) byte {
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + 11 - r)
}
