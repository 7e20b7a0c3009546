package validators

import "strings"

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeCPF reduz "111.222.333-44" a "11122233344".
func NormalizeCPF(cpf string) string {
	return onlyDigits(cpf)
}

// IsCPFShape confere se um CPF normalizado tem 11 dígitos. Dígitos
// verificadores não são conferidos: a base legada tem CPFs digitados sem eles.
func IsCPFShape(cpf string) bool {
	return len(cpf) == 11 && onlyDigits(cpf) == cpf
}

// NormalizePhone guarda só os dígitos: "(11) 98765-4321" -> "11987654321".
func NormalizePhone(phone string) string {
	return onlyDigits(phone)
}

// NormalizeName remove espaços nas pontas e colapsa os internos.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
