package model

import "strings"

// ValidateCPF runs the full CPF check: 11 digits, not all repeated, and both
// verifier digits matching the official checksum.
func ValidateCPF(cpf string) (string, error) {
	if !IsDigits(cpf, 11) {
		return "", ErrInvalidCPF
	}
	if cpf == strings.Repeat(cpf[:1], 11) {
		return "", ErrInvalidCPF
	}

	dv1 := verifierDigit(cpf[:9], 10)
	dv2 := verifierDigit(cpf[:10], 11)

	if cpf[9] != byte('0'+dv1) || cpf[10] != byte('0'+dv2) {
		return "", ErrInvalidCPF
	}
	return cpf, nil
}

// verifierDigit computes one checksum digit: weighted sum of the preceding
// sequence with multipliers counting down from factor, mod 11.
func verifierDigit(sequence string, factor int) int {
	sum := 0
	for i := 0; i < len(sequence); i++ {
		sum += int(sequence[i]-'0') * (factor - i)
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}
