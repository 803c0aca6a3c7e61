package conciliacao

import "testing"

func TestToNumberBRL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"brl completo", "1.234,56", 1234.56},
		{"brl milhares", "1.234.567,89", 1234567.89},
		{"somente virgula", "72,40", 72.40},
		{"decimal com ponto", "40891.47", 40891.47},
		{"ponto como milhar", "40.891", 40891.0},
		{"ponto ambiguo vira milhar", "1.234", 1234.0},
		{"quatro casas depois do ponto", "12.3456", 12.3456},
		{"varios pontos sem virgula", "1.234.567", 1234567.0},
		{"inteiro puro", "1500", 1500.0},
		{"negativo brl", "-1.234,56", -1234.56},
		{"espacos ao redor", "  72,40  ", 72.40},
		{"espaco interno", "1 234,56", 1234.56},
		{"nbsp interno", "1\u00a0234,56", 1234.56},
		{"vazio", "", 0.0},
		{"so espacos", "   ", 0.0},
		{"lixo", "abc", 0.0},
		{"duas virgulas", "1,2,3", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToNumberBRL(tt.input)
			if got != tt.want {
				t.Errorf("ToNumberBRL(%q) = %v, esperado %v", tt.input, got, tt.want)
			}
		})
	}
}

// A regra da vírgula precisa vencer a do ponto quando as duas se aplicam,
// senão "1.234,56" viraria 1.23456.
func TestToNumberBRLPrecedenciaVirgula(t *testing.T) {
	if got := ToNumberBRL("1.234,56"); got != 1234.56 {
		t.Fatalf("precedência errada entre vírgula e ponto: got %v", got)
	}
}
