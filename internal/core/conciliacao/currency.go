package conciliacao

import (
	"strconv"
	"strings"
)

// ToNumberBRL converte valores monetários em notação brasileira ou ambígua
// para float64. Nunca falha: entrada vazia ou ilegível vale 0.0.
//
// A ordem das regras importa. Com um único ponto e nenhuma vírgula, um
// grupo de exatamente três dígitos depois do ponto é lido como separador
// de milhar ("40.891" vira 40891), qualquer outro comprimento como decimal
// anglo ("40891.47" passa direto). Um decimal legítimo de três casas como
// "1.234" é, portanto, lido como 1234; limitação conhecida da heurística.
func ToNumberBRL(valor string) float64 {
	s := strings.TrimSpace(valor)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return 0.0
	}

	virgulas := strings.Count(s, ",")
	pontos := strings.Count(s, ".")

	switch {
	case virgulas == 1 && pontos > 0:
		// '40.891,47': milhar com ponto, decimal com vírgula
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case virgulas == 1:
		// '72,40': só decimal com vírgula
		s = strings.Replace(s, ",", ".", 1)
	case pontos == 1 && virgulas == 0:
		if grupoDeMilhar(s[strings.Index(s, ".")+1:]) {
			s = strings.ReplaceAll(s, ".", "")
		}
	case pontos > 0 && virgulas == 0:
		// '1.234.567': vários pontos de milhar
		s = strings.ReplaceAll(s, ".", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return f
}

func grupoDeMilhar(sufixo string) bool {
	if len(sufixo) != 3 {
		return false
	}
	for _, r := range sufixo {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
