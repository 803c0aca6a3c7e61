package conciliacao

import "testing"

func TestTratarFornecedor(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantCodigo string
		wantLoja   string
		wantNome   string
	}{
		{"tres partes", "000256-01-HELIBRAS", "000256", "01", "HELIBRAS"},
		{"nome com hifen", "000256-01-AUTO-PECAS SUL", "000256", "01", "AUTO-PECAS SUL"},
		{"codigo nao numerico", "MUNIC-00-MUNICIPIO DE GASPAR", "MUNIC", "00", "MUNICIPIO DE GASPAR"},
		{"codigo vazio", "-01-MUNICIPIO", "", "01", "MUNICIPIO"},
		{"com espacos", " 000256 - 01 - HELIBRAS ", "000256", "01", "HELIBRAS"},
		{"sem separador", "ACME", "", "", "ACME"},
		{"um separador so", "256-ACME", "", "", "256-ACME"},
		{"vazio", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codigo, loja, nome := TratarFornecedor(tt.input)
			if codigo != tt.wantCodigo || loja != tt.wantLoja || nome != tt.wantNome {
				t.Errorf("TratarFornecedor(%q) = (%q, %q, %q), esperado (%q, %q, %q)",
					tt.input, codigo, loja, nome, tt.wantCodigo, tt.wantLoja, tt.wantNome)
			}
		})
	}
}

func TestTratarPrfParcela(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantParcela   string
		wantDocumento string
	}{
		{"formato padrao", "001 - 123456 - X", "001", "123456"},
		{"sem espacos", "001-123456-", "001", "123456"},
		{"prefixo alfanumerico", "NF1 - 000789 - A", "NF1", "000789"},
		{"documento nao numerico", "001 - ABC - X", "", ""},
		{"sem segundo hifen", "001 - 123456", "", ""},
		{"lixo", "garbage", "", ""},
		{"vazio", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parcela, documento := TratarPrfParcela(tt.input)
			if parcela != tt.wantParcela || documento != tt.wantDocumento {
				t.Errorf("TratarPrfParcela(%q) = (%q, %q), esperado (%q, %q)",
					tt.input, parcela, documento, tt.wantParcela, tt.wantDocumento)
			}
		})
	}
}
