package compras

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestCarregarBaseCSV(t *testing.T) {
	// latin-1: 0xC7 é o "Ç"
	conteudo := []byte("Forn/Cliente;Documento;Vlr.Total\r\n000256;000789;1.234,56\r\nA\xc7O;000111;72,40\r\n")

	tabela, err := CarregarBase(bytes.NewReader(conteudo), "base.csv", "")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	// a barra do cabeçalho vira underscore
	if tabela.Columns[0] != "Forn_Cliente" {
		t.Errorf("coluna 0 = %q, esperado Forn_Cliente", tabela.Columns[0])
	}
	if len(tabela.Rows) != 2 {
		t.Fatalf("linhas = %d, esperado 2", len(tabela.Rows))
	}
	if got := tabela.Celula(1, "Forn_Cliente"); got != "AÇO" {
		t.Errorf("latin-1 não decodificado: %q", got)
	}
	if got := tabela.Celula(0, "Vlr.Total"); got != "1.234,56" {
		t.Errorf("valor deve permanecer texto cru: %q", got)
	}
}

func TestCarregarBaseCSVLinhasIrregulares(t *testing.T) {
	conteudo := []byte("A;B;C\n1;2;3\n4;5\n")

	tabela, err := CarregarBase(bytes.NewReader(conteudo), "base.csv", "")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(tabela.Rows) != 2 {
		t.Fatalf("linhas = %d, esperado 2", len(tabela.Rows))
	}
	if got := tabela.Celula(1, "C"); got != "" {
		t.Errorf("linha curta deve ser completada com vazio, veio %q", got)
	}
}

func TestCarregarBaseXLSX(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Dados"); err != nil {
		t.Fatal(err)
	}
	valores := [][]interface{}{
		{"Forn_Cliente", "Documento", "Vlr.Total"},
		{"000256", "000789", "300,00"},
	}
	for i, linha := range valores {
		celula, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Dados", celula, &linha); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	tabela, err := CarregarBase(bytes.NewReader(buf.Bytes()), "base.xlsx", "Dados")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(tabela.Rows) != 1 {
		t.Fatalf("linhas = %d, esperado 1", len(tabela.Rows))
	}
	if got := tabela.Celula(0, "Documento"); got != "000789" {
		t.Errorf("Documento = %q, esperado 000789", got)
	}
}

// Planilha configurada ausente do arquivo cai na primeira disponível.
func TestCarregarBaseXLSXPlanilhaAusente(t *testing.T) {
	f := excelize.NewFile()
	linha := []interface{}{"Documento"}
	if err := f.SetSheetRow("Sheet1", "A1", &linha); err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	tabela, err := CarregarBase(bytes.NewReader(buf.Bytes()), "base.xlsx", "Dados")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if tabela.Columns[0] != "Documento" {
		t.Errorf("coluna 0 = %q, esperado Documento", tabela.Columns[0])
	}
}

func TestCarregarBaseExtensaoInvalida(t *testing.T) {
	_, err := CarregarBase(strings.NewReader("dados"), "base.txt", "")
	if err == nil {
		t.Fatal("esperado erro para extensão não suportada")
	}
}

func TestCarregarBaseVazia(t *testing.T) {
	_, err := CarregarBase(strings.NewReader(""), "base.csv", "")
	if err == nil {
		t.Fatal("esperado erro para base vazia")
	}
}
