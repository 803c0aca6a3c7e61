package compras

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"conciliador-service/internal/domain"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// CarregarBase lê o arquivo da base de compras em uma tabela de texto. O
// formato é escolhido pela extensão do nome original: xlsx, xls ou csv
// (separado por ponto e vírgula, latin-1). Todas as células chegam como
// texto cru; normalização de chave e parse monetário acontecem depois, na
// preparação.
func CarregarBase(arquivo io.Reader, nomeArquivo, planilha string) (*domain.Table, error) {
	switch strings.ToLower(filepath.Ext(nomeArquivo)) {
	case ".xlsx":
		return carregarXLSX(arquivo, planilha)
	case ".xls":
		return carregarXLS(arquivo)
	case ".csv":
		return carregarCSV(arquivo)
	}
	return nil, fmt.Errorf("formato de arquivo não suportado para a base de compras: %s", nomeArquivo)
}

func carregarXLSX(arquivo io.Reader, planilha string) (*domain.Table, error) {
	f, err := excelize.OpenReader(arquivo)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir o arquivo xlsx: %w", err)
	}
	defer f.Close()

	nome := planilha
	if nome != "" {
		if idx, errIdx := f.GetSheetIndex(nome); errIdx != nil || idx < 0 {
			nome = ""
		}
	}
	if nome == "" {
		lista := f.GetSheetList()
		if len(lista) == 0 {
			return nil, fmt.Errorf("arquivo xlsx sem planilhas")
		}
		nome = lista[0]
	}

	linhas, err := f.GetRows(nome)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler a planilha %q: %w", nome, err)
	}
	return montarTabela(linhas)
}

func carregarXLS(arquivo io.Reader) (*domain.Table, error) {
	data, err := io.ReadAll(arquivo)
	if err != nil {
		return nil, err
	}

	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir o arquivo xls: %w", err)
	}
	if len(workbook.GetSheets()) == 0 {
		return nil, fmt.Errorf("arquivo xls sem planilhas")
	}

	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter planilha do arquivo .xls: %w", err)
	}

	var linhas [][]string
	for _, row := range sheet.GetRows() {
		var celulas []string
		for _, cell := range row.GetCols() {
			celulas = append(celulas, cell.GetString())
		}
		linhas = append(linhas, celulas)
	}
	return montarTabela(linhas)
}

func carregarCSV(arquivo io.Reader) (*domain.Table, error) {
	// exports do ERP chegam em latin-1 com ponto e vírgula
	decodificado := transform.NewReader(arquivo, charmap.ISO8859_1.NewDecoder())

	reader := csv.NewReader(decodificado)
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	linhas, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("erro ao ler o arquivo csv: %w", err)
	}
	return montarTabela(linhas)
}

func montarTabela(linhas [][]string) (*domain.Table, error) {
	if len(linhas) == 0 {
		return nil, fmt.Errorf("base de compras vazia")
	}

	maxCols := 0
	for _, l := range linhas {
		if len(l) > maxCols {
			maxCols = len(l)
		}
	}
	for i := range linhas {
		for len(linhas[i]) < maxCols {
			linhas[i] = append(linhas[i], "")
		}
	}

	colunas := make([]string, len(linhas[0]))
	for i, h := range linhas[0] {
		colunas[i] = limparNomeColuna(h)
	}

	return &domain.Table{Columns: colunas, Rows: linhas[1:]}, nil
}

func limparNomeColuna(nome string) string {
	return strings.TrimSpace(strings.ReplaceAll(nome, "/", "_"))
}
