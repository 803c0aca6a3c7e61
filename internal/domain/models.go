// package domain/models.go
package domain

import (
	"fmt"
	"strings"
)

// Table é uma tabela de texto cru: tudo que entra no pipeline (XML de
// títulos, base de compras) vira texto antes de qualquer conversão
// explícita. A fronteira texto -> tipado acontece nos componentes que a
// consomem, nunca aqui.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable cria uma tabela vazia com as colunas informadas.
func NewTable(colunas []string) *Table {
	return &Table{Columns: colunas}
}

// ColIndex retorna o índice da coluna ou -1 quando ausente.
func (t *Table) ColIndex(nome string) int {
	for i, c := range t.Columns {
		if c == nome {
			return i
		}
	}
	return -1
}

// Celula retorna o valor de uma célula; vazio quando a linha é mais curta
// que o cabeçalho ou a coluna não existe.
func (t *Table) Celula(linha int, nome string) string {
	idx := t.ColIndex(nome)
	if idx < 0 || linha < 0 || linha >= len(t.Rows) || idx >= len(t.Rows[linha]) {
		return ""
	}
	return t.Rows[linha][idx]
}

// Clone devolve uma cópia independente da tabela.
func (t *Table) Clone() *Table {
	c := &Table{Columns: append([]string(nil), t.Columns...)}
	c.Rows = make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		c.Rows[i] = append([]string(nil), r...)
	}
	return c
}

// NormalizarChave normaliza uma chave de junção removendo espaços ao redor
// e zeros à esquerda, de forma que "0099" e "99" sejam a mesma chave dos
// dois lados do merge. Idempotente.
func NormalizarChave(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "0")
	return strings.TrimSpace(s)
}

// TituloFonte é uma linha utilizável do XML de títulos depois da
// decomposição das chaves compostas.
type TituloFonte struct {
	// RowID é o id ordinal atribuído na leitura; o XML não tem chave
	// primária própria e este id ancora a deduplicação e o agrupamento.
	RowID int

	Codigo         string // código do fornecedor, já normalizado ("" quando a decomposição falhou)
	Loja           string
	NomeFornecedor string
	Parcela        string
	Documento      string // número do documento, já normalizado

	// Campos guarda todas as colunas originais do XML, como texto.
	Campos map[string]string
}

// Compra é uma linha preparada da base de compras (referência).
type Compra struct {
	Fornecedor string // chave normalizada
	Documento  string // chave normalizada
	VlrTotal   float64

	// MatchCount e SomaDoc são pré-agregados por (fornecedor, documento)
	// sobre a base inteira, antes do merge.
	MatchCount int
	SomaDoc    float64

	Campos map[string]string
}

// LinhaConciliada é a unidade de saída do relatório: uma linha por título
// sem rateio, ou uma por grupo de rateio quando o documento casa com
// múltiplas linhas da base.
type LinhaConciliada struct {
	RowID int

	Codigo         string
	Loja           string
	NomeFornecedor string
	Documento      string
	Parcela        string

	Campos map[string]string

	VlrRateado    float64
	ValorOriginal float64 // soma da base que determinou a proporção; só em linhas com rateio
	ComRateio     bool
}

// ParseError é a falha fatal de leitura do documento fonte (XML ilegível
// nos dois caminhos de parse, planilha ausente, <Table> ausente).
type ParseError struct {
	Etapa string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("falha de parse (%s)", e.Etapa)
	}
	return fmt.Sprintf("falha de parse (%s): %v", e.Etapa, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingColumnError indica coluna obrigatória ausente em uma das tabelas.
type MissingColumnError struct {
	Tabela string
	Coluna string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("coluna %q não encontrada na tabela %q", e.Coluna, e.Tabela)
}
