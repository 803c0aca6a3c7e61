package conciliacao

import (
	"strings"

	"conciliador-service/internal/config"
	"conciliador-service/internal/domain"

	"github.com/schollz/closestmatch"
	"go.uber.org/zap"
)

// PrepararBase normaliza a base de compras e pré-agrega, por
// (fornecedor, documento), a contagem de linhas e a soma do valor. A
// pré-agregação acontece uma única vez aqui, antes do merge, para que o
// custo não dependa do fan-out da junção.
//
// Colunas-chave ausentes são fatais; coluna de valor ausente degrada para
// zero com um aviso, e a execução continua.
func PrepararBase(t *domain.Table, op config.BaseComprasConfig, logger *zap.Logger) ([]domain.Compra, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if t.ColIndex(op.ColunaFornecedor) < 0 {
		return nil, &domain.MissingColumnError{Tabela: "base de compras", Coluna: op.ColunaFornecedor}
	}
	if t.ColIndex(op.ColunaDocumento) < 0 {
		return nil, &domain.MissingColumnError{Tabela: "base de compras", Coluna: op.ColunaDocumento}
	}

	temValor := t.ColIndex(op.ColunaValor) >= 0
	if !temValor {
		campos := []zap.Field{zap.String("coluna", op.ColunaValor)}
		if len(t.Columns) > 0 {
			cm := closestmatch.New(t.Columns, []int{2, 3})
			if sugestao := cm.Closest(op.ColunaValor); sugestao != "" {
				campos = append(campos, zap.String("mais_proxima", sugestao))
			}
		}
		logger.Warn("coluna de valor não encontrada na base de compras; preenchendo com zero", campos...)
	}

	textoDesejado := make(map[string]bool, len(op.ColunasTexto))
	for _, c := range op.ColunasTexto {
		textoDesejado[c] = true
	}

	compras := make([]domain.Compra, 0, len(t.Rows))
	for i := range t.Rows {
		campos := make(map[string]string, len(t.Columns))
		for _, col := range t.Columns {
			v := t.Celula(i, col)
			if textoDesejado[col] {
				v = strings.TrimSpace(v)
			}
			campos[col] = v
		}

		c := domain.Compra{
			Fornecedor: domain.NormalizarChave(campos[op.ColunaFornecedor]),
			Documento:  domain.NormalizarChave(campos[op.ColunaDocumento]),
			Campos:     campos,
		}
		if temValor {
			c.VlrTotal = ToNumberBRL(campos[op.ColunaValor])
		}
		compras = append(compras, c)
	}

	// contagem e soma por documento, juntadas de volta em cada linha
	type agregado struct {
		contagem int
		soma     float64
	}
	porDocumento := make(map[string]*agregado, len(compras))
	for i := range compras {
		k := chaveJuncao(compras[i].Fornecedor, compras[i].Documento)
		a := porDocumento[k]
		if a == nil {
			a = &agregado{}
			porDocumento[k] = a
		}
		a.contagem++
		a.soma += compras[i].VlrTotal
	}
	for i := range compras {
		a := porDocumento[chaveJuncao(compras[i].Fornecedor, compras[i].Documento)]
		compras[i].MatchCount = a.contagem
		compras[i].SomaDoc = a.soma
	}

	return compras, nil
}

func chaveJuncao(fornecedor, documento string) string {
	return fornecedor + "\x00" + documento
}
