package conciliacao

import (
	"strings"

	"conciliador-service/internal/config"
	"conciliador-service/internal/domain"
)

// resultadoMerge separa as duas partições mutuamente exclusivas do merge.
type resultadoMerge struct {
	semRateio []domain.LinhaConciliada
	comRateio []domain.LinhaConciliada
}

// conciliar faz o left join dos títulos com a base preparada pelas chaves
// normalizadas (código, documento) e particiona o resultado:
//
//   - match_count <= 1: título sem rateio. O valor pago sai do próprio
//     título (valor nominal), nunca recalculado da base. Deduplicado por
//     RowID como guarda contra fan-out acidental.
//   - match_count > 1: título com rateio. As linhas multiplicadas pelo
//     join são reagrupadas pela chave de rateio da base e cada grupo
//     recebe a fração proporcional do valor pago. Com SomaDoc zero a
//     proporção é zero, nunca divisão por zero.
//
// Para um título com N grupos de rateio e SomaDoc != 0, a soma dos
// VlrRateado dos grupos reproduz o valor nominal do título.
func conciliar(titulos []domain.TituloFonte, compras []domain.Compra, cfg config.ConciliacaoConfig) resultadoMerge {
	indice := make(map[string][]*domain.Compra, len(compras))
	for i := range compras {
		k := chaveJuncao(compras[i].Fornecedor, compras[i].Documento)
		indice[k] = append(indice[k], &compras[i])
	}

	agrupamento := colunasAgrupamento(compras, cfg.AgrupamentoRateio)

	var res resultadoMerge
	vistos := make(map[int]bool, len(titulos))

	for _, titulo := range titulos {
		matches := indice[chaveJuncao(titulo.Codigo, titulo.Documento)]

		matchCount := 0
		if len(matches) > 0 {
			matchCount = matches[0].MatchCount
		}

		valorPago := ToNumberBRL(titulo.Campos[cfg.ColunaValorNominal])

		if matchCount <= 1 {
			if vistos[titulo.RowID] {
				continue
			}
			vistos[titulo.RowID] = true
			res.semRateio = append(res.semRateio, domain.LinhaConciliada{
				RowID:          titulo.RowID,
				Codigo:         titulo.Codigo,
				Loja:           titulo.Loja,
				NomeFornecedor: titulo.NomeFornecedor,
				Documento:      titulo.Documento,
				Parcela:        titulo.Parcela,
				Campos:         titulo.Campos,
				VlrRateado:     valorPago,
			})
			continue
		}

		res.comRateio = append(res.comRateio, ratearTitulo(titulo, matches, agrupamento, cfg, valorPago)...)
	}

	return res
}

// ratearTitulo reagrupa as linhas multiplicadas do join e distribui o
// valor pago proporcionalmente à participação de cada grupo no total do
// documento na base.
func ratearTitulo(titulo domain.TituloFonte, matches []*domain.Compra, agrupamento []string, cfg config.ConciliacaoConfig, valorPago float64) []domain.LinhaConciliada {
	type grupo struct {
		soma float64
		ref  *domain.Compra
	}
	grupos := make(map[string]*grupo)
	var ordem []string

	for _, c := range matches {
		var sb strings.Builder
		for _, col := range agrupamento {
			sb.WriteString(c.Campos[col])
			sb.WriteByte('\x00')
		}
		k := sb.String()
		g := grupos[k]
		if g == nil {
			g = &grupo{ref: c}
			grupos[k] = g
			ordem = append(ordem, k)
		}
		g.soma += c.VlrTotal
	}

	somaDoc := matches[0].SomaDoc

	linhas := make([]domain.LinhaConciliada, 0, len(ordem))
	for _, k := range ordem {
		g := grupos[k]

		proporcao := 0.0
		if somaDoc != 0 {
			proporcao = g.soma / somaDoc
		}

		campos := make(map[string]string, len(titulo.Campos)+1)
		for col, v := range titulo.Campos {
			campos[col] = v
		}
		// os campos de custo da base sobrescrevem os do título: o rateio
		// existe justamente para abrir o título por centro de custo/conta
		for _, col := range agrupamento {
			if destino, ok := cfg.MapaColunasRateio[col]; ok {
				campos[destino] = g.ref.Campos[col]
			}
		}

		linhas = append(linhas, domain.LinhaConciliada{
			RowID:          titulo.RowID,
			Codigo:         titulo.Codigo,
			Loja:           titulo.Loja,
			NomeFornecedor: titulo.NomeFornecedor,
			Documento:      titulo.Documento,
			Parcela:        titulo.Parcela,
			Campos:         campos,
			VlrRateado:     proporcao * valorPago,
			ValorOriginal:  g.soma,
			ComRateio:      true,
		})
	}
	return linhas
}

// colunasAgrupamento valida a chave de rateio configurada contra o esquema
// real da base: componentes ausentes são omitidos, não derrubam a
// execução.
func colunasAgrupamento(compras []domain.Compra, configuradas []string) []string {
	if len(compras) == 0 {
		return nil
	}
	esquema := compras[0].Campos
	existentes := make([]string, 0, len(configuradas))
	for _, col := range configuradas {
		if _, ok := esquema[col]; ok {
			existentes = append(existentes, col)
		}
	}
	return existentes
}
