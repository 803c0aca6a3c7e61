package conciliacao

import (
	"fmt"
	"io"
	"strings"

	"conciliador-service/internal/config"
	"conciliador-service/internal/domain"

	"go.uber.org/zap"
)

// Service define a interface do serviço de conciliação de títulos.
type Service interface {
	RunConciliacao(titulosXML io.Reader, baseCompras *domain.Table) (*Resultado, error)
}

// Resultado resume uma execução e carrega o workbook final.
type Resultado struct {
	Relatorio []byte

	TitulosLidos       int
	TitulosDescartados int
	SemRateio          int
	GruposRateio       int
	LinhasRelatorio    int
}

type service struct {
	cfg    config.ConciliacaoConfig
	logger *zap.Logger
}

// NewService cria o serviço de conciliação com a configuração informada.
func NewService(cfg config.ConciliacaoConfig, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{cfg: cfg, logger: logger}
}

// RunConciliacao executa o pipeline completo: lê o XML de títulos, decompõe
// as chaves, prepara a base de compras, roda o merge de rateio e monta o
// workbook do relatório. A base chega como snapshot consistente do
// colaborador de armazenamento; aqui ela é somente leitura.
func (svc *service) RunConciliacao(titulosXML io.Reader, baseCompras *domain.Table) (*Resultado, error) {
	tabela, err := LerSpreadsheetML(titulosXML, svc.cfg.Planilha, svc.cfg.LinhaCabecalho)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler o XML de títulos: %w", err)
	}

	titulos, descartados, err := svc.montarTitulos(tabela)
	if err != nil {
		return nil, err
	}

	compras, err := PrepararBase(baseCompras, svc.cfg.Base, svc.logger)
	if err != nil {
		return nil, err
	}

	res := conciliar(titulos, compras, svc.cfg)

	linhas := make([]domain.LinhaConciliada, 0, len(res.semRateio)+len(res.comRateio))
	linhas = append(linhas, res.semRateio...)
	linhas = append(linhas, res.comRateio...)
	if len(linhas) == 0 {
		// junção sem resultado não é erro; o relatório sai vazio
		svc.logger.Info("conciliação não produziu linhas; relatório vazio",
			zap.Int("titulos_lidos", len(tabela.Rows)),
			zap.Int("compras", len(compras)))
	}

	relatorio := montarRelatorio(linhas, tabela.Columns, svc.colunasExtras(tabela, compras), svc.cfg)

	xlsx, err := gerarXLSX(relatorio, svc.cfg.ColunasContabeis)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar o workbook do relatório: %w", err)
	}

	resultado := &Resultado{
		Relatorio:          xlsx,
		TitulosLidos:       len(tabela.Rows),
		TitulosDescartados: descartados,
		SemRateio:          len(res.semRateio),
		GruposRateio:       len(res.comRateio),
		LinhasRelatorio:    len(relatorio.Rows),
	}

	svc.logger.Info("conciliação concluída",
		zap.Int("titulos_lidos", resultado.TitulosLidos),
		zap.Int("titulos_descartados", resultado.TitulosDescartados),
		zap.Int("sem_rateio", resultado.SemRateio),
		zap.Int("grupos_rateio", resultado.GruposRateio),
		zap.Int("linhas_relatorio", resultado.LinhasRelatorio))

	return resultado, nil
}

// montarTitulos decompõe as chaves compostas de cada linha do XML. Linhas
// sem documento ou parcela decomponíveis não têm chave de junção e são
// descartadas; a ausência das próprias colunas compostas é fatal.
func (svc *service) montarTitulos(t *domain.Table) ([]domain.TituloFonte, int, error) {
	for _, obrigatoria := range []string{svc.cfg.ColunaFornecedor, svc.cfg.ColunaParcela, svc.cfg.ColunaValorNominal} {
		if t.ColIndex(obrigatoria) < 0 {
			return nil, 0, &domain.MissingColumnError{Tabela: "títulos", Coluna: obrigatoria}
		}
	}

	var titulos []domain.TituloFonte
	descartados := 0
	for i := range t.Rows {
		codigo, loja, nome := TratarFornecedor(t.Celula(i, svc.cfg.ColunaFornecedor))
		parcela, documento := TratarPrfParcela(t.Celula(i, svc.cfg.ColunaParcela))
		if parcela == "" || documento == "" {
			descartados++
			continue
		}

		campos := make(map[string]string, len(t.Columns))
		for _, col := range t.Columns {
			campos[col] = t.Celula(i, col)
		}
		for _, col := range svc.cfg.ColunasTexto {
			if _, ok := campos[col]; ok {
				campos[col] = strings.TrimSpace(campos[col])
			}
		}

		titulos = append(titulos, domain.TituloFonte{
			RowID:          i,
			Codigo:         domain.NormalizarChave(codigo),
			Loja:           loja,
			NomeFornecedor: nome,
			Parcela:        parcela,
			Documento:      domain.NormalizarChave(documento),
			Campos:         campos,
		})
	}
	return titulos, descartados, nil
}

// colunasExtras detecta colunas da base (via mapa de rateio) que não
// existem no XML e precisam ser acrescentadas ao relatório, como a Filial.
func (svc *service) colunasExtras(fonte *domain.Table, compras []domain.Compra) []string {
	var extras []string
	for _, col := range colunasAgrupamento(compras, svc.cfg.AgrupamentoRateio) {
		destino, ok := svc.cfg.MapaColunasRateio[col]
		if !ok || fonte.ColIndex(destino) >= 0 {
			continue
		}
		duplicada := false
		for _, e := range extras {
			if e == destino {
				duplicada = true
				break
			}
		}
		if !duplicada {
			extras = append(extras, destino)
		}
	}
	return extras
}
