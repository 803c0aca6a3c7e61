package conciliacao

import (
	"strconv"
	"strings"
	"time"

	"conciliador-service/internal/config"
	"conciliador-service/internal/domain"

	"github.com/xuri/excelize/v2"
)

// Formato contábil aplicado às colunas monetárias do workbook.
const formatoContabil = `_-* #,##0.00_-;-* #,##0.00_-;_-* "-"??_-;_-@_-`

const nomeAba = "Conciliacao"

var layoutsData = []string{
	"02/01/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// formatarDataBR converte valores de data reconhecíveis para DD/MM/YYYY.
// Falha de parse devolve o valor original intacto em vez de derrubar a
// execução.
func formatarDataBR(valor string) string {
	s := strings.TrimSpace(valor)
	if s == "" {
		return ""
	}
	for _, layout := range layoutsData {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	// serial Excel dentro de um intervalo plausível (~1995 a ~2028)
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 35000 && f < 47000 {
		return excelSerialToDate(f).Format("02/01/2006")
	}
	return valor
}

func excelSerialToDate(serial float64) time.Time {
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	frac := serial - float64(int64(serial))
	duration := time.Duration(int64(serial)*24) * time.Hour
	duration += time.Duration(frac * 24 * float64(time.Hour))
	return base.Add(duration)
}

// montarRelatorio ordena as colunas do relatório final: chaves decompostas
// na frente, colunas originais do XML (sem os campos compostos crus) no
// meio, colunas calculadas e extras da base no fim. Datas configuradas já
// saem formatadas.
func montarRelatorio(linhas []domain.LinhaConciliada, colunasFonte []string, extras []string, cfg config.ConciliacaoConfig) *domain.Table {
	prefixo := []string{"Código", "Loja", "Nome do Fornecedor", "Documento", "Parcela"}

	compostas := map[string]bool{
		cfg.ColunaFornecedor: true,
		cfg.ColunaParcela:    true,
	}
	originais := make([]string, 0, len(colunasFonte))
	for _, c := range colunasFonte {
		if !compostas[c] {
			originais = append(originais, c)
		}
	}

	datas := make(map[string]bool, len(cfg.ColunasData))
	for _, c := range cfg.ColunasData {
		datas[c] = true
	}

	colunas := make([]string, 0, len(prefixo)+len(originais)+2+len(extras))
	colunas = append(colunas, prefixo...)
	colunas = append(colunas, originais...)
	colunas = append(colunas, "Vlr Rateado", "Valor Original")
	colunas = append(colunas, extras...)

	tabela := domain.NewTable(colunas)
	for _, l := range linhas {
		linha := make([]string, 0, len(colunas))
		linha = append(linha, l.Codigo, l.Loja, l.NomeFornecedor, l.Documento, l.Parcela)
		for _, c := range originais {
			v := l.Campos[c]
			if datas[c] {
				v = formatarDataBR(v)
			}
			linha = append(linha, v)
		}
		linha = append(linha, strconv.FormatFloat(l.VlrRateado, 'f', -1, 64))
		if l.ComRateio {
			linha = append(linha, strconv.FormatFloat(l.ValorOriginal, 'f', -1, 64))
		} else {
			linha = append(linha, "")
		}
		for _, c := range extras {
			linha = append(linha, l.Campos[c])
		}
		tabela.Rows = append(tabela.Rows, linha)
	}
	return tabela
}

// gerarXLSX emite o workbook do relatório. A aplicação do formato contábil
// é melhor-esforço: célula não numérica fica como texto, sem estilo, e a
// exportação nunca falha por causa de formatação.
func gerarXLSX(t *domain.Table, colunasContabeis []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", nomeAba); err != nil {
		return nil, err
	}

	contabeis := make(map[int]bool)
	for i, c := range t.Columns {
		for _, alvo := range colunasContabeis {
			if c == alvo {
				contabeis[i] = true
			}
		}
	}

	numFmt := formatoContabil
	estilo, errEstilo := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})

	for i, c := range t.Columns {
		celula, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(nomeAba, celula, c); err != nil {
			return nil, err
		}
	}

	for r, linha := range t.Rows {
		for i := range t.Columns {
			v := ""
			if i < len(linha) {
				v = linha[i]
			}
			celula, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, err
			}
			if contabeis[i] && v != "" {
				if num, errNum := strconv.ParseFloat(v, 64); errNum == nil {
					if err := f.SetCellValue(nomeAba, celula, num); err != nil {
						return nil, err
					}
					if errEstilo == nil {
						// formatação é cosmética; falha aqui não derruba o export
						_ = f.SetCellStyle(nomeAba, celula, celula, estilo)
					}
					continue
				}
			}
			if err := f.SetCellValue(nomeAba, celula, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
