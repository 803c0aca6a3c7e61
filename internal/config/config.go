// Package config carrega a configuração do serviço. A configuração é um
// valor explícito passado aos construtores; não existe estado mutável de
// pacote, então o motor pode rodar com configurações diferentes no mesmo
// processo.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config é a configuração completa do serviço.
type Config struct {
	Port        string `yaml:"port"`
	DatabaseDSN string `yaml:"database_dsn"`

	Conciliacao ConciliacaoConfig `yaml:"conciliacao"`
}

// ConciliacaoConfig descreve o formato do XML de títulos e as regras do
// merge de rateio.
type ConciliacaoConfig struct {
	Planilha       string `yaml:"planilha"`
	LinhaCabecalho int    `yaml:"linha_cabecalho"`

	ColunaFornecedor   string `yaml:"coluna_fornecedor"`
	ColunaParcela      string `yaml:"coluna_parcela"`
	ColunaValorNominal string `yaml:"coluna_valor_nominal"`

	ColunasTexto []string `yaml:"colunas_texto"`
	ColunasData  []string `yaml:"colunas_data"`

	// AgrupamentoRateio é a chave de agrupamento dos títulos com rateio,
	// em colunas da base de compras. Componentes ausentes do esquema real
	// são omitidos em tempo de execução, nunca causam falha.
	AgrupamentoRateio []string `yaml:"agrupamento_rateio"`

	// MapaColunasRateio mapeia coluna da base -> coluna do relatório que
	// ela sobrescreve nas linhas com rateio.
	MapaColunasRateio map[string]string `yaml:"mapa_colunas_rateio"`

	// ColunasContabeis recebem o formato contábil no workbook de saída.
	ColunasContabeis []string `yaml:"colunas_contabeis"`

	Base BaseComprasConfig `yaml:"base_compras"`
}

// BaseComprasConfig descreve a base de compras de referência.
type BaseComprasConfig struct {
	Planilha         string   `yaml:"planilha"`
	ColunaFornecedor string   `yaml:"coluna_fornecedor"`
	ColunaDocumento  string   `yaml:"coluna_documento"`
	ColunaValor      string   `yaml:"coluna_valor"`
	ColunasTexto     []string `yaml:"colunas_texto"`
}

// Default retorna a configuração padrão, equivalente ao layout TOTVS dos
// arquivos "2-Titulos a pagar".
func Default() Config {
	return Config{
		Port: "8084",
		Conciliacao: ConciliacaoConfig{
			Planilha:           "2-Titulos a pagar",
			LinhaCabecalho:     1,
			ColunaFornecedor:   "Codigo-Nome do Fornecedor",
			ColunaParcela:      "Prf-Numero Parcela",
			ColunaValorNominal: "Titulos a vencer Valor nominal",
			ColunasTexto:       []string{"Loja", "Centro Custo", "Cta.Contabil", "Negocio?"},
			ColunasData:        []string{"Data de Emissao", "Data de Vencto", "Vencto Real"},
			AgrupamentoRateio:  []string{"Item Conta", "Centro Custo", "C Contabil", "Loja", "Filial"},
			MapaColunasRateio: map[string]string{
				"Centro Custo": "Centro Custo",
				"C Contabil":   "Cta.Contabil",
				"Item Conta":   "Negocio?",
				"Loja":         "Loja",
				"Filial":       "Filial",
			},
			ColunasContabeis: []string{
				"Valor Original",
				"Tit Vencidos Valor nominal",
				"Tit Vencidos Valor corrigido",
				"Titulos a vencer Valor nominal",
				"Vlr Rateado",
			},
			Base: BaseComprasConfig{
				Planilha:         "Dados",
				ColunaFornecedor: "Forn_Cliente",
				ColunaDocumento:  "Documento",
				ColunaValor:      "Vlr.Total",
				ColunasTexto:     []string{"Centro Custo", "C Contabil", "Item Conta", "Loja", "Filial"},
			},
		},
	}
}

// Load monta a configuração: defaults, depois o arquivo YAML (se houver),
// depois as variáveis de ambiente PORT e DATABASE_DSN.
func Load(caminho string) (Config, error) {
	cfg := Default()

	if caminho != "" {
		dados, err := os.ReadFile(caminho)
		if err != nil {
			return cfg, fmt.Errorf("erro ao ler arquivo de configuração %q: %w", caminho, err)
		}
		if err := yaml.Unmarshal(dados, &cfg); err != nil {
			return cfg, fmt.Errorf("erro ao interpretar configuração %q: %w", caminho, err)
		}
	}

	if porta := os.Getenv("PORT"); porta != "" {
		cfg.Port = porta
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.DatabaseDSN = dsn
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejeita configurações sem as chaves mínimas do merge.
func (c *Config) Validate() error {
	cc := c.Conciliacao
	if cc.Planilha == "" {
		return fmt.Errorf("configuração inválida: nome da planilha de títulos vazio")
	}
	if cc.LinhaCabecalho < 0 {
		return fmt.Errorf("configuração inválida: linha do cabeçalho negativa (%d)", cc.LinhaCabecalho)
	}
	if cc.ColunaFornecedor == "" || cc.ColunaParcela == "" || cc.ColunaValorNominal == "" {
		return fmt.Errorf("configuração inválida: colunas-chave do XML de títulos não podem ser vazias")
	}
	if cc.Base.ColunaFornecedor == "" || cc.Base.ColunaDocumento == "" {
		return fmt.Errorf("configuração inválida: colunas-chave da base de compras não podem ser vazias")
	}
	if cc.Base.ColunaValor == "" {
		return fmt.Errorf("configuração inválida: coluna de valor da base de compras vazia")
	}
	return nil
}
