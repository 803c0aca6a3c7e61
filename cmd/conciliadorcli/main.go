// cmd/conciliadorcli/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"conciliador-service/internal/config"
	"conciliador-service/internal/core/compras"
	"conciliador-service/internal/core/conciliacao"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig  string
	flagBase    string
	flagTitulos string
	flagSaida   string
)

var rootCmd = &cobra.Command{
	Use:   "conciliadorcli",
	Short: "Conciliação de títulos a pagar em modo batch",
	Long: `Roda o mesmo pipeline do serviço HTTP direto sobre arquivos locais:
base de compras (csv, xls ou xlsx), XML de títulos e relatório xlsx de saída.`,
	SilenceUsage: true,
}

var executarCmd = &cobra.Command{
	Use:   "executar",
	Short: "Concilia um XML de títulos contra uma base de compras",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("configuração inválida: %w", err)
		}

		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer logger.Sync()

		baseFile, err := os.Open(flagBase)
		if err != nil {
			return fmt.Errorf("erro ao abrir a base de compras: %w", err)
		}
		defer baseFile.Close()

		base, err := compras.CarregarBase(baseFile, filepath.Base(flagBase), cfg.Conciliacao.Base.Planilha)
		if err != nil {
			return fmt.Errorf("erro ao ler a base de compras: %w", err)
		}

		titulosFile, err := os.Open(flagTitulos)
		if err != nil {
			return fmt.Errorf("erro ao abrir o XML de títulos: %w", err)
		}
		defer titulosFile.Close()

		svc := conciliacao.NewService(cfg.Conciliacao, logger)
		resultado, err := svc.RunConciliacao(titulosFile, base)
		if err != nil {
			return err
		}

		if err := os.WriteFile(flagSaida, resultado.Relatorio, 0o644); err != nil {
			return fmt.Errorf("erro ao gravar o relatório: %w", err)
		}

		fmt.Printf("Relatório gravado em %s (%d linhas, %d sem rateio, %d grupos de rateio)\n",
			flagSaida, resultado.LinhasRelatorio, resultado.SemRateio, resultado.GruposRateio)
		return nil
	},
}

func init() {
	executarCmd.Flags().StringVar(&flagConfig, "config", "", "arquivo YAML de configuração (opcional)")
	executarCmd.Flags().StringVar(&flagBase, "base", "", "arquivo da base de compras (.csv, .xls, .xlsx)")
	executarCmd.Flags().StringVar(&flagTitulos, "titulos", "", "arquivo XML de títulos a pagar")
	executarCmd.Flags().StringVar(&flagSaida, "saida", "Conciliacao.xlsx", "caminho do relatório xlsx de saída")
	executarCmd.MarkFlagRequired("base")
	executarCmd.MarkFlagRequired("titulos")

	rootCmd.AddCommand(executarCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
