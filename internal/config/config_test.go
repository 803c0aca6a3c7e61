package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultEhValida(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("configuração padrão inválida: %v", err)
	}
	if cfg.Conciliacao.Planilha != "2-Titulos a pagar" {
		t.Errorf("planilha padrão = %q", cfg.Conciliacao.Planilha)
	}
	if cfg.Conciliacao.LinhaCabecalho != 1 {
		t.Errorf("linha do cabeçalho padrão = %d", cfg.Conciliacao.LinhaCabecalho)
	}
}

func TestLoadSobrepoeDefaults(t *testing.T) {
	caminho := filepath.Join(t.TempDir(), "config.yaml")
	conteudo := []byte(`
port: "9000"
conciliacao:
  planilha: "Outra Aba"
`)
	if err := os.WriteFile(caminho, conteudo, 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PORT", "")
	t.Setenv("DATABASE_DSN", "")

	cfg, err := Load(caminho)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("porta = %q, esperado 9000", cfg.Port)
	}
	if cfg.Conciliacao.Planilha != "Outra Aba" {
		t.Errorf("planilha = %q, esperado Outra Aba", cfg.Conciliacao.Planilha)
	}
	// o que o YAML não menciona continua com o default
	if cfg.Conciliacao.ColunaParcela != "Prf-Numero Parcela" {
		t.Errorf("coluna da parcela perdeu o default: %q", cfg.Conciliacao.ColunaParcela)
	}
}

func TestLoadVariaveisDeAmbiente(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("DATABASE_DSN", "user:pass@tcp(localhost:3306)/conciliador")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if cfg.Port != "9001" {
		t.Errorf("porta = %q, esperado 9001", cfg.Port)
	}
	if cfg.DatabaseDSN == "" {
		t.Error("DATABASE_DSN não aplicado")
	}
}

func TestLoadConfiguracaoInvalida(t *testing.T) {
	caminho := filepath.Join(t.TempDir(), "config.yaml")
	conteudo := []byte(`
conciliacao:
  planilha: ""
`)
	if err := os.WriteFile(caminho, conteudo, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(caminho); err == nil {
		t.Fatal("esperado erro para planilha vazia")
	}
}

func TestLoadArquivoInexistente(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nao-existe.yaml")); err == nil {
		t.Fatal("esperado erro para arquivo inexistente")
	}
}
