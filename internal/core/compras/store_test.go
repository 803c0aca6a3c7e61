package compras

import (
	"context"
	"errors"
	"testing"

	"conciliador-service/internal/domain"
)

func TestMemStoreVazio(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	if _, err := store.Carregar(ctx); !errors.Is(err, ErrBaseVazia) {
		t.Fatalf("esperado ErrBaseVazia, veio %v", err)
	}
	total, err := store.Total(ctx)
	if err != nil || total != 0 {
		t.Fatalf("Total = %d (%v), esperado 0", total, err)
	}
}

func TestMemStoreSubstituir(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	primeira := domain.NewTable([]string{"Documento"})
	primeira.Rows = [][]string{{"789"}}
	if err := store.Substituir(ctx, primeira); err != nil {
		t.Fatal(err)
	}

	segunda := domain.NewTable([]string{"Documento"})
	segunda.Rows = [][]string{{"111"}, {"222"}}
	if err := store.Substituir(ctx, segunda); err != nil {
		t.Fatal(err)
	}

	total, err := store.Total(ctx)
	if err != nil || total != 2 {
		t.Fatalf("Total = %d (%v), esperado 2 após substituição", total, err)
	}

	base, err := store.Carregar(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if base.Celula(0, "Documento") != "111" {
		t.Errorf("base vigente errada: %v", base.Rows)
	}
}

// O snapshot devolvido não compartilha memória com o que está guardado.
func TestMemStoreSnapshotIsolado(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	tabela := domain.NewTable([]string{"Documento"})
	tabela.Rows = [][]string{{"789"}}
	if err := store.Substituir(ctx, tabela); err != nil {
		t.Fatal(err)
	}

	// mutações de quem enviou e de quem carregou não vazam para o store
	tabela.Rows[0][0] = "alterado-pelo-produtor"

	carregada, err := store.Carregar(ctx)
	if err != nil {
		t.Fatal(err)
	}
	carregada.Rows[0][0] = "alterado-pelo-consumidor"

	denovo, err := store.Carregar(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := denovo.Celula(0, "Documento"); got != "789" {
		t.Errorf("snapshot compartilhou memória: %q", got)
	}
}
