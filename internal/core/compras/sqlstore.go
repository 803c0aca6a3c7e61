package compras

import (
	"context"
	"encoding/json"
	"fmt"

	"conciliador-service/internal/domain"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// registroCompra é uma linha da base persistida como documento JSON. O
// esquema das planilhas varia entre clientes, então as colunas não viram
// colunas SQL.
type registroCompra struct {
	ID    uint   `gorm:"primaryKey;autoIncrement"`
	Dados string `gorm:"type:longtext;not null"`
}

func (registroCompra) TableName() string {
	return "rateios_compras"
}

type documentoCompra struct {
	Colunas []string `json:"colunas"`
	Valores []string `json:"valores"`
}

// SQLStore persiste a base de compras em MySQL, para que o upload feito
// numa instância fique visível para as demais.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore abre a conexão e garante a tabela da base.
func NewSQLStore(dsn string) (*SQLStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar no banco: %w", err)
	}
	if err := db.AutoMigrate(&registroCompra{}); err != nil {
		return nil, fmt.Errorf("erro ao migrar a tabela da base de compras: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Substituir(ctx context.Context, t *domain.Table) error {
	registros := make([]registroCompra, 0, len(t.Rows))
	for _, linha := range t.Rows {
		doc, err := json.Marshal(documentoCompra{Colunas: t.Columns, Valores: linha})
		if err != nil {
			return err
		}
		registros = append(registros, registroCompra{Dados: string(doc)})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&registroCompra{}).Error; err != nil {
			return err
		}
		if len(registros) == 0 {
			return nil
		}
		return tx.CreateInBatches(registros, 500).Error
	})
}

func (s *SQLStore) Carregar(ctx context.Context) (*domain.Table, error) {
	var registros []registroCompra
	if err := s.db.WithContext(ctx).Order("id").Find(&registros).Error; err != nil {
		return nil, err
	}
	if len(registros) == 0 {
		return nil, ErrBaseVazia
	}

	var tabela *domain.Table
	for _, r := range registros {
		var doc documentoCompra
		if err := json.Unmarshal([]byte(r.Dados), &doc); err != nil {
			return nil, fmt.Errorf("registro %d da base corrompido: %w", r.ID, err)
		}
		if tabela == nil {
			tabela = domain.NewTable(doc.Colunas)
		}
		tabela.Rows = append(tabela.Rows, doc.Valores)
	}
	return tabela, nil
}

func (s *SQLStore) Total(ctx context.Context) (int, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&registroCompra{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}
