// cmd/conciliador/main.go
package main

import (
	"log"
	"os"

	"conciliador-service/internal/api/handlers"
	"conciliador-service/internal/api/responses"
	"conciliador-service/internal/config"
	"conciliador-service/internal/core/compras"
	"conciliador-service/internal/core/conciliacao"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONCILIADOR_CONFIG"))
	if err != nil {
		log.Fatal("Configuração inválida: ", err)
	}

	responses.InitLogger()
	logger := responses.Logger()

	var store compras.Store
	if cfg.DatabaseDSN != "" {
		sqlStore, err := compras.NewSQLStore(cfg.DatabaseDSN)
		if err != nil {
			log.Fatal("Falha ao conectar no banco da base de compras: ", err)
		}
		store = sqlStore
	} else {
		store = compras.NewMemStore()
	}

	conciliacaoService := conciliacao.NewService(cfg.Conciliacao, logger)
	conciliacaoHandler := handlers.NewConciliacaoHandler(conciliacaoService, store, cfg.Conciliacao.Base.Planilha, logger)

	router := gin.Default()

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/conciliacao/base-compras", conciliacaoHandler.HandleCarregarBase)
		apiV1.GET("/conciliacao/base-compras", conciliacaoHandler.HandleConsultarBase)
		apiV1.POST("/conciliacao/executar", conciliacaoHandler.HandleExecutarConciliacao)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "conciliador-service"})
	})

	log.Printf("🚀 Conciliador Service (Go) iniciado e escutando na porta %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Falha ao iniciar o servidor de conciliação: ", err)
	}
}
