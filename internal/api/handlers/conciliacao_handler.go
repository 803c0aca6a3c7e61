package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"conciliador-service/internal/api/responses"
	"conciliador-service/internal/core/compras"
	"conciliador-service/internal/core/conciliacao"
	"conciliador-service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ConciliacaoHandler lida com as requisições da API de conciliação de títulos.
type ConciliacaoHandler struct {
	service      conciliacao.Service
	store        compras.Store
	planilhaBase string
	logger       *zap.Logger
}

// NewConciliacaoHandler cria um novo handler de conciliação.
func NewConciliacaoHandler(service conciliacao.Service, store compras.Store, planilhaBase string, logger *zap.Logger) *ConciliacaoHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConciliacaoHandler{
		service:      service,
		store:        store,
		planilhaBase: planilhaBase,
		logger:       logger,
	}
}

// HandleCarregarBase recebe a planilha da base de compras e substitui a base
// vigente inteira.
func (h *ConciliacaoHandler) HandleCarregarBase(c *gin.Context) {
	baseFileHeader, err := c.FormFile("baseFile")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Arquivo da base de compras (.csv, .xls, .xlsx) não encontrado ou inválido")
		return
	}

	ext := strings.ToLower(filepath.Ext(baseFileHeader.Filename))
	if ext != ".csv" && ext != ".xls" && ext != ".xlsx" {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Extensão de arquivo não suportada para a base de compras: %s", ext))
		return
	}

	baseFile, err := baseFileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo da base de compras")
		return
	}
	defer baseFile.Close()

	tabela, err := compras.CarregarBase(baseFile, baseFileHeader.Filename, h.planilhaBase)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Erro ao ler a base de compras", err.Error())
		return
	}

	if err := h.store.Substituir(c.Request.Context(), tabela); err != nil {
		h.logger.Error("erro ao persistir a base de compras", zap.Error(err))
		responses.Error(c, http.StatusInternalServerError, "Erro ao salvar a base de compras", err.Error())
		return
	}

	responses.Success(c, gin.H{
		"linhas":  len(tabela.Rows),
		"colunas": tabela.Columns,
	}, "Base de compras carregada com sucesso")
}

// HandleConsultarBase informa o tamanho da base vigente.
func (h *ConciliacaoHandler) HandleConsultarBase(c *gin.Context) {
	total, err := h.store.Total(c.Request.Context())
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao consultar a base de compras", err.Error())
		return
	}
	responses.Success(c, gin.H{"linhas": total}, "Base de compras consultada")
}

// HandleExecutarConciliacao recebe o XML de títulos, roda a conciliação
// contra a base vigente e devolve o workbook xlsx do relatório.
func (h *ConciliacaoHandler) HandleExecutarConciliacao(c *gin.Context) {
	titulosFileHeader, err := c.FormFile("titulosFile")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Arquivo XML de títulos não encontrado ou inválido")
		return
	}

	titulosFile, err := titulosFileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo de títulos")
		return
	}
	defer titulosFile.Close()

	base, err := h.store.Carregar(c.Request.Context())
	if err != nil {
		if errors.Is(err, compras.ErrBaseVazia) {
			responses.Error(c, http.StatusBadRequest, "Nenhuma base de compras carregada; envie a base antes de conciliar")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao carregar a base de compras", err.Error())
		return
	}

	runID := uuid.New()
	resultado, err := h.service.RunConciliacao(titulosFile, base)
	if err != nil {
		h.logger.Error("erro ao executar a conciliação",
			zap.String("run_id", runID.String()),
			zap.Error(err))

		var faltando *domain.MissingColumnError
		if errors.As(err, &faltando) {
			responses.Error(c, http.StatusBadRequest, "Coluna obrigatória ausente", faltando.Error())
			return
		}
		var parse *domain.ParseError
		if errors.As(err, &parse) {
			responses.Error(c, http.StatusBadRequest, "Erro ao ler o XML de títulos", parse.Error())
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao processar a conciliação", err.Error())
		return
	}

	h.logger.Info("conciliação atendida",
		zap.String("run_id", runID.String()),
		zap.Int("linhas_relatorio", resultado.LinhasRelatorio))

	fileName := fmt.Sprintf("Conciliacao_%s_%s.xlsx", time.Now().Format("20060102_150405"), runID.String()[:8])
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, contentTypeXLSX, resultado.Relatorio)
}
