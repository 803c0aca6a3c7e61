package conciliacao

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"conciliador-service/internal/domain"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Estruturas mínimas do dialeto SpreadsheetML legado. Os atributos ficam
// em ",any,attr" porque o export do ERP ora qualifica (ss:Name, ss:Index),
// ora não; o casamento é feito pelo nome local.
type xmlWorkbook struct {
	Worksheets []xmlWorksheet `xml:"Worksheet"`
}

type xmlWorksheet struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Table *xmlTable  `xml:"Table"`
}

type xmlTable struct {
	Rows []xmlRow `xml:"Row"`
}

type xmlRow struct {
	Cells []xmlCell `xml:"Cell"`
}

type xmlCell struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Data  string     `xml:"Data"`
}

func atributoLocal(attrs []xml.Attr, nome string) string {
	for _, a := range attrs {
		if a.Name.Local == nome {
			return a.Value
		}
	}
	return ""
}

// LerSpreadsheetML lê uma aba de um XML SpreadsheetML legado para uma
// tabela de texto. Tenta primeiro um parse tolerante; se falhar, decodifica
// os bytes crus numa lista fixa de encodings, remove caracteres de
// controle e tenta um parse estrito. linhaCabecalho é 0-based; as células
// dessa linha viram os nomes das colunas e as linhas seguintes viram os
// dados. Planilha com menos linhas que o cabeçalho devolve tabela vazia,
// não erro.
func LerSpreadsheetML(r io.Reader, nomePlanilha string, linhaCabecalho int) (*domain.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &domain.ParseError{Etapa: "leitura", Err: err}
	}

	wb, err := parseTolerante(raw)
	if err != nil {
		wb, err = parseComLimpeza(raw)
		if err != nil {
			return nil, err
		}
	}

	return montarTabela(wb, nomePlanilha, linhaCabecalho)
}

// parseTolerante usa o decoder não-estrito, que engole entidades
// desconhecidas e construções malformadas menores, com suporte às
// declarações de charset que o ERP costuma emitir.
func parseTolerante(raw []byte) (*xmlWorkbook, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Strict = false
	dec.CharsetReader = leitorCharset

	var wb xmlWorkbook
	if err := dec.Decode(&wb); err != nil {
		return nil, err
	}
	return &wb, nil
}

// parseComLimpeza é o caminho de recuperação: decodifica os bytes na ordem
// utf-8, utf-8 com BOM, latin-1, cp1252, remove caracteres de controle fora
// de tab/newline/carriage-return e roda o parser estrito.
func parseComLimpeza(raw []byte) (*xmlWorkbook, error) {
	texto := decodificarBytes(raw)
	texto = removerControle(texto)

	dec := xml.NewDecoder(strings.NewReader(texto))
	// os bytes já foram decodificados; a declaração de encoding do
	// documento não vale mais
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }

	var wb xmlWorkbook
	if err := dec.Decode(&wb); err != nil {
		return nil, &domain.ParseError{Etapa: "parser estrito após limpeza", Err: err}
	}
	return &wb, nil
}

func leitorCharset(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return input, nil
	case "iso-8859-1", "latin-1", "latin1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("charset não suportado: %s", charset)
}

func decodificarBytes(raw []byte) string {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(raw) {
		return string(raw)
	}
	// latin-1 aceita qualquer byte, então sempre resolve; cp1252 fica de
	// reserva caso a tabela mude
	for _, cm := range []*charmap.Charmap{charmap.ISO8859_1, charmap.Windows1252} {
		if s, err := cm.NewDecoder().Bytes(raw); err == nil {
			return string(s)
		}
	}
	return string(raw)
}

func removerControle(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func montarTabela(wb *xmlWorkbook, nomePlanilha string, linhaCabecalho int) (*domain.Table, error) {
	var alvo *xmlWorksheet
	for i := range wb.Worksheets {
		if atributoLocal(wb.Worksheets[i].Attrs, "Name") == nomePlanilha {
			alvo = &wb.Worksheets[i]
			break
		}
	}
	if alvo == nil {
		return nil, &domain.ParseError{
			Etapa: "planilha",
			Err:   fmt.Errorf("planilha %q não encontrada no arquivo XML", nomePlanilha),
		}
	}
	if alvo.Table == nil {
		return nil, &domain.ParseError{
			Etapa: "tabela",
			Err:   errors.New("tag <Table> não encontrada dentro da Worksheet"),
		}
	}

	linhas := make([][]string, 0, len(alvo.Table.Rows))
	for _, row := range alvo.Table.Rows {
		celulas := []string{}
		col := 0
		for _, c := range row.Cells {
			// ss:Index é 1-based e implica colunas puladas; preenche os
			// buracos para preservar o alinhamento
			if idxAttr := atributoLocal(c.Attrs, "Index"); idxAttr != "" {
				if idx, err := strconv.Atoi(strings.TrimSpace(idxAttr)); err == nil {
					for col < idx-1 {
						celulas = append(celulas, "")
						col++
					}
				}
			}
			celulas = append(celulas, c.Data)
			col++
		}
		linhas = append(linhas, celulas)
	}

	if len(linhas) <= linhaCabecalho {
		return &domain.Table{}, nil
	}

	maxCols := 0
	for _, l := range linhas {
		if len(l) > maxCols {
			maxCols = len(l)
		}
	}
	for i := range linhas {
		for len(linhas[i]) < maxCols {
			linhas[i] = append(linhas[i], "")
		}
	}

	cabecalho := linhas[linhaCabecalho]
	colunas := make([]string, len(cabecalho))
	for i, h := range cabecalho {
		colunas[i] = strings.TrimSpace(strings.ReplaceAll(h, "\n", " "))
	}

	return &domain.Table{Columns: colunas, Rows: linhas[linhaCabecalho+1:]}, nil
}
