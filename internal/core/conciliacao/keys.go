package conciliacao

import (
	"regexp"
	"strings"
)

// Extração "001 - 123456 - X": primeiro grupo é a parcela, segundo é o
// número do documento. Tolerante a espaços ao redor dos hífens.
var prfParcelaRegex = regexp.MustCompile(`(\w+)\s*-\s*(\d+)\s*-`)

// TratarFornecedor quebra "000256-01-HELIBRAS" em (código, loja, nome).
// Total: nunca falha. Quando o valor não tem as três partes, código e loja
// ficam vazios e o texto inteiro vira o nome. Um código vazio em três
// partes ("-01-MUNICIPIO") preserva loja e nome.
func TratarFornecedor(valor string) (codigo, loja, nome string) {
	partes := strings.SplitN(valor, "-", 3)
	if len(partes) == 3 {
		return strings.TrimSpace(partes[0]), strings.TrimSpace(partes[1]), strings.TrimSpace(partes[2])
	}
	return "", "", strings.TrimSpace(valor)
}

// TratarPrfParcela extrai (parcela, documento) da coluna "Prf-Numero
// Parcela". Sem casamento, ambos ficam vazios e a linha fica sem chave de
// junção utilizável.
func TratarPrfParcela(valor string) (parcela, documento string) {
	m := prfParcelaRegex.FindStringSubmatch(strings.TrimSpace(valor))
	if m == nil {
		return "", ""
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}
