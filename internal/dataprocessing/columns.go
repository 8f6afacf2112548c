package dataprocessing

import (
	"fmt"
	"sort"
	"strings"

	"slapulse/pkg/contracts/domain"
)

// Logmanager columns
const (
	colDataPedido       = "Data Pedido"
	colPedido           = "Pedido"
	colStatusDoDia      = "Status do Dia"
	colBeepDoDia        = "Beep do Dia"
	colCliente          = "Cliente"
	colConta            = "Conta"
	colZona             = "Zona"
	colResponsabilidade = "Responsabilidade"
)

// Gestora columns
const (
	colBipagem            = "Bipagem"
	colCriacao            = "criacao"
	colDeveriaSerEntregue = "deveria_ser_entregue"
	colPacote             = "pacote"
	colEtiqueta           = "etiqueta"
	colPedidoMarketplace  = "pedido_marketplace"
	colFrete              = "Frete"
	colVendedor           = "Vendedor"
	colCentroDeCusto      = "Centro de custo"
	colStatusDia          = "status_dia"
	colNomeComprador      = "Nome Comprador"
	colCEP                = "CEP"
	colLogradouro         = "Logradouro"
	colNumero             = "Número"
	colBairro             = "Bairro"
	colCidade             = "Cidade"
	colComplemento        = "Complemento"
	colDataStatusDia      = "data_status_dia"
	colPrevisaoEntrega    = "PREVISÃO DE ENTREGA"
	colEntrega            = "ENTREGA"
	colSLA                = "SLA"
	colPrazo              = "Prazo"
	colAtraso             = "Atraso"
)

// headerScanRows is how many leading rows may precede the header row.
const headerScanRows = 10

var requiredColumns = map[domain.FileType][]string{
	domain.FileTypeLogmanager: {
		colDataPedido, colPedido, colStatusDoDia, colBeepDoDia,
		colCliente, colConta, colZona, colResponsabilidade,
	},
	domain.FileTypeGestora: {
		colBipagem, colCriacao, colDeveriaSerEntregue, colPacote, colEtiqueta,
		colPedidoMarketplace, colFrete, colVendedor, colCentroDeCusto, colStatusDia,
		colNomeComprador, colCEP, colLogradouro, colNumero, colBairro, colCidade,
		colComplemento, colDataStatusDia, colPrevisaoEntrega, colEntrega,
		colSLA, colPrazo, colAtraso,
	},
}

// RequiredColumns returns the header names a spreadsheet of fileType must carry.
func RequiredColumns(fileType domain.FileType) []string {
	return append([]string(nil), requiredColumns[fileType]...)
}

// ColumnError reports required columns missing from a spreadsheet
type ColumnError struct {
	FileType domain.FileType
	Missing  []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s spreadsheet is missing required columns: %s",
		e.FileType, strings.Join(e.Missing, ", "))
}

// headerKey folds a header cell for comparison: trimmed, lowercased, inner
// whitespace collapsed.
func headerKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// columnIndex maps folded header names to their column position. The first
// occurrence of a repeated header wins.
type columnIndex map[string]int

func newColumnIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		k := headerKey(h)
		if k == "" {
			continue
		}
		if _, dup := idx[k]; !dup {
			idx[k] = i
		}
	}
	return idx
}

// cell returns the trimmed value of column name in row, or "" when the row is short.
func (idx columnIndex) cell(row []string, name string) string {
	i, ok := idx[headerKey(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// validate compares the header against the required columns.
func validate(fileType domain.FileType, header []string) domain.ColumnValidation {
	idx := newColumnIndex(header)
	required := requiredColumns[fileType]

	known := make(map[string]bool, len(required))
	var missing []string
	for _, col := range required {
		k := headerKey(col)
		known[k] = true
		if _, ok := idx[k]; !ok {
			missing = append(missing, col)
		}
	}

	var extra []string
	for _, h := range header {
		if k := headerKey(h); k != "" && !known[k] {
			extra = append(extra, strings.TrimSpace(h))
		}
	}
	sort.Strings(extra)

	return domain.ColumnValidation{
		Valid:          len(missing) == 0,
		MissingColumns: missing,
		ExtraColumns:   extra,
	}
}

// findHeader returns the index of the first of the leading rows carrying
// every required column. When none does, it returns the row matching the
// most columns so the caller can report what is missing.
func findHeader(fileType domain.FileType, rows [][]string) (int, bool) {
	best, bestHits := -1, 0
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		idx := newColumnIndex(rows[i])
		hits := 0
		for _, col := range requiredColumns[fileType] {
			if _, ok := idx[headerKey(col)]; ok {
				hits++
			}
		}
		if hits == len(requiredColumns[fileType]) {
			return i, true
		}
		if hits > bestHits {
			best, bestHits = i, hits
		}
	}
	return best, false
}
