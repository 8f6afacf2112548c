// Package testutil builds spreadsheet fixtures for tests that exercise the
// processing pipeline end to end.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"slapulse/internal/dataprocessing"
	"slapulse/pkg/contracts/domain"
)

// SampleRecords is the number of records merged from the sample workbooks.
const SampleRecords = 3

// WriteWorkbook saves rows to the first sheet of a new workbook under dir.
func WriteWorkbook(t testing.TB, dir, name string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// Header returns the required header row of fileType.
func Header(fileType domain.FileType) []interface{} {
	cols := dataprocessing.RequiredColumns(fileType)
	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	return header
}

// GestoraRow lays values, keyed by header name, out in column order.
func GestoraRow(values map[string]interface{}) []interface{} {
	cols := dataprocessing.RequiredColumns(domain.FileTypeGestora)
	row := make([]interface{}, len(cols))
	for i, c := range cols {
		if v, ok := values[c]; ok {
			row[i] = v
		} else {
			row[i] = ""
		}
	}
	return row
}

// LogmanagerWorkbook writes three orders: 1001 and 1003 in zone Norte, 1002 in Sul.
func LogmanagerWorkbook(t testing.TB, dir string) string {
	return WriteWorkbook(t, dir, "logmanager.xlsx", [][]interface{}{
		Header(domain.FileTypeLogmanager),
		{"05/01/2024", "1001", "Entregue", "Sim", "Cliente X", "C-1", "Norte", "Transportadora"},
		{"06/01/2024", "1002", "Entregue", "Sim", "Cliente Y", "C-2", "Sul", "Loja"},
		{"06/01/2024", "1003", "Em rota", "Não", "Cliente Z", "C-1", "Norte", "Transportadora"},
	})
}

// GestoraWorkbook writes packages for orders 1001 (two days late) and 1002
// (on time). Order 1003 has no package.
func GestoraWorkbook(t testing.TB, dir string) string {
	return WriteWorkbook(t, dir, "gestora.xlsx", [][]interface{}{
		Header(domain.FileTypeGestora),
		GestoraRow(map[string]interface{}{
			"pedido_marketplace":  "1001",
			"Vendedor":            "loja meli centro",
			"CEP":                 "01310-100",
			"status_dia":          "ENTREGUE",
			"PREVISÃO DE ENTREGA": "2024-01-08",
			"ENTREGA":             "2024-01-10",
			"Prazo":               "3",
		}),
		GestoraRow(map[string]interface{}{
			"pedido_marketplace":  "1002",
			"Vendedor":            "Meli Sul",
			"CEP":                 "20000-000",
			"status_dia":          "entregue",
			"PREVISÃO DE ENTREGA": "2024-01-08",
			"ENTREGA":             "2024-01-07",
			"Prazo":               "2",
		}),
	})
}

// InvalidWorkbook writes a sheet whose header matches neither spreadsheet type.
func InvalidWorkbook(t testing.TB, dir, name string) string {
	return WriteWorkbook(t, dir, name, [][]interface{}{
		{"Coluna A", "Coluna B"},
		{"1", "2"},
	})
}
