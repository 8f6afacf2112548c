package dataprocessing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "slapulse/internal/errors"
	"slapulse/pkg/contracts/domain"
)

func testParser() *Parser {
	return NewParser(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

// writeWorkbook saves rows to the first sheet of a new workbook.
func writeWorkbook(t *testing.T, name string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func logmanagerWorkbook(t *testing.T) string {
	return writeWorkbook(t, "logmanager.xlsx", [][]interface{}{
		{"Relatório diário"},
		{"  data pedido ", "Pedido", "Status do Dia", "Beep do Dia", "Cliente", "Conta", "ZONA", "Responsabilidade"},
		{"05/01/2024", 1001, "Em rota", "Sim", "Cliente X", "C-1", "Norte", "Transportadora"},
		{time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), "1002", "Entregue", "Não", "Cliente Y", "C-2", "Sul", "Loja"},
		{},
		{"07/01/2024", "", "Entregue", "", "", "", "Sul", ""},
	})
}

// gestoraRowValues lays values out in the required column order.
func gestoraRowValues(values map[string]interface{}) []interface{} {
	cols := RequiredColumns(domain.FileTypeGestora)
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

func gestoraWorkbook(t *testing.T) string {
	header := make([]interface{}, 0)
	for _, c := range RequiredColumns(domain.FileTypeGestora) {
		header = append(header, c)
	}
	header = append(header, "Observação")

	return writeWorkbook(t, "gestora.xlsx", [][]interface{}{
		header,
		gestoraRowValues(map[string]interface{}{
			colPedidoMarketplace: "1001",
			colVendedor:          "  loja MELI centro ",
			colCEP:               "01310-100",
			colStatusDia:         " ENTREGUE ",
			colPrevisaoEntrega:   "2024-01-08",
			colEntrega:           "10/01/2024",
			colPrazo:             "3",
			colCentroDeCusto:     "CC-01",
			colPacote:            "PK-1",
		}),
		gestoraRowValues(map[string]interface{}{
			colPedidoMarketplace: "1002",
			colVendedor:          "Loja Qualquer",
		}),
		gestoraRowValues(map[string]interface{}{
			colPedidoMarketplace: "AB-12",
			colVendedor:          "Meli Sul",
		}),
	})
}

func TestParseLogmanager(t *testing.T) {
	res, err := testParser().ParseLogmanager(context.Background(), logmanagerWorkbook(t))
	require.NoError(t, err)

	assert.Equal(t, domain.FileTypeLogmanager, res.FileType)
	assert.Equal(t, 1, res.HeaderRow)
	assert.True(t, res.Columns.Valid)
	assert.Empty(t, res.Columns.MissingColumns)
	assert.Equal(t, 3, res.TotalRows, "blank rows are not counted")
	assert.Equal(t, 2, res.ValidRows)
	assert.Equal(t, 1, res.InvalidRows)

	require.Len(t, res.Records, 2)
	first := res.Records[0]
	assert.Equal(t, "1001", first.Pedido)
	assert.Equal(t, "2024-01-05", first.DataPedido)
	assert.Equal(t, "Norte", first.Zona)
	assert.Equal(t, "Transportadora", first.Responsabilidade)
	assert.Equal(t, domain.SourceLogmanager, first.Source)

	assert.Equal(t, "2024-01-06", res.Records[1].DataPedido, "date cells are read as serials")
}

func TestParseGestora(t *testing.T) {
	res, err := testParser().ParseGestora(context.Background(), gestoraWorkbook(t))
	require.NoError(t, err)

	assert.True(t, res.Columns.Valid)
	assert.Equal(t, []string{"Observação"}, res.Columns.ExtraColumns)
	assert.Equal(t, 3, res.TotalRows)
	assert.Equal(t, 1, res.ValidRows)
	assert.Equal(t, 2, res.InvalidRows)

	require.Len(t, res.Records, 1)
	pkg := res.Records[0]
	assert.Equal(t, "1001", pkg.PedidoMarketplace)
	assert.Equal(t, "Loja Meli Centro", pkg.Vendedor)
	assert.Equal(t, "01310100", pkg.CEP)
	assert.Equal(t, "entregue", pkg.StatusDiaGestora)
	assert.Equal(t, "2024-01-08", pkg.PrevisaoEntrega)
	assert.Equal(t, "2024-01-10", pkg.Entrega)
	assert.Equal(t, 3, pkg.Prazo)
	assert.Equal(t, "CC-01", pkg.CentroDeCusto)
	assert.Equal(t, domain.SourceGestora, pkg.Source)
}

func TestValidateColumnsReportsMissing(t *testing.T) {
	path := writeWorkbook(t, "bad.xlsx", [][]interface{}{
		{"Data Pedido", "Pedido", "Status do Dia", "Beep do Dia", "Cliente", "Responsabilidade", "Extra"},
		{"2024-01-01", "1", "", "", "", "", ""},
	})

	p := testParser()
	res, err := p.ValidateColumns(context.Background(), path, domain.FileTypeLogmanager)
	require.NoError(t, err)
	assert.False(t, res.Columns.Valid)
	assert.Equal(t, []string{"Conta", "Zona"}, res.Columns.MissingColumns)
	assert.Equal(t, []string{"Extra"}, res.Columns.ExtraColumns)
	assert.Empty(t, res.Records)
	assert.Equal(t, -1, res.HeaderRow)

	_, err = p.ParseLogmanager(context.Background(), path)
	require.Error(t, err)

	var colErr *ColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, []string{"Conta", "Zona"}, colErr.Missing)
	assert.Contains(t, err.Error(), "missing required columns: Conta, Zona")

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
}

func TestValidateColumnsEmptySheet(t *testing.T) {
	path := writeWorkbook(t, "empty.xlsx", nil)
	res, err := testParser().ValidateColumns(context.Background(), path, domain.FileTypeGestora)
	require.NoError(t, err)
	assert.False(t, res.Columns.Valid)
	assert.Len(t, res.Columns.MissingColumns, len(RequiredColumns(domain.FileTypeGestora)))
}

func TestValidateColumnsErrors(t *testing.T) {
	p := testParser()

	_, err := p.ValidateColumns(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"), domain.FileTypeGestora)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)

	_, err = p.ValidateColumns(context.Background(), "x.xlsx", domain.FileType("other"))
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeValidation, appErr.Type)
}

func TestParseBoth(t *testing.T) {
	p := testParser()
	logPath, gestoraPath := logmanagerWorkbook(t), gestoraWorkbook(t)

	log, gestora, err := p.ParseBoth(context.Background(), logPath, gestoraPath)
	require.NoError(t, err)
	assert.Len(t, log.Records, 2)
	assert.Len(t, gestora.Records, 1)

	merged := Merge(log.Records, gestora.Records, counter())
	require.Len(t, merged, 2)
	assert.Equal(t, domain.SourceMerged, merged[0].Source)
	assert.Equal(t, domain.SLAOutsideDeadline, merged[0].SLA)
	assert.Equal(t, 2, merged[0].Delay())
	assert.Equal(t, domain.SourceLogmanager, merged[1].Source)
	assert.Equal(t, domain.SLANotDelivered, merged[1].SLA)
}

func TestParseBothFailure(t *testing.T) {
	_, _, err := testParser().ParseBoth(context.Background(), logmanagerWorkbook(t), filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read gestora")
}
