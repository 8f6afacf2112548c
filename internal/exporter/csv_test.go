package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slapulse/pkg/contracts/domain"
)

func sampleRecords() []domain.PackageRecord {
	return []domain.PackageRecord{
		{
			Pedido: "1001", DataPedido: "2024-01-05", Vendedor: "Loja Meli", Zona: "Norte",
			CEP: "01310100", Cidade: "São Paulo", Bairro: "Bela Vista", StatusDoDia: "Entregue",
			StatusDiaGestora: "entregue", PrevisaoEntrega: "2024-01-08", Entrega: "2024-01-10",
			Prazo: 3, Atraso: domain.IntPtr(2), SLA: domain.SLAOutsideDeadline, Cliente: "Cliente X",
			NomeComprador: `Ana "Aninha" Souza`, Conta: "C-1", CentroDeCusto: "CC-01", Frete: "Expresso",
			Responsabilidade: "Transportadora",
		},
		{Pedido: "1002", Zona: "Sul, Zona 2", SLA: domain.SLANotDelivered},
	}
}

func TestWriteConsolidatedCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConsolidatedCSV(&buf, sampleRecords()))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, utf8BOM))
	body := string(out[len(utf8BOM):])

	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], `"Pedido","Data Pedido","Vendedor"`))
	assert.True(t, strings.HasSuffix(lines[0], `"Frete","Responsabilidade"`))
	assert.Contains(t, lines[1], `"Ana ""Aninha"" Souza"`)
	assert.Contains(t, lines[1], `"3","2","fora_prazo"`)
	assert.Contains(t, lines[2], `"Sul, Zona 2"`)
	assert.Contains(t, lines[2], `"0","","nao_entregue"`, "undefined delay is blank")
	assert.NotContains(t, body, "\r")
}

func TestWriteConsolidatedCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConsolidatedCSV(&buf, sampleRecords()))

	r := csv.NewReader(bytes.NewReader(buf.Bytes()[len(utf8BOM):]))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, ConsolidatedHeaders, rows[0])
	for _, row := range rows {
		assert.Len(t, row, 20)
	}
	assert.Equal(t, "São Paulo", rows[1][5])
	assert.Equal(t, `Ana "Aninha" Souza`, rows[1][15])
	assert.Equal(t, "Sul, Zona 2", rows[2][3])
}

func TestWriteConsolidatedCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConsolidatedCSV(&buf, nil))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteConsolidatedCSVWriteError(t *testing.T) {
	err := WriteConsolidatedCSV(failingWriter{}, sampleRecords())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestWriteConsolidatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "base.csv")
	require.NoError(t, WriteConsolidatedFile(path, sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, utf8BOM))
	assert.Equal(t, 3, bytes.Count(data, []byte("\n")))
}

func TestExportFilename(t *testing.T) {
	day := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "base-consolidada-2024-03-09.csv", ExportFilename(day))
}
