package exporter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"slapulse/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ConsolidatedHeaders are the export columns, in order
var ConsolidatedHeaders = []string{
	"Pedido",
	"Data Pedido",
	"Vendedor",
	"Zona",
	"CEP",
	"Cidade",
	"Bairro",
	"Status Logmanager",
	"Status Gestora",
	"Previsão Entrega",
	"Entrega",
	"Prazo",
	"Atraso",
	"SLA",
	"Cliente",
	"Comprador",
	"Conta",
	"Centro de Custo",
	"Frete",
	"Responsabilidade",
}

// ContentType is the media type of the export
const ContentType = "text/csv; charset=utf-8"

// ExportFilename names the download for the given day.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("base-consolidada-%s.csv", now.Format(time.DateOnly))
}

func consolidatedRow(r *domain.PackageRecord) []string {
	atraso := ""
	if r.Atraso != nil {
		atraso = strconv.Itoa(*r.Atraso)
	}
	return []string{
		r.Pedido,
		r.DataPedido,
		r.Vendedor,
		r.Zona,
		r.CEP,
		r.Cidade,
		r.Bairro,
		r.StatusDoDia,
		r.StatusDiaGestora,
		r.PrevisaoEntrega,
		r.Entrega,
		strconv.Itoa(r.Prazo),
		atraso,
		string(r.SLA),
		r.Cliente,
		r.NomeComprador,
		r.Conta,
		r.CentroDeCusto,
		r.Frete,
		r.Responsabilidade,
	}
}

// WriteConsolidatedCSV writes the header line and one line per record to w.
// encoding/csv only quotes cells that need it, so quoting is done here.
func WriteConsolidatedCSV(w io.Writer, records []domain.PackageRecord) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	if err := writeLine(bw, ConsolidatedHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i := range records {
		if err := writeLine(bw, consolidatedRow(&records[i])); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return bw.Flush()
}

func writeLine(w *bufio.Writer, cells []string) error {
	for i, c := range cells {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(c)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteConsolidatedFile writes the export to path, creating parent directories.
func WriteConsolidatedFile(path string, records []domain.PackageRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	if err := WriteConsolidatedCSV(file, records); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
