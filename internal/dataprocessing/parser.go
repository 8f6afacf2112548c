package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	apperrors "slapulse/internal/errors"
	"slapulse/internal/infrastructure"
	"slapulse/pkg/contracts/domain"
)

// meliSeller marks the gestora rows that belong to the marketplace operation.
const meliSeller = "meli"

// ParseResult is what was read from one spreadsheet
type ParseResult struct {
	FileType    domain.FileType
	Sheet       string
	HeaderRow   int
	Columns     domain.ColumnValidation
	TotalRows   int
	ValidRows   int
	InvalidRows int
	Records     []domain.PackageRecord
}

// Parser reads logmanager and gestora workbooks
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Parser{logger: logger.With(slog.String("component", "dataprocessing.parser"))}
}

// ValidateColumns reads the workbook at path and reports its header check and
// row counts. Missing columns are reported in the result, not as an error;
// only unreadable workbooks fail.
func (p *Parser) ValidateColumns(ctx context.Context, path string, fileType domain.FileType) (*ParseResult, error) {
	if !fileType.Valid() {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("unknown file type %q", fileType))
	}

	sheet, rows, err := readFirstSheet(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read %s", fileType), err)
	}

	res := &ParseResult{FileType: fileType, Sheet: sheet, HeaderRow: -1}
	headerRow, ok := findHeader(fileType, rows)
	var header []string
	if headerRow >= 0 {
		header = rows[headerRow]
	}
	res.Columns = validate(fileType, header)
	if !ok {
		p.logger.WarnContext(ctx, "Spreadsheet header incomplete",
			slog.String("file_type", string(fileType)),
			slog.Any("missing_columns", res.Columns.MissingColumns))
		return res, nil
	}
	res.HeaderRow = headerRow

	idx := newColumnIndex(header)
	var parseRow func(columnIndex, []string) (domain.PackageRecord, bool)
	switch fileType {
	case domain.FileTypeLogmanager:
		parseRow = logmanagerRow
	default:
		caser := titleCaser()
		parseRow = func(idx columnIndex, row []string) (domain.PackageRecord, bool) {
			return gestoraRow(idx, row, caser)
		}
	}

	res.Records = make([]domain.PackageRecord, 0, len(rows)-headerRow-1)
	for _, row := range rows[headerRow+1:] {
		if blank(row) {
			continue
		}
		res.TotalRows++
		rec, ok := parseRow(idx, row)
		if !ok {
			res.InvalidRows++
			continue
		}
		res.ValidRows++
		res.Records = append(res.Records, rec)
	}

	p.logger.InfoContext(ctx, "Spreadsheet parsed",
		slog.String("file_type", string(fileType)),
		slog.String("sheet", sheet),
		slog.Int("header_row", headerRow),
		slog.Int("total_rows", res.TotalRows),
		slog.Int("valid_rows", res.ValidRows),
		slog.Int("invalid_rows", res.InvalidRows))

	return res, nil
}

// Parse reads the workbook and fails with a *ColumnError when required
// columns are missing.
func (p *Parser) Parse(ctx context.Context, path string, fileType domain.FileType) (*ParseResult, error) {
	res, err := p.ValidateColumns(ctx, path, fileType)
	if err != nil {
		return nil, err
	}
	if !res.Columns.Valid {
		return res, apperrors.NewParsingError(fmt.Sprintf("invalid %s spreadsheet", fileType),
			&ColumnError{FileType: fileType, Missing: res.Columns.MissingColumns})
	}
	return res, nil
}

// ParseLogmanager reads a logmanager workbook.
func (p *Parser) ParseLogmanager(ctx context.Context, path string) (*ParseResult, error) {
	return p.Parse(ctx, path, domain.FileTypeLogmanager)
}

// ParseGestora reads a gestora workbook.
func (p *Parser) ParseGestora(ctx context.Context, path string) (*ParseResult, error) {
	return p.Parse(ctx, path, domain.FileTypeGestora)
}

// ParseBoth reads both workbooks concurrently. The first failure cancels the other.
func (p *Parser) ParseBoth(ctx context.Context, logmanagerPath, gestoraPath string) (logmanager, gestora *ParseResult, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := p.ParseLogmanager(gctx, logmanagerPath)
		logmanager = res
		return err
	})
	g.Go(func() error {
		res, err := p.ParseGestora(gctx, gestoraPath)
		gestora = res
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return logmanager, gestora, nil
}

// readFirstSheet returns the name and raw rows of the first worksheet. Raw
// values keep date cells as Excel serials, which NormalizeDate understands.
func readFirstSheet(path string) (string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return "", nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return sheets[0], rows, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func logmanagerRow(idx columnIndex, row []string) (domain.PackageRecord, bool) {
	pedido := normalizeOrderID(idx.cell(row, colPedido))
	if pedido == "" {
		return domain.PackageRecord{}, false
	}

	return domain.PackageRecord{
		DataPedido:       NormalizeDate(idx.cell(row, colDataPedido)),
		Pedido:           pedido,
		StatusDoDia:      idx.cell(row, colStatusDoDia),
		BeepDoDia:        idx.cell(row, colBeepDoDia),
		Cliente:          idx.cell(row, colCliente),
		Conta:            idx.cell(row, colConta),
		Zona:             idx.cell(row, colZona),
		Responsabilidade: idx.cell(row, colResponsabilidade),
		Source:           domain.SourceLogmanager,
	}, true
}

func gestoraRow(idx columnIndex, row []string, caser cases.Caser) (domain.PackageRecord, bool) {
	seller := idx.cell(row, colVendedor)
	orderID := normalizeOrderID(idx.cell(row, colPedidoMarketplace))
	if !strings.Contains(strings.ToLower(seller), meliSeller) || !isDigits(orderID) {
		return domain.PackageRecord{}, false
	}

	return domain.PackageRecord{
		Bipagem:            idx.cell(row, colBipagem),
		Criacao:            NormalizeDate(idx.cell(row, colCriacao)),
		DeveriaSerEntregue: NormalizeDate(idx.cell(row, colDeveriaSerEntregue)),
		Pacote:             idx.cell(row, colPacote),
		Etiqueta:           idx.cell(row, colEtiqueta),
		PedidoMarketplace:  orderID,
		Frete:              idx.cell(row, colFrete),
		Vendedor:           caser.String(seller),
		CentroDeCusto:      idx.cell(row, colCentroDeCusto),
		StatusDiaGestora:   NormalizeStatus(idx.cell(row, colStatusDia)),
		NomeComprador:      idx.cell(row, colNomeComprador),
		CEP:                NormalizeCEP(idx.cell(row, colCEP)),
		Logradouro:         idx.cell(row, colLogradouro),
		Numero:             idx.cell(row, colNumero),
		Bairro:             idx.cell(row, colBairro),
		Cidade:             idx.cell(row, colCidade),
		Complemento:        idx.cell(row, colComplemento),
		DataStatusDia:      NormalizeDate(idx.cell(row, colDataStatusDia)),
		PrevisaoEntrega:    NormalizeDate(idx.cell(row, colPrevisaoEntrega)),
		Entrega:            NormalizeDate(idx.cell(row, colEntrega)),
		Prazo:              parseDays(idx.cell(row, colPrazo)),
		Source:             domain.SourceGestora,
	}, true
}
