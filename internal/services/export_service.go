package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"salonstock/internal/analytics"
	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"
	PeriodMonth PeriodKind = "month"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

// ContentType returns the MIME type for the format.
func (f ExportFormat) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Period is a half-open [Start, End) export window.
type Period struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
}

// Label is used in file names: 2024-03 or 2024-03-15.
func (p Period) Label() string {
	if p.Kind == PeriodMonth {
		return p.Start.Format("2006-01")
	}
	return p.Start.Format("2006-01-02")
}

// ParsePeriod reads "day" with a YYYY-MM-DD date or "month" with YYYY-MM
// (a full date is accepted for month and truncated).
func ParsePeriod(kind, date string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	switch PeriodKind(kind) {
	case PeriodDay:
		day, err := time.ParseInLocation("2006-01-02", date, loc)
		if err != nil {
			return Period{}, fmt.Errorf("%w: date must be YYYY-MM-DD", models.ErrValidation)
		}
		return Period{Kind: PeriodDay, Start: day, End: day.AddDate(0, 0, 1)}, nil
	case PeriodMonth, "":
		month, err := time.ParseInLocation("2006-01", date, loc)
		if err != nil {
			day, dayErr := time.ParseInLocation("2006-01-02", date, loc)
			if dayErr != nil {
				return Period{}, fmt.Errorf("%w: month must be YYYY-MM", models.ErrValidation)
			}
			month = day
		}
		start, end := analytics.MonthWindow(month)
		return Period{Kind: PeriodMonth, Start: start, End: end}, nil
	default:
		return Period{}, fmt.Errorf("%w: period must be day or month", models.ErrValidation)
	}
}

// ParseExportFormat defaults to CSV.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: format must be csv or xlsx", models.ErrValidation)
	}
}

// ExportService renders ledger reads as delimited text or spreadsheets.
type ExportService interface {
	Transactions(ctx context.Context, scope models.Scope, period Period, format ExportFormat, w io.Writer) error
	Products(ctx context.Context, scope models.Scope, period Period, format ExportFormat, w io.Writer) error
}

type exportService struct {
	ledger LedgerQueryService
}

func NewExportService(ledger LedgerQueryService) ExportService {
	return &exportService{ledger: ledger}
}

var (
	transactionHeader = []string{"Date", "Product", "Brand", "Type", "Amount", "Notes"}
	productHeader     = []string{"Product", "Brand", "Variant", "Opening", "In", "Out", "Closing", "Current", "Low Stock Threshold"}
)

func (s *exportService) Transactions(ctx context.Context, scope models.Scope, period Period, format ExportFormat, w io.Writer) error {
	txns, err := s.ledger.ListTransactionsBetween(ctx, scope, period.Start, period.End)
	if err != nil {
		return err
	}
	rows := make([][]interface{}, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, []interface{}{
			t.CreatedAt.Format(time.RFC3339), t.ProductName, t.Brand, string(t.Type), t.Amount, t.Notes,
		})
	}
	return write(format, "Transactions", transactionHeader, rows, w)
}

// Products dumps each product with its stock at the period start, the period's
// movements, and the stock at period end, all reconstructed from the ledger.
func (s *exportService) Products(ctx context.Context, scope models.Scope, period Period, format ExportFormat, w io.Writer) error {
	products, err := s.ledger.ListProducts(ctx, scope)
	if err != nil {
		return err
	}
	history, err := s.ledger.ListAllTransactions(ctx, scope.TenantID)
	if err != nil {
		return err
	}

	atStart := analytics.ComputeOpeningStock(products, history, period.Start)
	atEnd := analytics.ComputeOpeningStock(products, history, period.End)
	type flow struct{ in, out int }
	flows := make(map[uuid.UUID]flow)
	for _, t := range history {
		if t.CreatedAt.Before(period.Start) || !t.CreatedAt.Before(period.End) {
			continue
		}
		f := flows[t.ProductID]
		if t.Type == models.TransactionIn {
			f.in += t.Amount
		} else {
			f.out += t.Amount
		}
		flows[t.ProductID] = f
	}

	rows := make([][]interface{}, 0, len(products))
	for i, p := range products {
		f := flows[p.ID]
		rows = append(rows, []interface{}{
			p.Name, p.Brand, p.Variant, atStart[i].OpeningQty, f.in, f.out, atEnd[i].OpeningQty, p.Quantity, p.LowStockThreshold,
		})
	}
	return write(format, "Products", productHeader, rows, w)
}

func write(format ExportFormat, sheet string, header []string, rows [][]interface{}, w io.Writer) error {
	if format == FormatXLSX {
		return writeXLSX(sheet, header, rows, w)
	}
	return writeCSV(header, rows, w)
}

func writeCSV(header []string, rows [][]interface{}, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, v := range row {
			switch val := v.(type) {
			case int:
				record[i] = strconv.Itoa(val)
			case string:
				record[i] = val
			default:
				record[i] = fmt.Sprint(val)
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSX(sheet string, header []string, rows [][]interface{}, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
