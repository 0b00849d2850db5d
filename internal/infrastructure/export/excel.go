// Package export writes report rows to Excel workbooks.
package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/agency/backend/internal/domain/report"
	"github.com/agency/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the produced workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Exporter writes reports as .xlsx
type Exporter struct {
	loc *time.Location
}

// NewExporter creates an Exporter showing dates in loc
func NewExporter(loc *time.Location) *Exporter {
	if loc == nil {
		loc = time.UTC
	}
	return &Exporter{loc: loc}
}

// Filename returns the download name for a report kind and the current time
func Filename(kind string, now time.Time) string {
	return fmt.Sprintf("%s-report-%s.xlsx", kind, now.Format("20060102-1504"))
}

type column struct {
	title string
	width float64
	style int
}

// sheet is a worksheet being filled row by row
type sheet struct {
	f     *excelize.File
	name  string
	row   int
	cols  []column
	money int
	date  int
	bold  int
}

func (e *Exporter) newSheet(title string) (*sheet, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), title); err != nil {
		return nil, err
	}

	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("#,##0.00")})
	if err != nil {
		return nil, err
	}
	date, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("yyyy-mm-dd")})
	if err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E7E6E6"}},
	})
	if err != nil {
		return nil, err
	}
	return &sheet{f: f, name: title, money: money, date: date, bold: bold}, nil
}

func (s *sheet) header(cols ...column) error {
	s.cols = cols
	s.row = 1
	titles := make([]interface{}, len(cols))
	for i, c := range cols {
		titles[i] = c.title
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if c.width > 0 {
			if err := s.f.SetColWidth(s.name, name, name, c.width); err != nil {
				return err
			}
		}
		if c.style != 0 {
			if err := s.f.SetColStyle(s.name, name, c.style); err != nil {
				return err
			}
		}
	}
	if err := s.f.SetSheetRow(s.name, "A1", &titles); err != nil {
		return err
	}
	if err := s.f.SetRowStyle(s.name, 1, 1, s.bold); err != nil {
		return err
	}
	return s.f.SetPanes(s.name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func (s *sheet) append(values ...interface{}) error {
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	return s.f.SetSheetRow(s.name, cell, &values)
}

// total writes a bold summary row
func (s *sheet) total(values ...interface{}) error {
	if err := s.append(values...); err != nil {
		return err
	}
	return s.f.SetRowStyle(s.name, s.row, s.row, s.bold)
}

func (s *sheet) writeTo(w io.Writer) error {
	defer s.f.Close()
	if _, err := s.f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (e *Exporter) day(t time.Time) time.Time {
	l := t.In(e.loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.UTC)
}

// Orders writes the orders report
func (e *Exporter) Orders(w io.Writer, rep *report.OrderReport) error {
	s, err := e.newSheet("Orders")
	if err != nil {
		return err
	}
	if err := s.header(
		column{title: "Order #", width: 16},
		column{title: "Date", width: 12, style: s.date},
		column{title: "Customer", width: 24},
		column{title: "Title", width: 30},
		column{title: "Status", width: 14},
		column{title: "Total", width: 14, style: s.money},
		column{title: "Paid", width: 14, style: s.money},
		column{title: "Remaining", width: 14, style: s.money},
	); err != nil {
		return err
	}
	for _, r := range rep.Rows {
		if err := s.append(r.OrderNumber, e.day(r.CreatedAt), r.CustomerName, r.Title, r.StatusLabel,
			money(r.TotalAmount), money(r.PaidAmount), money(r.Remaining)); err != nil {
			return err
		}
	}
	if err := s.total("Total", nil, nil, nil, rep.Totals.Count,
		money(rep.Totals.Total), money(rep.Totals.Paid), money(rep.Totals.Remaining)); err != nil {
		return err
	}
	return s.writeTo(w)
}

// Payments writes the payments report followed by the per-method sums
func (e *Exporter) Payments(w io.Writer, rep *report.PaymentReport) error {
	s, err := e.newSheet("Payments")
	if err != nil {
		return err
	}
	if err := s.header(
		column{title: "Date", width: 12, style: s.date},
		column{title: "Order #", width: 16},
		column{title: "Customer", width: 24},
		column{title: "Method", width: 16},
		column{title: "Reference", width: 20},
		column{title: "Amount", width: 14, style: s.money},
	); err != nil {
		return err
	}
	for _, r := range rep.Rows {
		if err := s.append(e.day(r.PaidAt), r.OrderNumber, r.CustomerName, r.MethodLabel, r.Reference, money(r.Amount)); err != nil {
			return err
		}
	}
	if err := s.total("Total", nil, nil, nil, nil, money(rep.Total)); err != nil {
		return err
	}
	for _, k := range sortedKeys(rep.ByMethod) {
		if err := s.append(nil, nil, nil, k, nil, money(rep.ByMethod[k])); err != nil {
			return err
		}
	}
	return s.writeTo(w)
}

// Expenses writes the expenses report followed by the per-category sums
func (e *Exporter) Expenses(w io.Writer, rep *report.ExpenseReport) error {
	s, err := e.newSheet("Expenses")
	if err != nil {
		return err
	}
	if err := s.header(
		column{title: "Expense #", width: 16},
		column{title: "Date", width: 12, style: s.date},
		column{title: "Category", width: 16},
		column{title: "Description", width: 30},
		column{title: "Vendor", width: 20},
		column{title: "Amount", width: 14, style: s.money},
	); err != nil {
		return err
	}
	for _, r := range rep.Rows {
		if err := s.append(r.ExpenseNumber, e.day(r.SpentAt), r.CategoryLabel, r.Description, r.Vendor, money(r.Amount)); err != nil {
			return err
		}
	}
	if err := s.total("Total", nil, nil, nil, nil, money(rep.Total)); err != nil {
		return err
	}
	for _, k := range sortedKeys(rep.ByCategory) {
		if err := s.append(nil, nil, k, nil, nil, money(rep.ByCategory[k])); err != nil {
			return err
		}
	}
	return s.writeTo(w)
}

// Debtors writes the debtors list
func (e *Exporter) Debtors(w io.Writer, debtors []trade.Debtor) error {
	s, err := e.newSheet("Debtors")
	if err != nil {
		return err
	}
	if err := s.header(
		column{title: "Customer", width: 24},
		column{title: "Phone", width: 16},
		column{title: "Orders", width: 10},
		column{title: "Total", width: 14, style: s.money},
		column{title: "Paid", width: 14, style: s.money},
		column{title: "Remaining", width: 14, style: s.money},
	); err != nil {
		return err
	}
	sum := decimal.Zero
	for _, d := range debtors {
		sum = sum.Add(d.Remaining)
		if err := s.append(d.CustomerName, d.Phone, d.OrderCount, money(d.TotalAmount), money(d.PaidAmount), money(d.Remaining)); err != nil {
			return err
		}
	}
	if err := s.total("Total", nil, len(debtors), nil, nil, money(sum)); err != nil {
		return err
	}
	return s.writeTo(w)
}

// money converts to float64 for the spreadsheet cell; amounts are rounded to cents
func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func strPtr(s string) *string { return &s }
