package report

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"github.com/kislikjeka/warungku/pkg/money"
)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Title is the heading printed on the PDF and used for the download name
func (r *MonthlyReport) Title() string {
	return fmt.Sprintf("Laporan Bulanan %s %d", monthNames[r.Month-1], r.Year)
}

// RenderPDF writes the summary and the daily table as an A4 PDF
func RenderPDF(w io.Writer, r *MonthlyReport) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, r.Title())
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Dibuat: "+r.GeneratedAt.Format("02-01-2006 15:04"))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{62, 62, 62}
	pdf.CellFormat(sumW[0], 10, "Pemasukan", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Pengeluaran", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Laba Bersih", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, money.FormatRupiah(r.Summary.TotalIncome), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, money.FormatRupiah(r.Summary.TotalExpense), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, money.FormatRupiah(r.Summary.NetProfit), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	colW := []float64{40, 73, 73}
	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(colW[0], 8, "Tanggal", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[1], 8, "Pemasukan", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colW[2], 8, "Pengeluaran", "1", 1, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
	}
	header()

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, d := range r.Daily {
		if pdf.GetY()+7 > pageH-bottom {
			pdf.AddPage()
			header()
		}
		pdf.CellFormat(colW[0], 7, d.Date, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], 7, money.FormatRupiah(d.Income), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[2], 7, money.FormatRupiah(d.Expense), "1", 1, "R", false, 0, "")
	}

	if pdf.Err() {
		return fmt.Errorf("failed to render report pdf: %w", pdf.Error())
	}
	return pdf.Output(w)
}
