package reports

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"

	"branhox/internal/models"
)

const pdfMaxRows = 500

// MonthlyPDF renders the monthly summary cards, payment-method and platform
// tables, and the month's entries.
func MonthlyPDF(businessName string, r *MonthlyReport, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, businessName+" Monthly Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Month: "+r.Month)
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 10)

	sumW := []float64{45.5, 45.5, 45.5, 45.5}
	pdf.CellFormat(sumW[0], 9, "Total Recharge", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 9, "Total Freeplay", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 9, "Coin Used", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[3], 9, "Freeplay Ratio", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(sumW[0], 9, "$"+r.TotalRecharge.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 9, "$"+r.TotalFreeplay.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 9, strconv.FormatInt(r.CoinUsed, 10), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[3], 9, r.FreeplayRatio.StringFixed(1)+"%", "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	if r.TopPaymentMethod != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, fmt.Sprintf("Top payment method: %s (%s%% of total)", r.TopPaymentMethod, r.TopPaymentShare.StringFixed(0)))
		pdf.Ln(9)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(90, 8, "PAYMENT METHOD", "1", 0, "L", true, 0, "")
	pdf.CellFormat(46, 8, "AMOUNT", "1", 0, "R", true, 0, "")
	pdf.CellFormat(46, 8, "TRANSACTIONS", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, b := range GroupSum(Where(r.AllEntries, IsCategory(models.CategoryRecharge)), ByPaymentMethod, 0) {
		pdf.CellFormat(90, 7, b.Key, "1", 0, "L", false, 0, "")
		pdf.CellFormat(46, 7, "$"+b.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(46, 7, strconv.Itoa(b.Count), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(136, 8, "PLATFORM", "1", 0, "L", true, 0, "")
	pdf.CellFormat(46, 8, "POINTS", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, p := range r.PlatformPoints {
		pdf.CellFormat(136, 7, p.Platform, "1", 0, "L", false, 0, "")
		pdf.CellFormat(46, 7, strconv.FormatInt(p.Points, 10), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	colW := []float64{22, 30, 24, 36, 34, 36}
	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(colW[0], 8, "DATE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, "AGENT", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[2], 8, "CATEGORY", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[3], 8, "PLAYER", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[4], 8, "PLATFORM", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[5], 8, "AMOUNT", "1", 1, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 8)
	}
	header()

	for i, e := range r.AllEntries {
		if i >= pdfMaxRows {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(0, 7, "truncated, export CSV for the full list", "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
		}
		pdf.CellFormat(colW[0], 7, e.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 7, trimTo(e.AgentName, 18), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 7, string(e.Category), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[3], 7, trimTo(e.Username, 22), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[4], 7, trimTo(e.Platform, 20), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[5], 7, "$"+e.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated "+generatedAt.Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render monthly pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func trimTo(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}
