package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Receipt is the flattened purchase data rendered into a PDF.
type Receipt struct {
	PurchaseID  string
	CourseTitle string
	Price       float64
	BuyerEmail  string
	PurchasedAt time.Time
}

// ReceiptExporter renders purchase receipts as PDF documents.
type ReceiptExporter struct{}

// NewReceiptExporter constructs a receipt exporter.
func NewReceiptExporter() *ReceiptExporter {
	return &ReceiptExporter{}
}

// Render creates a single-page receipt PDF.
func (e *ReceiptExporter) Render(r Receipt) ([]byte, error) {
	if r.PurchaseID == "" {
		return nil, fmt.Errorf("receipt requires a purchase id")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "PURCHASE RECEIPT", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	rows := [][2]string{
		{"Receipt No.", r.PurchaseID},
		{"Course", r.CourseTitle},
		{"Price", fmt.Sprintf("%.2f", r.Price)},
		{"Buyer", r.BuyerEmail},
		{"Date", r.PurchasedAt.UTC().Format("2006-01-02 15:04 MST")},
	}

	for _, row := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 8, row[0], "1", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(135, 8, row[1], "1", 1, "", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
