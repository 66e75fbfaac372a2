package labels

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"jpos/models"
	"jpos/variants"
)

// HeldCodePrefix marks QR payloads that identify a held cart.
const HeldCodePrefix = "held:"

// HeldSlip renders the slip printed when a cart is parked. The QR code lets
// the cart be found again with a scanner.
func HeldSlip(c models.HeldCart, currency string) ([]byte, error) {
	qr, err := qrcode.Encode(HeldCodePrefix+c.ID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 80, Ht: 160 + 6*float64(len(c.Cart))},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(5, 5, 5)
	pdf.SetAutoPageBreak(false, 5)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, "HELD CART", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Register: %s", c.Register)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Held: %s", c.CreatedAt.Local().Format("02 Jan 2006 15:04"))), "", 1, "L", false, 0, "")
	if c.Note != "" {
		pdf.MultiCell(0, 5, tr(c.Note), "", "L", false)
	}
	pdf.Ln(2)

	total := decimal.Zero
	pdf.SetFont("Arial", "", 9)
	for _, line := range c.Cart {
		price := models.ParsePrice(line.Price).Mul(decimal.NewFromInt(int64(line.Qty)))
		total = total.Add(price)
		pdf.CellFormat(50, 6, tr(fmt.Sprintf("%d x %s", line.Qty, line.Name)), "B", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(currency+price.StringFixed(2)), "B", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 7, "Total", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr(currency+total.StringFixed(2)), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 20, pdf.GetY(), 40, 40, false, imgOpts, 0, "")

	return output(pdf)
}

// VariationLabel renders a shelf label for one variation with its price and
// a QR code of its barcode, or its SKU when there is no barcode.
func VariationLabel(p models.Product, v models.Variation, currency string) ([]byte, error) {
	code := v.Barcode
	if code == "" {
		code = v.SKU
	}
	if code == "" {
		return nil, fmt.Errorf("variation %d has no barcode or sku", v.ID)
	}
	qr, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	name := variants.ItemName(p.Name, variants.BuildDomain(p.Variations), v)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 40, Ht: 62},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(3, 3, 3)
	pdf.SetAutoPageBreak(false, 3)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 9)
	pdf.MultiCell(32, 4, tr(name), "", "L", false)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(32, 8, tr(variants.FormatPrice(v.Price, currency)), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 7)
	pdf.CellFormat(32, 4, tr(code), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 6)
	pdf.CellFormat(32, 4, time.Now().Format("02/01/2006"), "", 1, "L", false, 0, "")

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 36, 8, 24, 24, false, imgOpts, 0, "")

	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
