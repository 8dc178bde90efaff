package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Certificate holds the fields printed on an award certificate.
type Certificate struct {
	ApplicationNumber string
	WUAName           string
	District          string
	Year              int
	AwardTier         string
	GrandTotalScore   int
	IssuedOn          string
}

// CertificateRenderer produces award certificate PDFs for winning nominations.
type CertificateRenderer struct{}

// NewCertificateRenderer constructs a certificate renderer.
func NewCertificateRenderer() *CertificateRenderer {
	return &CertificateRenderer{}
}

// Render creates a single-page landscape certificate document.
func (r *CertificateRenderer) Render(cert Certificate) ([]byte, error) {
	if cert.ApplicationNumber == "" || cert.WUAName == "" {
		return nil, fmt.Errorf("certificate requires application number and WUA name")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.AddPage()

	pdf.SetLineWidth(1.2)
	pdf.Rect(10, 10, 277, 190, "D")

	pdf.SetFont("Times", "B", 20)
	pdf.CellFormat(0, 12, "GOVERNMENT OF MAHARASHTRA", "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "", 14)
	pdf.CellFormat(0, 8, "Water Resources Department", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Times", "B", 24)
	pdf.CellFormat(0, 14, "Punyashlok Ahilyabai Holkar Award", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Times", "", 13)
	pdf.CellFormat(0, 8, "This certificate is awarded to", "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "B", 18)
	pdf.CellFormat(0, 12, cert.WUAName, "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("District %s", cert.District), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Times", "", 13)
	body := fmt.Sprintf("in recognition of achieving the %s with a grand total score of %d out of 200 for the award year %d.",
		cert.AwardTier, cert.GrandTotalScore, cert.Year)
	pdf.MultiCell(0, 8, body, "", "C", false)
	pdf.Ln(10)

	pdf.SetFont("Times", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Application No: %s", cert.ApplicationNumber), "", 1, "C", false, 0, "")
	if cert.IssuedOn != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Issued on: %s", cert.IssuedOn), "", 1, "C", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
