package exporter

import (
	"github.com/go-pdf/fpdf"

	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

const (
	pdfFont       = "Helvetica"
	pdfMarginMM   = 20.0
	bodyLineMM    = 5.5
	headingLineMM = 8.0
	titleLineMM   = 11.0
)

// PDFSink writes documents as A4 PDF files using the core Helvetica font.
// Text outside the Windows-1252 range cannot be represented by the core fonts
// and comes out garbled.
type PDFSink struct{}

// Write renders doc to path.
func (PDFSink) Write(path string, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginMM, pdfMarginMM, pdfMarginMM)
	pdf.SetAutoPageBreak(true, pdfMarginMM)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	for _, b := range doc {
		text := tr(Unescape(b.Text))
		switch b.Style {
		case StyleTitle:
			pdf.SetFont(pdfFont, "B", 24)
			pdf.MultiCell(0, titleLineMM, text, "", "C", false)
			pdf.Ln(6)
		case StyleHeading:
			pdf.Ln(3)
			pdf.SetFont(pdfFont, "B", 16)
			pdf.SetTextColor(0x33, 0x33, 0x33)
			pdf.MultiCell(0, headingLineMM, text, "", "L", false)
			pdf.SetTextColor(0, 0, 0)
			pdf.Ln(2)
		case StyleField:
			pdf.SetFont(pdfFont, "B", 11)
			pdf.Write(bodyLineMM, tr(Unescape(b.Label))+": ")
			pdf.SetFont(pdfFont, "", 11)
			pdf.Write(bodyLineMM, text)
			pdf.Ln(bodyLineMM + 2)
		default:
			pdf.SetFont(pdfFont, "", 11)
			pdf.MultiCell(0, bodyLineMM, text, "", "J", false)
			pdf.Ln(3)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return &wiki.ExportError{Path: path, Err: err}
	}
	return nil
}
