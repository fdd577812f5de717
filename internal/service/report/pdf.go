package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/medconsult/consult-api/pkg/assets"
)

const (
	pageMargin  = 15.0
	logoWidthMM = 40.0
)

// WritePDF renders the section sequence into a complete document. The
// whole PDF is assembled in memory so the caller can still return an
// error status before the first byte goes out.
func WritePDF(sections []Section, logo *assets.Logo) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if logo != nil {
		opts := gofpdf.ImageOptions{ImageType: logo.Format, ReadDpi: true}
		pdf.RegisterImageOptionsReader("report-logo", opts, bytes.NewReader(logo.Data))
		pdf.ImageOptions("report-logo", pageMargin, pageMargin, logoWidthMM, 0, true, opts, 0, "")
		pdf.Ln(4)
	}

	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pageMargin

	for i, section := range sections {
		if i == 0 {
			// Title section.
			pdf.SetFont("Helvetica", "B", 16)
			pdf.MultiCell(usable, 9, tr(section.Header), "", "C", false)
			pdf.Ln(4)
			continue
		}

		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(usable, 7, tr(section.Header), "", "L", false)

		pdf.SetFont("Helvetica", "", 11)
		for _, line := range section.Lines {
			pdf.MultiCell(usable, 6, tr(line), "", "L", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
