package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/AhmadAli88/IFrame-Pdf-Viewer/coords"
)

// pdfWriter tracks byte offsets while emitting a PDF body so the xref
// table can be written afterwards.
type pdfWriter struct {
	w      *bufio.Writer
	offset uint64
}

func (pw *pdfWriter) write(b []byte) error {
	n, err := pw.w.Write(b)
	pw.offset += uint64(n)
	return err
}

func (pw *pdfWriter) writeStr(s string) error {
	n, err := pw.w.WriteString(s)
	pw.offset += uint64(n)
	return err
}

func (pw *pdfWriter) writeHeader() error {
	return pw.writeStr("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
}

// writeOverlayPDF writes a single-page PDF whose page matches the
// target page's media box and whose content is the rendered overlay.
// The file is later stamped onto the source document, so coordinates
// in c.ops are already in page space.
func writeOverlayPDF(path string, c *overlayContent, page coords.PageSize) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create overlay: %w", err)
	}
	defer f.Close()

	pw := &pdfWriter{w: bufio.NewWriter(f)}
	if err := pw.writeHeader(); err != nil {
		return err
	}

	// Objects: 1 catalog, 2 pages, 3 page, 4 contents, then one
	// ExtGState per alpha, then the note font when referenced.
	gsBase := 5
	fontObj := gsBase + len(c.alphas)
	objCount := fontObj - 1
	if c.useFont {
		objCount = fontObj
	}

	offsets := make([]uint64, 0, objCount)
	writeObj := func(body string) error {
		offsets = append(offsets, pw.offset)
		return pw.writeStr(fmt.Sprintf("%d 0 obj\n%s\nendobj\n", len(offsets), body))
	}

	if err := writeObj("<< /Type /Catalog /Pages 2 0 R >>"); err != nil {
		return err
	}
	if err := writeObj("<< /Type /Pages /Kids [3 0 R] /Count 1 >>"); err != nil {
		return err
	}

	resources := "<<"
	if len(c.alphas) > 0 {
		resources += " /ExtGState <<"
		for i := range c.alphas {
			resources += fmt.Sprintf(" /GS%d %d 0 R", i+1, gsBase+i)
		}
		resources += " >>"
	}
	if c.useFont {
		resources += fmt.Sprintf(" /Font << /F1 %d 0 R >>", fontObj)
	}
	resources += " >>"

	pageBody := fmt.Sprintf(
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] /Contents 4 0 R /Resources %s >>",
		page.Width, page.Height, resources)
	if err := writeObj(pageBody); err != nil {
		return err
	}

	offsets = append(offsets, pw.offset)
	if err := pw.writeStr(fmt.Sprintf("4 0 obj\n<< /Length %d >>\nstream\n", len(c.ops))); err != nil {
		return err
	}
	if err := pw.write(c.ops); err != nil {
		return err
	}
	if err := pw.writeStr("\nendstream\nendobj\n"); err != nil {
		return err
	}

	for _, alpha := range c.alphas {
		if err := writeObj(fmt.Sprintf("<< /Type /ExtGState /ca %.4f /CA %.4f >>", alpha, alpha)); err != nil {
			return err
		}
	}
	if c.useFont {
		if err := writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"); err != nil {
			return err
		}
	}

	xrefOffset := pw.offset
	if err := pw.writeStr(fmt.Sprintf("xref\n0 %d\n", len(offsets)+1)); err != nil {
		return err
	}
	if err := pw.writeStr("0000000000 65535 f \n"); err != nil {
		return err
	}
	for _, off := range offsets {
		if err := pw.writeStr(fmt.Sprintf("%010d 00000 n \n", off)); err != nil {
			return err
		}
	}
	trailer := fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefOffset)
	if err := pw.writeStr(trailer); err != nil {
		return err
	}

	if err := pw.w.Flush(); err != nil {
		return fmt.Errorf("flush overlay: %w", err)
	}
	return nil
}
