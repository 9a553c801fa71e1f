package report

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 5.0
	cellPad    = 1.0
)

type column struct {
	title string
	width float64
	align string
}

// document wraps fpdf with the table primitives the reports share.
type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocument(title string) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("Restaurant Management System", true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("")

	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.AddPage()
	return d
}

func (d *document) title(text string) {
	d.pdf.SetFont(fontFamily, "B", 18)
	d.pdf.CellFormat(0, 10, d.tr(text), "", 1, "C", false, 0, "")
	d.pdf.Ln(2)
}

func (d *document) heading(text string) {
	d.pdf.Ln(4)
	d.pdf.SetFont(fontFamily, "B", 12)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
	d.pdf.Ln(1)
}

func (d *document) paragraph(style string, size float64, text string) {
	d.pdf.SetFont(fontFamily, style, size)
	d.pdf.MultiCell(0, lineHeight+1, d.tr(text), "", "L", false)
}

func (d *document) header(cols []column) {
	d.pdf.SetFont(fontFamily, "B", 9)
	d.pdf.SetFillColor(52, 73, 94)
	d.pdf.SetTextColor(255, 255, 255)
	for _, c := range cols {
		d.pdf.CellFormat(c.width, 8, d.tr(c.title), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetTextColor(0, 0, 0)
}

// wrap splits each cell into printable lines, honouring explicit newlines.
func (d *document) wrap(cols []column, cells []string) ([][]string, int) {
	out := make([][]string, len(cols))
	tallest := 1
	for i, c := range cols {
		var lines []string
		for _, para := range strings.Split(d.tr(cells[i]), "\n") {
			if para == "" {
				lines = append(lines, "")
				continue
			}
			for _, b := range d.pdf.SplitLines([]byte(para), c.width-2*cellPad) {
				lines = append(lines, string(b))
			}
		}
		out[i] = lines
		if len(lines) > tallest {
			tallest = len(lines)
		}
	}
	return out, tallest
}

// row draws one table row whose height fits its tallest cell. A row that does
// not fit moves to a new page, repeating the header when one is given.
func (d *document) row(cols []column, cells []string, style string, fill bool, repeat []column) {
	d.pdf.SetFont(fontFamily, style, 9)
	wrapped, tallest := d.wrap(cols, cells)
	h := float64(tallest)*lineHeight + 2*cellPad

	_, pageH := d.pdf.GetPageSize()
	_, _, _, bottom := d.pdf.GetMargins()
	if d.pdf.GetY()+h > pageH-bottom {
		d.pdf.AddPage()
		if repeat != nil {
			d.header(repeat)
		}
		d.pdf.SetFont(fontFamily, style, 9)
	}

	left, _, _, _ := d.pdf.GetMargins()
	x, y := left, d.pdf.GetY()
	rectStyle := "D"
	if fill {
		d.pdf.SetFillColor(236, 240, 241)
		rectStyle = "FD"
	}
	for i, c := range cols {
		d.pdf.Rect(x, y, c.width, h, rectStyle)
		for j, text := range wrapped[i] {
			d.pdf.SetXY(x+cellPad, y+cellPad+float64(j)*lineHeight)
			d.pdf.CellFormat(c.width-2*cellPad, lineHeight, text, "", 0, c.align, false, 0, "")
		}
		x += c.width
	}
	d.pdf.SetXY(left, y+h)
}
