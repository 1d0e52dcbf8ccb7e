package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders reports; an interface so handlers can be tested without gofpdf.
type Generator interface {
	PipelineReport(w io.Writer, data PipelineData) error
}

type PipelineRow struct {
	Stage    string
	Count    int
	Value    string
	Weighted string
}

type PipelineData struct {
	Title       string
	Owner       string
	Currency    string
	GeneratedAt time.Time
	Rows        []PipelineRow
	Total       PipelineRow
}

// DocumentGenerator draws with gofpdf. Without a TTF font path it falls back to the core
// Helvetica font, which only covers Latin-1.
type DocumentGenerator struct {
	FontPath string // путь до TTF, например "assets/fonts/DejaVuSans.ttf"
	fontName string
}

func NewDocumentGenerator(fontPath string) *DocumentGenerator {
	name := "Helvetica"
	if fontPath != "" {
		name = "DejaVu"
	}
	return &DocumentGenerator{FontPath: fontPath, fontName: name}
}

var pipelineCols = []struct {
	title string
	width float64
	align string
}{
	{"Stage", 55, "L"},
	{"Deals", 25, "R"},
	{"Total value", 45, "R"},
	{"Weighted value", 45, "R"},
}

func (g *DocumentGenerator) PipelineReport(w io.Writer, data PipelineData) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(data.Title, true)
	pdf.SetAuthor("crmhub", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := g.addFont(pdf)
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	sub := "Generated " + data.GeneratedAt.UTC().Format("02.01.2006 15:04") + " UTC"
	if data.Owner != "" {
		sub += " for " + data.Owner
	}
	pdf.CellFormat(0, 7, tr(sub), "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== Таблица
	pdf.SetFont(g.fontName, "B", 11)
	pdf.SetFillColor(235, 235, 235)
	for _, c := range pipelineCols {
		pdf.CellFormat(c.width, 8, c.title, "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(g.fontName, "", 11)
	for _, r := range data.Rows {
		g.row(pdf, tr, r)
	}
	pdf.SetFont(g.fontName, "B", 11)
	g.row(pdf, tr, data.Total)

	if data.Currency != "" {
		pdf.Ln(4)
		pdf.SetFont(g.fontName, "", 9)
		pdf.MultiCell(0, 5, tr("Values are summed as stored; mixed currencies are not converted ("+data.Currency+")."), "", "L", false)
	}

	// ===== Нумерация страниц
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pipeline pdf: %w", err)
	}
	return nil
}

func (g *DocumentGenerator) row(pdf *gofpdf.Fpdf, tr func(string) string, r PipelineRow) {
	vals := []string{tr(r.Stage), fmt.Sprintf("%d", r.Count), placeholder(r.Value), placeholder(r.Weighted)}
	for i, c := range pipelineCols {
		pdf.CellFormat(c.width, 7, vals[i], "1", 0, c.align, false, 0, "")
	}
	pdf.Ln(-1)
}

func placeholder(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (g *DocumentGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

// addFont registers the UTF-8 font when configured and returns the text translator to use.
func (g *DocumentGenerator) addFont(pdf *gofpdf.Fpdf) func(string) string {
	if g.FontPath == "" {
		return pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
	return func(s string) string { return s }
}
