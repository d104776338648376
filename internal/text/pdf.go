package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/DaanHessen/humanos-tui/internal/domain"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

type rgb struct{ r, g, b int }

// pathColors match the dashboard series: purple, amber, cyan.
var pathColors = []rgb{{168, 85, 247}, {245, 158, 11}, {34, 211, 238}}

// pdfReport writes one record as an A4 report.
type pdfReport struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	rec domain.Record
}

// WritePDF renders rec as a PDF document to w.
func WritePDF(w io.Writer, rec domain.Record) error {
	r := &pdfReport{pdf: fpdf.New("P", "mm", "A4", ""), rec: rec}
	r.tr = r.pdf.UnicodeTranslatorFromDescriptor("")
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle("HUMANOS Decision Report", true)

	r.pdf.AddPage()
	r.addHeader()
	r.addIndexBars()
	r.addAnalysis()
	r.addOutcomes()
	r.addTradeOffs()
	return r.pdf.Output(w)
}

func (r *pdfReport) heading(s string) {
	r.pdf.Ln(4)
	r.pdf.SetFont("Helvetica", "B", 13)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, r.tr(s), "", 1, "L", false, 0, "")
	r.pdf.SetTextColor(30, 30, 30)
}

func (r *pdfReport) addHeader() {
	p := r.rec.Profile
	r.pdf.SetFont("Helvetica", "B", 22)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 12, "HUMANOS Decision Report", "", 1, "L", false, 0, "")
	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.SetTextColor(90, 90, 90)
	r.pdf.CellFormat(contentWidth, 5, r.tr(fmt.Sprintf("Simulated %s  |  record %s", Timestamp(r.rec.Timestamp), r.rec.ID)), "", 1, "L", false, 0, "")
	r.pdf.Ln(3)

	r.pdf.SetTextColor(30, 30, 30)
	r.pdf.SetFont("Helvetica", "B", 11)
	r.pdf.CellFormat(contentWidth, 6, r.tr(fmt.Sprintf("%s, %s", p.Name, p.Major)), "", 1, "L", false, 0, "")
	r.pdf.SetFont("Helvetica", "", 10)
	if len(p.CoreValues) > 0 {
		r.pdf.MultiCell(contentWidth, 5, r.tr("Core values: "+strings.Join(p.CoreValues, ", ")), "", "L", false)
	}
	if len(p.TopSkills) > 0 {
		r.pdf.MultiCell(contentWidth, 5, r.tr("Top skills: "+strings.Join(p.TopSkills, ", ")), "", "L", false)
	}
	r.pdf.MultiCell(contentWidth, 5, r.tr("Alpha: "+r.rec.ScenarioA.Title), "", "L", false)
	r.pdf.MultiCell(contentWidth, 5, r.tr("Beta: "+r.rec.ScenarioB.Title), "", "L", false)
}

// addIndexBars draws one horizontal bar per path for every radar axis.
func (r *pdfReport) addIndexBars() {
	r.heading("Index comparison")
	const labelW, barMax, barH = 35.0, 120.0, 3.2
	outcomes := r.rec.Results.Outcomes()
	r.pdf.SetFont("Helvetica", "", 9)
	for _, ax := range Axes {
		r.pdf.CellFormat(labelW, barH*3+2, ax.Label, "", 0, "L", false, 0, "")
		x, y := r.pdf.GetXY()
		for i, o := range outcomes {
			v := clamp(ax.Value(o))
			c := pathColors[i]
			r.pdf.SetFillColor(c.r, c.g, c.b)
			r.pdf.Rect(x, y+float64(i)*barH, barMax*v/100, barH-0.6, "F")
			r.pdf.SetXY(x+barMax+2, y+float64(i)*barH-0.4)
			r.pdf.CellFormat(12, barH, fmt.Sprintf("%.0f", v), "", 0, "L", false, 0, "")
		}
		r.pdf.SetXY(marginLeft, y+barH*3+2)
	}
	r.pdf.Ln(1)
	for i, name := range PathNames {
		c := pathColors[i]
		r.pdf.SetFillColor(c.r, c.g, c.b)
		x, y := r.pdf.GetXY()
		r.pdf.Rect(x, y+1, 4, 3, "F")
		r.pdf.SetX(x + 5)
		r.pdf.CellFormat(30, 5, name, "", 0, "L", false, 0, "")
	}
	r.pdf.Ln(6)
}

func (r *pdfReport) addAnalysis() {
	r.heading("Comparative analysis")
	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.MultiCell(contentWidth, 5, r.tr(strings.TrimSpace(r.rec.Results.ComparativeAnalysis)), "", "L", false)
}

func (r *pdfReport) addOutcomes() {
	for i, o := range r.rec.Results.Outcomes() {
		c := pathColors[i]
		r.heading(fmt.Sprintf("%s: %s", PathNames[i], o.Title))
		r.pdf.SetDrawColor(c.r, c.g, c.b)
		r.pdf.SetFont("Helvetica", "", 9)
		r.pdf.CellFormat(contentWidth, 5, fmt.Sprintf("Skill growth %.0f   Value alignment %.0f   Optionality %.0f   Friction %.0f",
			o.SkillGrowth, o.ValueAlignment, o.FutureOptionality, o.FrictionIndicator), "B", 1, "L", false, 0, "")
		r.pdf.SetFont("Helvetica", "I", 10)
		r.pdf.MultiCell(contentWidth, 5, r.tr(strings.TrimSpace(o.NarrativeSnapshot)), "", "L", false)
	}
}

func (r *pdfReport) addTradeOffs() {
	if len(r.rec.Results.TradeOffs) == 0 {
		return
	}
	r.heading("Trade-offs")
	const labelW, colW, rowH = 90.0, 30.0, 6.0
	r.pdf.SetFont("Helvetica", "B", 9)
	r.pdf.SetFillColor(70, 90, 110)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.CellFormat(labelW, rowH, "Dimension", "1", 0, "L", true, 0, "")
	for _, h := range []string{"Alpha", "Beta", "C"} {
		r.pdf.CellFormat(colW, rowH, h, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
	r.pdf.SetFont("Helvetica", "", 9)
	r.pdf.SetTextColor(30, 30, 30)
	for i, t := range r.rec.Results.TradeOffs {
		if i%2 == 0 {
			r.pdf.SetFillColor(250, 250, 250)
		} else {
			r.pdf.SetFillColor(255, 255, 255)
		}
		r.pdf.CellFormat(labelW, rowH, r.tr(t.Label), "1", 0, "L", true, 0, "")
		for _, v := range []float64{t.PathAValue, t.PathBValue, t.PathCValue} {
			r.pdf.CellFormat(colW, rowH, fmt.Sprintf("%.0f", v), "1", 0, "C", true, 0, "")
		}
		r.pdf.Ln(-1)
	}
}
