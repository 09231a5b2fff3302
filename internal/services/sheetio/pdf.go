package sheetio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/i18n"
)

const (
	pageMargin  = 36.0
	rowHeight   = 14.0
	headingSize = 12.0
	bodySize    = 9.0
	skillCols   = 3
)

// sheet draws one record with the labels of one locale
type sheet struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	labels *i18n.Translator
	locale string
	width  float64
}

func (s *service) RenderPDF(_ context.Context, input *RenderPDFInput) (*RenderPDFOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	c := input.Character

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(c.Identity.Name, true)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	sh := &sheet{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		labels: s.translator,
		locale: input.Locale,
		width:  pageW - 2*pageMargin,
	}

	sh.title()
	sh.identity(c)
	sh.characteristics(c.Attributes)
	sh.derived(c.Derived)
	sh.skills(c.Skills)
	sh.finance(c.Finance)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrapf(err, "failed to render sheet for %s", c.ID)
	}

	slog.Debug("Character sheet rendered", "character_id", c.ID, "locale", input.Locale, "bytes", buf.Len())
	return &RenderPDFOutput{Data: buf.Bytes()}, nil
}

func (sh *sheet) label(id string) string {
	return sh.labels.Text(sh.locale, i18n.SheetKey(id), id)
}

func (sh *sheet) title() {
	sh.pdf.SetFillColor(40, 40, 40)
	sh.pdf.SetTextColor(255, 255, 255)
	sh.pdf.SetFont("Helvetica", "B", 16)
	sh.pdf.CellFormat(sh.width, 24, sh.tr(sh.label("title")), "", 1, "C", true, 0, "")
	sh.pdf.SetTextColor(0, 0, 0)
	sh.pdf.Ln(6)
}

func (sh *sheet) heading(id string) {
	sh.pdf.Ln(4)
	sh.pdf.SetFont("Helvetica", "B", headingSize)
	sh.pdf.SetFillColor(220, 220, 220)
	sh.pdf.CellFormat(sh.width, rowHeight+2, sh.tr(sh.label(id)), "B", 1, "L", true, 0, "")
	sh.pdf.SetFont("Helvetica", "", bodySize)
}

// pair draws a label/value cell pair of the given width
func (sh *sheet) pair(label, value string, w float64, ln int) {
	sh.pdf.SetFont("Helvetica", "B", bodySize)
	sh.pdf.CellFormat(w*0.45, rowHeight, sh.tr(label), "", 0, "L", false, 0, "")
	sh.pdf.SetFont("Helvetica", "", bodySize)
	sh.pdf.CellFormat(w*0.55, rowHeight, sh.tr(value), "", ln, "L", false, 0, "")
}

func (sh *sheet) identity(c *coc.Character) {
	half := sh.width / 2
	sh.pair(sh.label("name"), c.Identity.Name, half, 0)
	sh.pair(sh.label("player"), c.Identity.Player, half, 1)
	sh.pair(sh.label("occupation"), sh.labels.Occupation(sh.locale, c.Identity.Occupation), half, 0)
	sh.pair(sh.label("age"), strconv.Itoa(c.Identity.Age), half, 1)
	sh.pair(sh.label("residence"), c.Identity.Residence, half, 0)
	sh.pair(sh.label("birthplace"), c.Identity.Birthplace, half, 1)
}

func (sh *sheet) characteristics(attrs coc.Attributes) {
	sh.heading("characteristics")
	col := sh.width / 4
	for i, key := range coc.AllAttributes {
		a := attrs.Get(key)
		ln := 0
		if i%4 == 3 {
			ln = 1
		}
		value := fmt.Sprintf("%d  (%d / %d)", a.Value, a.HalfValue, a.FifthValue)
		sh.pair(sh.labels.Attribute(sh.locale, key), value, col, ln)
	}
}

func (sh *sheet) derived(d coc.DerivedStats) {
	sh.heading("derived")
	col := sh.width / 3
	current := func(v coc.DerivedValue) string {
		return fmt.Sprintf("%d / %d", v.Current, v.Effective())
	}
	sh.pair(sh.label("hit_points"), current(d.HitPoints), col, 0)
	sh.pair(sh.label("sanity"), current(d.Sanity), col, 0)
	sh.pair(sh.label("magic_points"), current(d.MagicPoints), col, 1)
	sh.pair(sh.label("luck"), current(d.Luck), col, 0)
	sh.pair(sh.label("movement"), strconv.Itoa(d.Movement.Effective()), col, 0)
	sh.pair(sh.label("build"), fmt.Sprintf("%d  (%s)", d.Build, d.DamageBonus), col, 1)
}

func (sh *sheet) skills(skills []coc.Skill) {
	sh.heading("skills")

	type row struct {
		name  string
		total int
	}
	rows := make([]row, 0, len(skills))
	for _, s := range skills {
		rows = append(rows, row{name: sh.labels.Skill(sh.locale, s), total: s.TotalValue})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })

	col := sh.width / skillCols
	for i, r := range rows {
		ln := 0
		if i%skillCols == skillCols-1 || i == len(rows)-1 {
			ln = 1
		}
		value := fmt.Sprintf("%d  (%d / %d)", r.total, r.total/2, r.total/5)
		sh.pair(r.name, value, col, ln)
	}
}

func (sh *sheet) finance(f coc.Finance) {
	sh.heading("finance")
	col := sh.width / 3
	money := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	sh.pair(sh.label("spending_level"), money(f.SpendingLevel), col, 0)
	sh.pair(sh.label("cash"), money(f.Cash), col, 0)
	sh.pair(sh.label("assets"), money(f.Assets), col, 1)
}
