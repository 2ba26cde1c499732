package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/tpcpricelists/pricelist/internal/domain"
)

const (
	attribution = "Generated by TipidPC Pricelists (tpcpricelists.appspot.com)"
	disclaimer  = "DISCLAIMER: Availability and prices are subject to change without prior notice."

	itemColWidth  = 432 // 6in
	priceColWidth = 144 // 2in
	headerWidth   = 288 // 4in
)

// Builder renders paginated pricelist PDFs on Letter pages. Capacity is the
// number of item rows per page; deployments disagree on the exact figure so
// it stays a knob rather than a constant.
type Builder struct {
	Capacity int
}

func NewBuilder(capacity int) *Builder {
	if capacity <= 0 {
		capacity = 72
	}
	return &Builder{Capacity: capacity}
}

// PageCount reports how many pages a listing of the given size fills.
// An empty listing still renders one page.
func (b *Builder) PageCount(items int) int {
	if items == 0 {
		return 1
	}
	return (items + b.Capacity - 1) / b.Capacity
}

// Build renders one document: every page repeats the header and footer
// around its slice of item rows. The creation date is pinned to dateLabel so
// the same listing always renders to the same bytes.
func (b *Builder) Build(owner, dateLabel string, listing domain.Listing) (domain.Document, error) {
	pages := b.PageCount(len(listing.Items))

	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetAuthor(owner, true)
	doc.SetTitle(owner+" Pricelist", true)
	if created, err := time.Parse("2006-01-02", dateLabel); err == nil {
		doc.SetCreationDate(created)
		doc.SetModificationDate(created)
	}
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(18, 18, 18)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	for page := 0; page < pages; page++ {
		doc.AddPage()
		b.header(doc, tr, owner, dateLabel, listing)

		start := page * b.Capacity
		end := start + b.Capacity
		if end > len(listing.Items) {
			end = len(listing.Items)
		}
		b.itemTable(doc, tr, listing.Items[start:end])
		b.footer(doc, tr, page+1, pages)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return domain.Document{}, fmt.Errorf("render pdf: %w", err)
	}
	return domain.Document{Bytes: buf.Bytes(), Pages: pages}, nil
}

// header lays out the title on the left and the seller metadata on the
// right, mirroring the two-column header of the original pricelists.
func (b *Builder) header(doc *fpdf.Fpdf, tr func(string) string, owner, dateLabel string, listing domain.Listing) {
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(headerWidth, 14, tr(fmt.Sprintf("%s Pricelist (%s)", owner, dateLabel)),
		"", 0, "LM", false, 0, "")
	doc.SetFont("Helvetica", "", 6)
	doc.CellFormat(headerWidth, 7, tr("Location: "+listing.Location), "", 2, "RM", false, 0, "")
	doc.CellFormat(headerWidth, 7, tr("Contact Number: "+listing.Contact), "", 1, "RM", false, 0, "")
	doc.Ln(4)
}

func (b *Builder) itemTable(doc *fpdf.Fpdf, tr func(string) string, items []domain.Record) {
	doc.SetFont("Helvetica", "", 8)
	doc.SetFillColor(0xCC, 0xCC, 0xCC)
	for i, item := range items {
		shaded := i%2 == 1
		doc.CellFormat(itemColWidth, 10, tr(item.Name), "", 0, "LM", shaded, 0, "")
		doc.CellFormat(priceColWidth, 10, tr(item.Price), "", 1, "LM", shaded, 0, "")
	}
}

func (b *Builder) footer(doc *fpdf.Fpdf, tr func(string) string, page, pages int) {
	doc.SetY(-48)
	doc.SetFont("Helvetica", "", 6)
	doc.CellFormat(0, 8, fmt.Sprintf("Page %d/%d", page, pages), "", 1, "CM", false, 0, "")
	doc.CellFormat(0, 8, tr(attribution), "", 1, "CM", false, 0, "")
	doc.CellFormat(0, 8, tr(disclaimer), "", 1, "CM", false, 0, "")
}
