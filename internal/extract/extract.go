package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tpcpricelists/pricelist/internal/domain"
)

// Extract scrapes one seller page into a Listing. The page must carry a
// p.usermeta block with two em.red fields (location, contact number) and a
// table.itemlist whose rows are exactly (item, price) pairs; anything else
// fails with domain.ErrMalformedSource. Transport problems never originate
// here, they belong to the fetcher.
func Extract(r io.Reader) (domain.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("%w: %v", domain.ErrMalformedSource, err)
	}

	meta := doc.Find("p.usermeta").First().Find("em.red")
	if meta.Length() != 2 {
		return domain.Listing{}, fmt.Errorf("%w: user metadata block missing or incomplete", domain.ErrMalformedSource)
	}
	listing := domain.Listing{
		Location: strings.TrimSpace(meta.Eq(0).Text()),
		Contact:  strings.TrimSpace(meta.Eq(1).Text()),
	}

	table := doc.Find("table.itemlist").First()
	if table.Length() == 0 {
		return domain.Listing{}, fmt.Errorf("%w: item table missing", domain.ErrMalformedSource)
	}

	var rowErr error
	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() != 2 {
			rowErr = fmt.Errorf("%w: item row %d has %d cells, want 2", domain.ErrMalformedSource, i, cells.Length())
			return false
		}
		listing.Items = append(listing.Items, domain.Record{
			Name:  strings.TrimSpace(cells.Eq(0).Text()),
			Price: strings.TrimSpace(cells.Eq(1).Text()),
		})
		return true
	})
	if rowErr != nil {
		return domain.Listing{}, rowErr
	}
	return listing, nil
}
